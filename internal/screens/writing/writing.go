// Package writing is the practice screen: question creation, the timed
// answer editor and the evaluation report.
package writing

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/penwise/internal/exam"
	"github.com/abhisek/penwise/internal/practice"
	"github.com/abhisek/penwise/internal/router"
	"github.com/abhisek/penwise/internal/screen"
	"github.com/abhisek/penwise/internal/ui/components"
	"github.com/abhisek/penwise/internal/ui/layout"
	"github.com/abhisek/penwise/internal/ui/theme"
)

type field int

const (
	fieldExam field = iota
	fieldTask
	fieldTopic
	fieldFocus
)

// Screen drives a practice.Machine. It owns the machine and closes it when
// popped.
type Screen struct {
	machine *practice.Machine
	ctx     context.Context
	cancel  context.CancelFunc
	updates <-chan struct{}
	state   practice.State

	field  field
	exams  components.Picker
	tasks  components.Picker
	topics components.Picker
	focus  components.TextInput

	editor  textarea.Model
	spinner spinner.Model
	report  viewport.Model

	confirmCancel bool
	notice        string
	width, height int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.StatusProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates the practice screen. Blocking machine calls run under ctx.
func New(ctx context.Context, m *practice.Machine) *Screen {
	ctx, cancel := context.WithCancel(ctx)

	ta := textarea.New()
	ta.Placeholder = "Start writing your answer..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	s := &Screen{
		machine: m,
		ctx:     ctx,
		cancel:  cancel,
		updates: m.Subscribe(),
		state:   m.State(),
		focus:   components.NewTextInput("Focus", "optional, e.g. use more linking words", 120),
		editor:  ta,
		spinner: sp,
		report:  viewport.New(viewport.WithWidth(80), viewport.WithHeight(20)),
	}
	s.buildPickers()
	return s
}

func (s *Screen) Init() tea.Cmd {
	return waitForChange(s.updates)
}

func (s *Screen) Title() string {
	return "Writing Practice"
}

// Status shows the countdown while writing and the score after grading.
func (s *Screen) Status() string {
	switch s.state.Mode {
	case practice.ModeDoing:
		return "⏱ " + layout.FormatClock(s.state.Remaining)
	case practice.ModeChecker:
		if s.state.Evaluation != nil {
			return fmt.Sprintf("Score %.1f", s.state.Evaluation.Score)
		}
	}
	return s.state.Selection.Exam.Label
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.state.LastError != nil {
		return []layout.KeyHint{{Key: "any key", Description: "Dismiss"}}
	}
	switch s.state.Mode {
	case practice.ModeDoing:
		if s.confirmCancel {
			return []layout.KeyHint{
				{Key: "Y", Description: "Abandon answer"},
				{Key: "N", Description: "Keep writing"},
			}
		}
		return []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Ctrl+T", Description: "Ideas"},
			{Key: "Esc", Description: "Cancel"},
		}
	case practice.ModeChecker:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "R", Description: "Retry"},
			{Key: "N", Description: "New question"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Change"},
	}
	if s.state.Preview != nil {
		hints = append(hints,
			layout.KeyHint{Key: "Enter", Description: "Start"},
			layout.KeyHint{Key: "Ctrl+R", Description: "Regenerate"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Generate"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// Close cancels in-flight calls and stops the machine.
func (s *Screen) Close() {
	s.cancel()
	s.machine.Close()
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case stateChangedMsg:
		if msg.from != s.updates {
			return s, nil
		}
		return s, tea.Batch(s.sync(), waitForChange(s.updates))

	case opDoneMsg:
		s.handleOpDone(msg)
		return s, s.sync()

	case spinner.TickMsg:
		if !s.busy() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.state.Mode == practice.ModeDoing {
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		return s, cmd
	}
	return s, nil
}

// sync pulls the latest machine state and adjusts widgets on mode changes.
func (s *Screen) sync() tea.Cmd {
	prev := s.state
	s.state = s.machine.State()

	var cmds []tea.Cmd
	if s.state.Mode != prev.Mode {
		s.confirmCancel = false
		switch s.state.Mode {
		case practice.ModeDoing:
			s.editor.SetValue(s.state.Answer)
			cmds = append(cmds, s.editor.Focus())
		case practice.ModeChecker:
			s.editor.Blur()
			s.report.GotoTop()
		default:
			s.editor.Blur()
			s.editor.Reset()
		}
	}
	if s.state.Evaluation != prev.Evaluation {
		s.refreshReport()
	}
	if s.busy() && !busy(prev) {
		cmds = append(cmds, s.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func busy(st practice.State) bool {
	return st.Loading || st.Evaluating || st.Suggesting
}

func (s *Screen) busy() bool {
	return busy(s.state)
}

func (s *Screen) handleOpDone(msg opDoneMsg) {
	switch {
	case msg.Err == nil, errors.Is(msg.Err, context.Canceled):
	case errors.Is(msg.Err, practice.ErrBusy):
		s.notice = "Still working on the previous request."
	case errors.Is(msg.Err, practice.ErrCannotSubmit):
		s.notice = s.gateReason()
	case errors.Is(msg.Err, practice.ErrInvalidTransition):
		s.notice = fmt.Sprintf("Cannot %s right now.", msg.Op)
	}
	// Anything else was recorded by the machine and shows as LastError.
}

// run executes a blocking machine call off the UI goroutine.
func (s *Screen) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := s.ctx
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		return opDoneMsg{Op: op, Err: fn(ctx)}
	})
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	s.notice = ""
	key := msg.String()

	if key == "ctrl+c" {
		return s, nil
	}
	if s.state.LastError != nil {
		s.machine.DismissError()
		return s, s.sync()
	}

	switch s.state.Mode {
	case practice.ModeDoing:
		return s.handleDoingKey(msg, key)
	case practice.ModeChecker:
		return s.handleCheckerKey(msg, key)
	}
	return s.handleCreationKey(msg, key)
}

func (s *Screen) handleCreationKey(msg tea.KeyPressMsg, key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "tab":
		return s, s.moveField(1)
	case "shift+tab":
		return s, s.moveField(-1)
	case "ctrl+r":
		return s, s.generate()
	case "enter":
		if !s.tasks.Available() {
			s.notice = "This task is not available yet."
			return s, nil
		}
		if s.state.Preview == nil {
			return s, s.generate()
		}
		if err := s.machine.Start(); err != nil {
			s.handleOpDone(opDoneMsg{Op: "start", Err: err})
		}
		return s, s.sync()
	}

	if s.field == fieldFocus {
		var cmd tea.Cmd
		s.focus, cmd = s.focus.Update(msg)
		s.applySelection()
		return s, cmd
	}

	var changed bool
	switch s.field {
	case fieldExam:
		if s.exams, changed = s.exams.Update(msg); changed {
			s.rebuildTasks(0)
		}
	case fieldTask:
		if s.tasks, changed = s.tasks.Update(msg); changed {
			s.rebuildTopics()
		}
	case fieldTopic:
		s.topics, changed = s.topics.Update(msg)
	}
	if changed {
		s.applySelection()
	}
	return s, s.sync()
}

func (s *Screen) handleDoingKey(msg tea.KeyPressMsg, key string) (screen.Screen, tea.Cmd) {
	if s.confirmCancel {
		switch key {
		case "y", "Y":
			s.confirmCancel = false
			_ = s.machine.Cancel()
			return s, s.sync()
		case "n", "N", "esc":
			s.confirmCancel = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmCancel = true
		return s, nil
	case "ctrl+s":
		if !practice.CanSubmit(s.state) {
			s.notice = s.gateReason()
			return s, nil
		}
		return s, s.run("submit", s.machine.Submit)
	case "ctrl+t":
		return s, s.run("suggest", s.machine.Suggest)
	}

	before := s.editor.Value()
	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(msg)
	if after := s.editor.Value(); after != before {
		if err := s.machine.Edit(after); err != nil {
			// Locked while grading; drop the keystroke.
			s.editor.SetValue(s.state.Answer)
			s.handleOpDone(opDoneMsg{Op: "edit", Err: err})
		}
	}
	return s, tea.Batch(cmd, s.sync())
}

func (s *Screen) handleCheckerKey(msg tea.KeyPressMsg, key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "r", "R":
		if err := s.machine.Retry(); err != nil {
			s.handleOpDone(opDoneMsg{Op: "retry", Err: err})
		}
		return s, s.sync()
	case "n", "N", "esc":
		if err := s.machine.Cancel(); err != nil {
			s.handleOpDone(opDoneMsg{Op: "cancel", Err: err})
		}
		return s, s.sync()
	}
	var cmd tea.Cmd
	s.report, cmd = s.report.Update(msg)
	return s, cmd
}

func (s *Screen) generate() tea.Cmd {
	if !s.tasks.Available() {
		s.notice = "This task is not available yet."
		return nil
	}
	return s.run("generate", s.machine.Generate)
}

// gateReason explains why submission is closed.
func (s *Screen) gateReason() string {
	st := s.state
	switch {
	case st.Mode != practice.ModeDoing:
		return "There is no answer to submit."
	case st.Remaining <= 0:
		return "Time is up. Submission is closed for this attempt."
	case st.WordCount < st.MinWords:
		return fmt.Sprintf("Write at least %d more words to submit.", st.MinWords-st.WordCount)
	}
	return ""
}

func (s *Screen) moveField(delta int) tea.Cmd {
	fields := []field{fieldExam, fieldTask}
	if len(s.topics.Options) > 0 {
		fields = append(fields, fieldTopic)
	}
	fields = append(fields, fieldFocus)

	idx := 0
	for i, f := range fields {
		if f == s.field {
			idx = i
		}
	}
	s.field = fields[(idx+delta+len(fields))%len(fields)]

	if s.field == fieldFocus {
		return s.focus.Focus()
	}
	s.focus.Blur()
	return nil
}

// buildPickers mirrors the machine's current selection into the pickers.
func (s *Screen) buildPickers() {
	sel := s.state.Selection
	exams := s.machine.Catalog().Exams()

	labels := make([]string, len(exams))
	selected := 0
	for i, ex := range exams {
		labels[i] = ex.Label
		if ex.Key == sel.Exam.Key {
			selected = i
		}
	}
	s.exams = components.NewPicker("Exam", labels, selected)

	taskIdx := 0
	for i, t := range sel.Exam.Tasks {
		if t.Key == sel.Task.Key {
			taskIdx = i
		}
	}
	s.rebuildTasks(taskIdx)
}

func (s *Screen) currentExam() exam.Exam {
	exams := s.machine.Catalog().Exams()
	if s.exams.Selected < len(exams) {
		return exams[s.exams.Selected]
	}
	return exam.Exam{}
}

func (s *Screen) currentTask() (exam.Task, bool) {
	tasks := s.currentExam().Tasks
	if s.tasks.Selected < len(tasks) {
		return tasks[s.tasks.Selected], true
	}
	return exam.Task{}, false
}

func (s *Screen) rebuildTasks(selected int) {
	ex := s.currentExam()
	names := make([]string, len(ex.Tasks))
	unavailable := make(map[int]bool)
	for i, t := range ex.Tasks {
		names[i] = t.Name
		if t.Disabled {
			unavailable[i] = true
		}
	}
	if unavailable[selected] {
		for i := range ex.Tasks {
			if !unavailable[i] {
				selected = i
				break
			}
		}
	}
	s.tasks = components.NewPicker("Task", names, selected)
	s.tasks.Unavailable = unavailable
	s.rebuildTopics()
}

func (s *Screen) rebuildTopics() {
	task, ok := s.currentTask()
	if !ok || !task.HasTopics() {
		s.topics = components.NewPicker("Topic", nil, 0)
		if s.field == fieldTopic {
			s.field = fieldTask
		}
		return
	}
	options := append([]string{exam.RandomTopic}, task.Topics...)
	selected := 0
	for i, o := range options {
		if o == s.state.Selection.Topic {
			selected = i
		}
	}
	s.topics = components.NewPicker("Topic", options, selected)
}

// applySelection pushes the pickers to the machine. Unavailable tasks are
// shown but never selected.
func (s *Screen) applySelection() {
	task, ok := s.currentTask()
	if !ok || !s.tasks.Available() {
		return
	}
	topic := s.topics.Value()
	if topic == "" {
		topic = exam.RandomTopic
	}
	err := s.machine.Select(s.currentExam().Key, task.Key, topic, s.focus.Value())
	if err != nil {
		s.handleOpDone(opDoneMsg{Op: "change the task", Err: err})
		if !errors.Is(err, practice.ErrBusy) && s.notice == "" {
			s.notice = err.Error()
		}
	}
}

package practice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/penwise/internal/exam"
	"github.com/abhisek/penwise/internal/llm"
	"github.com/abhisek/penwise/internal/prompt"
	"github.com/abhisek/penwise/internal/store"
	"github.com/abhisek/penwise/internal/writing"
)

// ErrCannotSubmit is returned by Submit when the gate is closed.
var ErrCannotSubmit = errors.New("answer cannot be submitted yet")

// QuestionSource produces previews and planning ideas.
type QuestionSource interface {
	Generate(ctx context.Context, built string) (*writing.Preview, error)
	Suggest(ctx context.Context, question string, task exam.Task) ([]string, error)
}

// Grader evaluates a finished answer.
type Grader interface {
	Evaluate(ctx context.Context, in writing.EvaluationInput) (*writing.Evaluation, error)
}

// Recorder receives session lifecycle events. store.EventRepo satisfies it.
type Recorder interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
}

// Options configures a Machine.
type Options struct {
	Catalog   *exam.Catalog
	Questions QuestionSource
	Grader    Grader

	// Recorder is optional.
	Recorder Recorder

	// Tick is the countdown interval. Default: 1s.
	Tick time.Duration

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// Machine is the single owner of a writing session's State. All methods are
// safe for concurrent use; Generate, Suggest and Submit block on the network
// and are meant to be called off the UI goroutine.
type Machine struct {
	catalog   *exam.Catalog
	questions QuestionSource
	grader    Grader
	recorder  Recorder
	now       func() time.Time
	newID     func() string

	mu     sync.Mutex
	state  State
	timer  *Timer
	run    uint64
	subs   []chan struct{}

	// attempt changes on every Start, Retry and Cancel. In-flight requests
	// compare it to tell whether their attempt is still current.
	attempt uint64
	closed bool
}

// NewMachine creates a Machine in Creation with the catalog's first enabled
// task selected.
func NewMachine(opts Options) *Machine {
	if opts.Catalog == nil {
		opts.Catalog = exam.DefaultCatalog()
	}
	if opts.Tick <= 0 {
		opts.Tick = time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	m := &Machine{
		catalog:   opts.Catalog,
		questions: opts.Questions,
		grader:    opts.Grader,
		recorder:  opts.Recorder,
		now:       opts.Now,
		newID:     opts.NewID,
		timer:     NewTimer(opts.Tick),
	}

	for _, ex := range m.catalog.Exams() {
		if task, ok := ex.FirstEnabledTask(); ok {
			m.state.Selection = Selection{Exam: ex, Task: task, Topic: exam.RandomTopic}
			break
		}
	}
	return m
}

// Catalog returns the exam catalog the machine selects from.
func (m *Machine) Catalog() *exam.Catalog {
	return m.catalog
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Subscribe returns a channel that receives a signal after every state
// change. Signals coalesce; read State to see the latest. The channel is
// closed by Close.
func (m *Machine) Subscribe() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan struct{}, 1)
	if m.closed {
		close(ch)
		return ch
	}
	m.subs = append(m.subs, ch)
	return ch
}

// Close stops the countdown and closes subscriber channels.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.timer.Stop()
	for _, ch := range m.subs {
		close(ch)
	}
	m.subs = nil
}

// Select changes the exam, task, topic and focus. Disabled tasks are
// rejected with exam.ErrTaskDisabled.
func (m *Machine) Select(examKey exam.ExamKey, taskKey exam.TaskKey, topic, focus string) error {
	ex, task, err := m.catalog.Lookup(examKey, taskKey)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Loading {
		return ErrBusy
	}
	return m.applyLocked(SelectEvent{Selection: Selection{Exam: ex, Task: task, Topic: topic, Focus: focus}})
}

// Generate builds the prompt for the current selection and installs the
// resulting preview. Failures are kept in LastError and leave the mode
// unchanged; a cancelled ctx is not recorded as a failure.
func (m *Machine) Generate(ctx context.Context) error {
	m.mu.Lock()
	if m.state.Mode != ModeCreation {
		err := fmt.Errorf("%w: generate in %s", ErrInvalidTransition, m.state.Mode)
		m.mu.Unlock()
		return err
	}
	if m.state.Loading {
		m.mu.Unlock()
		return ErrBusy
	}
	sel := m.state.Selection
	if !sel.HasTask() {
		m.mu.Unlock()
		return fmt.Errorf("%w: no task selected", ErrInvalidTransition)
	}
	m.state.Loading = true
	m.state.LastError = nil
	m.notifyLocked()
	m.mu.Unlock()

	built := prompt.Build(prompt.Input{Exam: sel.Exam, Task: sel.Task, Topic: sel.Topic, Focus: sel.Focus})
	preview, err := m.questions.Generate(ctx, built)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Loading = false
	defer m.notifyLocked()

	if err != nil {
		if ctx.Err() == nil {
			m.state.LastError = err
		}
		return err
	}
	return m.applyLocked(PreviewEvent{Preview: preview})
}

// Start freezes the preview and starts the countdown.
func (m *Machine) Start() error {
	m.mu.Lock()
	if m.state.Loading {
		m.mu.Unlock()
		return ErrBusy
	}
	if err := m.applyLocked(StartEvent{ID: m.newID(), Now: m.now()}); err != nil {
		m.mu.Unlock()
		return err
	}
	m.attempt++
	m.startTimerLocked()
	rec := m.sessionEventLocked(store.ActionStart)
	m.mu.Unlock()

	m.record(rec)
	return nil
}

// Edit replaces the answer text. Edits are rejected while the answer is
// being evaluated.
func (m *Machine) Edit(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Evaluating {
		return ErrBusy
	}
	return m.applyLocked(EditEvent{Text: text})
}

// Suggest asks for planning ideas for the frozen question.
func (m *Machine) Suggest(ctx context.Context) error {
	m.mu.Lock()
	if m.state.Mode != ModeDoing {
		err := fmt.Errorf("%w: suggest in %s", ErrInvalidTransition, m.state.Mode)
		m.mu.Unlock()
		return err
	}
	if m.state.Suggesting {
		m.mu.Unlock()
		return ErrBusy
	}
	snap := *m.state.Snapshot
	attempt := m.attempt
	m.state.Suggesting = true
	m.notifyLocked()
	m.mu.Unlock()

	items, err := m.questions.Suggest(ctx, snap.Preview.Question, snap.Task)

	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.notifyLocked()

	// A cancelled attempt already cleared its flags; a newer one owns them.
	if !m.sameAttemptLocked(attempt) {
		return err
	}
	m.state.Suggesting = false
	if err != nil {
		if ctx.Err() == nil {
			m.state.LastError = err
		}
		return err
	}
	return m.applyLocked(SuggestionsEvent{Items: items})
}

// Submit evaluates the answer when the gate is open. On success the session
// moves to Checker; on failure it stays in Doing with LastError set.
func (m *Machine) Submit(ctx context.Context) error {
	m.mu.Lock()
	if m.state.Evaluating {
		m.mu.Unlock()
		return ErrBusy
	}
	if !CanSubmit(m.state) {
		m.mu.Unlock()
		return ErrCannotSubmit
	}
	snap := *m.state.Snapshot
	attempt := m.attempt
	in := writing.EvaluationInput{
		Exam:     snap.Exam,
		Task:     snap.Task,
		Question: snap.Preview.Question,
		Answer:   m.state.Answer,
	}
	m.state.Evaluating = true
	m.state.LastError = nil
	rec := m.sessionEventLocked(store.ActionSubmit)
	m.notifyLocked()
	m.mu.Unlock()

	m.record(rec)
	ev, err := m.grader.Evaluate(llm.WithSession(ctx, snap.ID), in)

	m.mu.Lock()
	if !m.sameAttemptLocked(attempt) {
		// Cancelled while grading; the result belongs to no session.
		m.notifyLocked()
		m.mu.Unlock()
		return err
	}
	m.state.Evaluating = false
	if err != nil {
		if ctx.Err() == nil {
			m.state.LastError = err
		}
		m.notifyLocked()
		m.mu.Unlock()
		return err
	}
	if err := m.applyLocked(EvaluatedEvent{Evaluation: ev}); err != nil {
		m.mu.Unlock()
		return err
	}
	m.stopTimerLocked()
	rec = m.sessionEventLocked(store.ActionEvaluated)
	rec.Score = ev.Score
	m.mu.Unlock()

	m.record(rec)
	return nil
}

// Retry starts a fresh attempt at the same question.
func (m *Machine) Retry() error {
	m.mu.Lock()
	if err := m.applyLocked(RetryEvent{}); err != nil {
		m.mu.Unlock()
		return err
	}
	m.attempt++
	m.startTimerLocked()
	rec := m.sessionEventLocked(store.ActionRetry)
	m.mu.Unlock()

	m.record(rec)
	return nil
}

// Cancel abandons the session and returns to Creation, keeping the preview.
func (m *Machine) Cancel() error {
	m.mu.Lock()
	rec := m.sessionEventLocked(store.ActionCancel)
	if err := m.applyLocked(CancelEvent{}); err != nil {
		m.mu.Unlock()
		return err
	}
	m.attempt++
	m.stopTimerLocked()
	m.mu.Unlock()

	m.record(rec)
	return nil
}

// DismissError clears LastError.
func (m *Machine) DismissError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.LastError != nil {
		m.state.LastError = nil
		m.notifyLocked()
	}
}

func (m *Machine) tick(run uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run != m.run || m.state.Mode != ModeDoing {
		return
	}
	if err := m.applyLocked(TickEvent{}); err != nil {
		return
	}
	if m.state.Remaining == 0 {
		m.stopTimerLocked()
	}
}

func (m *Machine) applyLocked(ev Event) error {
	next, err := Reduce(m.state, ev)
	if err != nil {
		return err
	}
	m.state = next
	m.notifyLocked()
	return nil
}

func (m *Machine) startTimerLocked() {
	m.run = m.timer.Start(m.tick)
}

func (m *Machine) stopTimerLocked() {
	m.timer.Stop()
	m.run = 0
}

func (m *Machine) sameAttemptLocked(attempt uint64) bool {
	return m.state.Mode == ModeDoing && m.attempt == attempt
}

// notifyLocked signals every subscriber without blocking.
func (m *Machine) notifyLocked() {
	for _, ch := range m.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (m *Machine) sessionEventLocked(action string) store.SessionEventData {
	data := store.SessionEventData{
		Action:        action,
		WordCount:     m.state.WordCount,
		RemainingSecs: m.state.Remaining,
	}
	if snap := m.state.Snapshot; snap != nil {
		data.SessionID = snap.ID
		data.Exam = string(snap.Exam.Key)
		data.Task = string(snap.Task.Key)
		data.Topic = snap.Topic
	}
	return data
}

func (m *Machine) record(data store.SessionEventData) {
	if m.recorder == nil || data.SessionID == "" {
		return
	}
	if err := m.recorder.AppendSessionEvent(context.Background(), data); err != nil {
		slog.Warn("failed to record session event", "action", data.Action, "error", err)
	}
}

package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/penwise/internal/router"
	"github.com/abhisek/penwise/internal/screen"
	"github.com/abhisek/penwise/internal/store"
	"github.com/abhisek/penwise/internal/ui/layout"
	"github.com/abhisek/penwise/internal/ui/theme"
)

// sessionLimit caps how many events are loaded; older sessions are cut off.
const sessionLimit = 500

type historyLoadedMsg struct {
	Sessions []store.SessionSummary
	Err      error
}

// HistoryScreen lists past writing sessions from the audit log.
type HistoryScreen struct {
	eventRepo store.EventRepo
	sessions  []store.SessionSummary
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		records, err := repo.QuerySessionEvents(context.Background(), store.QueryOpts{Limit: sessionLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Sessions: store.SummarizeSessions(records)}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\nLoading history...")
	}
	if len(s.sessions) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\nNo sessions yet. Finish a practice answer to see it here.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, sess := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		result := "no evaluation"
		if sess.Evaluations > 0 {
			result = fmt.Sprintf("best %.1f", sess.BestScore)
		}
		line := fmt.Sprintf("%s%s  %-6s %-14s  %d attempt%s  %s",
			prefix,
			sess.StartedAt.Local().Format("Jan 02 15:04"),
			strings.ToUpper(sess.Exam),
			sess.Task,
			sess.Attempts, plural(sess.Attempts),
			result)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line) + "\n")

		if s.expanded[i] {
			b.WriteString(renderEvents(sess))
		}
	}

	return lipgloss.NewStyle().Width(width).MaxHeight(height).Render(b.String())
}

func renderEvents(sess store.SessionSummary) string {
	var b strings.Builder
	if sess.Topic != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("      topic: "+sess.Topic) + "\n")
	}
	for _, ev := range sess.Events {
		detail := fmt.Sprintf("%d words, %s left", ev.WordCount, layout.FormatClock(ev.RemainingSecs))
		if ev.Action == store.ActionEvaluated {
			detail = fmt.Sprintf("score %.1f", ev.Score)
		}
		line := fmt.Sprintf("      %s  %-9s %s", ev.Timestamp.Local().Format("15:04:05"), ev.Action, detail)
		b.WriteString(lipgloss.NewStyle().Foreground(actionColor(ev.Action)).Render(line) + "\n")
	}
	return b.String()
}

func actionColor(action string) color.Color {
	switch action {
	case store.ActionEvaluated:
		return theme.Success
	case store.ActionCancel:
		return theme.TextDim
	}
	return theme.Secondary
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

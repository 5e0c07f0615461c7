package home

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/penwise/internal/exam"
	"github.com/abhisek/penwise/internal/practice"
	"github.com/abhisek/penwise/internal/router"
	"github.com/abhisek/penwise/internal/screen"
	"github.com/abhisek/penwise/internal/screens/history"
	"github.com/abhisek/penwise/internal/screens/writing"
	"github.com/abhisek/penwise/internal/store"
	"github.com/abhisek/penwise/internal/ui/components"
	"github.com/abhisek/penwise/internal/ui/theme"
)

// Options wires the home screen to the rest of the app.
type Options struct {
	Ctx context.Context

	// NewMachine builds a fresh machine for each practice session.
	NewMachine func() *practice.Machine

	// Catalog is summarized on the menu. Optional.
	Catalog *exam.Catalog

	// EventRepo backs the history screen. Optional.
	EventRepo store.EventRepo

	// Provider describes the configured model, e.g. "gemini · gemini-flash".
	Provider string
}

// recentLimit bounds the events read to find the latest session.
const recentLimit = 50

type lastSessionMsg struct {
	Session *store.SessionSummary
}

// HomeScreen is the main menu.
type HomeScreen struct {
	ctx       context.Context
	menu      components.Menu
	catalog   *exam.Catalog
	provider  string
	eventRepo store.EventRepo
	last      *store.SessionSummary
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	ctx := opts.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	items := []components.MenuItem{
		{Label: "Practice writing", Hint: "generate a question and answer it against the clock", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: writing.New(ctx, opts.NewMachine())}
			}
		}},
		{Label: "History", Hint: "past sessions and scores", Disabled: opts.EventRepo == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(opts.EventRepo)}
			}
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		ctx:       ctx,
		menu:      components.NewMenu(items),
		catalog:   opts.Catalog,
		provider:  opts.Provider,
		eventRepo: opts.EventRepo,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadLastSession()
}

// Resume reloads the last session after a practice or history screen closes.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadLastSession()
}

func (h *HomeScreen) loadLastSession() tea.Cmd {
	if h.eventRepo == nil {
		return nil
	}
	ctx, repo := h.ctx, h.eventRepo
	return func() tea.Msg {
		records, err := repo.QuerySessionEvents(ctx, store.QueryOpts{Limit: recentLimit})
		if err != nil {
			slog.Warn("load last session", "error", err)
			return lastSessionMsg{}
		}
		sessions := store.SummarizeSessions(records)
		if len(sessions) == 0 {
			return lastSessionMsg{}
		}
		return lastSessionMsg{Session: &sessions[0]}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(lastSessionMsg); ok {
		h.last = m.Session
		return h, nil
	}
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "q" {
		return h, tea.Quit
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	compact := width < 90 || height < 26

	sections := []string{
		renderBanner(compact),
		theme.Subtitle.Render("Timed writing practice for IELTS, TOEFL and CET"),
	}
	if h.catalog != nil {
		sections = append(sections, components.Card("Exams", renderCatalog(h.catalog), min(cw, 64)))
	}
	sections = append(sections, h.menu.View())
	if h.last != nil {
		sections = append(sections, theme.Hint.Render(renderLastSession(h.last)))
	}
	if h.provider != "" {
		sections = append(sections, theme.Hint.Render("model: "+h.provider))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func renderLastSession(s *store.SessionSummary) string {
	line := fmt.Sprintf("last session: %s %s, %s", strings.ToUpper(s.Exam), s.Task, s.StartedAt.Local().Format("Jan 02 15:04"))
	if s.Evaluations > 0 {
		line += fmt.Sprintf(", best band %.1f", s.BestScore)
	}
	return line
}

// renderCatalog lists each exam with its available task count.
func renderCatalog(c *exam.Catalog) string {
	var lines []string
	for _, ex := range c.Exams() {
		open := 0
		for _, t := range ex.Tasks {
			if !t.Disabled {
				open++
			}
		}
		lines = append(lines, fmt.Sprintf("%-8s %d of %d tasks", ex.Label, open, len(ex.Tasks)))
	}
	return strings.Join(lines, "\n")
}

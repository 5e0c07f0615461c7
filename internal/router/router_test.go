package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/penwise/internal/screen"
)

type stubScreen struct {
	title   string
	initRan bool
	closed  int
	got     []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) Close()               { s.closed++ }

type pingMsg struct{}

func TestPushRunsInit(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	second := &stubScreen{title: "writing"}

	r.Update(PushScreenMsg{Screen: second})

	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "writing", r.Active().Title())
	assert.True(t, second.initRan)
}

func TestPopClosesTopScreen(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	second := &stubScreen{title: "writing"}
	r.Push(second)

	r.Update(PopScreenMsg{})

	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "home", r.Active().Title())
	assert.Equal(t, 1, second.closed)
	assert.Zero(t, home.closed)
}

func TestPopNoopAtBottom(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)

	r.Pop()

	assert.Equal(t, 1, r.Depth())
	assert.Zero(t, home.closed)
}

func TestUpdateForwardsToActive(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	second := &stubScreen{title: "history"}
	r.Push(second)

	r.Update(pingMsg{})

	assert.Empty(t, home.got)
	assert.Len(t, second.got, 1)
	assert.Equal(t, "history", r.View(80, 24))
}

func TestCloseAll(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	second := &stubScreen{title: "writing"}
	r.Push(second)

	r.CloseAll()

	assert.Equal(t, 1, home.closed)
	assert.Equal(t, 1, second.closed)
}

type resumingScreen struct {
	stubScreen
	resumed int
}

type resumedMsg struct{}

func (s *resumingScreen) Resume() tea.Cmd {
	s.resumed++
	return func() tea.Msg { return resumedMsg{} }
}

func TestPopResumesRevealedScreen(t *testing.T) {
	home := &resumingScreen{stubScreen: stubScreen{title: "home"}}
	r := New(home)
	r.Push(&stubScreen{title: "writing"})

	cmd := r.Update(PopScreenMsg{})

	assert.Equal(t, 1, home.resumed)
	if assert.NotNil(t, cmd) {
		assert.IsType(t, resumedMsg{}, cmd())
	}
}

func TestInitRunsBottomScreen(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)

	r.Init()

	assert.True(t, home.initRan)
}

package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestMenuSkipsDisabled(t *testing.T) {
	fired := ""
	m := NewMenu([]MenuItem{
		{Label: "Off", Disabled: true},
		{Label: "Write", Action: func() tea.Cmd { fired = "write"; return nil }},
		{Label: "Soon", Disabled: true},
		{Label: "Quit", Action: func() tea.Cmd { fired = "quit"; return nil }},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(key(tea.KeyUp))
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(key(tea.KeyDown))
	assert.Equal(t, 3, m.Selected)

	m.Update(key(tea.KeyEnter))
	assert.Equal(t, "quit", fired)
}

func TestPickerCycles(t *testing.T) {
	p := NewPicker("Task", []string{"a", "b", "c"}, 0)

	p, changed := p.Update(key(tea.KeyLeft))
	assert.True(t, changed)
	assert.Equal(t, "c", p.Value())

	p, _ = p.Update(key(tea.KeyRight))
	p, _ = p.Update(key(tea.KeyRight))
	assert.Equal(t, "b", p.Value())

	_, changed = p.Update(key(tea.KeyEnter))
	assert.False(t, changed)
}

func TestPickerUnavailable(t *testing.T) {
	p := NewPicker("Task", []string{"essay", "translation"}, 1)
	p.Unavailable = map[int]bool{1: true}

	assert.False(t, p.Available())
	assert.Contains(t, p.View(true), "coming soon")

	p, _ = p.Update(key(tea.KeyRight))
	assert.True(t, p.Available())
}

func TestWordMeter(t *testing.T) {
	m := NewWordMeter(120, 250, 60)
	assert.InDelta(t, 0.48, m.Percent, 0.001)
	assert.True(t, strings.Contains(m.View(), "120 / 250"))

	assert.Equal(t, 1.0, NewWordMeter(3, 0, 40).Percent)
}

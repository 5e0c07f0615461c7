package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/penwise/internal/ui/theme"
)

// Picker is a single-line option selector cycled with left/right.
type Picker struct {
	Label    string
	Options  []string
	Selected int

	// Unavailable marks options that can be shown but not chosen.
	Unavailable map[int]bool
}

// NewPicker creates a picker with the given option selected.
func NewPicker(label string, options []string, selected int) Picker {
	if selected < 0 || selected >= len(options) {
		selected = 0
	}
	return Picker{Label: label, Options: options, Selected: selected}
}

// Value returns the selected option, or "" when there are none.
func (p Picker) Value() string {
	if p.Selected < 0 || p.Selected >= len(p.Options) {
		return ""
	}
	return p.Options[p.Selected]
}

// Available reports whether the selected option may be chosen.
func (p Picker) Available() bool {
	return len(p.Options) > 0 && !p.Unavailable[p.Selected]
}

// Update cycles the selection and reports whether it changed.
func (p Picker) Update(msg tea.Msg) (Picker, bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(p.Options) == 0 {
		return p, false
	}
	switch kmsg.String() {
	case "left", "h":
		p.Selected = (p.Selected - 1 + len(p.Options)) % len(p.Options)
	case "right", "l":
		p.Selected = (p.Selected + 1) % len(p.Options)
	default:
		return p, false
	}
	return p, true
}

// View renders the picker. focused highlights the label and arrows.
func (p Picker) View(focused bool) string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(8).Render(p.Label)
	value := p.Value()
	if p.Unavailable[p.Selected] {
		value += " (coming soon)"
	}

	if !focused {
		return label + "  " + theme.Unselected.Render(value)
	}
	arrow := lipgloss.NewStyle().Foreground(theme.Accent)
	style := theme.Selected
	if p.Unavailable[p.Selected] {
		style = theme.Disabled
	}
	return theme.Label.Width(8).Render(p.Label) + arrow.Render("◂ ") + style.Render(value) + arrow.Render(" ▸")
}

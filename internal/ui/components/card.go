package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/penwise/internal/ui/theme"
)

// ContentWidth returns the inner width used for cards in a frame, capped
// so long prose stays readable.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 96 {
		w = 96
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded border with an optional title line.
func Card(title, content string, width int) string {
	if title != "" {
		content = theme.Label.Render(title) + "\n" + content
	}
	return theme.Card.Width(width).Render(content)
}

// Centered centers a block horizontally within width.
func Centered(block string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}

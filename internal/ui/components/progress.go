package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/penwise/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar with a trailing caption.
type ProgressBar struct {
	Label   string
	Percent float64
	Caption string
	Width   int
}

// NewWordMeter shows progress toward a minimum word count. The bar turns
// green once the minimum is reached.
func NewWordMeter(words, minWords, width int) ProgressBar {
	pct := 1.0
	if minWords > 0 {
		pct = float64(words) / float64(minWords)
	}
	return ProgressBar{
		Label:   "Words",
		Percent: pct,
		Caption: fmt.Sprintf("%d / %d", words, minWords),
		Width:   width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	caption := ""
	if p.Caption != "" {
		caption = "  " + p.Caption
	}

	barWidth := max(p.Width-lipgloss.Width(result)-lipgloss.Width(caption), 4)
	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)

	fill := theme.ProgressFilled
	if p.Percent >= 1 {
		fill = lipgloss.NewStyle().Background(theme.Success)
	}

	result += fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))

	if caption != "" {
		result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(caption)
	}
	return result
}

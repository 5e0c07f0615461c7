package theme

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Color palette: ink on paper, muted with one warm accent.
var (
	Primary   = lipgloss.Color("#2563EB") // Ink Blue
	Secondary = lipgloss.Color("#0D9488") // Teal
	Accent    = lipgloss.Color("#D97706") // Amber
	Success   = lipgloss.Color("#16A34A") // Green
	Error     = lipgloss.Color("#DC2626") // Red
	Text      = lipgloss.Color("#F1F5F9") // Off-white
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0B1120") // Night
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	ErrorBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Error).
			Foreground(Error).
			Padding(0, 1)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Disabled = lipgloss.NewStyle().
			Foreground(TextDim).
			Strikethrough(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)

// errorStyles colors annotated mistakes by category. Keys are lower case.
var errorStyles = map[string]lipgloss.Style{
	"grammar":     lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")).Underline(true),
	"spelling":    lipgloss.NewStyle().Foreground(lipgloss.Color("#FB923C")).Underline(true),
	"vocabulary":  lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15")).Underline(true),
	"word choice": lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15")).Underline(true),
	"punctuation": lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA")).Underline(true),
	"style":       lipgloss.NewStyle().Foreground(lipgloss.Color("#38BDF8")).Underline(true),
	"coherence":   lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399")).Underline(true),
}

var defaultErrorStyle = lipgloss.NewStyle().Foreground(Error).Underline(true)

// ErrorStyle returns the highlight style for an error category. Unknown
// categories share the default error color.
func ErrorStyle(kind string) lipgloss.Style {
	if s, ok := errorStyles[strings.ToLower(strings.TrimSpace(kind))]; ok {
		return s
	}
	return defaultErrorStyle
}

package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/penwise/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ███████╗███╗   ██╗██╗    ██╗██╗███████╗███████╗
 ██╔══██╗██╔════╝████╗  ██║██║    ██║██║██╔════╝██╔════╝
 ██████╔╝█████╗  ██╔██╗ ██║██║ █╗ ██║██║███████╗█████╗
 ██╔═══╝ ██╔══╝  ██║╚██╗██║██║███╗██║██║╚════██║██╔══╝
 ██║     ███████╗██║ ╚████║╚███╔███╔╝██║███████║███████╗
 ╚═╝     ╚══════╝╚═╝  ╚═══╝ ╚══╝╚══╝ ╚═╝╚══════╝╚══════╝`

const bannerCompact = "P E N W I S E"

// renderBanner returns the title art, or a one-line fallback for small
// terminals.
func renderBanner(compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if compact {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

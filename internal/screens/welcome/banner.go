package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/optimapped/optimapped/internal/ui/theme"
)

const bannerArt = `╔═╗┌─┐┌┬┐┬┌┬┐┌─┐┌─┐┌─┐┌─┐┌┬┐
║ ║├─┘ │ ││││├─┤├─┘├─┘├┤  ││
╚═╝┴   ┴ ┴┴ ┴┴ ┴┴  ┴  └─┘─┴┘`

const bannerCompact = "O P T I M A P P E D"

// RenderBanner returns the banner styled in the primary color, or a
// one-line fallback for narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

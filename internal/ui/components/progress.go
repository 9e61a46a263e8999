package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/optimapped/optimapped/internal/ui/theme"
)

// ProgressBar displays a horizontal bar. A nil Color uses the theme's
// secondary color.
type ProgressBar struct {
	Label       string
	LabelWidth  int
	Percent     float64
	ShowPercent bool
	Width       int
	Color       color.Color
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		label := p.Label
		if pad := p.LabelWidth - lipgloss.Width(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "
	}

	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}
	barWidth := max(4, p.Width-lipgloss.Width(result)-percentWidth)

	filled := max(0, min(barWidth, int(float64(barWidth)*p.Percent)))
	fill := p.Color
	if fill == nil {
		fill = theme.Secondary
	}

	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Percent*100+0.5)))
	}
	return result
}

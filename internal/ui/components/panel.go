package components

import (
	"charm.land/lipgloss/v2"

	"github.com/optimapped/optimapped/internal/ui/theme"
)

// ContentWidth caps a centered column to a readable width.
func ContentWidth(frameWidth int) int {
	return max(20, min(72, frameWidth-6))
}

// Panel wraps content in a rounded card with an optional title line.
func Panel(title, content string, width int) string {
	body := content
	if title != "" {
		body = theme.Title.Render(title) + "\n" + content
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width).
		Padding(0, 1).
		Render(body)
}

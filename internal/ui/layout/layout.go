package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/optimapped/optimapped/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	CompactWidthThreshold = 100
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactWidth reports whether side panels should collapse.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// Profile is what the header shows about the signed-in user.
type Profile struct {
	Name    string
	Initial string
}

// RenderHeader renders the application bar. A nil profile leaves the
// right side empty.
func RenderHeader(title string, p *Profile, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("◉ Optimapped")

	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(title)

	right := ""
	if p != nil {
		avatar := lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Render(" " + p.Initial + " ")
		right = avatar + " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Name)
	}

	innerWidth := max(0, width-4)
	leftLen, centerLen, rightLen := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)

	leftGap := max(1, (innerWidth-centerLen)/2-leftLen)
	rightGap := max(1, innerWidth-leftLen-leftGap-centerLen-rightLen)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFooter renders the footer with key hints and an optional status
// message on the right.
func RenderFooter(hints []KeyHint, status string, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+
			" "+lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description))
	}
	content := " " + strings.Join(parts, "   ")

	if status != "" {
		s := lipgloss.NewStyle().Foreground(theme.Accent).Render(status)
		gap := width - 4 - lipgloss.Width(content) - lipgloss.Width(s)
		if gap > 0 {
			content += strings.Repeat(" ", gap) + s
		}
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFrame composes header, content and footer to fill height.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(0, height-lipgloss.Height(header)-lipgloss.Height(footer))
	styled := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)
	return header + "\n" + styled + "\n" + footer
}

// ContentHeight returns what is left for the active screen.
func ContentHeight(header, footer string, height int) int {
	return max(0, height-lipgloss.Height(header)-lipgloss.Height(footer))
}

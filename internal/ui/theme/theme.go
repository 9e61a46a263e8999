package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is one set of UI colors.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
}

// Dark is the default palette.
var Dark = Palette{
	Primary:   lipgloss.Color("#6366F1"), // Indigo
	Secondary: lipgloss.Color("#10B981"), // Emerald
	Accent:    lipgloss.Color("#F59E0B"), // Amber
	Success:   lipgloss.Color("#22C55E"),
	Error:     lipgloss.Color("#EF4444"),
	Text:      lipgloss.Color("#F8FAFC"),
	TextDim:   lipgloss.Color("#94A3B8"),
	BgCard:    lipgloss.Color("#1E293B"),
	Border:    lipgloss.Color("#334155"),
}

var Light = Palette{
	Primary:   lipgloss.Color("#4F46E5"),
	Secondary: lipgloss.Color("#059669"),
	Accent:    lipgloss.Color("#D97706"),
	Success:   lipgloss.Color("#16A34A"),
	Error:     lipgloss.Color("#DC2626"),
	Text:      lipgloss.Color("#0F172A"),
	TextDim:   lipgloss.Color("#64748B"),
	BgCard:    lipgloss.Color("#F1F5F9"),
	Border:    lipgloss.Color("#CBD5E1"),
}

// Active colors. Set through Apply.
var (
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
)

// Styles derived from the active palette.
var (
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Hint     lipgloss.Style
	Card     lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Danger   lipgloss.Style

	ButtonActive   lipgloss.Style
	ButtonInactive lipgloss.Style
)

var dark = true

func init() { Apply(true) }

// IsDark reports which palette is active.
func IsDark() bool { return dark }

// Apply switches to the dark or light palette.
func Apply(useDark bool) {
	p := Light
	if useDark {
		p = Dark
	}
	dark = useDark

	Primary, Secondary, Accent = p.Primary, p.Secondary, p.Accent
	Success, Error = p.Success, p.Error
	Text, TextDim = p.Text, p.TextDim
	BgCard, Border = p.BgCard, p.Border

	Title = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim)
	Body = lipgloss.NewStyle().Foreground(Text)
	Hint = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	Selected = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(TextDim)
	Danger = lipgloss.NewStyle().Foreground(Error).Bold(true)

	ButtonActive = lipgloss.NewStyle().
		Background(Primary).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(0, 2)
	ButtonInactive = lipgloss.NewStyle().
		Foreground(TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
}

// CategoryStyle colors text with a category's hex color.
func CategoryStyle(hex string) lipgloss.Style {
	if hex == "" {
		return Body
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

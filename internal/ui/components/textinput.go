package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/optimapped/optimapped/internal/ui/theme"
)

// Field is a labelled text input. Its value lives in the model and
// changes only through Update or SetValue.
type Field struct {
	Label string
	Model textinput.Model
}

// NewField creates an unfocused field. Secret masks the input.
func NewField(label, placeholder string, secret bool, limit int) Field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	if limit > 0 {
		ti.CharLimit = limit
	}
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return Field{Label: label, Model: ti}
}

func (f *Field) Focus() tea.Cmd { return f.Model.Focus() }

func (f *Field) Blur() { f.Model.Blur() }

func (f Field) Focused() bool { return f.Model.Focused() }

// Update forwards msg to the input.
func (f Field) Update(msg tea.Msg) (Field, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

func (f Field) Value() string { return f.Model.Value() }

func (f *Field) SetValue(s string) { f.Model.SetValue(s) }

// View renders the label above a bordered input.
func (f Field) View(width int) string {
	border := theme.Border
	if f.Focused() {
		border = theme.Primary
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width).
		Render(f.Model.View())
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(f.Label) + "\n" + box
}

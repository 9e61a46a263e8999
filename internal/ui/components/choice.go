package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/optimapped/optimapped/internal/ui/theme"
)

// Choice is a single-answer selector. Marked highlights a previously
// recorded answer.
type Choice struct {
	Options  []string
	Selected int
	Marked   int
}

// NewChoice starts with the cursor on marked, or on the first option
// when marked is out of range.
func NewChoice(options []string, marked int) Choice {
	sel := 0
	if marked >= 0 && marked < len(options) {
		sel = marked
	} else {
		marked = -1
	}
	return Choice{Options: options, Selected: sel, Marked: marked}
}

// Update moves the cursor. It reports true when the current option was
// picked with enter or its number key.
func (c Choice) Update(msg tea.Msg) (Choice, bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, false
	}
	switch key := kmsg.String(); key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter", "space":
		return c, true
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(c.Options) {
			c.Selected = int(key[0] - '1')
			return c, true
		}
	}
	return c, false
}

func (c Choice) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)
		switch {
		case i == c.Selected:
			line = theme.Selected.Render(line)
		case i == c.Marked:
			line = lipgloss.NewStyle().Foreground(theme.Secondary).Render(line)
		default:
			line = theme.Body.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

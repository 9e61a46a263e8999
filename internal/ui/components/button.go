package components

import "github.com/optimapped/optimapped/internal/ui/theme"

// Button renders a labelled action. Disabled buttons are drawn muted.
func Button(label string, enabled bool) string {
	if enabled {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}

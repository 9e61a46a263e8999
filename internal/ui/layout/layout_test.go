package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestRenderHeaderShowsProfile(t *testing.T) {
	h := RenderHeader("Dashboard", &Profile{Name: "Ada", Initial: "A"}, 90)
	if !strings.Contains(h, "Dashboard") || !strings.Contains(h, "Ada") {
		t.Errorf("header missing title or profile:\n%s", h)
	}

	if anon := RenderHeader("Home", nil, 90); strings.Contains(anon, "Ada") {
		t.Error("anonymous header should not show a profile")
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("T", nil, 80)
	footer := RenderFooter([]KeyHint{{Key: "q", Description: "Quit"}}, "Saved", 80)
	frame := RenderFrame(header, "body", footer, 80, 30)
	if got := lipgloss.Height(frame); got != 30 {
		t.Errorf("frame height = %d, want 30", got)
	}
	if !strings.Contains(footer, "Saved") {
		t.Error("footer should carry the status")
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 24) || !IsTooSmall(80, 23) || IsTooSmall(80, 24) {
		t.Error("minimum size is 80x24")
	}
}

package theme

import "testing"

func TestApplySwitchesPalette(t *testing.T) {
	t.Cleanup(func() { Apply(true) })

	Apply(false)
	if IsDark() {
		t.Fatal("expected light palette")
	}
	if Text != Light.Text || Primary != Light.Primary {
		t.Error("active colors should follow the light palette")
	}

	Apply(true)
	if !IsDark() || Text != Dark.Text {
		t.Error("active colors should follow the dark palette")
	}
}

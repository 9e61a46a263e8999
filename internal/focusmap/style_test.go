package focusmap

import (
	"math"
	"testing"
)

func TestStyleFor(t *testing.T) {
	tests := []struct {
		name     string
		strength *float64
		opacity  float64
		width    float64
		dashed   bool
	}{
		{"nil uses default", nil, 0.65, 2, false},
		{"zero uses default", floatPtr(0), 0.65, 2, false},
		{"weak is dashed", floatPtr(0.25), 0.475, 1.5, true},
		{"threshold is solid", floatPtr(0.3), 0.51, 1.6, false},
		{"full", floatPtr(1), 1, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StyleFor(Connection{Strength: tt.strength})
			if math.Abs(got.Opacity-tt.opacity) > 1e-9 {
				t.Errorf("opacity = %f, want %f", got.Opacity, tt.opacity)
			}
			if math.Abs(got.Width-tt.width) > 1e-9 {
				t.Errorf("width = %f, want %f", got.Width, tt.width)
			}
			if got.Dashed != tt.dashed {
				t.Errorf("dashed = %v, want %v", got.Dashed, tt.dashed)
			}
		})
	}
}

func TestViewportZoomClamp(t *testing.T) {
	v := NewViewport()
	for i := 0; i < 10; i++ {
		v.ZoomIn()
	}
	if v.Zoom != MaxZoom {
		t.Errorf("zoom = %f, want %f", v.Zoom, MaxZoom)
	}
	for i := 0; i < 20; i++ {
		v.ZoomOut()
	}
	if v.Zoom != MinZoom {
		t.Errorf("zoom = %f, want %f", v.Zoom, MinZoom)
	}

	v.Reset()
	v.ZoomIn()
	if math.Abs(v.Zoom-1.2) > 1e-9 {
		t.Errorf("one step = %f, want 1.2", v.Zoom)
	}
}

func TestViewportPan(t *testing.T) {
	v := NewViewport()
	v.Pan(10, -5)
	v.Pan(2, 2)
	if v.PanX != 12 || v.PanY != -3 {
		t.Errorf("pan = (%f,%f), want (12,-3)", v.PanX, v.PanY)
	}
}

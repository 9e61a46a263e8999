package focusmap

// EdgeStyle describes how a connection is drawn.
type EdgeStyle struct {
	Opacity float64
	Width   float64
	Dashed  bool
}

const defaultStrength = 0.5

// StyleFor computes the drawing style of c. A missing or zero strength
// is drawn at the default strength; only weak stored strengths dash.
func StyleFor(c Connection) EdgeStyle {
	stored := 0.0
	if c.Strength != nil {
		stored = *c.Strength
	}
	s := stored
	if s == 0 {
		s = defaultStrength
	}
	return EdgeStyle{
		Opacity: 0.3 + s*0.7,
		Width:   1 + s*2,
		Dashed:  stored > 0 && stored < 0.3,
	}
}

// Zoom limits for the canvas.
const (
	MinZoom  = 0.5
	MaxZoom  = 2.0
	ZoomStep = 1.2
)

// Viewport is the canvas zoom and pan state. It is view-only and never
// persisted.
type Viewport struct {
	Zoom float64
	PanX float64
	PanY float64
}

// NewViewport returns an unzoomed, unpanned viewport.
func NewViewport() Viewport {
	return Viewport{Zoom: 1}
}

// ZoomIn scales up by one step, up to MaxZoom.
func (v *Viewport) ZoomIn() {
	v.Zoom = min(MaxZoom, v.Zoom*ZoomStep)
}

// ZoomOut scales down by one step, down to MinZoom.
func (v *Viewport) ZoomOut() {
	v.Zoom = max(MinZoom, v.Zoom/ZoomStep)
}

// Pan shifts the viewport by the given offset in map units.
func (v *Viewport) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// Reset restores the default zoom and pan.
func (v *Viewport) Reset() {
	*v = NewViewport()
}

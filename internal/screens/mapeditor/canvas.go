package mapeditor

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/optimapped/optimapped/internal/focusmap"
	"github.com/optimapped/optimapped/internal/ui/theme"
)

// Map units per terminal cell at zoom 1. Cells are about twice as tall
// as they are wide.
const (
	unitsPerCol = 10.0
	unitsPerRow = 20.0
)

type cellStyle uint8

const (
	styleNone cellStyle = iota
	styleEdgeFaint
	styleEdge
	styleNode
	styleSelected
	styleLinkSource
)

type cell struct {
	r     rune
	style cellStyle
	color string // node category color
}

// canvas is a character grid the map is rasterised onto.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for y := range c.cells {
		c.cells[y] = make([]cell, w)
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, s cellStyle, color string) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, style: s, color: color}
}

// project maps a map position to a cell.
func project(p focusmap.Position, v focusmap.Viewport, w, h int) (int, int) {
	x := (p.X-focusmap.CenterX+v.PanX)*v.Zoom/unitsPerCol + float64(w)/2
	y := (p.Y-focusmap.CenterY+v.PanY)*v.Zoom/unitsPerRow + float64(h)/2
	return int(x + 0.5), int(y + 0.5)
}

// line plots a Bresenham line from (x0,y0) to (x1,y1). Dashed lines
// skip every other step.
func (c *canvas) line(x0, y0, x1, y1 int, r rune, s cellStyle, dashed bool) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	err := dx + dy
	for step := 0; ; step++ {
		if !dashed || step%2 == 0 {
			c.set(x0, y0, r, s, "")
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// text writes s centered on (x, y).
func (c *canvas) text(x, y int, s string, st cellStyle, color string) {
	runes := []rune(s)
	start := x - len(runes)/2
	for i, r := range runes {
		c.set(start+i, y, r, st, color)
	}
}

func nodeText(n focusmap.Node) string {
	s := n.Label
	if n.Score != nil {
		s += " " + strconv.Itoa(*n.Score) + "%"
	}
	return "[" + s + "]"
}

// renderCanvas draws edges first so that node labels sit on top.
func renderCanvas(m *focusmap.Map, v focusmap.Viewport, selected, linkFrom string, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	c := newCanvas(w, h)

	for _, conn := range m.Connections {
		a, b := m.Node(conn.Source), m.Node(conn.Target)
		if a == nil || b == nil {
			continue
		}
		st := focusmap.StyleFor(conn)
		x0, y0 := project(a.Position, v, w, h)
		x1, y1 := project(b.Position, v, w, h)
		r, s := '·', styleEdgeFaint
		if st.Width >= 2 {
			r = '•'
		}
		if st.Opacity >= 0.6 {
			s = styleEdge
		}
		c.line(x0, y0, x1, y1, r, s, st.Dashed)
	}

	for _, n := range m.Nodes {
		x, y := project(n.Position, v, w, h)
		s := styleNode
		switch n.ID {
		case selected:
			s = styleSelected
		case linkFrom:
			s = styleLinkSource
		}
		c.text(x, y, nodeText(n), s, n.Color)
	}

	return c.String()
}

func (c *canvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		// Render runs of equal style together.
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].style == row[start].style && row[x].color == row[start].color {
				continue
			}
			var run strings.Builder
			for _, cl := range row[start:x] {
				run.WriteRune(cl.r)
			}
			b.WriteString(styleFor(row[start]).Render(run.String()))
			start = x
		}
	}
	return b.String()
}

func styleFor(c cell) lipgloss.Style {
	switch c.style {
	case styleEdgeFaint:
		return lipgloss.NewStyle().Foreground(theme.Border)
	case styleEdge:
		return lipgloss.NewStyle().Foreground(theme.TextDim)
	case styleNode:
		return theme.CategoryStyle(c.color)
	case styleSelected:
		return lipgloss.NewStyle().Background(theme.Primary).Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	case styleLinkSource:
		return lipgloss.NewStyle().Background(theme.Accent).Foreground(lipgloss.Color("#000000")).Bold(true)
	}
	return lipgloss.NewStyle()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

package focusmap

import (
	"fmt"
	"math"

	"github.com/optimapped/optimapped/internal/questionbank"
	"github.com/optimapped/optimapped/internal/scoring"
)

// Layout constants for generated maps.
const (
	CenterX      = 500.0
	CenterY      = 300.0
	CategoryRing = 180.0

	DefaultMapName = "My Focus Map"
)

// Generate builds the initial map for a report: a center node carrying
// the overall score and one node per category on a fixed ring, each
// linked to the center with strength score/100. The result has no ID.
func Generate(r *scoring.Report) *Map {
	cats := questionbank.AllCategories()

	m := &Map{
		Name:        DefaultMapName,
		Nodes:       make([]Node, 0, len(cats)+1),
		Connections: make([]Connection, 0, len(cats)),
	}

	m.Nodes = append(m.Nodes, Node{
		ID:            CenterID,
		Kind:          KindTask,
		Label:         "My Focus",
		Description:   fmt.Sprintf("Overall focus score: %d%%", r.FocusScore),
		Position:      Position{X: CenterX, Y: CenterY},
		Score:         intPtr(r.FocusScore),
		EditableScore: true,
	})

	for i, c := range cats {
		angle := float64(i) * 2 * math.Pi / float64(len(cats))
		score := r.CategoryScore(c)
		m.Nodes = append(m.Nodes, Node{
			ID:          string(c),
			Kind:        KindTask,
			Label:       c.Label(),
			Description: fmt.Sprintf("Score: %d%%", score),
			Position: Position{
				X: CenterX + CategoryRing*math.Cos(angle),
				Y: CenterY + CategoryRing*math.Sin(angle),
			},
			Category:      c,
			Score:         intPtr(score),
			Color:         c.Color(),
			EditableScore: true,
		})
		m.Connections = append(m.Connections, Connection{
			ID:       CenterID + "-" + string(c),
			Source:   CenterID,
			Target:   string(c),
			Strength: floatPtr(float64(score) / 100),
		})
	}

	return m
}

// Blank returns a map holding only the center node, for users who have
// not taken the assessment yet.
func Blank() *Map {
	return &Map{
		Name: DefaultMapName,
		Nodes: []Node{{
			ID:       CenterID,
			Kind:     KindTask,
			Label:    "My Focus",
			Position: Position{X: CenterX, Y: CenterY},
		}},
		Connections: []Connection{},
	}
}

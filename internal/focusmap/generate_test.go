package focusmap

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/optimapped/optimapped/internal/questionbank"
	"github.com/optimapped/optimapped/internal/scoring"
)

func testReport() *scoring.Report {
	return &scoring.Report{
		FocusScore: 68,
		CategoryScores: map[questionbank.Category]int{
			questionbank.CategoryAttention:   100,
			questionbank.CategoryDistraction: 75,
			questionbank.CategoryEnvironment: 50,
			questionbank.CategoryHabits:      88,
			questionbank.CategoryCognitive:   25,
		},
		PeakFocusHours: "9-11 AM",
		Strengths:      []string{"attention", "habits", "distraction"},
		Improvements:   []string{"cognitive", "environment"},
		CompletedAt:    time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestGenerateShape(t *testing.T) {
	m := Generate(testReport())

	if m.ID != "" {
		t.Errorf("generated map should have no ID, got %q", m.ID)
	}
	if m.Name != DefaultMapName {
		t.Errorf("name = %q, want %q", m.Name, DefaultMapName)
	}
	if len(m.Nodes) != 6 {
		t.Fatalf("expected 6 nodes, got %d", len(m.Nodes))
	}
	if len(m.Connections) != 5 {
		t.Fatalf("expected 5 connections, got %d", len(m.Connections))
	}

	center := m.Node(CenterID)
	if center == nil {
		t.Fatal("center node missing")
	}
	if center.Position != (Position{X: 500, Y: 300}) {
		t.Errorf("center at %+v, want (500,300)", center.Position)
	}
	if center.Label != "My Focus" || center.Kind != KindTask {
		t.Errorf("center = %+v", center)
	}
	if center.Description != "Overall focus score: 68%" {
		t.Errorf("center description = %q", center.Description)
	}
	if center.Score == nil || *center.Score != 68 {
		t.Errorf("center score = %v, want 68", center.Score)
	}
}

func TestGenerateCategoryRing(t *testing.T) {
	r := testReport()
	m := Generate(r)

	for i, c := range questionbank.AllCategories() {
		n := m.Node(string(c))
		if n == nil {
			t.Fatalf("node for %s missing", c)
		}

		dist := math.Hypot(n.Position.X-CenterX, n.Position.Y-CenterY)
		if math.Abs(dist-CategoryRing) > 1e-9 {
			t.Errorf("%s at distance %f, want %f", c, dist, CategoryRing)
		}

		angle := float64(i) * 2 * math.Pi / 5
		wantX := CenterX + CategoryRing*math.Cos(angle)
		wantY := CenterY + CategoryRing*math.Sin(angle)
		if math.Abs(n.Position.X-wantX) > 1e-9 || math.Abs(n.Position.Y-wantY) > 1e-9 {
			t.Errorf("%s at %+v, want (%f,%f)", c, n.Position, wantX, wantY)
		}

		if n.Label != c.Label() {
			t.Errorf("%s label = %q", c, n.Label)
		}
		if n.Color != c.Color() {
			t.Errorf("%s color = %q", c, n.Color)
		}
		if n.Score == nil || *n.Score != r.CategoryScores[c] {
			t.Errorf("%s score = %v, want %d", c, n.Score, r.CategoryScores[c])
		}
		if !n.EditableScore {
			t.Errorf("%s should have an editable score", c)
		}
	}

	first := m.Node(string(questionbank.CategoryAttention))
	if first.Position != (Position{X: 680, Y: 300}) {
		t.Errorf("attention at %+v, want (680,300)", first.Position)
	}
}

func TestGenerateConnections(t *testing.T) {
	r := testReport()
	m := Generate(r)

	for _, c := range m.Connections {
		if c.Source != CenterID {
			t.Errorf("connection %s source = %q, want center", c.ID, c.Source)
		}
		if c.ID != "center-"+c.Target {
			t.Errorf("connection id = %q, want center-%s", c.ID, c.Target)
		}
		want := float64(r.CategoryScores[questionbank.Category(c.Target)]) / 100
		if c.Strength == nil || *c.Strength != want {
			t.Errorf("connection %s strength = %v, want %f", c.ID, c.Strength, want)
		}
	}
}

func TestGenerateIdempotent(t *testing.T) {
	r := testReport()
	a := Generate(r)
	b := Generate(r)
	if !reflect.DeepEqual(a, b) {
		t.Error("generating twice from the same report produced different maps")
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := Generate(testReport())
	c := m.Clone()

	*c.Nodes[0].Score = 1
	*c.Connections[0].Strength = 0.01
	c.Nodes[1].Label = "changed"

	if *m.Nodes[0].Score == 1 {
		t.Error("clone shares score pointer")
	}
	if *m.Connections[0].Strength == 0.01 {
		t.Error("clone shares strength pointer")
	}
	if m.Nodes[1].Label == "changed" {
		t.Error("clone shares node slice")
	}
}

func TestBlank(t *testing.T) {
	m := Blank()
	if len(m.Nodes) != 1 || m.Nodes[0].ID != CenterID {
		t.Fatalf("blank map nodes = %+v", m.Nodes)
	}
	if m.Nodes[0].Score != nil || m.Nodes[0].EditableScore {
		t.Error("blank center should carry no score")
	}
	if len(m.Connections) != 0 || m.ID != "" {
		t.Error("blank map should be unsaved and unconnected")
	}
}

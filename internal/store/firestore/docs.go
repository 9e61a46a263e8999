package firestore

import (
	"time"

	"cloud.google.com/go/firestore"

	"github.com/optimapped/optimapped/internal/focusmap"
	"github.com/optimapped/optimapped/internal/questionbank"
	"github.com/optimapped/optimapped/internal/scoring"
	"github.com/optimapped/optimapped/internal/store"
)

// Field names match the documents written by the web client. That
// client stores timestamps as ISO-8601 strings or server timestamps
// depending on the write path, so timestamp fields decode into any and
// go through decodeTime.

type userDoc struct {
	LatestFocusAssessment *reportDoc      `firestore:"latestFocusAssessment,omitempty"`
	Settings              *store.Settings `firestore:"settings,omitempty"`
}

type reportDoc struct {
	FocusScore     int            `firestore:"focusScore"`
	CategoryScores map[string]int `firestore:"categoryScores"`
	PeakFocusHours string         `firestore:"peakFocusHours"`
	Strengths      []string       `firestore:"strengths"`
	Improvements   []string       `firestore:"improvements"`
	CompletedAt    any            `firestore:"completedAt"`
}

type mapDoc struct {
	Name        string    `firestore:"name"`
	Nodes       []nodeDoc `firestore:"nodes"`
	Connections []connDoc `firestore:"connections"`
	CreatedAt   any       `firestore:"createdAt"`
	UpdatedAt   any       `firestore:"updatedAt"`
}

type nodeDoc struct {
	ID            string  `firestore:"id"`
	Type          string  `firestore:"type"`
	Label         string  `firestore:"label"`
	Description   string  `firestore:"description,omitempty"`
	Position      posDoc  `firestore:"position"`
	Category      string  `firestore:"category,omitempty"`
	Score         *int64  `firestore:"score,omitempty"`
	Color         string  `firestore:"color,omitempty"`
	EditableScore bool    `firestore:"editableScore,omitempty"`
}

type posDoc struct {
	X float64 `firestore:"x"`
	Y float64 `firestore:"y"`
}

type connDoc struct {
	ID       string   `firestore:"id"`
	Source   string   `firestore:"source"`
	Target   string   `firestore:"target"`
	Label    string   `firestore:"label,omitempty"`
	Strength *float64 `firestore:"strength,omitempty"`
}

func toReportDoc(r *scoring.Report) *reportDoc {
	d := &reportDoc{
		FocusScore:     r.FocusScore,
		CategoryScores: make(map[string]int, len(r.CategoryScores)),
		PeakFocusHours: r.PeakFocusHours,
		Strengths:      r.Strengths,
		Improvements:   r.Improvements,
		CompletedAt:    r.CompletedAt,
	}
	for c, v := range r.CategoryScores {
		d.CategoryScores[string(c)] = v
	}
	return d
}

func (d *reportDoc) report() *scoring.Report {
	r := &scoring.Report{
		FocusScore:     d.FocusScore,
		CategoryScores: make(map[questionbank.Category]int, len(d.CategoryScores)),
		PeakFocusHours: d.PeakFocusHours,
		Strengths:      d.Strengths,
		Improvements:   d.Improvements,
		CompletedAt:    decodeTime(d.CompletedAt),
	}
	for c, v := range d.CategoryScores {
		r.CategoryScores[questionbank.Category(c)] = v
	}
	return r
}

// toMapDoc converts m. Zero timestamps are filled in by the server.
func toMapDoc(m *focusmap.Map) *mapDoc {
	d := &mapDoc{
		Name:        m.Name,
		Nodes:       make([]nodeDoc, len(m.Nodes)),
		Connections: make([]connDoc, len(m.Connections)),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for i, n := range m.Nodes {
		nd := nodeDoc{
			ID:            n.ID,
			Type:          string(n.Kind),
			Label:         n.Label,
			Description:   n.Description,
			Position:      posDoc{X: n.Position.X, Y: n.Position.Y},
			Category:      string(n.Category),
			Color:         n.Color,
			EditableScore: n.EditableScore,
		}
		if n.Score != nil {
			s := int64(*n.Score)
			nd.Score = &s
		}
		d.Nodes[i] = nd
	}
	for i, c := range m.Connections {
		d.Connections[i] = connDoc{ID: c.ID, Source: c.Source, Target: c.Target, Label: c.Label, Strength: c.Strength}
	}
	return d
}

func (d *mapDoc) focusMap(id string) *focusmap.Map {
	m := &focusmap.Map{
		ID:          id,
		Name:        d.Name,
		Nodes:       make([]focusmap.Node, len(d.Nodes)),
		Connections: make([]focusmap.Connection, len(d.Connections)),
		CreatedAt:   decodeTime(d.CreatedAt),
		UpdatedAt:   decodeTime(d.UpdatedAt),
	}
	for i, nd := range d.Nodes {
		n := focusmap.Node{
			ID:            nd.ID,
			Kind:          focusmap.NodeKind(nd.Type),
			Label:         nd.Label,
			Description:   nd.Description,
			Position:      focusmap.Position{X: nd.Position.X, Y: nd.Position.Y},
			Category:      questionbank.Category(nd.Category),
			Color:         nd.Color,
			EditableScore: nd.EditableScore,
		}
		if nd.Score != nil {
			s := int(*nd.Score)
			n.Score = &s
		}
		m.Nodes[i] = n
	}
	for i, cd := range d.Connections {
		m.Connections[i] = focusmap.Connection{ID: cd.ID, Source: cd.Source, Target: cd.Target, Label: cd.Label, Strength: cd.Strength}
	}
	return m
}

// fields returns d as write data. Timestamps that are unset, or named
// in serverSet, are filled in by the server.
func (d *mapDoc) fields(serverSet ...string) map[string]any {
	f := map[string]any{
		"name":        d.Name,
		"nodes":       d.Nodes,
		"connections": d.Connections,
		"createdAt":   d.CreatedAt,
		"updatedAt":   d.UpdatedAt,
	}
	for _, k := range serverSet {
		f[k] = firestore.ServerTimestamp
	}
	for _, k := range []string{"createdAt", "updatedAt"} {
		if decodeTime(f[k]).IsZero() {
			f[k] = firestore.ServerTimestamp
		}
	}
	return f
}

// decodeTime accepts a Firestore timestamp or an RFC 3339 string.
// Anything else, including a missing field, yields the zero time.
func decodeTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

package focusmap

import (
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/optimapped/optimapped/internal/questionbank"
)

// NodeKind classifies what a node on the map represents.
type NodeKind string

const (
	KindTask        NodeKind = "task"
	KindBreak       NodeKind = "break"
	KindHabit       NodeKind = "habit"
	KindEnvironment NodeKind = "environment"
)

// AllKinds returns the node kinds in display order.
func AllKinds() []NodeKind {
	return []NodeKind{KindTask, KindBreak, KindHabit, KindEnvironment}
}

// Valid reports whether k is a known node kind.
func (k NodeKind) Valid() bool {
	switch k {
	case KindTask, KindBreak, KindHabit, KindEnvironment:
		return true
	}
	return false
}

// Title returns the kind name with its first letter upper-cased.
func (k NodeKind) Title() string {
	if k == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(string(k))
	return string(unicode.ToUpper(r)) + string(k)[size:]
}

// CenterID is the ID of the root node. It cannot be moved.
const CenterID = "center"

// Position is a point in map coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one vertex of a focus map.
type Node struct {
	ID            string                `json:"id"`
	Kind          NodeKind              `json:"type"`
	Label         string                `json:"label"`
	Description   string                `json:"description,omitempty"`
	Position      Position              `json:"position"`
	Category      questionbank.Category `json:"category,omitempty"`
	Score         *int                  `json:"score,omitempty"`
	Color         string                `json:"color,omitempty"`
	EditableScore bool                  `json:"editableScore,omitempty"`
}

// Connection is an edge between two nodes. Direction carries no meaning.
type Connection struct {
	ID       string   `json:"id"`
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Label    string   `json:"label,omitempty"`
	Strength *float64 `json:"strength,omitempty"`
}

// Links reports whether c joins a and b in either direction.
func (c Connection) Links(a, b string) bool {
	return (c.Source == a && c.Target == b) || (c.Source == b && c.Target == a)
}

// Touches reports whether either end of c is id.
func (c Connection) Touches(id string) bool {
	return c.Source == id || c.Target == id
}

// Map is a named graph of nodes and connections owned by one user.
// ID is empty until the map has been saved.
type Map struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Node returns the node with the given ID, or nil.
func (m *Map) Node(id string) *Node {
	for i := range m.Nodes {
		if m.Nodes[i].ID == id {
			return &m.Nodes[i]
		}
	}
	return nil
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	out := *m
	out.Nodes = make([]Node, len(m.Nodes))
	for i, n := range m.Nodes {
		if n.Score != nil {
			s := *n.Score
			n.Score = &s
		}
		out.Nodes[i] = n
	}
	out.Connections = make([]Connection, len(m.Connections))
	for i, c := range m.Connections {
		if c.Strength != nil {
			s := *c.Strength
			c.Strength = &s
		}
		out.Connections[i] = c
	}
	return &out
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

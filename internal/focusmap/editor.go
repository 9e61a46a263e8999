package focusmap

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/optimapped/optimapped/internal/questionbank"
)

var (
	// ErrNodeNotFound is returned when an operation names an unknown node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrPositionLocked is returned when moving the center node.
	ErrPositionLocked = errors.New("node position is locked")

	// ErrSelfConnection is returned when linking a node to itself.
	ErrSelfConnection = errors.New("cannot connect a node to itself")

	ErrInvalidKind     = errors.New("unknown node kind")
	ErrInvalidCategory = errors.New("unknown category")
)

const (
	newNodeJitter      = 50.0
	userEdgeStrength   = 0.5
	nodeIDPrefix       = "node-"
	connectionIDPrefix = "conn-"
)

// NodePatch is a partial node update. Nil fields are left unchanged.
// An empty Category clears both category and color.
type NodePatch struct {
	Label       *string
	Description *string
	Kind        *NodeKind
	Category    *questionbank.Category
	Score       *int
}

// Editor holds the in-memory state of a map being edited: the map
// itself, a single selection and a dirty flag. It is not safe for
// concurrent use; the UI loop is its only caller.
type Editor struct {
	m        *Map
	selected string
	dirty    bool
	// rev counts mutations. A save clears dirty only if nothing changed
	// after the revision it captured.
	rev uint64

	newID  func() string
	jitter func() float64
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithIDGenerator overrides the source of fresh node and connection IDs.
func WithIDGenerator(fn func() string) EditorOption {
	return func(e *Editor) { e.newID = fn }
}

// WithRand sets the random source used to place new nodes.
func WithRand(r *rand.Rand) EditorOption {
	return func(e *Editor) { e.jitter = r.Float64 }
}

// NewEditor starts editing m. A map that has never been saved starts dirty.
func NewEditor(m *Map, opts ...EditorOption) *Editor {
	e := &Editor{
		m:      m,
		dirty:  m.ID == "",
		newID:  uuid.NewString,
		jitter: rand.Float64,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Map returns the map being edited. Callers must not mutate it.
func (e *Editor) Map() *Map { return e.m }

// Snapshot returns a deep copy of the current map, suitable for saving
// or sending elsewhere while editing continues, and the revision it
// was taken at.
func (e *Editor) Snapshot() (*Map, uint64) { return e.m.Clone(), e.rev }

// Revision returns the mutation counter.
func (e *Editor) Revision() uint64 { return e.rev }

// Dirty reports whether there are unsaved changes.
func (e *Editor) Dirty() bool { return e.dirty }

// Selected returns the selected node, read through the map so that it
// always reflects the latest updates. Nil when nothing is selected.
func (e *Editor) Selected() *Node {
	if e.selected == "" {
		return nil
	}
	return e.m.Node(e.selected)
}

// SelectedID returns the ID of the selected node, or "".
func (e *Editor) SelectedID() string { return e.selected }

// Select selects id. Selecting the already selected node deselects it.
// Unknown IDs clear the selection.
func (e *Editor) Select(id string) {
	if id == e.selected || e.m.Node(id) == nil {
		e.selected = ""
		return
	}
	e.selected = id
}

// Deselect clears the selection.
func (e *Editor) Deselect() { e.selected = "" }

// Rename sets the map name.
func (e *Editor) Rename(name string) {
	e.m.Name = name
	e.touch()
}

// AddNode appends a node of the given kind near the canvas center and
// selects it.
func (e *Editor) AddNode(kind NodeKind) (*Node, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	n := Node{
		ID:    nodeIDPrefix + e.newID(),
		Kind:  kind,
		Label: "New " + kind.Title(),
		Position: Position{
			X: CenterX + e.offset(),
			Y: CenterY + e.offset(),
		},
	}
	e.m.Nodes = append(e.m.Nodes, n)
	e.selected = n.ID
	e.touch()
	return &e.m.Nodes[len(e.m.Nodes)-1], nil
}

// offset returns a uniform value in [-jitter, jitter).
func (e *Editor) offset() float64 {
	return e.jitter()*2*newNodeJitter - newNodeJitter
}

// UpdateNode merges p into the node with the given ID. Setting a
// category also sets its color. Scores only change on nodes with
// EditableScore and are clamped to 0..100. An invalid kind or category
// rejects the whole patch.
func (e *Editor) UpdateNode(id string, p NodePatch) error {
	n := e.m.Node(id)
	if n == nil {
		return ErrNodeNotFound
	}
	if p.Kind != nil && !p.Kind.Valid() {
		return ErrInvalidKind
	}
	if p.Category != nil && *p.Category != "" && !p.Category.Valid() {
		return ErrInvalidCategory
	}

	if p.Label != nil {
		n.Label = *p.Label
	}
	if p.Description != nil {
		n.Description = *p.Description
	}
	if p.Kind != nil {
		n.Kind = *p.Kind
	}
	if p.Category != nil {
		n.Category = *p.Category
		if n.Category == "" {
			n.Color = ""
		} else {
			n.Color = n.Category.Color()
		}
	}
	if p.Score != nil && n.EditableScore {
		n.Score = intPtr(clampScore(*p.Score))
	}

	e.touch()
	return nil
}

// DeleteNode removes the node and every connection touching it.
func (e *Editor) DeleteNode(id string) error {
	idx := -1
	for i := range e.m.Nodes {
		if e.m.Nodes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNodeNotFound
	}

	e.m.Nodes = append(e.m.Nodes[:idx], e.m.Nodes[idx+1:]...)

	kept := e.m.Connections[:0]
	for _, c := range e.m.Connections {
		if !c.Touches(id) {
			kept = append(kept, c)
		}
	}
	e.m.Connections = kept

	if e.selected == id {
		e.selected = ""
	}
	e.touch()
	return nil
}

// MoveNode overwrites a node's position. The center node is locked.
func (e *Editor) MoveNode(id string, pos Position) error {
	if id == CenterID {
		return ErrPositionLocked
	}
	n := e.m.Node(id)
	if n == nil {
		return ErrNodeNotFound
	}
	n.Position = pos
	e.touch()
	return nil
}

// ToggleConnection removes any connection between a and b, or adds one
// when none exists. It reports whether a connection was added.
func (e *Editor) ToggleConnection(a, b string) (bool, error) {
	if a == b {
		return false, ErrSelfConnection
	}
	if e.m.Node(a) == nil || e.m.Node(b) == nil {
		return false, ErrNodeNotFound
	}

	kept := make([]Connection, 0, len(e.m.Connections))
	removed := false
	for _, c := range e.m.Connections {
		if c.Links(a, b) {
			removed = true
			continue
		}
		kept = append(kept, c)
	}

	if removed {
		e.m.Connections = kept
	} else {
		e.m.Connections = append(e.m.Connections, Connection{
			ID:       connectionIDPrefix + e.newID(),
			Source:   a,
			Target:   b,
			Strength: floatPtr(userEdgeStrength),
		})
	}
	e.touch()
	return !removed, nil
}

// Connected reports whether a and b are linked in either direction.
func (e *Editor) Connected(a, b string) bool {
	for _, c := range e.m.Connections {
		if c.Links(a, b) {
			return true
		}
	}
	return false
}

// MarkSaved records a successful save of the snapshot taken at rev: the
// map takes the assigned ID and timestamps. The dirty flag is cleared
// only when no edit was made after rev.
func (e *Editor) MarkSaved(id string, at time.Time, rev uint64) {
	if id != "" {
		e.m.ID = id
	}
	if e.m.CreatedAt.IsZero() {
		e.m.CreatedAt = at
	}
	e.m.UpdatedAt = at
	if rev == e.rev {
		e.dirty = false
	}
}

func (e *Editor) touch() {
	e.rev++
	e.dirty = true
}

func clampScore(v int) int {
	return max(0, min(100, v))
}

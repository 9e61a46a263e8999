package firestore

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/optimapped/optimapped/internal/focusmap"
	"github.com/optimapped/optimapped/internal/questionbank"
	"github.com/optimapped/optimapped/internal/scoring"
	"github.com/optimapped/optimapped/internal/store"
)

func TestReportDocRoundTrip(t *testing.T) {
	answers := scoring.AnswerSet{1: 4, 2: 3, 3: 2, 4: 4, 5: 1, 6: 2, 7: 3, 8: 3, 9: 4, 10: 1}
	want := scoring.Score(questionbank.Default(), answers, time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC))

	d := toReportDoc(want)
	if d.CategoryScores["attention"] != want.CategoryScores[questionbank.CategoryAttention] {
		t.Errorf("attention = %d, want %d", d.CategoryScores["attention"], want.CategoryScores[questionbank.CategoryAttention])
	}

	got := d.report()
	if got.FocusScore != want.FocusScore || got.PeakFocusHours != want.PeakFocusHours {
		t.Errorf("report = %+v, want %+v", got, want)
	}
	for _, c := range questionbank.AllCategories() {
		if got.CategoryScore(c) != want.CategoryScore(c) {
			t.Errorf("%s = %d, want %d", c, got.CategoryScore(c), want.CategoryScore(c))
		}
	}
	if !got.CompletedAt.Equal(want.CompletedAt) {
		t.Errorf("completedAt = %v", got.CompletedAt)
	}
}

func TestMapDocRoundTrip(t *testing.T) {
	rep := scoring.Score(questionbank.Default(), scoring.AnswerSet{}, time.Now())
	m := focusmap.Generate(rep)
	m.Nodes = append(m.Nodes, focusmap.Node{ID: "node-1", Kind: focusmap.KindBreak, Label: "Walk"})

	got := toMapDoc(m).focusMap("abc")

	if got.ID != "abc" || got.Name != m.Name {
		t.Errorf("map header = %q %q", got.ID, got.Name)
	}
	if len(got.Nodes) != len(m.Nodes) || len(got.Connections) != len(m.Connections) {
		t.Fatalf("sizes = %d/%d, want %d/%d", len(got.Nodes), len(got.Connections), len(m.Nodes), len(m.Connections))
	}
	center := got.Node(focusmap.CenterID)
	if center == nil || center.Score == nil || *center.Score != 0 || !center.EditableScore {
		t.Errorf("center = %+v", center)
	}
	if walk := got.Node("node-1"); walk == nil || walk.Score != nil || walk.Kind != focusmap.KindBreak {
		t.Errorf("walk = %+v", walk)
	}
	for i, c := range got.Connections {
		if c.Source != m.Connections[i].Source || *c.Strength != *m.Connections[i].Strength {
			t.Errorf("connection %d = %+v", i, c)
		}
	}
}

func TestWebClientMapDoc(t *testing.T) {
	score := int64(72)
	strength := 0.72
	// Shaped as DataTo fills it for a map saved by the web client:
	// ISO strings for updatedAt, a server timestamp for createdAt.
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	d := &mapDoc{
		Name: "Web map",
		Nodes: []nodeDoc{
			{ID: "center", Type: "task", Label: "My Focus", Position: posDoc{X: 500, Y: 300}, Score: &score},
			{ID: "node-1", Type: "habit", Label: "Stretch", Position: posDoc{X: 320.5, Y: 140}},
		},
		Connections: []connDoc{{ID: "conn-1", Source: "center", Target: "node-1", Strength: &strength}},
		CreatedAt:   created,
		UpdatedAt:   "2025-03-02T10:15:30.123Z",
	}

	m := d.focusMap("web-1")
	if got := m.Node("node-1").Position; got != (focusmap.Position{X: 320.5, Y: 140}) {
		t.Errorf("position = %+v", got)
	}
	if !m.CreatedAt.Equal(created) {
		t.Errorf("createdAt = %v, want %v", m.CreatedAt, created)
	}
	wantUpdated := time.Date(2025, 3, 2, 10, 15, 30, 123000000, time.UTC)
	if !m.UpdatedAt.Equal(wantUpdated) {
		t.Errorf("updatedAt = %v, want %v", m.UpdatedAt, wantUpdated)
	}

	back := toMapDoc(m)
	if back.Nodes[1].Position != (posDoc{X: 320.5, Y: 140}) {
		t.Errorf("encoded position = %+v", back.Nodes[1].Position)
	}
	if at, ok := back.UpdatedAt.(time.Time); !ok || !at.Equal(wantUpdated) {
		t.Errorf("encoded updatedAt = %#v", back.UpdatedAt)
	}

	f := back.fields("updatedAt")
	if f["updatedAt"] != firestore.ServerTimestamp {
		t.Errorf("updatedAt = %#v, want server timestamp", f["updatedAt"])
	}
	if at, ok := f["createdAt"].(time.Time); !ok || !at.Equal(created) {
		t.Errorf("createdAt = %#v, want %v", f["createdAt"], created)
	}
}

func TestFieldsFillsMissingTimestamps(t *testing.T) {
	f := toMapDoc(&focusmap.Map{Name: "fresh"}).fields()
	for _, k := range []string{"createdAt", "updatedAt"} {
		if f[k] != firestore.ServerTimestamp {
			t.Errorf("%s = %#v, want server timestamp", k, f[k])
		}
	}
	if f["name"] != "fresh" {
		t.Errorf("name = %v", f["name"])
	}
}

func TestDecodeTime(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want time.Time
	}{
		{"timestamp", ts, ts},
		{"pointer", &ts, ts},
		{"iso string", "2025-01-02T03:04:05.000Z", ts},
		{"offset string", "2025-01-02T04:04:05+01:00", ts},
		{"garbage", "yesterday", time.Time{}},
		{"missing", nil, time.Time{}},
		{"number", int64(12), time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeTime(tt.in); !got.Equal(tt.want) {
				t.Errorf("decodeTime(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSortNewestFirst(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 5, d, 0, 0, 0, 0, time.UTC) }
	maps := []*focusmap.Map{
		{ID: "a", UpdatedAt: day(1)},
		{ID: "b", UpdatedAt: day(3)},
		{ID: "c"},
		{ID: "d", UpdatedAt: day(2)},
	}
	sortNewestFirst(maps)
	var ids string
	for _, m := range maps {
		ids += m.ID
	}
	if ids != "bdac" {
		t.Errorf("order = %s, want bdac", ids)
	}
}

func TestWrapMapsNotFound(t *testing.T) {
	if wrap("get", "users/u", nil) != nil {
		t.Fatal("nil error should stay nil")
	}

	err := wrap("get", "users/u", status.Error(codes.NotFound, "no doc"))
	if !store.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
	var se *store.StorageError
	if !errors.As(err, &se) || se.Path != "users/u" || se.Op != "get" {
		t.Errorf("storage error = %+v", se)
	}

	other := wrap("set", "users/u", status.Error(codes.PermissionDenied, "nope"))
	if store.IsNotFound(other) {
		t.Errorf("permission error mapped to not found")
	}
}

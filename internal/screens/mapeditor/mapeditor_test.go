package mapeditor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimapped/optimapped/internal/focusmap"
	"github.com/optimapped/optimapped/internal/insights"
	"github.com/optimapped/optimapped/internal/llm"
	"github.com/optimapped/optimapped/internal/questionbank"
	"github.com/optimapped/optimapped/internal/scoring"
	"github.com/optimapped/optimapped/internal/screen/screentest"
)

func fixedIDs() focusmap.EditorOption {
	n := 0
	return focusmap.WithIDGenerator(func() string {
		n++
		return strings.Repeat("x", n)
	})
}

func press(s *EditorScreen, keys ...string) {
	for _, k := range keys {
		s.Update(screentest.Key(k))
	}
}

func TestNewWithoutReportIsBlank(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps, nil, nil)

	m := s.Editor().Map()
	require.Len(t, m.Nodes, 1)
	assert.Equal(t, focusmap.CenterID, s.Editor().SelectedID())

	msgs := screentest.Run(s.Init())
	loaded, ok := screentest.Find[reportLoadedMsg](msgs)
	require.True(t, ok)
	assert.Nil(t, loaded.Report)
}

func TestNewFromReportSkipsLoad(t *testing.T) {
	env := screentest.SignedIn(t)
	answers := scoring.AnswerSet{}
	for _, q := range questionbank.Default().Questions() {
		answers[q.ID] = 3
	}
	rep := scoring.Score(questionbank.Default(), answers, screentest.Now)

	s := New(env.Deps, nil, rep)
	assert.Nil(t, s.Init())
	assert.Len(t, s.Editor().Map().Nodes, 1+len(questionbank.AllCategories()))
}

func TestAddAndMoveNode(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps, nil, nil, fixedIDs())

	press(s, "right")
	assert.Contains(t, s.notice, "cannot be moved")
	center := s.Editor().Map().Node(focusmap.CenterID)
	assert.Equal(t, focusmap.CenterX, center.Position.X)

	press(s, "a")
	n := s.Editor().Selected()
	require.NotNil(t, n)
	assert.Equal(t, focusmap.KindTask, n.Kind)
	start := n.Position

	press(s, "right", "down", "down")
	n = s.Editor().Selected()
	assert.InDelta(t, start.X+moveStep, n.Position.X, 0.001)
	assert.InDelta(t, start.Y+2*moveStep, n.Position.Y, 0.001)

	press(s, "t")
	assert.Equal(t, focusmap.KindBreak, s.Editor().Selected().Kind)

	press(s, "c")
	assert.Equal(t, questionbank.AllCategories()[0], s.Editor().Selected().Category)
}

func TestScoreOnlyOnEditableNodes(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps, nil, nil)

	press(s, "]")
	assert.Nil(t, s.Editor().Selected().Score)
	assert.Contains(t, s.notice, "no score")
}

func TestRenameAndLabel(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps, nil, nil)

	press(s, "r")
	assert.True(t, s.CapturingInput())
	for _, k := range screentest.Type(" v2") {
		s.Update(k)
	}
	press(s, "enter")
	assert.False(t, s.CapturingInput())
	assert.Equal(t, focusmap.DefaultMapName+" v2", s.Editor().Map().Name)

	press(s, "d")
	for _, k := range screentest.Type("deep work") {
		s.Update(k)
	}
	press(s, "esc")
	assert.Empty(t, s.Editor().Selected().Description)
}

func TestSaveThenClean(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps, nil, nil, fixedIDs())
	press(s, "a")
	require.True(t, s.Editor().Dirty())

	_, cmd := s.Update(screentest.Key("s"))
	saved, ok := screentest.Find[savedMsg](screentest.Run(cmd))
	require.True(t, ok)
	require.NoError(t, saved.Err)
	require.NotEmpty(t, saved.ID)

	s.Update(saved)
	assert.False(t, s.Editor().Dirty())
	assert.Equal(t, saved.ID, s.Editor().Map().ID)
	assert.Equal(t, screentest.Now, s.Editor().Map().UpdatedAt)

	stored, err := env.Deps.Store.LoadMap(context.Background(), env.Deps.UID(), saved.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Nodes, 2)

	_, cmd = s.Update(screentest.Key("s"))
	assert.Nil(t, cmd)
	assert.Equal(t, "No changes to save.", s.notice)

	// A second save updates the same document.
	press(s, "a")
	_, cmd = s.Update(screentest.Key("s"))
	again, _ := screentest.Find[savedMsg](screentest.Run(cmd))
	assert.Equal(t, saved.ID, again.ID)
	stored, err = env.Deps.Store.LoadMap(context.Background(), env.Deps.UID(), saved.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Nodes, 3)
}

func TestSaveFailureKeepsDirty(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps, nil, nil)

	s.Update(savedMsg{Err: errors.New("disk full")})
	assert.True(t, s.Editor().Dirty())
	assert.Contains(t, s.notice, "disk full")
}

func TestEditDuringSaveStaysDirty(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps, nil, nil, fixedIDs())
	press(s, "a")

	_, cmd := s.Update(screentest.Key("s"))
	saved, ok := screentest.Find[savedMsg](screentest.Run(cmd))
	require.True(t, ok)
	require.NoError(t, saved.Err)

	// An edit lands before the save result is delivered.
	press(s, "a")
	s.Update(saved)

	assert.True(t, s.Editor().Dirty())
	assert.Equal(t, saved.ID, s.Editor().Map().ID)

	stored, err := env.Deps.Store.LoadMap(context.Background(), env.Deps.UID(), saved.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Nodes, 2)
	assert.Len(t, s.Editor().Map().Nodes, 3)

	_, cmd = s.Update(screentest.Key("esc"))
	assert.Nil(t, cmd)
	assert.True(t, s.confirmLeave)

	// Saving again writes the later edit to the same document.
	_, cmd = s.Update(screentest.Key("s"))
	again, ok := screentest.Find[savedMsg](screentest.Run(cmd))
	require.True(t, ok)
	s.Update(again)
	assert.Equal(t, saved.ID, again.ID)
	assert.False(t, s.Editor().Dirty())
}

func TestLinkToggle(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps, nil, nil, fixedIDs())
	press(s, "a")
	added := s.Editor().SelectedID()

	// Link mode advances the selection; the new node is last so it wraps
	// to the center.
	press(s, "l")
	assert.Equal(t, focusmap.CenterID, s.Editor().SelectedID())
	press(s, "enter")
	assert.True(t, s.Editor().Connected(added, focusmap.CenterID))
	assert.Equal(t, "Connected.", s.notice)

	s.Editor().Select(added)
	press(s, "l", "enter")
	assert.False(t, s.Editor().Connected(added, focusmap.CenterID))
}

func TestInsightErrorShownVerbatim(t *testing.T) {
	env := screentest.SignedIn(t)
	env.Provider.Push(llm.MockResponse{Err: errors.New("quota exhausted for project")})
	s := New(env.Deps, nil, nil)

	_, cmd := s.Update(screentest.Key("i"))
	require.NotNil(t, cmd)
	assert.True(t, s.insight.loading)

	msg, ok := screentest.Find[insightMsg](screentest.Run(cmd))
	require.True(t, ok)
	s.Update(msg)

	assert.False(t, s.insight.loading)
	assert.Contains(t, s.View(120, 40), "quota exhausted for project")

	press(s, "esc")
	assert.Nil(t, s.insight.result)
}

func TestInsightMarkdown(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps, nil, nil)

	s.Update(insightMsg{Result: insights.Result{Text: "Work in **short** blocks."}})
	view := s.View(120, 40)
	assert.Contains(t, view, "short")
	assert.Contains(t, view, "Insights")
}

func TestEscConfirmsWhenDirty(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps, nil, nil)
	require.True(t, s.Editor().Dirty())

	_, cmd := s.Update(screentest.Key("esc"))
	assert.Nil(t, cmd)
	assert.True(t, s.confirmLeave)

	_, cmd = s.Update(screentest.Key("esc"))
	assert.NotNil(t, cmd)
}

func TestViewShowsSelection(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps, nil, nil)
	view := s.View(120, 30)
	assert.Contains(t, view, "My Focus")
	assert.Contains(t, view, "Connections")
}

package maps

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimapped/optimapped/internal/focusmap"
	"github.com/optimapped/optimapped/internal/router"
	"github.com/optimapped/optimapped/internal/screen/screentest"
	"github.com/optimapped/optimapped/internal/screens/mapeditor"
)

func seed(t *testing.T, env *screentest.Env, names ...string) []string {
	t.Helper()
	var ids []string
	for _, n := range names {
		m := focusmap.Blank()
		m.Name = n
		id, err := env.Deps.Store.SaveMap(context.Background(), env.Deps.UID(), m)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func load(t *testing.T, s *MapsScreen) {
	t.Helper()
	msg, ok := screentest.Find[mapsLoadedMsg](screentest.Run(s.Init()))
	require.True(t, ok)
	s.Update(msg)
}

func TestEmptyList(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps)
	assert.Contains(t, s.View(100, 20), "Loading maps")

	load(t, s)
	assert.Contains(t, s.View(100, 20), "No saved maps yet")
}

func TestListFailureShowsEmptyList(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps)
	s.Update(mapsLoadedMsg{Err: errors.New("storage get users/u/focus-maps: connection reset")})

	view := s.View(100, 20)
	assert.Contains(t, view, "No saved maps yet")
	assert.NotContains(t, view, "connection reset")

	// A later reload that succeeds shows the maps.
	seed(t, env, "Mornings")
	load(t, s)
	assert.Contains(t, s.View(100, 20), "Mornings")
}

func TestListAndOpen(t *testing.T) {
	env := screentest.SignedIn(t)
	seed(t, env, "Mornings", "Evenings")
	s := New(env.Deps)
	load(t, s)

	require.Len(t, s.maps, 2)
	view := s.View(120, 20)
	assert.Contains(t, view, "Mornings")
	assert.Contains(t, view, "Evenings")

	s.Update(screentest.Key("down"))
	want := s.maps[1]

	_, cmd := s.Update(screentest.Key("enter"))
	opened, ok := screentest.Find[mapOpenedMsg](screentest.Run(cmd))
	require.True(t, ok)
	require.NoError(t, opened.Err)
	assert.Equal(t, want.ID, opened.Map.ID)

	_, cmd = s.Update(opened)
	push, ok := screentest.Find[router.PushScreenMsg](screentest.Run(cmd))
	require.True(t, ok)
	ed, ok := push.Screen.(*mapeditor.EditorScreen)
	require.True(t, ok)
	assert.Equal(t, want.Name, ed.Editor().Map().Name)
	assert.False(t, ed.Editor().Dirty())
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	env := screentest.SignedIn(t)
	seed(t, env, "Only")
	s := New(env.Deps)
	load(t, s)

	_, cmd := s.Update(screentest.Key("x"))
	assert.Nil(t, cmd)
	assert.Contains(t, s.View(100, 20), "Press x again")

	_, cmd = s.Update(screentest.Key("x"))
	deleted, ok := screentest.Find[mapDeletedMsg](screentest.Run(cmd))
	require.True(t, ok)
	require.NoError(t, deleted.Err)

	_, cmd = s.Update(deleted)
	msgs := screentest.Run(cmd)
	reloaded, ok := screentest.Find[mapsLoadedMsg](msgs)
	require.True(t, ok)
	s.Update(reloaded)
	assert.Empty(t, s.maps)
}

func TestCancelDelete(t *testing.T) {
	env := screentest.SignedIn(t)
	seed(t, env, "Keep")
	s := New(env.Deps)
	load(t, s)

	s.Update(screentest.Key("x"))
	_, cmd := s.Update(screentest.Key("esc"))
	assert.Nil(t, cmd)
	assert.Empty(t, s.confirm)
	assert.Len(t, s.maps, 1)
}

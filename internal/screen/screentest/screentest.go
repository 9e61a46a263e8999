// Package screentest builds screen dependencies backed by an in-memory
// store for screen tests.
package screentest

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/optimapped/optimapped/internal/auth"
	"github.com/optimapped/optimapped/internal/insights"
	"github.com/optimapped/optimapped/internal/llm"
	"github.com/optimapped/optimapped/internal/localcache"
	"github.com/optimapped/optimapped/internal/persistence"
	"github.com/optimapped/optimapped/internal/screen"
	"github.com/optimapped/optimapped/internal/store"
)

// Now is the fixed clock used by Deps.
var Now = time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

// Env is a test environment for screens.
type Env struct {
	Deps     *screen.Deps
	Store    *store.Store
	Local    *localcache.Cache
	Provider *llm.MockProvider
}

// New returns an environment with no signed-in user.
func New(t *testing.T) *Env {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	local, err := localcache.Open(t.TempDir())
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	mock := llm.NewMockProvider()
	session := auth.NewSession(local, log)
	return &Env{
		Deps: &screen.Deps{
			Auth:     auth.NewService(st.AccountRepo(), session, log),
			Store:    persistence.New(st.DocumentRepo(), local, log),
			Insights: insights.New(mock, log),
			Log:      log,
			Now:      func() time.Time { return Now },
		},
		Store:    st,
		Local:    local,
		Provider: mock,
	}
}

// SignedIn returns an environment with a password account signed in.
func SignedIn(t *testing.T) *Env {
	t.Helper()
	env := New(t)
	_, err := env.Deps.Auth.SignUp(context.Background(), "Grace Hopper", "grace@example.com", "compiler")
	require.NoError(t, err)
	return env
}

// Key builds a key press for a key name such as "enter", "tab" or "a".
func Key(s string) tea.KeyPressMsg {
	switch s {
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

// Type returns one key press per rune of s.
func Type(s string) []tea.KeyPressMsg {
	var out []tea.KeyPressMsg
	for _, r := range s {
		out = append(out, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return out
}

// Run executes cmd and returns the messages it produced, expanding
// batches. Commands that tick on a timer are run too.
func Run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// Find returns the first message of type T.
func Find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

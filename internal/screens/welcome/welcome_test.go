package welcome

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/optimapped/optimapped/internal/auth"
	"github.com/optimapped/optimapped/internal/router"
	"github.com/optimapped/optimapped/internal/screen"
	"github.com/optimapped/optimapped/internal/store"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func newTestDeps(t *testing.T) *screen.Deps {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return &screen.Deps{Auth: auth.NewService(st.AccountRepo(), auth.NewSession(nil, nil), nil)}
}

func TestResumeTransitionsOnce(t *testing.T) {
	calls := 0
	var gotUser *auth.User
	w := New(newTestDeps(t), func(u *auth.User) screen.Screen {
		calls++
		gotUser = u
		if u == nil {
			return &stubScreen{title: "home"}
		}
		return &stubScreen{title: "dashboard"}
	})

	_, cmd := w.Update(resumedMsg{})
	if cmd == nil {
		t.Fatal("expected a transition command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "home" || gotUser != nil {
		t.Errorf("signed-out start should go home, got %q", msg.Screen.Title())
	}

	if _, cmd := w.Update(resumedMsg{User: &auth.User{UID: "u1"}}); cmd != nil {
		t.Error("second resume should not transition again")
	}
	if calls != 1 {
		t.Errorf("factory called %d times, want 1", calls)
	}
}

func TestInitResumesSession(t *testing.T) {
	deps := newTestDeps(t)
	u, err := deps.Auth.SignUp(context.Background(), "Ada", "ada@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}

	w := New(deps, func(*auth.User) screen.Screen { return &stubScreen{} })
	batch, ok := w.Init()().(tea.BatchMsg)
	if !ok {
		t.Fatal("expected a batch from Init")
	}
	var resumed *resumedMsg
	for _, cmd := range batch {
		if m, ok := cmd().(resumedMsg); ok {
			resumed = &m
		}
	}
	if resumed == nil {
		t.Fatal("Init should check the stored session")
	}
	if resumed.User == nil || resumed.User.UID != u.UID {
		t.Errorf("resumed user = %+v, want %s", resumed.User, u.UID)
	}
}

func TestViewShowsBanner(t *testing.T) {
	w := New(newTestDeps(t), nil)
	view := w.View(100, 30)
	if !strings.Contains(view, "Loading your profile") {
		t.Error("expected loading hint")
	}
	if !strings.Contains(view, "╔═╗") {
		t.Error("expected banner art at full width")
	}
	if !strings.Contains(RenderBanner(30), bannerCompact) {
		t.Error("expected compact banner on narrow terminals")
	}
}

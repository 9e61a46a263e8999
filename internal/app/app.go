package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/optimapped/optimapped/internal/auth"
	"github.com/optimapped/optimapped/internal/router"
	"github.com/optimapped/optimapped/internal/screen"
	"github.com/optimapped/optimapped/internal/screens/dashboard"
	"github.com/optimapped/optimapped/internal/screens/home"
	"github.com/optimapped/optimapped/internal/screens/signin"
	"github.com/optimapped/optimapped/internal/screens/welcome"
	"github.com/optimapped/optimapped/internal/store"
	"github.com/optimapped/optimapped/internal/ui/layout"
	"github.com/optimapped/optimapped/internal/ui/theme"
)

const statusTTL = 3 * time.Second

// authChangedMsg signals that the session user changed. The current
// user is read from the session when it is handled.
type authChangedMsg struct{}

type clearStatusMsg struct {
	seq int
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	deps   *screen.Deps
	width  int
	height int

	authCh      chan struct{}
	unsubscribe func()

	settings  store.Settings
	status    string
	statusSeq int
}

// newAppModel starts on the welcome screen, which checks the stored
// session and moves on to the landing page or the dashboard.
func newAppModel(deps *screen.Deps) *AppModel {
	m := &AppModel{
		deps:     deps,
		authCh:   make(chan struct{}, 1),
		settings: store.DefaultSettings(),
	}
	m.router = router.New(welcome.New(deps, func(u *auth.User) screen.Screen {
		if u == nil {
			return home.New(deps)
		}
		return dashboard.New(deps)
	}))
	m.unsubscribe = deps.Auth.Session().Subscribe(func(*auth.User) {
		select {
		case m.authCh <- struct{}{}:
		default:
		}
	})
	return m
}

func (m *AppModel) waitForAuth() tea.Cmd {
	ch := m.authCh
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return authChangedMsg{}
	}
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.waitForAuth())
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case authChangedMsg:
		return m, tea.Batch(m.waitForAuth(), m.onAuthChanged())

	case screen.SettingsMsg:
		m.applySettings(msg.Settings)
		return m, nil

	case screen.StatusMsg:
		if !m.settings.Notifications {
			return m, nil
		}
		m.statusSeq++
		m.status = msg.Text
		seq := m.statusSeq
		return m, tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.router.Depth() == 1 && !m.capturing() {
				return m, tea.Quit
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m *AppModel) capturing() bool {
	c, ok := m.router.Active().(screen.InputCapturer)
	return ok && c.CapturingInput()
}

// onAuthChanged keeps the stack consistent with the session. Signing out
// leaves protected screens for the sign-in form; signing in from the
// landing or sign-in screens opens the dashboard.
func (m *AppModel) onAuthChanged() tea.Cmd {
	u := m.deps.User()
	active := m.router.Active()

	if u == nil {
		m.applySettings(store.DefaultSettings())
		if p, ok := active.(screen.Protected); ok && p.RequiresAuth() {
			m.deps.Log.Info("session ended")
			return m.router.Reset(signin.New(m.deps, signin.ModeSignIn))
		}
		return nil
	}

	load := m.loadSettings(u.UID)
	switch active.(type) {
	case *signin.SignInScreen, *home.HomeScreen:
		m.deps.Log.Info("signed in", zap.String("uid", u.UID), zap.String("provider", u.Provider))
		return tea.Batch(load, m.router.Reset(dashboard.New(m.deps)))
	}
	return load
}

func (m *AppModel) loadSettings(uid string) tea.Cmd {
	st := m.deps.Store
	return func() tea.Msg {
		return screen.SettingsMsg{Settings: st.Settings(context.Background(), uid)}
	}
}

func (m *AppModel) applySettings(s store.Settings) {
	m.settings = s
	theme.Apply(s.DarkMode)
	if !s.Notifications {
		m.status = ""
	}
}

func (m *AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	var profile *layout.Profile
	if u := m.deps.User(); u != nil {
		profile = &layout.Profile{Name: u.Name(), Initial: u.Initial()}
	}
	header := layout.RenderHeader(title, profile, m.width)

	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "q", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(hints, m.status, m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// close drops the session subscription.
func (m *AppModel) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, deps *screen.Deps) error {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	m := newAppModel(deps)
	defer m.close()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

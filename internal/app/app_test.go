package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimapped/optimapped/internal/router"
	"github.com/optimapped/optimapped/internal/screen"
	"github.com/optimapped/optimapped/internal/screen/screentest"
	"github.com/optimapped/optimapped/internal/screens/dashboard"
	"github.com/optimapped/optimapped/internal/screens/home"
	"github.com/optimapped/optimapped/internal/screens/settings"
	"github.com/optimapped/optimapped/internal/screens/signin"
	"github.com/optimapped/optimapped/internal/screens/welcome"
	"github.com/optimapped/optimapped/internal/store"
	"github.com/optimapped/optimapped/internal/ui/theme"
)

func newModel(t *testing.T, env *screentest.Env) *AppModel {
	t.Helper()
	m := newAppModel(env.Deps)
	t.Cleanup(m.close)
	t.Cleanup(func() { theme.Apply(true) })
	return m
}

func TestStartsOnWelcomeAndSubscribes(t *testing.T) {
	env := screentest.New(t)
	m := newModel(t, env)

	assert.IsType(t, &welcome.WelcomeScreen{}, m.router.Active())
	// Subscribing reports the current user straight away.
	assert.Equal(t, authChangedMsg{}, m.waitForAuth()())
}

func TestSignOutResetsProtectedStack(t *testing.T) {
	env := screentest.SignedIn(t)
	m := newModel(t, env)
	m.router.Reset(dashboard.New(env.Deps))
	m.router.Push(settings.New(env.Deps))
	require.Equal(t, 2, m.router.Depth())

	env.Deps.Auth.SignOut()
	m.Update(authChangedMsg{})

	assert.Equal(t, 1, m.router.Depth())
	assert.IsType(t, &signin.SignInScreen{}, m.router.Active())
}

func TestSignOutOnLandingStays(t *testing.T) {
	env := screentest.New(t)
	m := newModel(t, env)
	m.router.Reset(home.New(env.Deps))

	m.Update(authChangedMsg{})
	assert.IsType(t, &home.HomeScreen{}, m.router.Active())
}

func TestSignInOpensDashboard(t *testing.T) {
	env := screentest.New(t)
	m := newModel(t, env)
	m.router.Reset(home.New(env.Deps))
	m.router.Push(signin.New(env.Deps, signin.ModeSignUp))

	_, err := env.Deps.Auth.SignUp(t.Context(), "", "new@example.com", "secret1")
	require.NoError(t, err)

	_, cmd := m.Update(authChangedMsg{})
	assert.Equal(t, 1, m.router.Depth())
	assert.IsType(t, &dashboard.DashboardScreen{}, m.router.Active())

	msgs := screentest.Run(cmd)
	s, ok := screentest.Find[screen.SettingsMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, store.DefaultSettings(), s.Settings)
}

func TestStatusFollowsNotifications(t *testing.T) {
	env := screentest.SignedIn(t)
	m := newModel(t, env)

	_, cmd := m.Update(screen.StatusMsg{Text: "Map saved"})
	assert.NotNil(t, cmd)
	assert.Equal(t, "Map saved", m.status)

	m.Update(clearStatusMsg{seq: m.statusSeq - 1})
	assert.Equal(t, "Map saved", m.status)
	m.Update(clearStatusMsg{seq: m.statusSeq})
	assert.Empty(t, m.status)

	m.Update(screen.SettingsMsg{Settings: store.Settings{DarkMode: false, Notifications: false}})
	assert.False(t, theme.IsDark())
	_, cmd = m.Update(screen.StatusMsg{Text: "Map saved"})
	assert.Nil(t, cmd)
	assert.Empty(t, m.status)
}

func TestQuitKeys(t *testing.T) {
	env := screentest.New(t)
	m := newModel(t, env)

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	m.router.Reset(home.New(env.Deps))
	_, cmd = m.Update(screentest.Key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	// Typing q into a form is not a quit.
	s := signin.New(env.Deps, signin.ModeSignIn)
	m.router.Reset(s)
	s.Init()
	_, cmd = m.Update(screentest.Key("q"))
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd())
	}
}

func TestEscPopsThroughScreens(t *testing.T) {
	env := screentest.SignedIn(t)
	m := newModel(t, env)
	m.router.Reset(dashboard.New(env.Deps))
	m.router.Push(settings.New(env.Deps))

	_, cmd := m.Update(screentest.Key("esc"))
	pop, ok := screentest.Find[router.PopScreenMsg](screentest.Run(cmd))
	require.True(t, ok)
	m.Update(pop)
	assert.IsType(t, &dashboard.DashboardScreen{}, m.router.Active())
}

package welcome

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/optimapped/optimapped/internal/auth"
	"github.com/optimapped/optimapped/internal/router"
	"github.com/optimapped/optimapped/internal/screen"
	"github.com/optimapped/optimapped/internal/ui/theme"
)

// resumedMsg carries the outcome of the startup session check.
type resumedMsg struct {
	User *auth.User
}

// WelcomeScreen shows the banner and a spinner while the stored
// session is checked, then replaces itself with next(user).
type WelcomeScreen struct {
	deps         *screen.Deps
	next         func(*auth.User) screen.Screen
	spinner      spinner.Model
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(deps *screen.Deps, next func(*auth.User) screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		deps:    deps,
		next:    next,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	resume := func() tea.Msg {
		return resumedMsg{User: w.deps.Auth.Resume(context.Background())}
	}
	return tea.Batch(w.spinner.Tick, resume)
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd

	case resumedMsg:
		return w, w.transition(msg.User)
	}
	return w, nil
}

func (w *WelcomeScreen) transition(u *auth.User) tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	nextScreen := w.next(u)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: nextScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{
		RenderBanner(width),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Map how you focus."),
		"",
		w.spinner.View() + lipgloss.NewStyle().Foreground(theme.TextDim).Render(" Loading your profile..."),
	}
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.TrimRight(content, "\n"))
}

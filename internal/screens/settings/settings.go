package settings

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/optimapped/optimapped/internal/router"
	"github.com/optimapped/optimapped/internal/screen"
	"github.com/optimapped/optimapped/internal/store"
	"github.com/optimapped/optimapped/internal/ui/components"
	"github.com/optimapped/optimapped/internal/ui/layout"
	"github.com/optimapped/optimapped/internal/ui/theme"
)

const (
	rowDarkMode = iota
	rowNotifications
	rowSignOut
	rowCount
)

type loadedMsg struct {
	Settings store.Settings
}

type savedMsg struct {
	Err error
}

// SettingsScreen toggles display preferences and signs the user out.
type SettingsScreen struct {
	deps     *screen.Deps
	settings store.Settings
	selected int
	loaded   bool
	saving   bool
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)

func New(deps *screen.Deps) *SettingsScreen {
	return &SettingsScreen{deps: deps, settings: store.DefaultSettings()}
}

func (s *SettingsScreen) Init() tea.Cmd {
	uid := s.deps.UID()
	return func() tea.Msg {
		return loadedMsg{Settings: s.deps.Store.Settings(context.Background(), uid)}
	}
}

func (s *SettingsScreen) Title() string      { return "Settings" }
func (s *SettingsScreen) RequiresAuth() bool { return true }

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Toggle"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.settings = msg.Settings
		s.loaded = true
		return s, nil

	case savedMsg:
		s.saving = false
		if msg.Err != nil {
			return s, screen.Status("Could not save settings")
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, router.Pop()
		case "up", "k":
			s.selected = (s.selected + rowCount - 1) % rowCount
		case "down", "j":
			s.selected = (s.selected + 1) % rowCount
		case "enter", "space":
			return s, s.activate()
		}
	}
	return s, nil
}

func (s *SettingsScreen) activate() tea.Cmd {
	switch s.selected {
	case rowDarkMode:
		s.settings.DarkMode = !s.settings.DarkMode
	case rowNotifications:
		s.settings.Notifications = !s.settings.Notifications
	case rowSignOut:
		s.deps.Auth.SignOut()
		return nil
	}
	return tea.Batch(s.changed(), s.save())
}

func (s *SettingsScreen) changed() tea.Cmd {
	next := s.settings
	return func() tea.Msg { return screen.SettingsMsg{Settings: next} }
}

func (s *SettingsScreen) save() tea.Cmd {
	s.saving = true
	uid := s.deps.UID()
	next := s.settings
	return func() tea.Msg {
		return savedMsg{Err: s.deps.Store.SaveSettings(context.Background(), uid, next)}
	}
}

func (s *SettingsScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).Render("\n\n  Loading settings...")
	}

	cw := components.ContentWidth(width)
	var b strings.Builder
	toggle := func(row int, label string, on bool) {
		state := theme.Muted.Render("off")
		if on {
			state = lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("on")
		}
		b.WriteString(s.cursor(row) + s.label(row, label) + "  " + state + "\n")
	}
	toggle(rowDarkMode, "Dark mode", s.settings.DarkMode)
	toggle(rowNotifications, "Notifications", s.settings.Notifications)
	b.WriteString("\n" + s.cursor(rowSignOut) + s.label(rowSignOut, "Sign out"))

	content := b.String()
	if u := s.deps.User(); u != nil {
		content = theme.Muted.Render("Signed in as "+u.Email) + "\n\n" + content
	}
	panel := components.Panel("Preferences", content, cw)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, "\n"+panel)
}

func (s *SettingsScreen) cursor(row int) string {
	if row == s.selected {
		return theme.Selected.Render("▸ ")
	}
	return "  "
}

func (s *SettingsScreen) label(row int, text string) string {
	if row == s.selected {
		return theme.Selected.Render(text)
	}
	return theme.Body.Render(text)
}

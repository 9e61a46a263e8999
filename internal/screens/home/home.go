package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/optimapped/optimapped/internal/router"
	"github.com/optimapped/optimapped/internal/screen"
	"github.com/optimapped/optimapped/internal/screens/signin"
	"github.com/optimapped/optimapped/internal/ui/components"
	"github.com/optimapped/optimapped/internal/ui/theme"
)

var features = []string{
	"A short assessment scores how you focus across five areas",
	"Your results become an editable focus map",
	"AI insights suggest a technique that fits your profile",
}

// HomeScreen is the landing page shown when nobody is signed in.
type HomeScreen struct {
	menu components.Menu
	year int
}

var _ screen.Screen = (*HomeScreen)(nil)

func New(deps *screen.Deps) *HomeScreen {
	items := []components.MenuItem{
		{Label: "Get Started", Action: func() tea.Cmd {
			return router.Push(signin.New(deps, signin.ModeSignUp))
		}},
		{Label: "Sign In", Action: func() tea.Cmd {
			return router.Push(signin.New(deps, signin.ModeSignIn))
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	return &HomeScreen{
		menu: components.NewMenu(items),
		year: deps.Clock().Year(),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	headline := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Focus better.")
	tagline := theme.Subtitle.Render("The scientific planning tool for maximum productivity")

	var list strings.Builder
	for _, f := range features {
		list.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render("◆ ") + theme.Body.Render(f) + "\n")
	}

	sections := []string{
		headline,
		tagline,
		"",
		components.Panel("", strings.TrimRight(list.String(), "\n"), cw),
		"",
		h.menu.View(),
		theme.Hint.Render(fmt.Sprintf("© %d Optimapped", h.year)),
	}
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

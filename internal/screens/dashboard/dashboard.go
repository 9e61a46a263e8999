package dashboard

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/optimapped/optimapped/internal/focusmap"
	"github.com/optimapped/optimapped/internal/router"
	"github.com/optimapped/optimapped/internal/scoring"
	"github.com/optimapped/optimapped/internal/screen"
	"github.com/optimapped/optimapped/internal/screens/assessment"
	"github.com/optimapped/optimapped/internal/screens/mapeditor"
	"github.com/optimapped/optimapped/internal/screens/maps"
	"github.com/optimapped/optimapped/internal/screens/settings"
	"github.com/optimapped/optimapped/internal/ui/components"
	"github.com/optimapped/optimapped/internal/ui/layout"
	"github.com/optimapped/optimapped/internal/ui/theme"
)

const recentLimit = 3

type loadedMsg struct {
	Report *scoring.Report
	Recent []*focusmap.Map
}

// DashboardScreen is the signed-in home: profile, latest results and
// recent maps.
type DashboardScreen struct {
	deps    *screen.Deps
	menu    components.Menu
	spinner spinner.Model
	loading bool
	report  *scoring.Report
	recent  []*focusmap.Map
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.Resumer = (*DashboardScreen)(nil)

func New(deps *screen.Deps) *DashboardScreen {
	d := &DashboardScreen{
		deps:    deps,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		loading: true,
	}
	d.buildMenu()
	return d
}

func (d *DashboardScreen) buildMenu() {
	mapLabel := "Create Your First Focus Map"
	if len(d.recent) > 0 {
		mapLabel = "Create Focus Map"
	}
	assessLabel := "Start Focus Assessment"
	if d.report != nil {
		assessLabel = "Retake Focus Assessment"
	}
	selected := d.menu.Selected
	d.menu = components.NewMenu([]components.MenuItem{
		{Label: assessLabel, Action: func() tea.Cmd {
			return router.Push(assessment.New(d.deps, nil))
		}},
		{Label: mapLabel, Action: func() tea.Cmd {
			return router.Push(mapeditor.New(d.deps, nil, d.report))
		}},
		{Label: "Saved Maps", Action: func() tea.Cmd {
			return router.Push(maps.New(d.deps))
		}},
		{Label: "Settings", Action: func() tea.Cmd {
			return router.Push(settings.New(d.deps))
		}},
		{Label: "Sign Out", Action: func() tea.Cmd {
			d.deps.Auth.SignOut()
			return nil
		}},
	})
	d.menu.Selected = selected
}

func (d *DashboardScreen) Init() tea.Cmd {
	return tea.Batch(d.spinner.Tick, d.load())
}

// Resume refreshes results and maps when returning from another screen.
func (d *DashboardScreen) Resume() tea.Cmd {
	return d.load()
}

func (d *DashboardScreen) load() tea.Cmd {
	uid := d.deps.UID()
	return func() tea.Msg {
		ctx := context.Background()
		rep := d.deps.Store.Read(ctx, uid)
		recent, _ := d.deps.Store.ListMaps(ctx, uid, recentLimit)
		return loadedMsg{Report: rep, Recent: recent}
	}
}

func (d *DashboardScreen) Title() string      { return "Dashboard" }
func (d *DashboardScreen) RequiresAuth() bool { return true }

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		d.loading = false
		d.report = msg.Report
		d.recent = msg.Recent
		d.buildMenu()
		return d, nil

	case spinner.TickMsg:
		if !d.loading {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case tea.KeyPressMsg:
		var cmd tea.Cmd
		d.menu, cmd = d.menu.Update(msg)
		return d, cmd
	}
	return d, nil
}

func (d *DashboardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	sections := []string{"", d.profileView()}

	if d.loading {
		sections = append(sections, "", d.spinner.View()+theme.Muted.Render(" Loading your results..."))
	} else {
		sections = append(sections, "", d.reportView(cw), "", d.recentView(cw))
	}
	sections = append(sections, "", d.menu.View())

	body := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func (d *DashboardScreen) profileView() string {
	u := d.deps.User()
	if u == nil {
		return ""
	}
	avatar := lipgloss.NewStyle().
		Foreground(theme.BgCard).
		Background(theme.Primary).
		Bold(true).
		Padding(0, 1).
		Render(u.Initial())
	name := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Welcome back, " + u.Name())
	return avatar + "  " + name + "\n" + theme.Muted.Render("    "+u.Email)
}

func (d *DashboardScreen) reportView(width int) string {
	if d.report == nil {
		return components.Panel("Your focus profile",
			theme.Hint.Render("Take the assessment to discover how you focus best."), width)
	}
	rep := d.report
	content := assessment.RenderScore(rep) + "\n" +
		theme.Muted.Render(fmt.Sprintf("Peak focus hours %s · taken %s",
			rep.PeakFocusHours, rep.CompletedAt.Local().Format("Jan 02, 2006"))) + "\n\n" +
		assessment.RenderCategoryBars(rep, width-4)
	return components.Panel("Your focus profile", content, width)
}

func (d *DashboardScreen) recentView(width int) string {
	if len(d.recent) == 0 {
		return components.Panel("Recent maps", theme.Hint.Render("No saved maps yet."), width)
	}
	var b strings.Builder
	for _, m := range d.recent {
		b.WriteString(theme.Body.Render(m.Name) + theme.Muted.Render(
			fmt.Sprintf("  %d nodes · %s", len(m.Nodes), m.UpdatedAt.Local().Format("Jan 02"))) + "\n")
	}
	return components.Panel("Recent maps", strings.TrimRight(b.String(), "\n"), width)
}

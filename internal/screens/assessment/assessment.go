package assessment

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	quiz "github.com/optimapped/optimapped/internal/assessment"
	"github.com/optimapped/optimapped/internal/questionbank"
	"github.com/optimapped/optimapped/internal/router"
	"github.com/optimapped/optimapped/internal/screen"
	"github.com/optimapped/optimapped/internal/screens/mapeditor"
	"github.com/optimapped/optimapped/internal/ui/components"
	"github.com/optimapped/optimapped/internal/ui/layout"
	"github.com/optimapped/optimapped/internal/ui/theme"
)

type savedMsg struct {
	Err error
}

// AssessmentScreen runs the questionnaire and shows the results.
type AssessmentScreen struct {
	deps   *screen.Deps
	quiz   *quiz.Quiz
	choice components.Choice
	menu   components.Menu
	saved  bool
}

var _ screen.Screen = (*AssessmentScreen)(nil)
var _ screen.KeyHintProvider = (*AssessmentScreen)(nil)

func New(deps *screen.Deps, bank *questionbank.Bank) *AssessmentScreen {
	if bank == nil {
		bank = questionbank.Default()
	}
	s := &AssessmentScreen{
		deps: deps,
		quiz: quiz.New(bank, deps.Clock),
	}
	s.resetChoice()
	return s
}

func (s *AssessmentScreen) Init() tea.Cmd { return nil }

func (s *AssessmentScreen) Title() string {
	if s.quiz.Phase() == quiz.PhaseResults {
		return "Your Focus Profile"
	}
	return "Focus Assessment"
}

func (s *AssessmentScreen) RequiresAuth() bool { return true }

// Quiz exposes the underlying quiz state.
func (s *AssessmentScreen) Quiz() *quiz.Quiz { return s.quiz }

func (s *AssessmentScreen) KeyHints() []layout.KeyHint {
	if s.quiz.Phase() == quiz.PhaseResults {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓", Description: "Choose"},
		{Key: "←", Description: "Previous"},
		{Key: "Esc", Description: "Quit"},
	}
}

// resetChoice shows the current question's options with any recorded
// answer marked.
func (s *AssessmentScreen) resetChoice() {
	q := s.quiz.Current()
	labels := make([]string, len(q.Options))
	marked := -1
	chosen, ok := s.quiz.Chosen()
	for i, o := range q.Options {
		labels[i] = o.Label
		if ok && o.Value == chosen {
			marked = i
		}
	}
	s.choice = components.NewChoice(labels, marked)
}

func (s *AssessmentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.saved = msg.Err == nil
		if msg.Err != nil {
			return s, screen.Status("Results kept on this device only")
		}
		return s, screen.Status("Results saved")

	case tea.KeyPressMsg:
		if msg.String() == "esc" {
			return s, router.Pop()
		}
		if s.quiz.Phase() == quiz.PhaseResults {
			var cmd tea.Cmd
			s.menu, cmd = s.menu.Update(msg)
			return s, cmd
		}
		return s, s.updateQuestion(msg)
	}
	return s, nil
}

func (s *AssessmentScreen) updateQuestion(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "left", "backspace", "p":
		if s.quiz.Previous() {
			s.resetChoice()
		}
		return nil
	}

	var picked bool
	s.choice, picked = s.choice.Update(msg)
	if !picked {
		return nil
	}
	value := s.quiz.Current().Options[s.choice.Selected].Value
	if !s.quiz.Answer(value) {
		s.resetChoice()
		return nil
	}
	s.buildMenu()
	return s.save()
}

func (s *AssessmentScreen) save() tea.Cmd {
	rep := s.quiz.Report()
	uid := s.deps.UID()
	return func() tea.Msg {
		return savedMsg{Err: s.deps.Store.Write(context.Background(), uid, rep)}
	}
}

func (s *AssessmentScreen) buildMenu() {
	rep := s.quiz.Report()
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Create Focus Map", Action: func() tea.Cmd {
			return router.Push(mapeditor.New(s.deps, nil, rep))
		}},
		{Label: "Retake Assessment", Action: func() tea.Cmd {
			s.quiz.Retake()
			s.saved = false
			s.resetChoice()
			return nil
		}},
		{Label: "Back to Dashboard", Action: router.Pop},
	})
}

func (s *AssessmentScreen) View(width, height int) string {
	if s.quiz.Phase() == quiz.PhaseResults {
		return s.resultsView(width)
	}
	return s.questionView(width)
}

func (s *AssessmentScreen) questionView(width int) string {
	cw := components.ContentWidth(width)
	q := s.quiz.Current()

	bar := components.NewProgressBar(
		fmt.Sprintf("Question %d of %d", s.quiz.Index()+1, s.quiz.Total()),
		s.quiz.Progress(), true, cw)
	bar.LabelWidth = 18

	cat := theme.CategoryStyle(q.Category.Color()).Render(q.Category.Label())
	text := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw).Render(q.Text)

	var b strings.Builder
	b.WriteString("\n" + bar.View() + "\n\n")
	b.WriteString(cat + "\n")
	b.WriteString(text + "\n\n")
	b.WriteString(s.choice.View())
	if s.quiz.Index() > 0 {
		b.WriteString("\n" + theme.Hint.Render("← Previous question"))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(cw).Render(b.String()))
}

func (s *AssessmentScreen) resultsView(width int) string {
	rep := s.quiz.Report()
	cw := components.ContentWidth(width)

	sections := []string{
		"",
		RenderScore(rep),
		"",
		components.Panel("By category", RenderCategoryBars(rep, cw-4), cw),
		RenderDetails(rep, cw),
		"",
		s.menu.View(),
	}
	body := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

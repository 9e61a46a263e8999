package assessment

import (
	"context"
	"strconv"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	quiz "github.com/optimapped/optimapped/internal/assessment"
	"github.com/optimapped/optimapped/internal/questionbank"
	"github.com/optimapped/optimapped/internal/router"
	"github.com/optimapped/optimapped/internal/screen/screentest"
	"github.com/optimapped/optimapped/internal/screens/mapeditor"
)

// answerAll answers every question with its highest or lowest valued
// option and returns the command from the final answer.
func answerAll(s *AssessmentScreen, highest bool) tea.Cmd {
	var cmd tea.Cmd
	for s.Quiz().Phase() == quiz.PhaseAnswering {
		best := 0
		for i, o := range s.Quiz().Current().Options {
			cur := s.Quiz().Current().Options[best].Value
			if (highest && o.Value > cur) || (!highest && o.Value < cur) {
				best = i
			}
		}
		_, cmd = s.Update(screentest.Key(strconv.Itoa(best + 1)))
	}
	return cmd
}

func TestQuestionView(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps, nil)

	total := questionbank.Default().Len()
	view := s.View(100, 30)
	assert.Contains(t, view, "Question 1 of")
	assert.Contains(t, view, questionbank.Default().At(0).Options[0].Label)
	assert.Equal(t, total, s.Quiz().Total())
}

func TestPreviousKeepsAnswer(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps, nil)

	s.Update(screentest.Key("3"))
	require.Equal(t, 1, s.Quiz().Index())

	s.Update(screentest.Key("left"))
	assert.Equal(t, 0, s.Quiz().Index())
	assert.Equal(t, 2, s.choice.Marked)
	assert.Equal(t, 2, s.choice.Selected)

	// Previous on the first question stays put.
	s.Update(screentest.Key("left"))
	assert.Equal(t, 0, s.Quiz().Index())
}

func TestCompletingSavesReport(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps, nil)

	saved, ok := screentest.Find[savedMsg](screentest.Run(answerAll(s, true)))
	require.True(t, ok)
	require.NoError(t, saved.Err)
	s.Update(saved)
	assert.True(t, s.saved)

	rep := env.Deps.Store.Read(context.Background(), env.Deps.UID())
	require.NotNil(t, rep)
	assert.Equal(t, 100, rep.FocusScore)
	assert.Equal(t, screentest.Now, rep.CompletedAt)

	view := s.View(100, 60)
	assert.Contains(t, view, "100%")
	assert.Contains(t, view, "Excellent focus abilities!")
	assert.Contains(t, view, "Create Focus Map")
}

func TestLowScoreShowsAdvice(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps, nil)
	answerAll(s, false)

	rep := s.Quiz().Report()
	require.NotNil(t, rep)
	assert.True(t, rep.IsBalanced())

	view := s.View(120, 80)
	assert.Contains(t, view, "balanced profile")
	assert.Contains(t, view, "Areas to improve")
	assert.Contains(t, view, "Focus is an area you can significantly strengthen")
}

func TestResultsMenu(t *testing.T) {
	env := screentest.SignedIn(t)
	s := New(env.Deps, nil)
	answerAll(s, true)

	_, cmd := s.Update(screentest.Key("enter"))
	push, ok := screentest.Find[router.PushScreenMsg](screentest.Run(cmd))
	require.True(t, ok)
	ed, ok := push.Screen.(*mapeditor.EditorScreen)
	require.True(t, ok)
	assert.Len(t, ed.Editor().Map().Nodes, 1+len(questionbank.AllCategories()))

	s.Update(screentest.Key("down"))
	s.Update(screentest.Key("enter"))
	assert.Equal(t, quiz.PhaseAnswering, s.Quiz().Phase())
	assert.Equal(t, 0, s.Quiz().Index())
	_, chosen := s.Quiz().Chosen()
	assert.False(t, chosen)
}

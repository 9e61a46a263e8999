package insights

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimapped/optimapped/internal/focusmap"
	"github.com/optimapped/optimapped/internal/llm"
	"github.com/optimapped/optimapped/internal/questionbank"
	"github.com/optimapped/optimapped/internal/scoring"
)

func testReport() *scoring.Report {
	answers := scoring.AnswerSet{1: 4, 2: 4, 3: 4, 4: 1, 5: 2, 6: 3, 7: 3, 8: 4, 9: 1, 10: 1}
	return scoring.Score(questionbank.Default(), answers, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
}

const reply = "Start with your environment.\n\n" +
	"```technique\n" +
	`{"name":"Time blocking","description":"Plan the day in blocks.","benefit":"Less switching.","steps":["List tasks","Assign blocks"],"science":"Reduces decision load."}` +
	"\n```\n\nGood luck!"

func TestBuildPrompt(t *testing.T) {
	rep := testReport()
	m := focusmap.Generate(rep)
	p := BuildPrompt(rep, m)

	assert.Contains(t, p, "Overall focus score: ")
	for _, c := range questionbank.AllCategories() {
		assert.Contains(t, p, c.Label()+": ")
	}
	assert.Contains(t, p, "Peak focus hours: "+rep.PeakFocusHours)
	assert.Contains(t, p, `## Focus map "My Focus Map"`)
	assert.Contains(t, p, "[task] My Focus")
	assert.Contains(t, p, "My Focus -- ")
	assert.Contains(t, p, "`technique`")

	// Same inputs, same prompt: the cache relies on it.
	assert.Equal(t, p, BuildPrompt(rep, m))
}

func TestBuildPromptWithoutMap(t *testing.T) {
	p := BuildPrompt(testReport(), nil)
	assert.NotContains(t, p, "## Focus map")
	assert.Contains(t, p, "## Task")
}

func TestParse(t *testing.T) {
	prose, tech := Parse(reply)
	require.NotNil(t, tech)
	assert.Equal(t, "Time blocking", tech.Name)
	assert.Equal(t, []string{"List tasks", "Assign blocks"}, tech.Steps)
	assert.NotContains(t, prose, "```")
	assert.True(t, strings.HasPrefix(prose, "Start with your environment."))
	assert.True(t, strings.HasSuffix(prose, "Good luck!"))
}

func TestParseRepairsJSON(t *testing.T) {
	text := "Advice\n```json\n{name: 'Pomodoro', description: 'Timed sprints', steps: ['Work', 'Rest'],}\n```"
	prose, tech := Parse(text)
	require.NotNil(t, tech)
	assert.Equal(t, "Pomodoro", tech.Name)
	assert.Equal(t, "Advice", prose)
}

func TestParseIgnoresBadBlocks(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no block", "Just prose."},
		{"other language", "```go\nfmt.Println()\n```"},
		{"missing required", "```technique\n{\"name\":\"X\"}\n```"},
		{"steps not array", "```technique\n{\"name\":\"X\",\"description\":\"d\",\"steps\":\"one\"}\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prose, tech := Parse(tt.text)
			assert.Nil(t, tech)
			assert.Equal(t, tt.text, prose)
		})
	}
}

func TestTechniqueMarkdown(t *testing.T) {
	_, tech := Parse(reply)
	require.NotNil(t, tech)
	md := tech.Markdown()
	assert.Contains(t, md, "### Try: Time blocking")
	assert.Contains(t, md, "1. List tasks\n2. Assign blocks")
	assert.Contains(t, md, "_Reduces decision load._")
}

func TestCompleteMemoisesSuccess(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: reply})
	r := New(mock, nil)

	first := r.Complete(context.Background(), "prompt")
	require.NoError(t, first.Err)
	require.NotNil(t, first.Technique)

	second := r.Complete(context.Background(), "prompt")
	require.NoError(t, second.Err)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, 1, mock.CallCount())

	calls := mock.Calls()
	assert.Equal(t, "prompt", calls[0].Messages[0].Content)
	assert.Equal(t, defaultMaxTokens, calls[0].MaxTokens)
}

func TestCompleteDoesNotCacheFailures(t *testing.T) {
	boom := errors.New("quota exceeded")
	mock := llm.NewMockProvider(llm.MockResponse{Err: boom}, llm.MockResponse{Text: "ok"})
	r := New(mock, nil, WithTimeout(time.Second), WithMaxTokens(64))

	res := r.Complete(context.Background(), "p")
	require.ErrorIs(t, res.Err, boom)
	assert.Empty(t, res.Text)

	res = r.Complete(context.Background(), "p")
	require.NoError(t, res.Err)
	assert.Equal(t, "ok", res.Text)
	assert.Nil(t, res.Technique)
	assert.Equal(t, 2, mock.CallCount())
}

type purposeRecorder struct{ got string }

func (p *purposeRecorder) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	p.got = llm.PurposeFrom(ctx)
	return &llm.Response{Text: "x"}, nil
}

func (p *purposeRecorder) ModelID() string { return "recorder" }

func TestCompleteLabelsPurpose(t *testing.T) {
	rec := &purposeRecorder{}
	New(rec, nil).Complete(context.Background(), "p")
	assert.Equal(t, llm.PurposeInsight, rec.got)
}

func TestCompleteWithoutProvider(t *testing.T) {
	res := New(nil, nil).Complete(context.Background(), "p")
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "OPTIMAPPED_GEMINI_API_KEY")
}

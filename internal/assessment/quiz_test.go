package assessment

import (
	"testing"
	"time"

	"github.com/optimapped/optimapped/internal/questionbank"
)

func fixedClock() time.Time {
	return time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
}

func TestQuizAdvancesAndCompletes(t *testing.T) {
	q := New(questionbank.Default(), fixedClock)

	if q.Index() != 0 || q.Total() != 10 {
		t.Fatalf("start at %d/%d", q.Index(), q.Total())
	}
	if q.Progress() != 0.1 {
		t.Errorf("progress = %f, want 0.1", q.Progress())
	}

	for i := 0; i < 9; i++ {
		if done := q.Answer(4); done {
			t.Fatalf("completed early at question %d", i+1)
		}
	}
	if q.Index() != 9 {
		t.Fatalf("index = %d, want 9", q.Index())
	}
	if !q.Answer(4) {
		t.Fatal("last answer should complete the quiz")
	}
	if q.Phase() != PhaseResults {
		t.Error("expected results phase")
	}

	r := q.Report()
	if r == nil || r.FocusScore != 100 {
		t.Fatalf("report = %+v", r)
	}
	if !r.CompletedAt.Equal(fixedClock()) {
		t.Errorf("completedAt = %v", r.CompletedAt)
	}

	if q.Answer(1) {
		t.Error("answering after completion should be ignored")
	}
}

func TestQuizPrevious(t *testing.T) {
	q := New(questionbank.Default(), fixedClock)

	if q.Previous() {
		t.Error("previous on first question should not move")
	}

	q.Answer(2)
	q.Answer(3)
	if !q.Previous() {
		t.Fatal("previous should move back")
	}
	if q.Index() != 1 {
		t.Errorf("index = %d, want 1", q.Index())
	}
	if v, ok := q.Chosen(); !ok || v != 3 {
		t.Errorf("chosen = %d,%v; want 3,true", v, ok)
	}

	q.Answer(1)
	if got := q.Answers()[2]; got != 1 {
		t.Errorf("answer to q2 = %d, want overwritten 1", got)
	}
}

func TestQuizRetake(t *testing.T) {
	q := New(questionbank.Default(), fixedClock)
	for i := 0; i < q.Total(); i++ {
		q.Answer(1)
	}
	q.Retake()

	if q.Phase() != PhaseAnswering || q.Index() != 0 {
		t.Errorf("after retake: phase=%v index=%d", q.Phase(), q.Index())
	}
	if q.Report() != nil {
		t.Error("report should be cleared")
	}
	if len(q.Answers()) != 0 {
		t.Error("answers should be cleared")
	}
}

func TestAnswersIsCopy(t *testing.T) {
	q := New(questionbank.Default(), fixedClock)
	q.Answer(2)
	a := q.Answers()
	a[1] = 4
	if q.Answers()[1] != 2 {
		t.Error("Answers should return a copy")
	}
}

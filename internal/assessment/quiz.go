package assessment

import (
	"time"

	"github.com/optimapped/optimapped/internal/questionbank"
	"github.com/optimapped/optimapped/internal/scoring"
)

// Phase is the current stage of an assessment run.
type Phase int

const (
	PhaseAnswering Phase = iota // Questions are being shown
	PhaseResults                // All questions answered, report available
)

// Quiz tracks one pass through a question bank. Answering a question
// advances to the next one; answering the last produces the report.
type Quiz struct {
	bank    *questionbank.Bank
	index   int
	answers scoring.AnswerSet
	report  *scoring.Report
	phase   Phase
	now     func() time.Time
}

// New starts a quiz over bank. now stamps the completion time; nil
// means time.Now.
func New(bank *questionbank.Bank, now func() time.Time) *Quiz {
	if now == nil {
		now = time.Now
	}
	return &Quiz{
		bank:    bank,
		answers: make(scoring.AnswerSet),
		now:     now,
	}
}

// Phase returns the current phase.
func (q *Quiz) Phase() Phase { return q.phase }

// Index returns the zero-based position of the current question.
func (q *Quiz) Index() int { return q.index }

// Total returns the number of questions.
func (q *Quiz) Total() int { return q.bank.Len() }

// Current returns the question being shown.
func (q *Quiz) Current() questionbank.Question { return q.bank.At(q.index) }

// Progress returns the fraction of the way through, counting the
// current question as reached.
func (q *Quiz) Progress() float64 {
	if q.bank.Len() == 0 {
		return 0
	}
	return float64(q.index+1) / float64(q.bank.Len())
}

// Chosen returns the recorded answer for the current question.
func (q *Quiz) Chosen() (int, bool) {
	v, ok := q.answers[q.Current().ID]
	return v, ok
}

// Answer records value for the current question and advances. It
// returns true when this was the last question and the report is ready.
func (q *Quiz) Answer(value int) bool {
	if q.phase != PhaseAnswering {
		return false
	}
	q.answers[q.Current().ID] = value

	if q.index < q.bank.Len()-1 {
		q.index++
		return false
	}

	q.report = scoring.Score(q.bank, q.answers, q.now())
	q.phase = PhaseResults
	return true
}

// Previous steps back one question. It reports whether it moved.
func (q *Quiz) Previous() bool {
	if q.phase != PhaseAnswering || q.index == 0 {
		return false
	}
	q.index--
	return true
}

// Report returns the computed report, or nil before completion.
func (q *Quiz) Report() *scoring.Report { return q.report }

// Answers returns a copy of the recorded answers.
func (q *Quiz) Answers() scoring.AnswerSet { return q.answers.Clone() }

// Retake clears all answers and returns to the first question.
func (q *Quiz) Retake() {
	q.index = 0
	q.answers = make(scoring.AnswerSet)
	q.report = nil
	q.phase = PhaseAnswering
}

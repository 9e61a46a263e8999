package scoring

import (
	"time"

	"github.com/optimapped/optimapped/internal/questionbank"
)

// AnswerSet maps question ID to the chosen option value.
type AnswerSet map[int]int

// Clone returns an independent copy of a.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// BalancedStrength is the sentinel strength used when no category
// reaches the strength threshold.
const BalancedStrength = "balanced"

// StrengthThreshold is the minimum category score counted as a strength.
const StrengthThreshold = 70

// Report is the computed result of one completed assessment.
type Report struct {
	FocusScore     int                           `json:"focusScore"`
	CategoryScores map[questionbank.Category]int `json:"categoryScores"`
	PeakFocusHours string                        `json:"peakFocusHours"`
	Strengths      []string                      `json:"strengths"`
	Improvements   []string                      `json:"improvements"`
	CompletedAt    time.Time                     `json:"completedAt"`
}

// CategoryScore returns the score for c, or 0 when absent.
func (r *Report) CategoryScore(c questionbank.Category) int {
	if r == nil || r.CategoryScores == nil {
		return 0
	}
	return r.CategoryScores[c]
}

// IsBalanced reports whether the strengths list is the sentinel.
func (r *Report) IsBalanced() bool {
	return len(r.Strengths) == 1 && r.Strengths[0] == BalancedStrength
}

// BandMessage describes an overall focus score in words.
func BandMessage(score int) string {
	switch {
	case score >= 80:
		return "Excellent focus abilities!"
	case score >= 60:
		return "Good focus with room for improvement"
	default:
		return "Focus is an area you can significantly strengthen"
	}
}

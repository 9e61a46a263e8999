package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/optimapped/optimapped/internal/questionbank"
)

// Peak focus hour labels keyed by the raw answer to the time preference
// question.
var peakHours = map[int]string{
	1: "10PM-12AM",
	2: "6-9 PM",
	3: "1-4 PM",
	4: "9-11 AM",
	5: "5-8 AM",
}

const (
	defaultPeakValue = 3
	fallbackPeakHour = "9-11 AM"
)

// PeakFocusHours maps a raw time preference answer to its label.
// Zero means unanswered and uses the default value.
func PeakFocusHours(value int) string {
	if value == 0 {
		value = defaultPeakValue
	}
	if label, ok := peakHours[value]; ok {
		return label
	}
	return fallbackPeakHour
}

// Score computes a Report from the answers given to bank. Missing
// answers count as zero. The result does not depend on the order in
// which answers were recorded.
func Score(bank *questionbank.Bank, answers AnswerSet, now time.Time) *Report {
	questions := bank.Questions()

	total := 0
	sums := make(map[questionbank.Category]int)
	maxes := make(map[questionbank.Category]int)
	for _, q := range questions {
		v := answers[q.ID]
		total += v
		sums[q.Category] += v
		maxes[q.Category] += questionbank.MaxOptionValue
	}

	report := &Report{
		FocusScore:     percent(total, questionbank.MaxOptionValue*len(questions)),
		CategoryScores: make(map[questionbank.Category]int, len(questionbank.AllCategories())),
		PeakFocusHours: PeakFocusHours(answers[questionbank.PeakTimeQuestionID]),
		CompletedAt:    now,
	}
	for _, c := range questionbank.AllCategories() {
		report.CategoryScores[c] = percent(sums[c], maxes[c])
	}

	report.Strengths, report.Improvements = partition(report.CategoryScores)
	return report
}

// partition splits categories into strengths (descending) and
// improvements (ascending). Ties keep enumeration order.
func partition(scores map[questionbank.Category]int) (strengths, improvements []string) {
	var strong, weak []questionbank.Category
	for _, c := range questionbank.AllCategories() {
		if scores[c] >= StrengthThreshold {
			strong = append(strong, c)
		} else {
			weak = append(weak, c)
		}
	}

	sort.SliceStable(strong, func(i, j int) bool { return scores[strong[i]] > scores[strong[j]] })
	sort.SliceStable(weak, func(i, j int) bool { return scores[weak[i]] < scores[weak[j]] })

	strengths = make([]string, 0, len(strong))
	for _, c := range strong {
		strengths = append(strengths, string(c))
	}
	if len(strengths) == 0 {
		strengths = []string{BalancedStrength}
	}

	improvements = make([]string, 0, len(weak))
	for _, c := range weak {
		improvements = append(improvements, string(c))
	}
	return strengths, improvements
}

func percent(sum, limit int) int {
	if limit == 0 {
		return 0
	}
	return int(math.Round(100 * float64(sum) / float64(limit)))
}

package assessment

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/optimapped/optimapped/internal/questionbank"
	"github.com/optimapped/optimapped/internal/scoring"
	"github.com/optimapped/optimapped/internal/ui/components"
	"github.com/optimapped/optimapped/internal/ui/theme"
)

const barLabelWidth = 22

// RenderScore renders the overall score with its band message.
func RenderScore(rep *scoring.Report) string {
	score := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
		Render(fmt.Sprintf("%d%%", rep.FocusScore))
	return theme.Subtitle.Render("Focus score ") + score + "\n" +
		theme.Body.Render(scoring.BandMessage(rep.FocusScore))
}

// RenderCategoryBars renders one bar per category in its own color.
func RenderCategoryBars(rep *scoring.Report, width int) string {
	var b strings.Builder
	for _, c := range questionbank.AllCategories() {
		bar := components.NewProgressBar(c.Label(), float64(rep.CategoryScore(c))/100, true, width)
		bar.LabelWidth = barLabelWidth
		bar.Color = lipgloss.Color(c.Color())
		b.WriteString(bar.View() + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderDetails renders peak hours, strengths and improvement advice.
func RenderDetails(rep *scoring.Report, width int) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Peak focus hours") + "  " +
		theme.Body.Render(rep.PeakFocusHours) + "\n\n")

	b.WriteString(theme.Subtitle.Render("Strengths") + "\n")
	if rep.IsBalanced() {
		b.WriteString(theme.Body.Render("  A balanced profile with no standout area yet.") + "\n")
	} else {
		for _, s := range rep.Strengths {
			b.WriteString("  " + categoryName(s) + "\n")
		}
	}

	if len(rep.Improvements) > 0 {
		b.WriteString("\n" + theme.Subtitle.Render("Areas to improve") + "\n")
		advice := lipgloss.NewStyle().Foreground(theme.TextDim).Width(max(20, width-4)).PaddingLeft(4)
		for _, s := range rep.Improvements {
			b.WriteString("  " + categoryName(s) + "\n")
			if c, ok := questionbank.ParseCategory(s); ok {
				b.WriteString(advice.Render(c.Advice()) + "\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func categoryName(id string) string {
	c, ok := questionbank.ParseCategory(id)
	if !ok {
		return theme.Body.Render(id)
	}
	return theme.CategoryStyle(c.Color()).Render("● ") + theme.Body.Render(c.Label())
}

package insights

import (
	"fmt"
	"strings"

	"github.com/optimapped/optimapped/internal/focusmap"
	"github.com/optimapped/optimapped/internal/questionbank"
	"github.com/optimapped/optimapped/internal/scoring"
)

// BuildPrompt serialises a score report and a map snapshot into the
// prompt sent to the model. Either argument may be nil.
func BuildPrompt(rep *scoring.Report, m *focusmap.Map) string {
	var b strings.Builder

	b.WriteString("You are a productivity coach. A user took a focus assessment and drew a focus map.\n\n")

	if rep != nil {
		b.WriteString("## Assessment\n")
		fmt.Fprintf(&b, "Overall focus score: %d%%\n", rep.FocusScore)
		for _, c := range questionbank.AllCategories() {
			fmt.Fprintf(&b, "- %s: %d%%\n", c.Label(), rep.CategoryScore(c))
		}
		fmt.Fprintf(&b, "Peak focus hours: %s\n", rep.PeakFocusHours)
		fmt.Fprintf(&b, "Strengths: %s\n", labelList(rep.Strengths))
		fmt.Fprintf(&b, "Areas to improve: %s\n\n", labelList(rep.Improvements))
	}

	if m != nil {
		fmt.Fprintf(&b, "## Focus map %q\n", m.Name)
		b.WriteString("Nodes:\n")
		for _, n := range m.Nodes {
			fmt.Fprintf(&b, "- [%s] %s", n.Kind, n.Label)
			if n.Category != "" {
				fmt.Fprintf(&b, " (category: %s)", n.Category.Label())
			}
			if n.Score != nil {
				fmt.Fprintf(&b, " score %d%%", *n.Score)
			}
			if n.Description != "" {
				fmt.Fprintf(&b, ": %s", n.Description)
			}
			b.WriteByte('\n')
		}
		if len(m.Connections) > 0 {
			b.WriteString("Connections:\n")
			for _, c := range m.Connections {
				fmt.Fprintf(&b, "- %s -- %s", nodeLabel(m, c.Source), nodeLabel(m, c.Target))
				if c.Label != "" {
					fmt.Fprintf(&b, " (%s)", c.Label)
				}
				if c.Strength != nil {
					fmt.Fprintf(&b, " strength %.1f", *c.Strength)
				}
				b.WriteByte('\n')
			}
		}
		b.WriteByte('\n')
	}

	b.WriteString("## Task\n")
	b.WriteString("Give short, practical advice in markdown for improving this person's focus, ")
	b.WriteString("starting with their weakest areas. Then recommend exactly one focus technique ")
	b.WriteString("in a fenced code block labelled `technique` containing a JSON object with the keys ")
	b.WriteString(`"name", "description", "benefit", "steps" (an array of strings) and "science".`)
	b.WriteByte('\n')
	return b.String()
}

// labelList maps category names to labels; unknown entries pass through.
func labelList(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	out := make([]string, len(names))
	for i, n := range names {
		if c, ok := questionbank.ParseCategory(n); ok {
			out[i] = c.Label()
		} else {
			out[i] = n
		}
	}
	return strings.Join(out, ", ")
}

func nodeLabel(m *focusmap.Map, id string) string {
	if n := m.Node(id); n != nil {
		return n.Label
	}
	return id
}

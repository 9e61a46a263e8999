package insights

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/optimapped/optimapped/internal/llm"
)

// Technique is the structured recommendation embedded in a reply.
type Technique struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Benefit     string   `json:"benefit"`
	Steps       []string `json:"steps"`
	Science     string   `json:"science"`
}

// TechniqueSchema describes the fenced technique block.
var TechniqueSchema = &llm.Schema{
	Name:        "focus-technique",
	Description: "One recommended focus technique",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":        map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
			"benefit":     map[string]any{"type": "string"},
			"steps": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"science": map[string]any{"type": "string"},
		},
		"required": []any{"name", "description", "steps"},
	},
}

var fenceRE = regexp.MustCompile("(?s)```(technique|json)[ \\t]*\\r?\\n(.*?)```")

// Parse splits a reply into its prose and the technique block. The
// block is removed from the returned text only when it yields a valid
// technique; otherwise the reply is returned as is with a nil technique.
func Parse(text string) (string, *Technique) {
	loc := fenceRE.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, nil
	}
	body := text[loc[4]:loc[5]]

	repaired, err := jsonrepair.JSONRepair(strings.TrimSpace(body))
	if err != nil {
		return text, nil
	}
	if err := llm.Validate(TechniqueSchema, json.RawMessage(repaired)); err != nil {
		return text, nil
	}
	var t Technique
	if err := json.Unmarshal([]byte(repaired), &t); err != nil {
		return text, nil
	}

	prose := strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
	return prose, &t
}

// Markdown renders t for the insight panel.
func (t *Technique) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Try: %s\n\n", t.Name)
	if t.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", t.Description)
	}
	if t.Benefit != "" {
		fmt.Fprintf(&b, "**Why it helps:** %s\n\n", t.Benefit)
	}
	for i, s := range t.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	if t.Science != "" {
		fmt.Fprintf(&b, "\n_%s_\n", t.Science)
	}
	return b.String()
}

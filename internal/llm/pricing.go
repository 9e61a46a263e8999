package llm

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

// LookupCost returns pricing for a model ID, or nil when unknown.
// OpenRouter IDs are matched with their vendor prefix stripped.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	for i := len(modelID) - 1; i >= 0; i-- {
		if modelID[i] == '/' {
			if c, ok := modelCosts[modelID[i+1:]]; ok {
				return &c
			}
			break
		}
	}
	return nil
}

// modelCosts covers the models the app defaults to and their siblings.
var modelCosts = map[string]ModelCost{
	"gemini-2.0-flash":          {0.1, 0.4},
	"gemini-2.0-flash-001":      {0.1, 0.4},
	"gemini-2.0-flash-lite":     {0.075, 0.3},
	"gemini-2.5-flash":          {0.3, 2.5},
	"gemini-2.5-flash-lite":     {0.1, 0.4},
	"gemini-2.5-pro":            {1.25, 10},
	"gpt-4o":                    {2.5, 10},
	"gpt-4o-mini":               {0.15, 0.6},
	"gpt-4.1-mini":              {0.4, 1.6},
	"gpt-4.1-nano":              {0.1, 0.4},
	"claude-haiku-4-5":          {1, 5},
	"claude-haiku-4-5-20251001": {1, 5},
	"claude-sonnet-4-20250514":  {3, 15},
	"claude-sonnet-4-5":         {3, 15},
	"mock":                      {0, 0},
}

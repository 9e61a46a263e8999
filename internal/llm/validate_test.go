package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func techniqueSchema() *Schema {
	return &Schema{
		Name: "validate-technique",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":    map[string]any{"type": "string", "minLength": 1},
				"minutes": map[string]any{"type": "integer", "minimum": 1},
				"kind":    map[string]any{"type": "string", "enum": []any{"task", "break", "habit"}},
				"steps": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"name", "steps"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"complete", `{"name":"Pomodoro","minutes":25,"kind":"task","steps":["a","b"]}`, false},
		{"optional fields omitted", `{"name":"Pomodoro","steps":[]}`, false},
		{"missing required", `{"name":"Pomodoro"}`, true},
		{"wrong type", `{"name":"Pomodoro","minutes":"25","steps":[]}`, true},
		{"enum violation", `{"name":"Pomodoro","kind":"nap","steps":[]}`, true},
		{"wrong item type", `{"name":"Pomodoro","steps":[1,2]}`, true},
		{"malformed", `{name: Pomodoro}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(techniqueSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %T", err)
				}
			}
		})
	}
}

func TestValidateNilSchema(t *testing.T) {
	if err := Validate(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("nil schema should accept anything, got %v", err)
	}
}

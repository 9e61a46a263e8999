package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var compiled sync.Map // schema name -> *jsonschema.Schema

// Validate checks raw JSON against s. It returns *ErrInvalidResponse on
// malformed JSON or a schema violation. A nil schema accepts anything.
func Validate(s *Schema, raw json.RawMessage) error {
	return validateResponse(s, raw)
}

func validateResponse(s *Schema, raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	sch, err := compileSchema(s)
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	if err := sch.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("schema %s: %w", s.Name, err)}
	}
	return nil
}

func compileSchema(s *Schema) (*jsonschema.Schema, error) {
	if c, ok := compiled.Load(s.Name); ok {
		return c.(*jsonschema.Schema), nil
	}

	// The compiler wants decoded JSON values, so round-trip the Go map.
	def, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", s.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", s.Name, err)
	}

	url := "mem://" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", s.Name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", s.Name, err)
	}
	compiled.Store(s.Name, sch)
	return sch, nil
}

package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates text from a language model.
type Provider interface {
	// Generate sends req and returns the model's output. When req.Schema
	// is set the output is validated JSON in Response.Content.
	Generate(ctx context.Context, req Request) (*Response, error)

	ModelID() string
}

// Request is one prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema requests structured output. Nil means free text.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// UserPrompt builds a single-turn request.
func UserPrompt(prompt string, maxTokens int) Request {
	return Request{
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens: maxTokens,
	}
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a JSON Schema the response must satisfy.
type Schema struct {
	// Name must be unique per definition; compiled schemas are cached by it.
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the model output.
type Response struct {
	// Text is the raw output as returned by the vendor.
	Text string

	// Content is Text as JSON. It is only set when the request carried
	// a Schema and the output validated.
	Content json.RawMessage

	Usage      Usage
	Model      string
	StopReason string // "end" or "max_tokens"
}

// newResponse fills Text and, for schema requests, validates and fills
// Content. A schema request cut off by the token limit is an error.
func newResponse(req Request, text, stopReason string) (*Response, error) {
	resp := &Response{Text: text, StopReason: stopReason}
	if req.Schema == nil {
		return resp, nil
	}
	if stopReason == "max_tokens" {
		return nil, &ErrMaxTokensExceeded{Content: json.RawMessage(text)}
	}
	raw := json.RawMessage(strings.TrimSpace(text))
	if err := validateResponse(req.Schema, raw); err != nil {
		return nil, err
	}
	resp.Content = raw
	return resp, nil
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

package llm

import (
	"context"
	"sync"
)

// MockResponse is one scripted reply.
type MockResponse struct {
	Text  string
	Usage Usage
	Err   error
}

// MockProvider replays scripted replies in order and records requests.
// With no scripted replies left it falls back to Default, and when that
// is empty it reports the provider as unavailable.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     []Request

	// Default answers every request once the script is exhausted.
	Default string
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	var next MockResponse
	switch {
	case len(m.responses) > 0:
		next = m.responses[0]
		m.responses = m.responses[1:]
	case m.Default != "":
		next = MockResponse{Text: m.Default}
	default:
		next = MockResponse{Err: &ErrProviderUnavailable{}}
	}
	m.mu.Unlock()

	if next.Err != nil {
		return nil, next.Err
	}
	resp, err := newResponse(req, next.Text, "end")
	if err != nil {
		return nil, err
	}
	resp.Usage = next.Usage
	resp.Model = "mock"
	return resp, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// Push appends scripted replies.
func (m *MockProvider) Push(rs ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, rs...)
}

// Calls returns a copy of the recorded requests.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// MockInsight is the reply the mock provider gives when run from the
// command line, so the insight panel can be exercised offline.
const MockInsight = "Your map leans on long work blocks with few recovery points. " +
	"Adding structured breaks should lift the weakest category first.\n\n" +
	"```technique\n" +
	`{"name":"Pomodoro Technique",` +
	`"description":"Work in focused 25 minute intervals separated by short breaks.",` +
	`"benefit":"Keeps attention fresh and makes distractions easier to postpone.",` +
	`"steps":["Pick one task","Set a 25 minute timer","Work until it rings","Take a 5 minute break","Every fourth round, rest 20 minutes"],` +
	`"science":"Short, regular breaks reduce vigilance decrement during sustained attention tasks."}` +
	"\n```"

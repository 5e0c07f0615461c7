package llm

import (
	"context"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Text  string
	Usage Usage
	Err   error
}

// MockProvider is a deterministic Provider for testing and offline use.
// It returns canned responses in FIFO order and records all requests.
// When the queue is empty it falls back to Fallback, if set.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request

	// Fallback produces a response once the queue is drained.
	Fallback func(Request) MockResponse
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// NewDemoProvider returns a MockProvider that answers every request with
// DemoResponse. It backs the "mock" provider for offline practice.
func NewDemoProvider() *MockProvider {
	return &MockProvider{Fallback: DemoResponse}
}

// Generate returns the next canned response. With an empty queue and no
// Fallback it fails with a GenerationError.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)

	var resp MockResponse
	switch {
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
	case m.Fallback != nil:
		resp = m.Fallback(req)
	default:
		m.mu.Unlock()
		return nil, &GenerationError{Message: "mock provider has no responses queued"}
	}
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Text:       resp.Text,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

const (
	demoQuestion = `Some people believe that universities should focus on preparing students for employment, while others think their main role is to broaden knowledge for its own sake.

Discuss both views and give your own opinion.`

	demoEvaluation = `{
  "bandScores": {"overall": 6.0, "TR": 6.0, "CC": 6.0, "GRA": 5.5, "LR": 6.5},
  "score": 6.0,
  "summary": "A clear response with a relevant position; develop the second view further.",
  "overallSuggestions": ["Support each main idea with a specific example.", "Vary sentence openings."],
  "strengths": ["Clear position throughout."],
  "weaknesses": ["Some grammar slips in complex sentences."],
  "errors": []
}`
)

// DemoResponse answers JSON requests with a fixed evaluation and everything
// else with a fixed question.
func DemoResponse(req Request) MockResponse {
	if req.JSON {
		return MockResponse{Text: demoEvaluation}
	}
	return MockResponse{Text: demoQuestion}
}

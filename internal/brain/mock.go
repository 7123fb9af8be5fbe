package brain

import "context"

// MockBackend is a deterministic generation backend for LLM_PROVIDER=mock
// and tests.
type MockBackend struct {
	Reply string
}

func NewMockBackend() *MockBackend { return &MockBackend{} }

func (m *MockBackend) Name() string { return "mock" }

func (m *MockBackend) Generate(_ context.Context, prompt string, _ int) (string, error) {
	if m.Reply != "" {
		return m.Reply, nil
	}
	return "mock_reply: " + prompt, nil
}

package oracle

import "context"

// MockClient implements Client for testing with canned responses.
type MockClient struct {
	Response  string
	Err       error
	ModelName string

	// LastRequest records the most recent request for assertions.
	LastRequest *CompletionRequest
	Calls       int
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

func (m *MockClient) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.Calls++
	m.LastRequest = &req
	if m.Err != nil {
		return nil, m.Err
	}
	return &CompletionResponse{
		Content:    m.Response,
		StopReason: "stop",
		Usage:      TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}, nil
}

package oracle

import "context"

// Message is a single chat message sent to the scoring service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describes one scoring request.
type CompletionRequest struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// TokenUsage reports token accounting from the scoring service.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResponse carries the raw text returned by the scoring service.
type CompletionResponse struct {
	Content    string
	StopReason string
	Usage      TokenUsage
}

// Client is a scoring oracle: it sends one completion request and returns
// the raw response text. Implementations must not retry on their own unless
// explicitly decorated (see NewRetryClient).
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Model() string
}

// Config configures an HTTP-based oracle client.
type Config struct {
	APIKey           string
	BaseURL          string
	Timeout          int // seconds; 0 means the client default
	Headers          map[string]string
	MaxResponseBytes int64 // 0 means unlimited
}

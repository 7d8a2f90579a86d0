package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	guarderrors "bankguard/internal/errors"
	"bankguard/internal/httpclient"
	"bankguard/internal/logging"
)

// OpenAI API compatible client
type openaiClient struct {
	model            string
	apiKey           string
	baseURL          string
	httpClient       *http.Client
	logger           *logging.Logger
	headers          map[string]string
	maxResponseBytes int64
}

// NewOpenAIClient constructs an oracle client that speaks the OpenAI-compatible
// chat completions API using the provided configuration.
func NewOpenAIClient(model string, config Config, logger *logging.Logger) Client {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	timeout := 120 * time.Second
	if config.Timeout > 0 {
		timeout = time.Duration(config.Timeout) * time.Second
	}

	return &openaiClient{
		model:            model,
		apiKey:           config.APIKey,
		baseURL:          baseURL,
		httpClient:       httpclient.New(timeout),
		logger:           logging.OrNop(logger).With("component", "oracle"),
		headers:          config.Headers,
		maxResponseBytes: config.MaxResponseBytes,
	}
}

// Model returns the model name used by this client.
func (c *openaiClient) Model() string {
	return c.model
}

func (c *openaiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	oaiReq := map[string]any{
		"model":       c.model,
		"messages":    req.Messages,
		"temperature": req.Temperature,
		"stream":      false,
	}
	if req.MaxTokens > 0 {
		oaiReq["max_tokens"] = req.MaxTokens
	}

	body, err := json.Marshal(oaiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	c.logger.Debug("oracle request", "url", endpoint, "model", c.model, "bytes", len(body))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("oracle request failed", "error", err)
		return nil, wrapRequestError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := httpclient.ReadAllWithLimit(resp.Body, c.maxResponseBytes)
	if err != nil {
		if httpclient.IsResponseTooLarge(err) {
			return nil, guarderrors.NewPermanentError(err, "oracle response exceeded size limit")
		}
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("oracle response", "status", resp.StatusCode, "bytes", len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mapHTTPError(resp.StatusCode, respBody, resp.Header)
	}

	var oaiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage TokenUsage `json:"usage"`
		Error *struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(respBody, &oaiResp); err != nil {
		c.logger.Debug("failed to decode oracle envelope", "error", err)
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if oaiResp.Error != nil && oaiResp.Error.Message != "" {
		errMsg := oaiResp.Error.Message
		if oaiResp.Error.Type != "" {
			errMsg = fmt.Sprintf("%s: %s", oaiResp.Error.Type, oaiResp.Error.Message)
		}
		return nil, mapHTTPError(resp.StatusCode, []byte(errMsg), resp.Header)
	}

	if len(oaiResp.Choices) == 0 {
		return nil, guarderrors.NewTransientError(errors.New("no choices in response"), "oracle returned an empty response")
	}

	return &CompletionResponse{
		Content:    strings.TrimSpace(oaiResp.Choices[0].Message.Content),
		StopReason: oaiResp.Choices[0].FinishReason,
		Usage:      oaiResp.Usage,
	}, nil
}

func wrapRequestError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return guarderrors.NewTransientError(err, fmt.Sprintf("oracle request failed: %v", err))
}

func mapHTTPError(status int, body []byte, header http.Header) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 512 {
		msg = msg[:512]
	}
	base := fmt.Errorf("oracle returned status %d: %s", status, msg)

	if guarderrors.IsTransientHTTPStatus(status) {
		transient := &guarderrors.TransientError{Err: base, StatusCode: status, Message: base.Error()}
		if ra := header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				transient.RetryAfter = secs
			}
		}
		return transient
	}
	return &guarderrors.PermanentError{Err: base, StatusCode: status, Message: base.Error()}
}

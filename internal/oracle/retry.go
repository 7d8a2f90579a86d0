package oracle

import (
	"context"

	guarderrors "bankguard/internal/errors"
	"bankguard/internal/logging"
)

// retryClient wraps an oracle client with bounded retry logic for
// transient faults. The wrapped client itself never retries.
type retryClient struct {
	underlying  Client
	retryConfig guarderrors.RetryConfig
	logger      *logging.Logger
}

var _ Client = (*retryClient)(nil)

// NewRetryClient wraps an oracle client with exponential-backoff retries.
// Permanent faults (auth failures, bad requests) are returned immediately.
func NewRetryClient(client Client, retryConfig guarderrors.RetryConfig, logger *logging.Logger) Client {
	return &retryClient{
		underlying:  client,
		retryConfig: retryConfig,
		logger:      logging.OrNop(logger).With("component", "oracle-retry"),
	}
}

func (c *retryClient) Model() string {
	return c.underlying.Model()
}

func (c *retryClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	return guarderrors.RetryWithResult(ctx, c.retryConfig, func(ctx context.Context) (*CompletionResponse, error) {
		return c.underlying.Complete(ctx, req)
	}, c.logger)
}

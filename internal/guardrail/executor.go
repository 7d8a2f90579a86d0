package guardrail

import (
	"context"
	"errors"

	"bankguard/internal/logging"
	"bankguard/internal/oracle"
)

// Legacy error strings kept for callers that consume the plain-text entry
// point. Structured callers should inspect the OracleError instead.
const (
	serviceFailureText = "Error: Guardrail call failed."
	parseFailureText   = "Error: Could not parse response as JSON."
)

const defaultMaxTokens = 1500

// Result is a successful evaluation: the verdict plus the score record it
// was derived from and the raw oracle text.
type Result struct {
	Verdict Verdict
	Record  ScoreRecord
	Raw     string
}

// Executor runs combined guardrail checks for a question, answer, and
// reference context. It holds no per-evaluation state; concurrent calls are
// safe and independent.
type Executor struct {
	client    oracle.Client
	policy    Policy
	logger    *logging.Logger
	maxTokens int
}

// Option configures an Executor.
type Option func(*Executor)

// WithPolicy overrides the default threshold policy.
func WithPolicy(policy Policy) Option {
	return func(e *Executor) { e.policy = policy }
}

// WithMaxTokens bounds the oracle's output length.
func WithMaxTokens(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxTokens = n
		}
	}
}

// NewExecutor builds an executor around a scoring oracle client.
func NewExecutor(client oracle.Client, logger *logging.Logger, opts ...Option) *Executor {
	e := &Executor{
		client:    client,
		policy:    DefaultPolicy(),
		logger:    logging.OrNop(logger).With("component", "guardrail"),
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs the full pipeline for one request: build the combined
// prompt, call the oracle at temperature zero, decode the score record, and
// apply the policy. A failed oracle call or undecodable response returns a
// tagged *OracleError and no verdict.
func (e *Executor) Evaluate(ctx context.Context, req EvaluationRequest) (*Result, error) {
	prompt := BuildPrompt(req)

	resp, err := e.client.Complete(ctx, oracle.CompletionRequest{
		Messages:    []oracle.Message{{Role: "user", Content: prompt}},
		Temperature: 0,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		e.logger.Error("guardrail oracle call failed", "model", e.client.Model(), "error", err)
		return nil, newServiceFailure(err)
	}
	e.logger.Info("received combined guardrail response", "model", e.client.Model(), "tokens", resp.Usage.TotalTokens)

	record, err := ParseScoreRecord(resp.Content)
	if err != nil {
		e.logger.Error("could not parse guardrail response", "error", err, "response", resp.Content)
		return nil, err
	}

	verdict := e.policy.Evaluate(record)
	e.logger.Debug("guardrail verdict",
		"verdict", verdict,
		"groundedness", record.Groundedness,
		"toxicity", record.Toxicity,
		"profanity", record.Profanity)

	return &Result{Verdict: verdict, Record: record, Raw: resp.Content}, nil
}

// EvaluateText is the plain-text entry point. It returns one of the four
// verdict sentences, or a legacy "Error: ..." string when the oracle call or
// the response decode failed.
func (e *Executor) EvaluateText(ctx context.Context, question, answer, refContext string) string {
	result, err := e.Evaluate(ctx, EvaluationRequest{
		Question: question,
		Answer:   answer,
		Context:  refContext,
	})
	if err != nil {
		var oracleErr *OracleError
		if errors.As(err, &oracleErr) && oracleErr.Kind == ParseFailure {
			return parseFailureText
		}
		return serviceFailureText
	}
	return result.Verdict.Message()
}

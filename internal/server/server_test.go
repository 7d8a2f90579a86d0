package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankguard/internal/guardrail"
	"bankguard/internal/logging"
	"bankguard/internal/oracle"
)

const idealScores = `{
	"groundedness_score": 1,
	"toxicity_score": 0,
	"profanity_score": 0,
	"sensitive_topic_score": 0,
	"bias_score": 0,
	"defamation_and_reputation": 0,
	"neutral_and_balanced_tone": 1,
	"professional_language": 1
}`

func newTestServer(t *testing.T, client oracle.Client) *Server {
	t.Helper()
	executor := guardrail.NewExecutor(client, logging.Nop())
	return NewServer(executor, DefaultServerConfig(), logging.Nop())
}

func postEvaluate(t *testing.T, srv *Server, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/evaluate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestEvaluateEndpointSuccess(t *testing.T) {
	srv := newTestServer(t, &oracle.MockClient{Response: idealScores})

	rec := postEvaluate(t, srv, map[string]string{
		"question": "q", "answer": "a", "context": "c",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Verdict string                `json:"verdict"`
		Message string                `json:"message"`
		Scores  guardrail.ScoreRecord `json:"scores"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SafeAndGrounded", resp.Verdict)
	assert.Equal(t, "Answer is safe and grounded", resp.Message)
	assert.Equal(t, 1.0, resp.Scores.Groundedness)
}

func TestEvaluateEndpointServiceFailure(t *testing.T) {
	srv := newTestServer(t, &oracle.MockClient{Err: errors.New("oracle down")})

	rec := postEvaluate(t, srv, map[string]string{"answer": "a"})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "service_failure", resp.Kind)
}

func TestEvaluateEndpointParseFailure(t *testing.T) {
	srv := newTestServer(t, &oracle.MockClient{Response: "free text refusal"})

	rec := postEvaluate(t, srv, map[string]string{"answer": "a"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "parse_failure", resp.Kind)
}

func TestEvaluateEndpointBadRequest(t *testing.T) {
	srv := newTestServer(t, &oracle.MockClient{Response: idealScores})

	req := httptest.NewRequest(http.MethodPost, "/v1/evaluate", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &oracle.MockClient{Response: idealScores})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestMetricsExposed(t *testing.T) {
	srv := newTestServer(t, &oracle.MockClient{Response: idealScores})
	postEvaluate(t, srv, map[string]string{"answer": "a"})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bankguard_evaluations_total")
}

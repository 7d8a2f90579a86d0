package guardrail

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idealRecord() ScoreRecord {
	return ScoreRecord{
		Groundedness:           1,
		Toxicity:               0,
		Profanity:              0,
		SensitiveTopic:         0,
		Bias:                   0,
		DefamationReputation:   0,
		NeutralAndBalancedTone: 1,
		ProfessionalLanguage:   1,
	}
}

func TestPolicyDecisionTable(t *testing.T) {
	policy := DefaultPolicy()

	grounded := idealRecord()
	assert.Equal(t, VerdictSafeAndGrounded, policy.Evaluate(grounded))

	unsafe := idealRecord()
	unsafe.Toxicity = 0.5
	assert.Equal(t, VerdictSafetyViolation, policy.Evaluate(unsafe))

	ungrounded := idealRecord()
	ungrounded.Groundedness = 0.5
	assert.Equal(t, VerdictNotGrounded, policy.Evaluate(ungrounded))

	both := idealRecord()
	both.Groundedness = 0
	both.Profanity = 1
	assert.Equal(t, VerdictBothFailed, policy.Evaluate(both))
}

func TestPolicyGroundednessBoundary(t *testing.T) {
	policy := DefaultPolicy()

	record := idealRecord()
	record.Groundedness = 0.9
	assert.Equal(t, VerdictSafeAndGrounded, policy.Evaluate(record))

	record.Groundedness = 0.8999
	assert.Equal(t, VerdictNotGrounded, policy.Evaluate(record))
}

func TestPolicyToxicityStrictlyLess(t *testing.T) {
	policy := DefaultPolicy()

	record := idealRecord()
	record.Toxicity = 0.2
	assert.Equal(t, VerdictSafetyViolation, policy.Evaluate(record))

	record.Toxicity = 0.19
	assert.Equal(t, VerdictSafeAndGrounded, policy.Evaluate(record))
}

func TestPolicyProfanityExactZero(t *testing.T) {
	policy := DefaultPolicy()

	record := idealRecord()
	record.Profanity = 0
	assert.Equal(t, VerdictSafeAndGrounded, policy.Evaluate(record))

	record.Profanity = 0.01
	assert.Equal(t, VerdictSafetyViolation, policy.Evaluate(record))
}

func TestPolicyToneMinimums(t *testing.T) {
	policy := DefaultPolicy()

	record := idealRecord()
	record.NeutralAndBalancedTone = 0.8
	record.ProfessionalLanguage = 0.8
	assert.Equal(t, VerdictSafeAndGrounded, policy.Evaluate(record))

	record.NeutralAndBalancedTone = 0.79
	assert.Equal(t, VerdictSafetyViolation, policy.Evaluate(record))
}

func TestPolicyDefaultsOnlyRecordFailsSafety(t *testing.T) {
	// A record built entirely from fail-safe defaults must never pass
	// safety, whatever the groundedness threshold says.
	record, err := ParseScoreRecord(`{"groundedness_score": 1.0}`)
	require.NoError(t, err)

	assert.Equal(t, VerdictSafetyViolation, DefaultPolicy().Evaluate(record))
}

func TestPolicyEvaluateIdempotent(t *testing.T) {
	policy := DefaultPolicy()
	record := idealRecord()
	record.Groundedness = 0.3

	first := policy.Evaluate(record)
	second := policy.Evaluate(record)
	assert.Equal(t, first, second)
	assert.Equal(t, VerdictNotGrounded, first)
}

func TestVerdictMessages(t *testing.T) {
	assert.Equal(t, "Answer is safe and grounded", VerdictSafeAndGrounded.Message())
	assert.Equal(t, "Safety is not followed", VerdictSafetyViolation.Message())
	assert.Equal(t, "Answer is not grounded", VerdictNotGrounded.Message())
	assert.Equal(t, "Failed groundedness and safety", VerdictBothFailed.Message())
}

func TestLoadPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("groundedness_min: 0.95\ntoxicity_max: 0.1\n"), 0o644))

	policy, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, 0.95, policy.GroundednessMin)
	assert.Equal(t, 0.1, policy.ToxicityMax)
	// untouched fields keep defaults
	assert.Equal(t, 0.8, policy.NeutralToneMin)
}

func TestLoadPolicyRejectsOutOfRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("groundedness_min: 1.5\n"), 0o644))

	_, err := LoadPolicy(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groundedness_min")
}

func TestLoadPolicyMissingFile(t *testing.T) {
	_, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	_, err = LoadPolicy("")
	require.Error(t, err)
}

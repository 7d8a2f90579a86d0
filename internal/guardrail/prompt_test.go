package guardrail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptContainsInputs(t *testing.T) {
	prompt := BuildPrompt(EvaluationRequest{
		Question: "What is the overdraft fee?",
		Answer:   "The overdraft fee may be up to $35.",
		Context:  "Overdraft fees may be charged up to $35 per occurrence.",
	})

	assert.Contains(t, prompt, "What is the overdraft fee?")
	assert.Contains(t, prompt, "The overdraft fee may be up to $35.")
	assert.Contains(t, prompt, "Overdraft fees may be charged up to $35 per occurrence.")
}

func TestBuildPromptRequestsEveryScoreKey(t *testing.T) {
	prompt := BuildPrompt(EvaluationRequest{Question: "q", Answer: "a", Context: "c"})

	for _, key := range []string{
		"groundedness_score",
		"toxicity_score",
		"profanity_score",
		"sensitive_topic_score",
		"bias_score",
		"defamation_and_reputation",
		"neutral_and_balanced_tone",
		"professional_language",
	} {
		assert.Contains(t, prompt, `"`+key+`"`, "prompt must request %s", key)
	}
	assert.Contains(t, prompt, "Output only the JSON object with no additional commentary")
}

func TestBuildPromptStatesRubricDirections(t *testing.T) {
	prompt := BuildPrompt(EvaluationRequest{Question: "q", Answer: "a", Context: "c"})

	// Groundedness rubric includes the modal-language requirement.
	assert.Contains(t, prompt, "exact modal language")
	// Direction is explicit for both polarities.
	assert.Contains(t, prompt, "1 for significant toxicity")
	assert.Contains(t, prompt, "1 for highly professional language")
}

func TestBuildPromptAcceptsEmptyInputs(t *testing.T) {
	prompt := BuildPrompt(EvaluationRequest{})
	assert.True(t, strings.Contains(prompt, "groundedness_score"))
	assert.NotEmpty(t, prompt)
}

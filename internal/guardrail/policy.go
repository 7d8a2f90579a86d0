package guardrail

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Verdict is the categorical classification of one evaluated answer.
type Verdict string

const (
	VerdictSafeAndGrounded Verdict = "SafeAndGrounded"
	VerdictSafetyViolation Verdict = "SafetyViolation"
	VerdictNotGrounded     Verdict = "NotGrounded"
	VerdictBothFailed      Verdict = "BothFailed"
)

// Message returns the user-facing sentence for a verdict.
func (v Verdict) Message() string {
	switch v {
	case VerdictSafeAndGrounded:
		return "Answer is safe and grounded"
	case VerdictSafetyViolation:
		return "Safety is not followed"
	case VerdictNotGrounded:
		return "Answer is not grounded"
	default:
		return "Failed groundedness and safety"
	}
}

// Policy holds the numeric thresholds applied to a ScoreRecord.
//
// The profanity test is not represented here: an answer passes it only with a
// profanity score of exactly zero, and that is a contract constant rather
// than a tunable threshold.
type Policy struct {
	GroundednessMin   float64 `yaml:"groundedness_min"`
	ToxicityMax       float64 `yaml:"toxicity_max"`
	SensitiveTopicMax float64 `yaml:"sensitive_topic_max"`
	BiasMax           float64 `yaml:"bias_max"`
	DefamationMax     float64 `yaml:"defamation_max"`
	NeutralToneMin    float64 `yaml:"neutral_tone_min"`
	ProfessionalMin   float64 `yaml:"professional_min"`
}

// DefaultPolicy returns the production thresholds.
func DefaultPolicy() Policy {
	return Policy{
		GroundednessMin:   0.9,
		ToxicityMax:       0.2,
		SensitiveTopicMax: 0.2,
		BiasMax:           0.2,
		DefamationMax:     0.2,
		NeutralToneMin:    0.8,
		ProfessionalMin:   0.8,
	}
}

// LoadPolicy loads threshold overrides from a YAML file.
func LoadPolicy(path string) (*Policy, error) {
	if path == "" {
		return nil, fmt.Errorf("policy path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}
	policy := DefaultPolicy()
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("decode policy: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &policy, nil
}

// Validate ensures every threshold lies in [0,1].
func (p Policy) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"groundedness_min", p.GroundednessMin},
		{"toxicity_max", p.ToxicityMax},
		{"sensitive_topic_max", p.SensitiveTopicMax},
		{"bias_max", p.BiasMax},
		{"defamation_max", p.DefamationMax},
		{"neutral_tone_min", p.NeutralToneMin},
		{"professional_min", p.ProfessionalMin},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > 1 {
			return fmt.Errorf("policy %s must be within [0,1], got %v", c.name, c.value)
		}
	}
	return nil
}

// Evaluate applies the policy to a score record and returns a verdict.
// It is a pure function of the record: deterministic, total, and defined
// for every possible record, including one built entirely from defaults.
func (p Policy) Evaluate(record ScoreRecord) Verdict {
	moderated := record.Groundedness >= p.GroundednessMin
	safety := record.Toxicity < p.ToxicityMax &&
		record.Profanity == 0 &&
		record.SensitiveTopic < p.SensitiveTopicMax &&
		record.Bias < p.BiasMax &&
		record.DefamationReputation < p.DefamationMax &&
		record.NeutralAndBalancedTone >= p.NeutralToneMin &&
		record.ProfessionalLanguage >= p.ProfessionalMin

	switch {
	case moderated && safety:
		return VerdictSafeAndGrounded
	case moderated && !safety:
		return VerdictSafetyViolation
	case !moderated && safety:
		return VerdictNotGrounded
	default:
		return VerdictBothFailed
	}
}

package guardrail

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ScoreRecord is the typed form of the oracle's multi-dimensional assessment.
// Values are taken as returned; the parser never clamps them to [0,1].
type ScoreRecord struct {
	Groundedness           float64 `json:"groundedness_score"`
	Toxicity               float64 `json:"toxicity_score"`
	Profanity              float64 `json:"profanity_score"`
	SensitiveTopic         float64 `json:"sensitive_topic_score"`
	Bias                   float64 `json:"bias_score"`
	DefamationReputation   float64 `json:"defamation_and_reputation"`
	NeutralAndBalancedTone float64 `json:"neutral_and_balanced_tone"`
	ProfessionalLanguage   float64 `json:"professional_language"`
}

// scoreField maps one canonical wire key to its fail-safe default and any
// accepted legacy spellings. Defaults are asymmetric on purpose: unknown
// groundedness reads as ungrounded, unknown hazard dimensions read as unsafe,
// unknown tone dimensions read as unprofessional.
type scoreField struct {
	key     string
	aliases []string
	def     float64
	assign  func(*ScoreRecord, float64)
}

var scoreFields = []scoreField{
	{key: "groundedness_score", def: 0,
		assign: func(r *ScoreRecord, v float64) { r.Groundedness = v }},
	{key: "toxicity_score", def: 1,
		assign: func(r *ScoreRecord, v float64) { r.Toxicity = v }},
	{key: "profanity_score", def: 1,
		assign: func(r *ScoreRecord, v float64) { r.Profanity = v }},
	{key: "sensitive_topic_score", def: 1,
		assign: func(r *ScoreRecord, v float64) { r.SensitiveTopic = v }},
	{key: "bias_score", def: 1,
		assign: func(r *ScoreRecord, v float64) { r.Bias = v }},
	{key: "defamation_and_reputation", aliases: []string{"Defamation_and_reputation"}, def: 1,
		assign: func(r *ScoreRecord, v float64) { r.DefamationReputation = v }},
	{key: "neutral_and_balanced_tone", aliases: []string{"Neutral_and_Balanced_Tone"}, def: 0,
		assign: func(r *ScoreRecord, v float64) { r.NeutralAndBalancedTone = v }},
	{key: "professional_language", aliases: []string{"Professional_Language"}, def: 0,
		assign: func(r *ScoreRecord, v float64) { r.ProfessionalLanguage = v }},
}

// ParseScoreRecord decodes raw oracle text into a ScoreRecord. Missing keys
// take their fail-safe defaults. Text that cannot be decoded as a JSON
// object, even after fence stripping and mechanical repair, is a
// ParseFailure carrying the raw text.
func ParseScoreRecord(raw string) (ScoreRecord, error) {
	text := stripCodeFences(raw)

	values, err := decodeObject(text)
	if err != nil {
		// LLMs routinely emit slightly malformed JSON; attempt repair
		// before giving up.
		repaired, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil {
			return ScoreRecord{}, newParseFailure(err, raw)
		}
		values, err = decodeObject(repaired)
		if err != nil {
			return ScoreRecord{}, newParseFailure(err, raw)
		}
	}

	var record ScoreRecord
	for _, field := range scoreFields {
		field.assign(&record, lookupScore(values, field))
	}
	return record, nil
}

func decodeObject(text string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("decode score record: %w", err)
	}
	return values, nil
}

func lookupScore(values map[string]any, field scoreField) float64 {
	if v, ok := values[field.key]; ok {
		if n, ok := toFloat(v); ok {
			return n
		}
	}
	for _, alias := range field.aliases {
		if v, ok := values[alias]; ok {
			if n, ok := toFloat(v); ok {
				return n
			}
		}
	}
	return field.def
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// stripCodeFences removes a surrounding markdown code fence, if any.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop a language tag such as "json" on the fence line.
		first := strings.TrimSpace(trimmed[:idx])
		if len(first) <= 10 && !strings.ContainsAny(first, "{}") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

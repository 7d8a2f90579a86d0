package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full process configuration, resolved once at startup and
// passed explicitly into constructors.
type Config struct {
	// Scoring oracle
	APIKey           string
	Model            string
	BaseURL          string
	TimeoutSeconds   int
	MaxTokens        int
	MaxResponseBytes int64
	MaxRetries       int // 0 disables the retry decorator

	// Optional YAML threshold overrides
	PolicyFile string

	// HTTP server
	Addr string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load resolves configuration from the process environment. A missing
// scoring-service credential is a startup error, not a per-call one.
func Load() (*Config, error) {
	v := viper.New()

	// Environment names kept compatible with the original deployment.
	bindings := map[string]string{
		"api_key":            "OPENAI_API_KEY",
		"model":              "GPT_MODEL",
		"base_url":           "OPENAI_BASE_URL",
		"timeout_seconds":    "GUARDRAIL_TIMEOUT_SECONDS",
		"max_tokens":         "GUARDRAIL_MAX_TOKENS",
		"max_response_bytes": "GUARDRAIL_MAX_RESPONSE_BYTES",
		"max_retries":        "GUARDRAIL_MAX_RETRIES",
		"policy_file":        "GUARDRAIL_POLICY_FILE",
		"addr":               "GUARDRAIL_ADDR",
		"log_level":          "LOG_LEVEL",
		"log_format":         "LOG_FORMAT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("timeout_seconds", 120)
	v.SetDefault("max_tokens", 1500)
	v.SetDefault("max_response_bytes", 1<<20)
	v.SetDefault("max_retries", 0)
	v.SetDefault("addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	cfg := &Config{
		APIKey:           strings.TrimSpace(v.GetString("api_key")),
		Model:            v.GetString("model"),
		BaseURL:          v.GetString("base_url"),
		TimeoutSeconds:   v.GetInt("timeout_seconds"),
		MaxTokens:        v.GetInt("max_tokens"),
		MaxResponseBytes: v.GetInt64("max_response_bytes"),
		MaxRetries:       v.GetInt("max_retries"),
		PolicyFile:       v.GetString("policy_file"),
		Addr:             v.GetString("addr"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set in environment variables")
	}
	return cfg, nil
}

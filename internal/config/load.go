package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables with the TRIAGE_ prefix.
// Nested keys map with underscores, e.g. TRIAGE_SERVER_PORT, or
// TRIAGE_LLM_GEMINI_API_KEY. Returns a populated Config struct or an
// error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults; everything except the API key can run on them.
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_origins", []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"http://localhost:8080",
	})
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.5-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("task.worker_count", 4)
	v.SetDefault("task.queue_size", 100)
	v.SetDefault("task.retention_minutes", 30)

	v.SetEnvPrefix("TRIAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm"    validate:"required"`
	Task   TaskConfig   `mapstructure:"task"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// CORSOrigins lists the origins allowed to call the API from a browser.
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`

	// MaxRetries bounds how often a transient Gemini API error is retried.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0"`

	// RetryDelaySeconds is the base delay for exponential backoff between retries.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// TaskConfig contains settings for the background task manager.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size"   validate:"required,gt=0"`

	// RetentionMinutes is how long finished tasks stay queryable before
	// eviction. Zero keeps them for the life of the process.
	RetentionMinutes int `mapstructure:"retention_minutes" validate:"gte=0"`
}

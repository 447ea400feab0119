package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Practice PracticeConfig `mapstructure:"practice" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig selects the storage backend.
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	// URL is a PostgreSQL connection string or a SQLite DSN
	// (for example "file:wordfind.db").
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains the settings for the catalog administration API.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=1440"`
	AdminUsername        string `mapstructure:"admin_username" validate:"required"`
	// AdminPasswordHash is a bcrypt hash, see cmd/hash-generator.
	AdminPasswordHash string `mapstructure:"admin_password_hash" validate:"required"`
}

// PracticeConfig tunes the practice session engine.
type PracticeConfig struct {
	// MaxAttempts is the number of answers a user may give to one question
	// before the model answer is revealed.
	MaxAttempts int `mapstructure:"max_attempts" validate:"required,gte=1,lte=10"`
	// ExerciseOrder is "catalog" (deterministic) or "random".
	ExerciseOrder string `mapstructure:"exercise_order" validate:"required,oneof=catalog random"`
	// RandomSeed seeds the random order; 0 seeds from the clock.
	RandomSeed int64 `mapstructure:"random_seed"`
}

// LLMConfig contains the optional question suggestion settings. Suggestions
// are disabled when GeminiAPIKey is empty.
type LLMConfig struct {
	GeminiAPIKey string  `mapstructure:"gemini_api_key"`
	ModelName    string  `mapstructure:"model_name" validate:"required_with=GeminiAPIKey"`
	Temperature  float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	// MaxRetries bounds the retries after a transient API failure.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0,lte=5"`
	// RetryDelaySeconds is the base of the exponential backoff between retries.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=30"`
}

// SuggestionsEnabled reports whether an LLM is configured.
func (c LLMConfig) SuggestionsEnabled() bool {
	return c.GeminiAPIKey != ""
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. WORDFIND_SERVER_PORT.
const EnvPrefix = "WORDFIND"

// defaults lists every configuration key with its default value. Keys with a
// nil default are still registered so that they can be set from the environment.
var defaults = map[string]any{
	"server.port":                 8080,
	"server.log_level":            "info",
	"database.driver":             "postgres",
	"database.url":                nil,
	"auth.jwt_secret":             nil,
	"auth.token_lifetime_minutes": 60,
	"auth.admin_username":         "admin",
	"auth.admin_password_hash":    nil,
	"practice.max_attempts":       2,
	"practice.exercise_order":     "catalog",
	"practice.random_seed":        0,
	"llm.gemini_api_key":          nil,
	"llm.model_name":              "gemini-2.0-flash",
	"llm.temperature":             0.4,
	"llm.max_retries":             2,
	"llm.retry_delay_seconds":     1,
}

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	return load(v)
}

// LoadFile is Load with an explicit config file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		if value != nil {
			v.SetDefault(key, value)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key := range defaults {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

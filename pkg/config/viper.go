package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads a config.toml from
// configDir (when non-empty), and binds environment variables with the
// GREENLOG_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (GREENLOG_API_LISTEN, GREENLOG_GENERATION_API_KEY, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file, when a directory was given.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	if configDir != "" {
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: GREENLOG_API_LISTEN, GREENLOG_STORAGE_DRIVER, etc.
	v.SetEnvPrefix("GREENLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// FromViper unmarshals the resolved viper state into a Config.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	// API
	v.SetDefault("api.listen", d.API.Listen)
	v.SetDefault("api.rate_limit.enabled", d.API.RateLimit.Enabled)
	v.SetDefault("api.rate_limit.max", d.API.RateLimit.Max)
	v.SetDefault("api.rate_limit.window_seconds", d.API.RateLimit.WindowSeconds)

	// Storage
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)
	v.SetDefault("storage.postgres_dsn", d.Storage.PostgresDSN)

	// Generation
	v.SetDefault("generation.upstream", d.Generation.Upstream)
	v.SetDefault("generation.model", d.Generation.Model)
	v.SetDefault("generation.api_key", d.Generation.APIKey)
	v.SetDefault("generation.temperature", d.Generation.Temperature)
	v.SetDefault("generation.max_tokens", d.Generation.MaxTokens)
	v.SetDefault("generation.timeout_seconds", d.Generation.TimeoutSeconds)

	// Event stream
	v.SetDefault("eventstream.provider", d.EventStream.Provider)
	v.SetDefault("eventstream.brokers", d.EventStream.Brokers)
	v.SetDefault("eventstream.topic", d.EventStream.Topic)
}

package config

// Config represents the greenlog service configuration. Values are resolved
// through viper with precedence: CLI flags > environment variables
// (GREENLOG_ prefix) > config.toml > defaults.
type Config struct {
	API         APIConfig         `mapstructure:"api"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Generation  GenerationConfig  `mapstructure:"generation"`
	EventStream EventStreamConfig `mapstructure:"eventstream"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Listen    string          `mapstructure:"listen"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds the per-client-address sliding window settings.
// The limiter applies only to the API surface, never to the pipeline itself.
type RateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	Max           int  `mapstructure:"max"`
	WindowSeconds int  `mapstructure:"window_seconds"`
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	// Driver is one of "sqlite", "postgres", or "inmemory".
	Driver      string `mapstructure:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// GenerationConfig holds settings for the external generation endpoint.
type GenerationConfig struct {
	Upstream       string  `mapstructure:"upstream"`
	Model          string  `mapstructure:"model"`
	APIKey         string  `mapstructure:"api_key"`
	Temperature    float64 `mapstructure:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// EventStreamConfig selects and configures the entry event publisher.
type EventStreamConfig struct {
	// Provider is "nop" or "kafka".
	Provider string   `mapstructure:"provider"`
	Brokers  []string `mapstructure:"brokers"`
	Topic    string   `mapstructure:"topic"`
}

package config

const (
	defaultAPIListen = ":8080"

	defaultRateLimitMax    = 30
	defaultRateLimitWindow = 60

	defaultStorageDriver = "sqlite"
	defaultSQLitePath    = ":memory:"

	defaultGenerationUpstream = "https://api.groq.com/openai/v1"
	defaultGenerationModel    = "llama-3.3-70b-versatile"
	defaultTemperature        = 0.8
	defaultMaxTokens          = 1800
	defaultTimeoutSeconds     = 30

	defaultEventStreamProvider = "nop"
	defaultEventStreamTopic    = "greenlog.entries"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Listen: defaultAPIListen,
			RateLimit: RateLimitConfig{
				Enabled:       false,
				Max:           defaultRateLimitMax,
				WindowSeconds: defaultRateLimitWindow,
			},
		},
		Storage: StorageConfig{
			Driver:     defaultStorageDriver,
			SQLitePath: defaultSQLitePath,
		},
		Generation: GenerationConfig{
			Upstream:       defaultGenerationUpstream,
			Model:          defaultGenerationModel,
			Temperature:    defaultTemperature,
			MaxTokens:      defaultMaxTokens,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		EventStream: EventStreamConfig{
			Provider: defaultEventStreamProvider,
			Topic:    defaultEventStreamTopic,
		},
	}
}

package api

// Config holds API server settings.
type Config struct {
	// ListenAddr is the address the server listens on (e.g. ":8080").
	ListenAddr string

	// RateLimit configures the per-client-address sliding window limiter.
	RateLimit RateLimitConfig
}

// RateLimitConfig holds the sliding window limiter settings. The limiter is
// applied to the API surface only; the pipeline has no concurrency limits of
// its own.
type RateLimitConfig struct {
	Enabled       bool
	Max           int
	WindowSeconds int
}

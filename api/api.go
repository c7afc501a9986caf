// Package api exposes the diary pipeline over HTTP.
package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"github.com/papercomputeco/greenlog/pkg/pipeline"
	"github.com/papercomputeco/greenlog/pkg/storage"
)

// ErrorResponse is the JSON error body for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server is the HTTP API server for the diary service.
type Server struct {
	config Config
	store  storage.Store
	pipe   *pipeline.Pipeline
	logger *zap.Logger
	app    *fiber.App
}

// NewServer creates a new API server. The store and pipeline are injected to
// allow sharing with other components and substituting fakes in tests.
func NewServer(config Config, store storage.Store, pipe *pipeline.Pipeline, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		store:  store,
		pipe:   pipe,
		logger: logger,
		app:    app,
	}

	app.Use(cors.New())

	if config.RateLimit.Enabled {
		app.Use("/api", limiter.New(limiter.Config{
			Max:                    config.RateLimit.Max,
			Expiration:             time.Duration(config.RateLimit.WindowSeconds) * time.Second,
			LimiterMiddleware:      limiter.SlidingWindow{},
			SkipSuccessfulRequests: false,
		}))
	}

	app.Get("/ping", s.handlePing)
	app.Get("/api/entries", s.handleListEntries)
	app.Get("/api/entries/:id", s.handleGetEntry)
	app.Get("/api/memories", s.handleListMemories)
	app.Post("/api/entries", s.handleCreateEntry)
	app.Delete("/api/entries/:id", s.handleDeleteEntry)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
		zap.Bool("rate_limit", s.config.RateLimit.Enabled),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

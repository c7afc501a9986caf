// Package servecmder provides the serve command for running the API server.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/greenlog/api"
	"github.com/papercomputeco/greenlog/pkg/config"
	"github.com/papercomputeco/greenlog/pkg/eventstream"
	eskafka "github.com/papercomputeco/greenlog/pkg/eventstream/kafka"
	esnop "github.com/papercomputeco/greenlog/pkg/eventstream/nop"
	"github.com/papercomputeco/greenlog/pkg/llm"
	"github.com/papercomputeco/greenlog/pkg/logger"
	"github.com/papercomputeco/greenlog/pkg/pipeline"
	"github.com/papercomputeco/greenlog/pkg/storage"
	"github.com/papercomputeco/greenlog/pkg/storage/inmemory"
	"github.com/papercomputeco/greenlog/pkg/storage/postgres"
	"github.com/papercomputeco/greenlog/pkg/storage/sqlite"
)

type ServeCommander struct {
	configDir       string
	listen          string
	storageDriver   string
	sqlitePath      string
	postgresDSN     string
	upstream        string
	model           string
	rateLimit       bool
	rateLimitMax    int
	rateLimitWindow int
	debug           bool

	cfg    *config.Config
	logger *zap.Logger
}

const serveLongDesc string = `Run the greenlog API server.

The server accepts diary posts, rewrites them as greentext via the configured
generation endpoint, and persists entries and extracted memories per device.

The generation credential is read from the GREENLOG_GENERATION_API_KEY
environment variable (or generation.api_key in config.toml).`

const serveShortDesc string = "Run the greenlog API server"

// serveFlagKeys lists the registry keys bound to viper for this command.
var serveFlagKeys = []string{
	config.FlagListen,
	config.FlagStorageDriver,
	config.FlagSQLite,
	config.FlagPostgresDSN,
	config.FlagUpstream,
	config.FlagModel,
	config.FlagRateLimit,
	config.FlagRateLimitMax,
	config.FlagRateLimitWindow,
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return err
			}

			config.BindRegisteredFlags(v, cmd, config.ServeFlags, serveFlagKeys)

			cmder.cfg, err = config.FromViper(v)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.configDir, "config", "c", "", "Directory containing config.toml")
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagStorageDriver, &cmder.storageDriver)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagPostgresDSN, &cmder.postgresDSN)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagUpstream, &cmder.upstream)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagModel, &cmder.model)
	config.AddBoolFlag(cmd, config.ServeFlags, config.FlagRateLimit, &cmder.rateLimit)
	config.AddIntFlag(cmd, config.ServeFlags, config.FlagRateLimitMax, &cmder.rateLimitMax)
	config.AddIntFlag(cmd, config.ServeFlags, config.FlagRateLimitWindow, &cmder.rateLimitWindow)

	return cmd
}

func (c *ServeCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	store, err := c.createStore()
	if err != nil {
		return err
	}
	defer store.Close()

	publisher, err := c.createPublisher()
	if err != nil {
		return err
	}
	defer publisher.Close()

	generator := llm.NewClient(llm.Config{
		BaseURL:     c.cfg.Generation.Upstream,
		Model:       c.cfg.Generation.Model,
		APIKey:      c.cfg.Generation.APIKey,
		Temperature: c.cfg.Generation.Temperature,
		MaxTokens:   c.cfg.Generation.MaxTokens,
		Timeout:     time.Duration(c.cfg.Generation.TimeoutSeconds) * time.Second,
	})

	if c.cfg.Generation.APIKey == "" {
		c.logger.Warn("no generation API key configured, all posts will use the fallback transform")
	}

	pipe := pipeline.New(store, generator, publisher, c.logger)

	apiConfig := api.Config{
		ListenAddr: c.cfg.API.Listen,
		RateLimit: api.RateLimitConfig{
			Enabled:       c.cfg.API.RateLimit.Enabled,
			Max:           c.cfg.API.RateLimit.Max,
			WindowSeconds: c.cfg.API.RateLimit.WindowSeconds,
		},
	}
	server := api.NewServer(apiConfig, store, pipe, c.logger)

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)

	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}

func (c *ServeCommander) createStore() (storage.Store, error) {
	switch c.cfg.Storage.Driver {
	case "sqlite":
		store, err := sqlite.NewStore(c.cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite store: %w", err)
		}
		c.logger.Info("using SQLite storage", zap.String("path", c.cfg.Storage.SQLitePath))
		return store, nil

	case "postgres":
		store, err := postgres.NewStore(context.Background(), c.cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL store: %w", err)
		}
		c.logger.Info("using PostgreSQL storage")
		return store, nil

	case "inmemory":
		c.logger.Info("using in-memory storage")
		return inmemory.NewStore(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver: %q (available: sqlite, postgres, inmemory)", c.cfg.Storage.Driver)
	}
}

func (c *ServeCommander) createPublisher() (eventstream.Publisher, error) {
	switch c.cfg.EventStream.Provider {
	case "kafka":
		if len(c.cfg.EventStream.Brokers) == 0 {
			return nil, fmt.Errorf("eventstream.brokers is required for the kafka provider")
		}
		c.logger.Info("publishing entry events to kafka",
			zap.Strings("brokers", c.cfg.EventStream.Brokers),
			zap.String("topic", c.cfg.EventStream.Topic),
		)
		return eskafka.NewPublisher(eskafka.Config{
			Brokers: c.cfg.EventStream.Brokers,
			Topic:   c.cfg.EventStream.Topic,
		}), nil

	case "nop", "":
		return esnop.NewPublisher(), nil

	default:
		return nil, fmt.Errorf("unknown eventstream provider: %q (available: nop, kafka)", c.cfg.EventStream.Provider)
	}
}

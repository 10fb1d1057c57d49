// Package main is the entry point for the quotevault service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsamuelsen/quotevault/internal/adapters/clients"
	"github.com/jsamuelsen/quotevault/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotevault/internal/adapters/http"
	"github.com/jsamuelsen/quotevault/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotevault/internal/adapters/storage"
	"github.com/jsamuelsen/quotevault/internal/app"
	"github.com/jsamuelsen/quotevault/internal/platform/config"
	"github.com/jsamuelsen/quotevault/internal/platform/logging"
	"github.com/jsamuelsen/quotevault/internal/platform/telemetry"
	"github.com/jsamuelsen/quotevault/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 6. Create the durable and session stores
	fileStore, err := storage.NewFileStore(storage.FileStoreConfig{
		DataDir: cfg.Storage.DataDir,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("creating file store: %w", err)
	}

	if err := healthRegistry.Register(fileStore); err != nil {
		return fmt.Errorf("registering file store health check: %w", err)
	}

	sessionStore := storage.NewMemorySessionStore()

	// 7. Create HTTP client and feed adapter (ACL pattern)
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Feed.BaseURL,
		ServiceName: cfg.Services.Feed.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	feedClient := acl.NewFeedClient(acl.FeedClientConfig{
		Client:        httpClient,
		CategoryLabel: cfg.Sync.CategoryLabel,
		Logger:        logger,
	})

	if err := healthRegistry.Register(feedClient); err != nil {
		return fmt.Errorf("registering feed health check: %w", err)
	}

	// 8. Create the quote store service and load durable state
	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Repository: fileStore,
		Session:    sessionStore,
		Logger:     logger,
	})

	if err := quoteService.Load(ctx); err != nil {
		return fmt.Errorf("loading quote store: %w", err)
	}

	transferService := app.NewTransferService(app.TransferServiceConfig{
		Store:  quoteService,
		Logger: logger,
	})

	// 9. Create and start the sync engine when enabled
	var syncHandler *handlers.SyncHandler

	if cfg.Sync.Enabled {
		syncEngine, err := app.NewSyncEngine(app.SyncEngineConfig{
			Store:     quoteService,
			Feed:      feedClient,
			Interval:  cfg.Sync.Interval,
			BatchSize: cfg.Sync.BatchSize,
			Logger:    logger,
		})
		if err != nil {
			return fmt.Errorf("creating sync engine: %w", err)
		}

		if err := syncEngine.Start(ctx); err != nil {
			return fmt.Errorf("starting sync engine: %w", err)
		}
		defer syncEngine.Stop()

		syncHandler = handlers.NewSyncHandler(syncEngine)
	}

	// 10. Watch the quotes file for external writes when enabled
	if cfg.Storage.Watch {
		watcher, err := storage.NewWatcher(storage.WatcherConfig{
			Path:   fileStore.QuotesPath(),
			Reload: quoteService.Reload,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("creating storage watcher: %w", err)
		}

		watcher.Start(ctx)
		defer watcher.Stop()
	}

	// 11. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	quoteHandler := handlers.NewQuoteHandler(quoteService)
	categoryHandler := handlers.NewCategoryHandler(quoteService)
	transferHandler := handlers.NewTransferHandler(transferService)

	// 12. Create HTTP server and router
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:          logger,
		AppConfig:       &cfg.App,
		HealthHandler:   healthHandler,
		QuoteHandler:    quoteHandler,
		CategoryHandler: categoryHandler,
		TransferHandler: transferHandler,
		SyncHandler:     syncHandler,
		Timeout:         http.DefaultRequestTimeout,
	})

	// 13. Start server (non-blocking)
	serverErr := server.Start()

	// 14. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}

package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotevault/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotevault/internal/platform/config"
	"github.com/jsamuelsen/quotevault/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// QuoteHandler handles quote endpoints.
	QuoteHandler *handlers.QuoteHandler

	// CategoryHandler handles category endpoints.
	CategoryHandler *handlers.CategoryHandler

	// TransferHandler handles export/import endpoints.
	TransferHandler *handlers.TransferHandler

	// SyncHandler handles sync endpoints. Optional; nil when the sync
	// engine is disabled.
	SyncHandler *handlers.SyncHandler

	// Timeout is the default request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. OpenTelemetry - tracing and metrics
//  4. Logging - request logging (skips health endpoints)
//  5. Timeout - request deadline on API routes
//
// Route groups:
//   - /-/ (internal): Health endpoints
//   - /api/v1/ (public API): Quote store endpoints
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		telemetry.Tracing(cfg.AppConfig.Name),
		telemetry.Middleware(cfg.AppConfig.Name),
		middleware.Logging(cfg.Logger),
	)

	// Health endpoints get no timeout so probes never race the deadline.
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	apiV1.Use(middleware.Timeout(timeout))

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(apiV1)
	}

	if cfg.CategoryHandler != nil {
		cfg.CategoryHandler.RegisterCategoryRoutes(apiV1)
	}

	if cfg.TransferHandler != nil {
		cfg.TransferHandler.RegisterTransferRoutes(apiV1)
	}

	if cfg.SyncHandler != nil {
		cfg.SyncHandler.RegisterSyncRoutes(apiV1)
	}
}

package benchmark

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotevault/internal/adapters/storage"
	"github.com/jsamuelsen/quotevault/internal/app"
	"github.com/jsamuelsen/quotevault/internal/ports"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

// createGinContext creates a Gin context for handler testing.
func createGinContext(w http.ResponseWriter, r *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = r
	return c
}

// setupQuoteService builds a loaded quote service over a temp-dir store.
func setupQuoteService(b *testing.B) *app.QuoteService {
	b.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	fileStore, err := storage.NewFileStore(storage.FileStoreConfig{
		DataDir: b.TempDir(),
		Logger:  logger,
	})
	if err != nil {
		b.Fatal(err)
	}

	svc := app.NewQuoteService(app.QuoteServiceConfig{
		Repository: fileStore,
		Session:    storage.NewMemorySessionStore(),
		Logger:     logger,
	})
	if err := svc.Load(context.Background()); err != nil {
		b.Fatal(err)
	}

	return svc
}

// BenchmarkLivenessHandler measures the performance of the liveness endpoint.
// This is a critical path for Kubernetes probes and should be extremely fast.
func BenchmarkLivenessHandler(b *testing.B) {
	registry := ports.NewHealthRegistry()
	buildInfo := handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z")
	handler := handlers.NewHealthHandler(registry, buildInfo)
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Liveness(c)
	}
}

// BenchmarkRandomQuoteHandler measures a full selection round trip: filter,
// draw, session write, and JSON response.
func BenchmarkRandomQuoteHandler(b *testing.B) {
	handler := handlers.NewQuoteHandler(setupQuoteService(b))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/random", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.NewRandom(c)
	}
}

// BenchmarkListQuotesHandler measures listing with a category filter applied.
func BenchmarkListQuotesHandler(b *testing.B) {
	handler := handlers.NewQuoteHandler(setupQuoteService(b))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes?category=Motivation", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.List(c)
	}
}

// BenchmarkSelectQuote measures the service-level selection path without
// HTTP overhead.
func BenchmarkSelectQuote(b *testing.B) {
	svc := setupQuoteService(b)
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := svc.SelectQuote(ctx, "all"); err != nil {
			b.Fatal(err)
		}
	}
}

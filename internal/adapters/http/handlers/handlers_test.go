package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotevault/internal/adapters/storage"
	"github.com/jsamuelsen/quotevault/internal/app"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestStore builds a loaded QuoteService over a temp-dir file store.
func newTestStore(t *testing.T) *app.QuoteService {
	t.Helper()

	fileStore, err := storage.NewFileStore(storage.FileStoreConfig{
		DataDir: t.TempDir(),
		Logger:  discardLogger(),
	})
	require.NoError(t, err)

	svc := app.NewQuoteService(app.QuoteServiceConfig{
		Repository: fileStore,
		Session:    storage.NewMemorySessionStore(),
		Logger:     discardLogger(),
	})
	require.NoError(t, svc.Load(context.Background()))

	return svc
}

// newTestRouter registers the handler routes on a bare engine.
func newTestRouter(register func(*gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	register(engine.Group("/api/v1"))

	return engine
}

// doRequest performs a request against the engine and returns the recorder.
func doRequest(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	return rec
}

// get is shorthand for a body-less GET.
func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	return doRequest(engine, http.MethodGet, path, "")
}

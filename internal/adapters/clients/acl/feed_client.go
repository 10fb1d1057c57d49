// Package acl implements the Anti-Corruption Layer for the remote quote feed.
// It translates the feed's wire shape into domain quotes so the rest of the
// service never sees external DTOs.
package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/quotevault/internal/adapters/clients"
	"github.com/jsamuelsen/quotevault/internal/domain"
)

// feedPath is the collection endpoint on the remote feed.
const feedPath = "/posts"

// FeedClientConfig contains configuration for the feed client.
type FeedClientConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should be set to the feed endpoint.
	Client *clients.Client

	// CategoryLabel is assigned to every quote mapped from the feed. The
	// feed has no category concept of its own.
	CategoryLabel string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// FeedClient implements ports.QuoteFeed against a JSON collection API.
// Feed items carry a title field; the title becomes the quote text and
// every fetched quote gets the configured category label.
type FeedClient struct {
	client        *clients.Client
	categoryLabel string
	logger        *slog.Logger
}

// NewFeedClient creates a new feed client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewFeedClient(cfg FeedClientConfig) *FeedClient {
	if cfg.Client == nil {
		panic("FeedClient: Client is required")
	}

	label := cfg.CategoryLabel
	if label == "" {
		label = "Server"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &FeedClient{
		client:        cfg.Client,
		categoryLabel: label,
		logger:        logger,
	}
}

// feedItem is the external DTO for one feed entry.
// This is an internal type, never exposed outside the ACL.
type feedItem struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// FetchBatch retrieves at most limit quotes from the head of the feed.
// Implements ports.QuoteFeed.
func (c *FeedClient) FetchBatch(ctx context.Context, limit int) ([]domain.Quote, error) {
	if limit <= 0 {
		return nil, nil
	}

	path := fmt.Sprintf("%s?_limit=%d", feedPath, limit)
	c.logger.DebugContext(ctx, "fetching feed batch", slog.Int("limit", limit))

	resp, err := c.client.Get(ctx, path)
	if err != nil {
		return nil, domain.NewUnavailableError("quote-feed", err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp)
	}

	var items []feedItem

	err = json.NewDecoder(resp.Body).Decode(&items)
	if err != nil {
		return nil, domain.NewUnavailableError("quote-feed", fmt.Sprintf("decoding feed response: %v", err))
	}

	// The feed honors the limit parameter, but never trust it.
	if len(items) > limit {
		items = items[:limit]
	}

	quotes := make([]domain.Quote, 0, len(items))
	for _, item := range items {
		quotes = append(quotes, domain.Quote{
			Text:     item.Title,
			Category: c.categoryLabel,
		})
	}

	c.logger.DebugContext(ctx, "feed batch fetched", slog.Int("count", len(quotes)))

	return quotes, nil
}

// Push uploads the full local store to the feed. The feed echoes the payload
// back; the response body is irrelevant beyond the status code.
// Implements ports.QuoteFeed.
func (c *FeedClient) Push(ctx context.Context, quotes []domain.Quote) error {
	payload, err := json.Marshal(quotes)
	if err != nil {
		return fmt.Errorf("encoding quotes: %w", err)
	}

	resp, err := c.client.Post(ctx, feedPath, bytes.NewReader(payload))
	if err != nil {
		return domain.NewUnavailableError("quote-feed", err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.handleErrorResponse(resp)
	}

	c.logger.DebugContext(ctx, "pushed local store to feed", slog.Int("count", len(quotes)))

	return nil
}

// handleErrorResponse converts HTTP error responses to domain errors.
func (c *FeedClient) handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	c.logger.Warn("feed API error",
		slog.Int("status_code", resp.StatusCode),
		slog.String("body", string(body)),
	)

	return domain.NewUnavailableError("quote-feed", fmt.Sprintf("unexpected HTTP %d", resp.StatusCode))
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *FeedClient) Name() string {
	return "quote-feed"
}

// Check verifies feed connectivity with a single-item fetch.
// Implements ports.HealthChecker.
func (c *FeedClient) Check(ctx context.Context) error {
	resp, err := c.client.Get(ctx, feedPath+"?_limit=1")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	return nil
}

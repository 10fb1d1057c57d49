package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/platform/logging"
	"github.com/jsamuelsen/quotevault/internal/ports"
)

// ExportFileName is the artifact name for exported snapshots.
const ExportFileName = "quotes.json"

// TransferService serializes the store to a transferable JSON document and
// parses external documents back in.
type TransferService struct {
	store  *QuoteService
	logger *slog.Logger
}

// TransferServiceConfig contains dependencies for the transfer service.
type TransferServiceConfig struct {
	Store  *QuoteService
	Logger *slog.Logger
}

// NewTransferService creates a transfer service. Panics if Store is nil.
func NewTransferService(cfg TransferServiceConfig) *TransferService {
	if cfg.Store == nil {
		panic("TransferService: Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &TransferService{
		store:  cfg.Store,
		logger: logger.With(slog.String("component", "app.TransferService")),
	}
}

// Export renders the full store as a pretty-printed (2-space) JSON array,
// suitable for download as quotes.json.
func (t *TransferService) Export(ctx context.Context) ([]byte, error) {
	doc, err := json.MarshalIndent(t.store.Quotes(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export document: %w", err)
	}

	logging.FromContext(ctx).InfoContext(ctx, "store exported",
		slog.Int("bytes", len(doc)),
	)

	return doc, nil
}

// Import parses an external JSON document and appends its quotes to the
// store. The document must be a top-level array of {text, category}
// objects; entries are trimmed, and any entry left with an empty field
// rejects the whole document so a bad file never half-applies.
//
// Import appends rather than replaces: a replace would silently drop
// local-only quotes and can orphan the selected category.
//
// Returns the number of quotes appended.
func (t *TransferService) Import(ctx context.Context, doc []byte) (int, error) {
	var top any
	if err := json.Unmarshal(doc, &top); err != nil {
		return 0, domain.NewImportError(domain.ImportMalformedJSON, err)
	}

	if _, ok := top.([]any); !ok {
		return 0, domain.NewImportError(domain.ImportNotAnArray, nil)
	}

	var entries []domain.Quote
	if err := json.Unmarshal(doc, &entries); err != nil {
		return 0, domain.NewImportError(domain.ImportMalformedJSON, err)
	}

	sanitized := make([]domain.Quote, 0, len(entries))
	for i, entry := range entries {
		quote, err := domain.NewQuote(entry.Text, entry.Category)
		if err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}

		sanitized = append(sanitized, quote)
	}

	count, err := t.store.Append(ctx, sanitized, ports.ChangeImport)
	if err != nil {
		return 0, fmt.Errorf("appending imported quotes: %w", err)
	}

	logging.FromContext(ctx).InfoContext(ctx, "document imported",
		slog.Int("quotes", count),
	)

	return count, nil
}

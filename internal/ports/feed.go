package ports

import (
	"context"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

// QuoteFeed is the remote quote source the sync engine reconciles against.
//
// Adapters translate the remote wire shape into domain quotes; the engine
// never sees external DTOs.
type QuoteFeed interface {
	// FetchBatch retrieves at most limit quotes from the head of the feed.
	// Returns domain.ErrUnavailable when the feed is unreachable or the
	// response does not parse.
	FetchBatch(ctx context.Context, limit int) ([]domain.Quote, error)

	// Push uploads the full local store to the feed. Best-effort: the
	// response is ignored beyond success or failure, and a failure never
	// affects local state.
	Push(ctx context.Context, quotes []domain.Quote) error
}

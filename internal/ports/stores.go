// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrStorageCorrupt, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

// QuoteRepository is the durable store for the quote list and the selected
// category filter. Both survive process restarts.
//
// The application layer owns fallback policy: absence and corruption are
// reported as errors here, and the caller decides to seed instead of fail.
type QuoteRepository interface {
	// LoadQuotes returns the persisted quote sequence in insertion order.
	// Returns domain.ErrNotFound when nothing has been persisted yet and
	// domain.ErrStorageCorrupt when durable data exists but does not parse.
	LoadQuotes(ctx context.Context) ([]domain.Quote, error)

	// SaveQuotes writes the full quote sequence durably, replacing any
	// previous value. Called after every mutation so durable state always
	// matches in-memory state.
	SaveQuotes(ctx context.Context, quotes []domain.Quote) error

	// LoadSelectedCategory returns the persisted filter value.
	// Returns domain.ErrNotFound when no filter has ever been saved.
	LoadSelectedCategory(ctx context.Context) (string, error)

	// SaveSelectedCategory writes the filter value durably.
	SaveSelectedCategory(ctx context.Context, category string) error
}

// SessionStore holds state scoped to the current session: it survives
// arbitrary reads and writes within one process lifetime and is empty after
// a restart.
type SessionStore interface {
	// LoadLastShown returns the quote most recently displayed this session.
	// Returns domain.ErrNotFound when nothing has been shown yet.
	LoadLastShown(ctx context.Context) (domain.Quote, error)

	// SaveLastShown records the quote as the session's last displayed one,
	// overwriting any previous value.
	SaveLastShown(ctx context.Context, quote domain.Quote) error
}

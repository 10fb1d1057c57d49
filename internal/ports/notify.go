package ports

import (
	"context"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

// ChangeKind identifies what mutated the store.
type ChangeKind string

const (
	// ChangeAdd is a single quote appended by the user.
	ChangeAdd ChangeKind = "add"

	// ChangeImport is a batch appended from an imported document.
	ChangeImport ChangeKind = "import"

	// ChangeSync is a reconciliation pass that added or overwrote quotes.
	ChangeSync ChangeKind = "sync"

	// ChangeReload is an external rewrite of durable storage picked up by
	// the watcher.
	ChangeReload ChangeKind = "reload"
)

// StoreChange describes one store mutation for presentation purposes.
type StoreChange struct {
	Kind ChangeKind

	// Report carries merge counts for ChangeSync, zero otherwise.
	Report domain.SyncReport
}

// ChangeNotifier receives store-change notifications so the presentation
// layer can re-render and surface sync summaries. Implementations must be
// cheap and must not block; failures are the implementation's problem.
type ChangeNotifier interface {
	NotifyChange(ctx context.Context, change StoreChange)
}

// ChangeNotifierFunc adapts a function to the ChangeNotifier interface.
type ChangeNotifierFunc func(ctx context.Context, change StoreChange)

// NotifyChange implements ChangeNotifier.
func (f ChangeNotifierFunc) NotifyChange(ctx context.Context, change StoreChange) {
	f(ctx, change)
}

// NopNotifier discards all notifications. Useful as a default and in tests.
func NopNotifier() ChangeNotifier {
	return ChangeNotifierFunc(func(context.Context, StoreChange) {})
}

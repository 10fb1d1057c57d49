// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/platform/logging"
	"github.com/jsamuelsen/quotevault/internal/ports"
)

// QuoteService owns the canonical in-memory quote store and everything that
// reads or mutates it: seeding, manual adds, category filtering, random
// selection, and the text-keyed merge used by the sync engine.
//
// All read-modify-write sequences hold the internal mutex: HTTP handlers,
// the sync ticker, and the storage watcher all call in from their own
// goroutines. Persistence writes happen under the same mutex so durable
// state can never interleave with a concurrent mutation.
type QuoteService struct {
	repo     ports.QuoteRepository
	session  ports.SessionStore
	notifier ports.ChangeNotifier
	logger   *slog.Logger

	// randIndex picks a uniform index in [0, n). Injectable for tests.
	randIndex func(n int) int

	mu       sync.Mutex
	quotes   []domain.Quote
	selected string
}

// QuoteServiceConfig contains dependencies for the quote service.
type QuoteServiceConfig struct {
	Repository ports.QuoteRepository
	Session    ports.SessionStore

	// Notifier receives store-change events. Defaults to a no-op.
	Notifier ports.ChangeNotifier

	Logger *slog.Logger

	// RandIndex overrides the selection randomness. Defaults to rand.IntN.
	RandIndex func(n int) int
}

// NewQuoteService creates the quote service with the provided dependencies.
// Panics if Repository or Session is nil. Defaults logger to slog.Default().
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Repository == nil {
		panic("QuoteService: Repository is required")
	}

	if cfg.Session == nil {
		panic("QuoteService: Session is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	notifier := cfg.Notifier
	if notifier == nil {
		notifier = ports.NopNotifier()
	}

	randIndex := cfg.RandIndex
	if randIndex == nil {
		randIndex = rand.IntN
	}

	return &QuoteService{
		repo:      cfg.Repository,
		session:   cfg.Session,
		notifier:  notifier,
		logger:    logger.With(slog.String("component", "app.QuoteService")),
		randIndex: randIndex,
		selected:  domain.CategoryAll,
	}
}

// Load initializes the store from durable state. Absent or corrupt durable
// data is treated as a first run: the built-in seed set is installed and
// immediately persisted, so load never surfaces corruption to the caller.
//
// Calling Load twice without an intervening write yields the same sequence.
func (s *QuoteService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := logging.FromContext(ctx)

	quotes, err := s.repo.LoadQuotes(ctx)

	switch {
	case err == nil:
		s.quotes = quotes

	case domain.IsNotFound(err):
		logger.InfoContext(ctx, "no persisted quotes, seeding built-in set")

		s.quotes = domain.SeedQuotes()
		if saveErr := s.repo.SaveQuotes(ctx, s.quotes); saveErr != nil {
			return fmt.Errorf("persisting seed quotes: %w", saveErr)
		}

	case domain.IsStorageCorrupt(err):
		logger.WarnContext(ctx, "persisted quotes unreadable, falling back to seed set",
			slog.Any("error", err),
		)

		s.quotes = domain.SeedQuotes()
		if saveErr := s.repo.SaveQuotes(ctx, s.quotes); saveErr != nil {
			return fmt.Errorf("persisting seed quotes: %w", saveErr)
		}

	default:
		return fmt.Errorf("loading quotes: %w", err)
	}

	s.selected = s.loadSelectedLocked(ctx)

	logger.InfoContext(ctx, "quote store loaded",
		slog.Int("quotes", len(s.quotes)),
		slog.String("selected_category", s.selected),
	)

	return nil
}

// loadSelectedLocked restores the durable category filter, falling back to
// "all" when it was never saved or no longer matches any stored quote.
func (s *QuoteService) loadSelectedLocked(ctx context.Context) string {
	category, err := s.repo.LoadSelectedCategory(ctx)
	if err != nil {
		if !domain.IsNotFound(err) {
			logging.FromContext(ctx).WarnContext(ctx, "selected category unreadable, using default",
				slog.Any("error", err),
			)
		}

		return domain.CategoryAll
	}

	if category == domain.CategoryAll || s.hasCategoryLocked(category) {
		return category
	}

	return domain.CategoryAll
}

// Quotes returns a copy of the store in insertion order.
func (s *QuoteService) Quotes() []domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.quotes)
}

// Add validates and appends one quote, persists the store, and notifies.
// Duplicate text is allowed here; it only matters as a merge key during sync.
func (s *QuoteService) Add(ctx context.Context, text, category string) (domain.Quote, error) {
	quote, err := domain.NewQuote(text, category)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("validating quote: %w", err)
	}

	s.mu.Lock()
	s.quotes = append(s.quotes, quote)

	err = s.repo.SaveQuotes(ctx, s.quotes)
	s.mu.Unlock()

	if err != nil {
		return domain.Quote{}, fmt.Errorf("persisting quotes: %w", err)
	}

	logging.FromContext(ctx).InfoContext(ctx, "quote added",
		slog.String("category", quote.Category),
	)

	s.notifier.NotifyChange(ctx, ports.StoreChange{Kind: ports.ChangeAdd})

	return quote, nil
}

// Append adds already-validated quotes in bulk (import path), persists, and
// notifies with the given change kind. Returns the number appended.
func (s *QuoteService) Append(ctx context.Context, quotes []domain.Quote, kind ports.ChangeKind) (int, error) {
	if len(quotes) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	s.quotes = append(s.quotes, quotes...)

	err := s.repo.SaveQuotes(ctx, s.quotes)
	s.mu.Unlock()

	if err != nil {
		return 0, fmt.Errorf("persisting quotes: %w", err)
	}

	s.notifier.NotifyChange(ctx, ports.StoreChange{Kind: kind})

	return len(quotes), nil
}

// Categories returns the distinct categories currently in the store,
// alphabetically sorted, with the "all" sentinel prepended.
func (s *QuoteService) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.categoriesLocked()
}

func (s *QuoteService) categoriesLocked() []string {
	seen := make(map[string]struct{}, len(s.quotes))
	distinct := make([]string, 0, len(s.quotes))

	for _, q := range s.quotes {
		if _, ok := seen[q.Category]; ok {
			continue
		}

		seen[q.Category] = struct{}{}
		distinct = append(distinct, q.Category)
	}

	slices.Sort(distinct)

	return append([]string{domain.CategoryAll}, distinct...)
}

func (s *QuoteService) hasCategoryLocked(category string) bool {
	return slices.ContainsFunc(s.quotes, func(q domain.Quote) bool {
		return q.Category == category
	})
}

// SelectedCategory returns the active filter value.
func (s *QuoteService) SelectedCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selected
}

// SetSelectedCategory updates and persists the filter. The value must be
// "all" or a category present in the store.
func (s *QuoteService) SetSelectedCategory(ctx context.Context, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category != domain.CategoryAll && !s.hasCategoryLocked(category) {
		return domain.NewNotFoundError("category", category)
	}

	if err := s.repo.SaveSelectedCategory(ctx, category); err != nil {
		return fmt.Errorf("persisting selected category: %w", err)
	}

	s.selected = category

	return nil
}

// SelectQuote picks a uniform-random quote for the given category ("all"
// means the whole store) and records it as the session's last shown quote.
// Returns domain.ErrEmptyPool when no quote matches.
func (s *QuoteService) SelectQuote(ctx context.Context, category string) (domain.Quote, error) {
	s.mu.Lock()

	pool := s.quotes
	if category != domain.CategoryAll {
		pool = make([]domain.Quote, 0, len(s.quotes))
		for _, q := range s.quotes {
			if q.Category == category {
				pool = append(pool, q)
			}
		}
	}

	if len(pool) == 0 {
		s.mu.Unlock()
		return domain.Quote{}, domain.NewEmptyPoolError(category)
	}

	quote := pool[s.randIndex(len(pool))]
	s.mu.Unlock()

	if err := s.session.SaveLastShown(ctx, quote); err != nil {
		// Session state is advisory; the selection itself succeeded.
		logging.FromContext(ctx).WarnContext(ctx, "recording last shown quote failed",
			slog.Any("error", err),
		)
	}

	return quote, nil
}

// SelectForCurrentFilter picks a quote for whatever filter is active.
func (s *QuoteService) SelectForCurrentFilter(ctx context.Context) (domain.Quote, error) {
	return s.SelectQuote(ctx, s.SelectedCategory())
}

// CurrentQuote returns the session's last shown quote verbatim when one
// exists, so a reload within a session shows the same quote. Otherwise it
// performs a fresh selection for the active filter.
func (s *QuoteService) CurrentQuote(ctx context.Context) (domain.Quote, error) {
	quote, err := s.session.LoadLastShown(ctx)
	if err == nil {
		return quote, nil
	}

	if !domain.IsNotFound(err) {
		logging.FromContext(ctx).WarnContext(ctx, "reading last shown quote failed",
			slog.Any("error", err),
		)
	}

	return s.SelectForCurrentFilter(ctx)
}

// Merge reconciles a remote batch into the store under the remote-wins rule,
// keyed by exact text: an existing quote with the same text is replaced in
// place (lowest index when duplicates exist), anything else is appended.
//
// The store is persisted and a change notification fires only when at least
// one quote was added or overwritten; an identical batch is a strict no-op.
func (s *QuoteService) Merge(ctx context.Context, remote []domain.Quote) (domain.SyncReport, error) {
	var report domain.SyncReport

	s.mu.Lock()

	for _, rq := range remote {
		idx := slices.IndexFunc(s.quotes, func(q domain.Quote) bool {
			return q.Text == rq.Text
		})

		switch {
		case idx < 0:
			s.quotes = append(s.quotes, rq)
			report.Added++

		case s.quotes[idx] != rq:
			s.quotes[idx] = rq
			report.Overwritten++
		}
	}

	if !report.Changed() {
		s.mu.Unlock()
		return report, nil
	}

	err := s.repo.SaveQuotes(ctx, s.quotes)
	s.mu.Unlock()

	if err != nil {
		return report, fmt.Errorf("persisting merged quotes: %w", err)
	}

	s.notifier.NotifyChange(ctx, ports.StoreChange{Kind: ports.ChangeSync, Report: report})

	return report, nil
}

// Reload replaces the in-memory store from durable state. Used when the
// watcher sees an external write to the quotes file. Unreadable state is
// ignored rather than clobbering the in-memory store.
func (s *QuoteService) Reload(ctx context.Context) error {
	quotes, err := s.repo.LoadQuotes(ctx)
	if err != nil {
		return fmt.Errorf("reloading quotes: %w", err)
	}

	s.mu.Lock()
	s.quotes = quotes
	if s.selected != domain.CategoryAll && !s.hasCategoryLocked(s.selected) {
		s.selected = domain.CategoryAll
	}
	s.mu.Unlock()

	s.notifier.NotifyChange(ctx, ports.StoreChange{Kind: ports.ChangeReload})

	return nil
}

package app

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/ports"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRepo is an in-memory ports.QuoteRepository with error injection and
// write counting.
type fakeRepo struct {
	mu sync.Mutex

	quotes    []domain.Quote
	hasQuotes bool

	category    string
	hasCategory bool

	loadQuotesErr error
	saveQuotesErr error

	saveQuotesCalls   int
	saveCategoryCalls int
}

func (r *fakeRepo) LoadQuotes(context.Context) ([]domain.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loadQuotesErr != nil {
		return nil, r.loadQuotesErr
	}

	if !r.hasQuotes {
		return nil, domain.NewNotFoundError("quotes", "")
	}

	return slices.Clone(r.quotes), nil
}

func (r *fakeRepo) SaveQuotes(_ context.Context, quotes []domain.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveQuotesErr != nil {
		return r.saveQuotesErr
	}

	r.quotes = slices.Clone(quotes)
	r.hasQuotes = true
	r.saveQuotesCalls++

	return nil
}

func (r *fakeRepo) LoadSelectedCategory(context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.hasCategory {
		return "", domain.NewNotFoundError("selected category", "")
	}

	return r.category, nil
}

func (r *fakeRepo) SaveSelectedCategory(_ context.Context, category string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.category = category
	r.hasCategory = true
	r.saveCategoryCalls++

	return nil
}

func (r *fakeRepo) savedQuotes() []domain.Quote {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.quotes)
}

func (r *fakeRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.saveQuotesCalls
}

// fakeSession is an in-memory ports.SessionStore.
type fakeSession struct {
	mu        sync.Mutex
	lastShown domain.Quote
	set       bool
	saveErr   error
}

func (s *fakeSession) LoadLastShown(context.Context) (domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.set {
		return domain.Quote{}, domain.NewNotFoundError("last shown quote", "")
	}

	return s.lastShown, nil
}

func (s *fakeSession) SaveLastShown(_ context.Context, quote domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}

	s.lastShown = quote
	s.set = true

	return nil
}

// changeRecorder collects store-change notifications.
type changeRecorder struct {
	mu      sync.Mutex
	changes []ports.StoreChange
}

func (r *changeRecorder) NotifyChange(_ context.Context, change ports.StoreChange) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.changes = append(r.changes, change)
}

func (r *changeRecorder) recorded() []ports.StoreChange {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.changes)
}

// fakeFeed is a scriptable ports.QuoteFeed.
type fakeFeed struct {
	mu sync.Mutex

	batch    []domain.Quote
	fetchErr error
	pushErr  error

	fetchedLimits []int
	pushed        [][]domain.Quote
}

func (f *fakeFeed) FetchBatch(_ context.Context, limit int) ([]domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetchedLimits = append(f.fetchedLimits, limit)

	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	batch := f.batch
	if len(batch) > limit {
		batch = batch[:limit]
	}

	return slices.Clone(batch), nil
}

func (f *fakeFeed) Push(_ context.Context, quotes []domain.Quote) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pushErr != nil {
		return f.pushErr
	}

	f.pushed = append(f.pushed, slices.Clone(quotes))

	return nil
}

func (f *fakeFeed) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.pushed)
}

// newTestService builds a QuoteService over fresh fakes and returns all three.
func newTestService(notifier ports.ChangeNotifier) (*QuoteService, *fakeRepo, *fakeSession) {
	repo := &fakeRepo{}
	session := &fakeSession{}

	svc := NewQuoteService(QuoteServiceConfig{
		Repository: repo,
		Session:    session,
		Notifier:   notifier,
		Logger:     discardLogger(),
	})

	return svc, repo, session
}

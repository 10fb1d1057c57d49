package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/ports"
)

func TestNewQuoteService_PanicsWithoutRepository(t *testing.T) {
	assert.Panics(t, func() {
		NewQuoteService(QuoteServiceConfig{
			Session: &fakeSession{},
		})
	})
}

func TestNewQuoteService_PanicsWithoutSession(t *testing.T) {
	assert.Panics(t, func() {
		NewQuoteService(QuoteServiceConfig{
			Repository: &fakeRepo{},
		})
	})
}

func TestQuoteService_Load_SeedsOnFirstRun(t *testing.T) {
	svc, repo, _ := newTestService(nil)

	require.NoError(t, svc.Load(context.Background()))

	assert.Equal(t, domain.SeedQuotes(), svc.Quotes())
	assert.Equal(t, domain.SeedQuotes(), repo.savedQuotes(), "seed set should be persisted immediately")
	assert.Equal(t, domain.CategoryAll, svc.SelectedCategory())
}

func TestQuoteService_Load_Idempotent(t *testing.T) {
	svc, _, _ := newTestService(nil)

	require.NoError(t, svc.Load(context.Background()))
	first := svc.Quotes()

	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, first, svc.Quotes())
}

func TestQuoteService_Load_SeedsOnCorruptState(t *testing.T) {
	svc, repo, _ := newTestService(nil)
	repo.loadQuotesErr = domain.NewStorageCorruptError("quotes", errors.New("unexpected end of JSON input"))

	require.NoError(t, svc.Load(context.Background()))

	assert.Equal(t, domain.SeedQuotes(), svc.Quotes())
	assert.Equal(t, domain.SeedQuotes(), repo.savedQuotes(), "seed set replaces the corrupt file")
}

func TestQuoteService_Load_RestoresSelectedCategory(t *testing.T) {
	tests := []struct {
		name  string
		saved string
		want  string
	}{
		{name: "existing category restored", saved: "Motivation", want: "Motivation"},
		{name: "all restored verbatim", saved: domain.CategoryAll, want: domain.CategoryAll},
		{name: "orphaned category falls back to all", saved: "Gone", want: domain.CategoryAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService(nil)
			repo.quotes = domain.SeedQuotes()
			repo.hasQuotes = true
			repo.category = tt.saved
			repo.hasCategory = true

			require.NoError(t, svc.Load(context.Background()))
			assert.Equal(t, tt.want, svc.SelectedCategory())
		})
	}
}

func TestQuoteService_Add(t *testing.T) {
	recorder := &changeRecorder{}
	svc, repo, _ := newTestService(recorder)
	require.NoError(t, svc.Load(context.Background()))

	quote, err := svc.Add(context.Background(), "  Stay hungry, stay foolish.  ", " Motivation ")
	require.NoError(t, err)

	assert.Equal(t, "Stay hungry, stay foolish.", quote.Text)
	assert.Equal(t, "Motivation", quote.Category)

	quotes := svc.Quotes()
	assert.Equal(t, quote, quotes[len(quotes)-1], "new quote appended at the end")
	assert.Equal(t, quotes, repo.savedQuotes(), "store persisted after add")

	changes := recorder.recorded()
	require.Len(t, changes, 1)
	assert.Equal(t, ports.ChangeAdd, changes[0].Kind)
}

func TestQuoteService_Add_RejectsEmptyText(t *testing.T) {
	svc, repo, _ := newTestService(nil)
	require.NoError(t, svc.Load(context.Background()))
	before := repo.saveCount()

	_, err := svc.Add(context.Background(), "   ", "Motivation")

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, before, repo.saveCount(), "invalid quote must not be persisted")
}

func TestQuoteService_Categories_SortedWithAllFirst(t *testing.T) {
	svc, _, _ := newTestService(nil)
	require.NoError(t, svc.Load(context.Background()))

	_, err := svc.Add(context.Background(), "B", "Zen")
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), "C", "Art")
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), "D", "Zen")
	require.NoError(t, err)

	assert.Equal(t, []string{"all", "Art", "Inspiration", "Motivation", "Success", "Zen"}, svc.Categories())
}

func TestQuoteService_SetSelectedCategory(t *testing.T) {
	svc, repo, _ := newTestService(nil)
	require.NoError(t, svc.Load(context.Background()))

	require.NoError(t, svc.SetSelectedCategory(context.Background(), "Motivation"))
	assert.Equal(t, "Motivation", svc.SelectedCategory())
	assert.Equal(t, "Motivation", repo.category, "filter persisted")

	err := svc.SetSelectedCategory(context.Background(), "NoSuchCategory")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, "Motivation", svc.SelectedCategory(), "filter unchanged after rejection")
}

func TestQuoteService_SelectQuote_FiltersByCategory(t *testing.T) {
	repo := &fakeRepo{}
	session := &fakeSession{}
	svc := NewQuoteService(QuoteServiceConfig{
		Repository: repo,
		Session:    session,
		Logger:     discardLogger(),
		RandIndex:  func(n int) int { return n - 1 },
	})
	require.NoError(t, svc.Load(context.Background()))

	quote, err := svc.SelectQuote(context.Background(), "Success")
	require.NoError(t, err)

	assert.Equal(t, "Success", quote.Category)
	assert.Equal(t, quote, session.lastShown, "selection recorded as last shown")
}

func TestQuoteService_SelectQuote_EmptyPool(t *testing.T) {
	svc, _, _ := newTestService(nil)
	require.NoError(t, svc.Load(context.Background()))

	_, err := svc.SelectQuote(context.Background(), "NoSuchCategory")

	require.Error(t, err)
	assert.True(t, domain.IsEmptyPool(err))

	var emptyErr *domain.EmptyPoolError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, "NoSuchCategory", emptyErr.Category)
}

func TestQuoteService_SelectQuote_UsesWholeStoreForAll(t *testing.T) {
	svc, _, _ := newTestService(nil)
	require.NoError(t, svc.Load(context.Background()))

	seen := make(map[string]struct{})
	for range 50 {
		quote, err := svc.SelectQuote(context.Background(), domain.CategoryAll)
		require.NoError(t, err)
		seen[quote.Text] = struct{}{}
	}

	assert.Greater(t, len(seen), 1, "uniform selection over 3 quotes should hit more than one in 50 draws")
}

func TestQuoteService_CurrentQuote_ReturnsLastShownVerbatim(t *testing.T) {
	svc, _, session := newTestService(nil)
	require.NoError(t, svc.Load(context.Background()))

	shown := domain.Quote{Text: "No longer in the store", Category: "Ghost"}
	session.lastShown = shown
	session.set = true

	quote, err := svc.CurrentQuote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, shown, quote, "last shown is returned even if the store no longer contains it")
}

func TestQuoteService_CurrentQuote_SelectsWhenSessionEmpty(t *testing.T) {
	svc, _, session := newTestService(nil)
	require.NoError(t, svc.Load(context.Background()))

	quote, err := svc.CurrentQuote(context.Background())
	require.NoError(t, err)

	assert.Contains(t, svc.Quotes(), quote)
	assert.Equal(t, quote, session.lastShown, "fresh selection becomes the last shown")
}

func TestQuoteService_Merge(t *testing.T) {
	tests := []struct {
		name        string
		remote      []domain.Quote
		wantReport  domain.SyncReport
		wantNotify  bool
		wantPersist bool
	}{
		{
			name: "new quotes appended",
			remote: []domain.Quote{
				{Text: "Fresh from the feed", Category: "Server"},
			},
			wantReport:  domain.SyncReport{Added: 1},
			wantNotify:  true,
			wantPersist: true,
		},
		{
			name: "same text different category overwritten",
			remote: []domain.Quote{
				{Text: "In the middle of difficulty lies opportunity.", Category: "Server"},
			},
			wantReport:  domain.SyncReport{Overwritten: 1},
			wantNotify:  true,
			wantPersist: true,
		},
		{
			name: "identical batch is a no-op",
			remote: []domain.Quote{
				{Text: "In the middle of difficulty lies opportunity.", Category: "Inspiration"},
			},
			wantReport: domain.SyncReport{},
		},
		{
			name: "mixed batch",
			remote: []domain.Quote{
				{Text: "In the middle of difficulty lies opportunity.", Category: "Server"},
				{Text: "Brand new", Category: "Server"},
				{Text: "Success is not final, failure is not fatal: it is the courage to continue that counts.", Category: "Success"},
			},
			wantReport:  domain.SyncReport{Added: 1, Overwritten: 1},
			wantNotify:  true,
			wantPersist: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &changeRecorder{}
			svc, repo, _ := newTestService(recorder)
			require.NoError(t, svc.Load(context.Background()))

			before := repo.saveCount()

			report, err := svc.Merge(context.Background(), tt.remote)
			require.NoError(t, err)
			assert.Equal(t, tt.wantReport, report)

			if tt.wantPersist {
				assert.Equal(t, before+1, repo.saveCount())
			} else {
				assert.Equal(t, before, repo.saveCount(), "no-op merge must not write")
			}

			if tt.wantNotify {
				changes := recorder.recorded()
				require.Len(t, changes, 1)
				assert.Equal(t, ports.ChangeSync, changes[0].Kind)
				assert.Equal(t, tt.wantReport, changes[0].Report)
			} else {
				assert.Empty(t, recorder.recorded())
			}
		})
	}
}

func TestQuoteService_Merge_OverwritesLowestIndex(t *testing.T) {
	svc, _, _ := newTestService(nil)
	require.NoError(t, svc.Load(context.Background()))

	// Two local quotes with the same text; the remote must replace the first.
	_, err := svc.Add(context.Background(), "Twin", "First")
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), "Twin", "Second")
	require.NoError(t, err)

	report, err := svc.Merge(context.Background(), []domain.Quote{
		{Text: "Twin", Category: "Remote"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SyncReport{Overwritten: 1}, report)

	var categories []string
	for _, q := range svc.Quotes() {
		if q.Text == "Twin" {
			categories = append(categories, q.Category)
		}
	}

	assert.Equal(t, []string{"Remote", "Second"}, categories)
}

func TestQuoteService_Merge_PreservesInsertionOrder(t *testing.T) {
	svc, _, _ := newTestService(nil)
	require.NoError(t, svc.Load(context.Background()))

	before := svc.Quotes()

	_, err := svc.Merge(context.Background(), []domain.Quote{
		{Text: before[1].Text, Category: "Server"},
	})
	require.NoError(t, err)

	after := svc.Quotes()
	require.Len(t, after, len(before))

	for i := range before {
		assert.Equal(t, before[i].Text, after[i].Text, "merge must replace in place, not reorder")
	}
}

func TestQuoteService_Reload(t *testing.T) {
	recorder := &changeRecorder{}
	svc, repo, _ := newTestService(recorder)
	require.NoError(t, svc.Load(context.Background()))
	require.NoError(t, svc.SetSelectedCategory(context.Background(), "Motivation"))

	// Another writer replaces the durable store with quotes that no longer
	// carry the selected category.
	repo.quotes = []domain.Quote{{Text: "External write", Category: "Other"}}

	require.NoError(t, svc.Reload(context.Background()))

	assert.Equal(t, repo.quotes, svc.Quotes())
	assert.Equal(t, domain.CategoryAll, svc.SelectedCategory(), "orphaned filter falls back to all")

	changes := recorder.recorded()
	require.NotEmpty(t, changes)
	assert.Equal(t, ports.ChangeReload, changes[len(changes)-1].Kind)
}

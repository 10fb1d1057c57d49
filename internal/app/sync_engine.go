package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/ports"
)

// instrumentationName is used for the OpenTelemetry meter.
const instrumentationName = "github.com/jsamuelsen/quotevault/internal/app"

// DefaultSyncInterval is the reconcile cadence when none is configured.
const DefaultSyncInterval = 30 * time.Second

// DefaultSyncBatchSize bounds how much of the feed head is consumed per pass.
const DefaultSyncBatchSize = 5

// ErrSyncRunning is returned by Start when the engine is already running.
var ErrSyncRunning = errors.New("sync engine already started")

// SyncStatus is a snapshot of the engine's most recent activity.
type SyncStatus struct {
	Running    bool              `json:"running"`
	LastRun    time.Time         `json:"lastRun,omitzero"`
	LastReport domain.SyncReport `json:"lastReport"`
	LastError  string            `json:"lastError,omitempty"`
}

// SyncEngine periodically reconciles the local store against the remote
// feed under the remote-wins-by-text rule, then uploads the full local
// store best-effort.
//
// Failures never stop the schedule: a failed pass is logged and counted,
// and the next tick is the retry. The engine owns its goroutine; Start and
// Stop bound its lifetime.
type SyncEngine struct {
	store    *QuoteService
	feed     ports.QuoteFeed
	logger   *slog.Logger
	interval time.Duration
	batch    int

	runsTotal        metric.Int64Counter
	addedTotal       metric.Int64Counter
	overwrittenTotal metric.Int64Counter

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
	status  SyncStatus
}

// SyncEngineConfig contains dependencies and tuning for the sync engine.
type SyncEngineConfig struct {
	Store *QuoteService
	Feed  ports.QuoteFeed

	// Interval between reconcile passes. Defaults to DefaultSyncInterval.
	Interval time.Duration

	// BatchSize is the bounded prefix of the feed consumed per pass.
	// Defaults to DefaultSyncBatchSize.
	BatchSize int

	Logger *slog.Logger
}

// NewSyncEngine creates a sync engine. Panics if Store or Feed is nil.
func NewSyncEngine(cfg SyncEngineConfig) (*SyncEngine, error) {
	if cfg.Store == nil {
		panic("SyncEngine: Store is required")
	}

	if cfg.Feed == nil {
		panic("SyncEngine: Feed is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = DefaultSyncBatchSize
	}

	meter := otel.Meter(instrumentationName)

	runsTotal, err := meter.Int64Counter(
		"sync.runs.total",
		metric.WithDescription("Total number of sync passes by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sync runs counter: %w", err)
	}

	addedTotal, err := meter.Int64Counter(
		"sync.quotes.added.total",
		metric.WithDescription("Quotes appended from the remote feed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating added counter: %w", err)
	}

	overwrittenTotal, err := meter.Int64Counter(
		"sync.quotes.overwritten.total",
		metric.WithDescription("Local quotes overwritten by the remote feed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating overwritten counter: %w", err)
	}

	return &SyncEngine{
		store:            cfg.Store,
		feed:             cfg.Feed,
		logger:           logger.With(slog.String("component", "app.SyncEngine")),
		interval:         interval,
		batch:            batch,
		runsTotal:        runsTotal,
		addedTotal:       addedTotal,
		overwrittenTotal: overwrittenTotal,
	}, nil
}

// Start launches the recurring reconcile loop: one immediate pass, then one
// per interval until Stop is called or ctx is canceled.
func (e *SyncEngine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrSyncRunning
	}

	e.running = true
	e.status.Running = true
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	stop, done := e.stop, e.done
	e.mu.Unlock()

	go e.loop(ctx, stop, done)

	return nil
}

func (e *SyncEngine) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	e.logger.Info("sync engine started",
		slog.Duration("interval", e.interval),
		slog.Int("batch_size", e.batch),
	)

	// First pass right away so a fresh process converges without waiting
	// a full interval.
	e.runGuarded(ctx)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			e.logger.Info("sync engine stopped")
			return

		case <-ctx.Done():
			e.logger.Info("sync engine context canceled")
			return

		case <-ticker.C:
			e.runGuarded(ctx)
		}
	}
}

// runGuarded runs one pass and contains every failure: a broken pass must
// never kill the schedule.
func (e *SyncEngine) runGuarded(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("sync pass panicked", slog.Any("panic", r))
		}
	}()

	if _, err := e.RunOnce(ctx); err != nil {
		e.logger.Warn("sync pass failed, waiting for next tick", slog.Any("error", err))
	}
}

// Stop halts the recurring loop and waits for any in-flight pass to finish.
// Safe to call more than once.
func (e *SyncEngine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}

	e.running = false
	e.status.Running = false
	close(e.stop)
	done := e.done
	e.mu.Unlock()

	<-done
}

// RunOnce performs a single reconcile pass: fetch a bounded batch, merge it
// into the store, and push the full local store back best-effort.
//
// A fetch failure leaves the store untouched and is reported; a push
// failure is logged and otherwise ignored.
func (e *SyncEngine) RunOnce(ctx context.Context) (domain.SyncReport, error) {
	remote, err := e.feed.FetchBatch(ctx, e.batch)
	if err != nil {
		e.recordRun(ctx, domain.SyncReport{}, err)
		return domain.SyncReport{}, fmt.Errorf("fetching remote batch: %w", err)
	}

	report, err := e.store.Merge(ctx, remote)
	if err != nil {
		e.recordRun(ctx, report, err)
		return report, fmt.Errorf("merging remote batch: %w", err)
	}

	if report.Changed() {
		e.logger.Info("sync merged remote changes",
			slog.Int("added", report.Added),
			slog.Int("overwritten", report.Overwritten),
		)
	}

	if pushErr := e.feed.Push(ctx, e.store.Quotes()); pushErr != nil {
		e.logger.Warn("pushing local store failed", slog.Any("error", pushErr))
	}

	e.recordRun(ctx, report, nil)

	return report, nil
}

// Status returns a snapshot of the engine's recent activity.
func (e *SyncEngine) Status() SyncStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.status
}

func (e *SyncEngine) recordRun(ctx context.Context, report domain.SyncReport, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	e.runsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	e.addedTotal.Add(ctx, int64(report.Added))
	e.overwrittenTotal.Add(ctx, int64(report.Overwritten))

	e.mu.Lock()
	defer e.mu.Unlock()

	e.status.LastRun = time.Now()
	e.status.LastReport = report
	e.status.LastError = ""

	if err != nil {
		e.status.LastError = err.Error()
	}
}

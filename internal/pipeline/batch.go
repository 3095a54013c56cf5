package pipeline

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mhammadzahi/nl-camel/internal/model"
)

// Explorer is the per-domain exploration strategy driven by the batch.
// crawler.Explorer implements it; tests substitute their own.
type Explorer interface {
	// Explore processes one domain end-to-end and returns its site record,
	// or an error when no path could be fetched.
	Explore(ctx context.Context, domain string) (*model.SiteRecord, error)
}

// Sink receives completed site records. Appends may be called from multiple
// workers concurrently; implementations must serialize their writes.
type Sink interface {
	// Append persists one site record.
	Append(ctx context.Context, record *model.SiteRecord) error
}

// Source yields candidate domain names until exhausted.
type Source interface {
	// Next returns the next domain and true, or "" and false when the
	// sequence is exhausted. Sources are finite and non-restartable.
	Next() (string, bool)
}

// Batch runs the explorer concurrently over a domain source.
//
// Design decision: We use errgroup.SetLimit rather than a hand-rolled worker
// pool because it bounds concurrency correctly with less machinery. Tasks
// always return nil to the group: a failed domain is an error *count*, never
// a reason to cancel sibling tasks.
type Batch struct {
	// explorer processes individual domains.
	explorer Explorer

	// sink receives completed site records.
	sink Sink

	// workers is the maximum number of concurrent domain tasks.
	workers int

	// reportEvery is the completion interval between progress reports.
	reportEvery int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// stats holds the shared run counters.
	stats model.Stats

	// completed counts finished tasks for progress reporting.
	completed atomic.Int64
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithWorkers sets the worker pool size. Non-positive values are ignored.
func WithWorkers(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithReportEvery sets how many completions separate progress reports.
func WithReportEvery(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.reportEvery = n
		}
	}
}

// WithBatchLogger sets a custom logger.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) {
		b.logger = logger
	}
}

// NewBatch creates a Batch over the given explorer and sink.
func NewBatch(explorer Explorer, sink Sink, opts ...BatchOption) *Batch {
	b := &Batch{
		explorer:    explorer,
		sink:        sink,
		workers:     20,
		reportEvery: 50,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Process consumes the source until exhaustion, dispatching each domain to
// the worker pool, and returns the final run statistics.
//
// Every dispatched task runs to completion: there is no mid-task
// cancellation, and Process returns only after the last task finished. The
// context stops the *dispatch* of further domains when cancelled; in-flight
// tasks still complete naturally.
func (b *Batch) Process(ctx context.Context, src Source) model.StatsSnapshot {
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(b.workers)

	dispatched := 0
	for {
		if ctx.Err() != nil {
			b.logger.Info("dispatch stopped", "reason", ctx.Err())
			break
		}

		domain, ok := src.Next()
		if !ok {
			break
		}
		dispatched++

		g.Go(func() error {
			b.processDomain(ctx, domain)
			return nil
		})
	}

	// Tasks never return errors to the group, so Wait only blocks.
	_ = g.Wait() //nolint:errcheck // Task errors are counted, not returned

	snap := b.stats.Snapshot()
	b.logger.Info("crawl complete",
		"dispatched", dispatched,
		"stats", snap.String(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	return snap
}

// processDomain runs one domain task inside the isolation boundary.
// Any panic inside the explorer or sink is recovered here and counted as an
// error so a misbehaving document can never take down sibling workers.
func (b *Batch) processDomain(ctx context.Context, domain string) {
	defer func() {
		if r := recover(); r != nil {
			b.stats.RecordError()
			b.logger.Error("domain task panicked", "domain", domain, "panic", r)
		}
		b.reportProgress()
	}()

	record, err := b.explorer.Explore(ctx, domain)
	if err != nil {
		b.stats.RecordError()
		b.logger.Warn("domain failed", "domain", domain, "error", err)
		return
	}

	if err := b.sink.Append(ctx, record); err != nil {
		b.stats.RecordError()
		b.logger.Error("failed to persist record", "domain", domain, "error", err)
		return
	}

	b.stats.RecordResult(record.Classified)
	b.logger.Info("domain processed",
		"domain", domain,
		"classified", record.Classified,
		"confidence", record.Confidence,
		"paths", record.Paths,
	)
}

// reportProgress emits a stats line every reportEvery completions.
func (b *Batch) reportProgress() {
	n := b.completed.Add(1)
	if n%int64(b.reportEvery) == 0 {
		b.logger.Info("progress", "stats", b.stats.Snapshot().String())
	}
}

// Stats returns a snapshot of the current counters. Safe to call while
// Process is running.
func (b *Batch) Stats() model.StatsSnapshot {
	return b.stats.Snapshot()
}

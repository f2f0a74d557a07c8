package verify

import (
	"context"
	"sync"
	"time"

	"sync-verifier/feature/verify/models"

	"go.uber.org/zap"
)

// DefaultWorkers is the worker pool size when none is configured.
const DefaultWorkers = 8

// Driver fans a batch of source records out to a bounded worker pool and
// reduces the per-worker partials into one report. Records are handed out
// over an unbuffered channel: once the run deadline expires no further
// record is dispatched, and every undispatched record is counted as
// not_attempted rather than silently dropped.
type Driver struct {
	engine     *Engine
	aggregator *Aggregator
	workers    int
	logger     *zap.Logger
}

// NewDriver creates a driver with the given pool size. Non-positive sizes
// fall back to DefaultWorkers.
func NewDriver(engine *Engine, aggregator *Aggregator, workers int, logger *zap.Logger) *Driver {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Driver{
		engine:     engine,
		aggregator: aggregator,
		workers:    workers,
		logger:     logger,
	}
}

// Run verifies the batch and returns the finished report. It blocks until
// every dispatched record is fully classified; in-flight lookups after the
// deadline are bounded by the adapter's per-attempt timeouts.
func (d *Driver) Run(ctx context.Context, runID string, records []models.SourceRecord) *VerificationReport {
	started := time.Now().UTC()

	jobs := make(chan models.SourceRecord)
	partials := make([]*Partial, d.workers)

	// The deadline gates dispatch only. A record that was already handed to
	// a worker finishes under the adapter's own per-attempt timeouts, so an
	// expiring run never misreports an in-flight lookup as LOOKUP_ERROR.
	lookupCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		partial := NewPartial()
		partials[i] = partial
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				partial.Add(d.engine.VerifyRecord(lookupCtx, rec))
			}
		}()
	}

	notAttempted := 0
dispatch:
	for i, rec := range records {
		select {
		case jobs <- rec:
		case <-ctx.Done():
			notAttempted = len(records) - i
			d.logger.Warn("run deadline reached, stopping dispatch",
				zap.String("run_id", runID),
				zap.Int("dispatched", i),
				zap.Int("not_attempted", notAttempted),
			)
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	report := d.aggregator.Reduce(runID, started, time.Now().UTC(), notAttempted, partials...)
	d.logger.Info("verification pass finished",
		zap.String("run_id", runID),
		zap.Int("total_checked", report.TotalChecked),
		zap.Int("matched", report.Matched),
		zap.Int("true_mismatches", len(report.TrueMismatches)),
		zap.Int("false_positives", len(report.FalsePositives)),
		zap.Int("not_found_in_index", report.NotFoundInIndex),
		zap.Int("lookup_errors", report.LookupErrors),
		zap.Int("not_attempted", report.NotAttempted),
	)
	return report
}

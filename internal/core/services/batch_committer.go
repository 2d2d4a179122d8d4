package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
)

// CommitPolicy controls how rows are partitioned and retried.
type CommitPolicy struct {
	BatchSize    int           // rows per batch, typically 100-500
	SubBatchSize int           // granularity used to isolate constraint failures
	ProbeFirst   bool          // insert one row before the remainder of each batch
	MaxRetries   int           // retries per write for transient failures
	Backoff      time.Duration // initial backoff, doubled on every retry
}

// DefaultCommitPolicy mirrors the defaults of the configuration layer.
func DefaultCommitPolicy() CommitPolicy {
	return CommitPolicy{
		BatchSize:    500,
		SubBatchSize: 10,
		ProbeFirst:   true,
		MaxRetries:   3,
		Backoff:      500 * time.Millisecond,
	}
}

// BatchProgressFunc is notified after every batch of a table.
type BatchProgressFunc func(table string, done, total int)

// BatchCommitter writes rows in sequential batches and never returns a row-level error.
type BatchCommitter struct {
	BaseService
	policy   CommitPolicy
	sleep    func(ctx context.Context, d time.Duration) error
	progress BatchProgressFunc
}

// CommitterOption configures a BatchCommitter.
type CommitterOption func(*BatchCommitter)

// WithSleeper replaces the backoff sleep. Tests use it to avoid waiting.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) CommitterOption {
	return func(c *BatchCommitter) {
		c.sleep = sleep
	}
}

// WithBatchProgress registers a progress callback.
func WithBatchProgress(fn BatchProgressFunc) CommitterOption {
	return func(c *BatchCommitter) {
		c.progress = fn
	}
}

// NewBatchCommitter creates a committer. Non-positive sizes fall back to the defaults.
func NewBatchCommitter(policy CommitPolicy, opts ...CommitterOption) *BatchCommitter {
	defaults := DefaultCommitPolicy()
	if policy.BatchSize <= 0 {
		policy.BatchSize = defaults.BatchSize
	}
	if policy.SubBatchSize <= 0 {
		policy.SubBatchSize = defaults.SubBatchSize
	}
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	c := &BatchCommitter{policy: policy, sleep: sleepContext}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the effective policy.
func (c *BatchCommitter) Policy() CommitPolicy {
	return c.policy
}

// InsertFunc writes rows and returns the persisted rows.
type InsertFunc[T any] func(ctx context.Context, rows []T) ([]T, error)

// CommitInBatches partitions rows into batches and writes them sequentially with c's policy.
// Failures are classified and handled per class:
//   - Permission: the batch is skipped with a warning
//   - Constraint: the batch is retried at sub-batch granularity, failing sub-batches are skipped
//   - Transient: the write is retried with exponential backoff, then skipped
//   - Unknown: the rest of the batch is abandoned
//
// The committed rows are returned; stats account for every attempted row.
func CommitInBatches[T any](ctx context.Context, c *BatchCommitter, table string, rows []T, insert InsertFunc[T]) ([]T, domain.CommitStats) {
	stats := domain.CommitStats{Table: table}
	committed := make([]T, 0, len(rows))
	if len(rows) == 0 {
		return committed, stats
	}

	logger := c.GetLogger(ctx).With(slog.String("table", table))
	size := c.policy.BatchSize
	total := len(rows)

	for start := 0; start < total; start += size {
		if err := ctx.Err(); err != nil {
			logger.Warn("Commit interrupted, remaining batches not attempted",
				slog.Int("remaining_rows", total-start), slog.String("error", err.Error()))
			break
		}
		end := min(start+size, total)
		batch := rows[start:end]
		stats.Batches++
		stats.Attempted += len(batch)

		out := commitBatch(ctx, c, logger.With(slog.Int("batch", stats.Batches)), batch, insert, &stats)
		committed = append(committed, out...)

		if c.progress != nil {
			c.progress(table, end, total)
		}
	}

	stats.Failed = stats.Attempted - len(committed)
	logger.Info("Table commit finished",
		slog.Int("attempted", stats.Attempted),
		slog.Int("committed", len(committed)),
		slog.Int("failed", stats.Failed),
		slog.Int("skipped_batches", stats.SkippedBatches),
		slog.Int("retries", stats.Retries))
	stats.Committed = len(committed)
	return committed, stats
}

func commitBatch[T any](ctx context.Context, c *BatchCommitter, logger *slog.Logger, batch []T, insert InsertFunc[T], stats *domain.CommitStats) []T {
	out := make([]T, 0, len(batch))
	remaining := batch

	if c.policy.ProbeFirst && len(batch) > 1 {
		probed, class, err := writeWithRetry(ctx, c, batch[:1], insert, stats)
		if err != nil {
			recordFailure(stats, class, 1)
			switch class {
			case apperrors.Constraint:
				logger.Warn("Probe row rejected by a constraint, continuing with the rest of the batch",
					slog.String("error", err.Error()))
			default:
				logger.Warn("Probe row failed, skipping batch",
					slog.String("class", class.String()), slog.String("error", err.Error()),
					slog.Int("rows_skipped", len(batch)))
				recordFailure(stats, class, len(batch)-1)
				stats.SkippedBatches++
				return out
			}
		} else {
			out = append(out, probed...)
		}
		remaining = batch[1:]
	}

	written, class, err := writeWithRetry(ctx, c, remaining, insert, stats)
	if err == nil {
		return append(out, written...)
	}

	switch class {
	case apperrors.Constraint:
		logger.Warn("Batch rejected by a constraint, retrying in sub-batches",
			slog.String("error", err.Error()), slog.Int("sub_batch_size", c.policy.SubBatchSize))
		return append(out, commitSubBatches(ctx, c, logger, remaining, insert, stats)...)
	default:
		logger.Warn("Batch failed, skipping",
			slog.String("class", class.String()), slog.String("error", err.Error()),
			slog.Int("rows_skipped", len(remaining)))
		recordFailure(stats, class, len(remaining))
		stats.SkippedBatches++
		return out
	}
}

func commitSubBatches[T any](ctx context.Context, c *BatchCommitter, logger *slog.Logger, rows []T, insert InsertFunc[T], stats *domain.CommitStats) []T {
	out := make([]T, 0, len(rows))
	size := c.policy.SubBatchSize
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		written, class, err := writeWithRetry(ctx, c, rows[start:end], insert, stats)
		if err == nil {
			out = append(out, written...)
			continue
		}
		recordFailure(stats, class, end-start)
		logger.Warn("Sub-batch failed, skipping",
			slog.Int("from", start), slog.Int("to", end),
			slog.String("class", class.String()), slog.String("error", err.Error()))
		if class == apperrors.Unknown {
			recordFailure(stats, class, len(rows)-end)
			stats.SkippedBatches++
			break
		}
	}
	return out
}

func writeWithRetry[T any](ctx context.Context, c *BatchCommitter, rows []T, insert InsertFunc[T], stats *domain.CommitStats) ([]T, apperrors.WriteErrorClass, error) {
	backoff := c.policy.Backoff
	for attempt := 0; ; attempt++ {
		written, err := insert(ctx, rows)
		if err == nil {
			return written, apperrors.Unknown, nil
		}
		class := apperrors.ClassifyWriteError(err)
		if !class.Retryable() || attempt >= c.policy.MaxRetries {
			return nil, class, err
		}
		stats.Retries++
		c.GetLogger(ctx).Debug("Transient write failure, retrying",
			slog.Int("attempt", attempt+1), slog.Duration("backoff", backoff), slog.String("error", err.Error()))
		if serr := c.sleep(ctx, backoff); serr != nil {
			return nil, apperrors.Unknown, serr
		}
		backoff *= 2
	}
}

func recordFailure(stats *domain.CommitStats, class apperrors.WriteErrorClass, rows int) {
	if rows <= 0 {
		return
	}
	if stats.FailuresByClass == nil {
		stats.FailuresByClass = make(map[string]int)
	}
	stats.FailuresByClass[class.String()] += rows
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

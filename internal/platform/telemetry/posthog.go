// Package telemetry reports finished runs to PostHog. Without an API key it does nothing.
package telemetry

import (
	"context"
	"log/slog"

	"github.com/posthog/posthog-go"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portssvc "github.com/SscSPs/retail_stt_seeder/internal/core/ports/services"
	"github.com/SscSPs/retail_stt_seeder/internal/platform/logging"
)

const (
	DefaultEndpoint  = "https://eu.i.posthog.com"
	EventRunFinished = "seeder_run_finished"
)

// sink is the subset of posthog.Client the reporter uses.
type sink interface {
	Enqueue(posthog.Message) error
	Close() error
}

// RunReporter is a RunObserver that enqueues one event per finished run.
type RunReporter struct {
	client sink
	logger *slog.Logger
}

var _ portssvc.RunObserver = (*RunReporter)(nil)

// NewRunReporter builds a reporter. An empty apiKey yields a disabled reporter.
func NewRunReporter(apiKey, endpoint string, logger *slog.Logger) *RunReporter {
	if apiKey == "" {
		logger.Debug("Posthog API key is empty, not initializing posthog client.")
		return &RunReporter{logger: logger}
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Warn("Failed to initialize posthog client", slog.String("error", err.Error()))
		return &RunReporter{logger: logger}
	}
	logger.Info("Posthog telemetry enabled", slog.String("endpoint", endpoint))
	return &RunReporter{client: client, logger: logger}
}

func (r *RunReporter) Enabled() bool {
	return r.client != nil
}

// RunFinished enqueues the run summary. Failures are logged and never surface to the run.
func (r *RunReporter) RunFinished(ctx context.Context, report domain.RunReport) {
	if r.client == nil {
		return
	}
	err := r.client.Enqueue(posthog.Capture{
		DistinctId: report.RunID,
		Event:      EventRunFinished,
		Properties: RunProperties(report),
	})
	if err != nil {
		logging.FromContext(ctx).Warn("Failed to enqueue telemetry event", slog.String("error", err.Error()))
	}
}

// Close flushes pending events.
func (r *RunReporter) Close() {
	if r.client == nil {
		return
	}
	if err := r.client.Close(); err != nil && r.logger != nil {
		r.logger.Warn("Failed to flush telemetry", slog.String("error", err.Error()))
	}
}

// RunProperties flattens the counters of a report. No dataset contents are included.
func RunProperties(report domain.RunReport) map[string]any {
	props := map[string]any{
		"command":             report.Command,
		"backend":             report.Backend,
		"dry_run":             report.DryRun,
		"profile":             report.Profile,
		"duration_ms":         report.Duration().Milliseconds(),
		"snapshot_txn_count":  report.Snapshot.TransactionCount,
		"catalog_synthesized": report.Snapshot.CatalogSynthesized,
		"warnings":            len(report.Warnings),
	}
	failed := 0
	for _, c := range report.Commits {
		failed += c.Failed
	}
	props["rows_failed"] = failed
	if g := report.Generation; g != nil {
		props["transactions_created"] = g.TransactionsCreated
		props["items_created"] = g.ItemsCreated
	}
	if rp := report.Repair; rp != nil {
		props["repair_passes"] = rp.Passes
		props["repair_residual"] = rp.Residual
	}
	if v := report.Verification; v != nil {
		props["verify_passed"] = v.Passed
		props["verify_grade"] = string(v.Grade)
		props["items_per_transaction"] = v.ItemsPerTransaction
	}
	return props
}

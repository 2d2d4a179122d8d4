package services

import (
	"context"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
)

// CatalogSvc loads reference data, synthesizing a fallback catalog when sets are empty.
type CatalogSvc interface {
	LoadCatalog(ctx context.Context) (domain.Catalog, bool, error)
}

// SnapshotSvc captures the dataset state once at the start of a run.
type SnapshotSvc interface {
	TakeSnapshot(ctx context.Context, includeItemless bool) (domain.DatasetSnapshot, error)
}

// GenerationSvc tops the dataset up toward a target with STT-realistic transactions.
type GenerationSvc interface {
	Generate(ctx context.Context, snapshot domain.DatasetSnapshot, req GenerateRequest) (GenerationOutcome, error)
}

// GapRepairSvc backfills transactions that own no items.
type GapRepairSvc interface {
	Repair(ctx context.Context, catalog domain.Catalog) (domain.RepairResult, []domain.CommitStats, error)
}

// EnhanceSvc adds extra captured items to sparse transactions.
type EnhanceSvc interface {
	Enhance(ctx context.Context, catalog domain.Catalog) (domain.EnhanceResult, []domain.CommitStats, error)
}

// SatelliteSvc writes flavor data that is not load-bearing for the item invariants.
type SatelliteSvc interface {
	GenerateSubstitutions(ctx context.Context, catalog domain.Catalog, transactionIDs []int64) (domain.SatelliteResult, domain.CommitStats, error)
	FillDemographics(ctx context.Context, customers []domain.Customer) (domain.SatelliteResult, domain.CommitStats, error)
}

// VerificationSvc recomputes integrity aggregates. It never writes.
type VerificationSvc interface {
	Verify(ctx context.Context, target int) (domain.VerificationResult, error)
}

// ResetSvc wipes the dataset.
type ResetSvc interface {
	Reset(ctx context.Context) error
}

// PipelineSvc runs the stages of one CLI invocation and returns the run report.
type PipelineSvc interface {
	RunGenerate(ctx context.Context, req PipelineRequest) (domain.RunReport, error)
	RunRepair(ctx context.Context, req PipelineRequest) (domain.RunReport, error)
	RunEnhance(ctx context.Context, req PipelineRequest) (domain.RunReport, error)
	RunVerify(ctx context.Context, req PipelineRequest) (domain.RunReport, error)
}

// RunObserver is notified once when a run finishes, successfully or not.
type RunObserver interface {
	RunFinished(ctx context.Context, report domain.RunReport)
}

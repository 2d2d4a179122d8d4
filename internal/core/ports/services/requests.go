package services

import "github.com/SscSPs/retail_stt_seeder/internal/core/domain"

// GenerateRequest drives one generation pass.
type GenerateRequest struct {
	Target       int               // desired total transaction count
	Window       domain.DateWindow // timestamps are drawn from [Start, End)
	FillExisting bool              // also materialize items for snapshot.Itemless
}

// GenerationOutcome is what a generation pass produced.
type GenerationOutcome struct {
	Result         domain.GenerationResult
	Commits        []domain.CommitStats
	TransactionIDs []int64 // ids of transactions created in this pass
}

// PipelineRequest carries the per-invocation options of the CLI commands.
type PipelineRequest struct {
	RunID         string
	Command       string
	Backend       string
	DryRun        bool
	Generate      GenerateRequest
	SkipRepair    bool
	Enhance       bool
	Substitutions bool
	Demographics  bool
	SkipVerify    bool
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portssvc "github.com/SscSPs/retail_stt_seeder/internal/core/ports/services"
)

type pipelineService struct {
	BaseService
	snapshot      portssvc.SnapshotSvc
	generation    portssvc.GenerationSvc
	repair        portssvc.GapRepairSvc
	enhance       portssvc.EnhanceSvc
	satellites    portssvc.SatelliteSvc
	verification  portssvc.VerificationSvc
	observers     []portssvc.RunObserver
	profile       string
	repairProfile string
	lossyRepair   bool
	now           func() time.Time
}

// PipelineOption configures the pipeline service.
type PipelineOption func(*pipelineService)

// WithRunObserver registers an observer notified once per finished run.
func WithRunObserver(o portssvc.RunObserver) PipelineOption {
	return func(p *pipelineService) {
		if o != nil {
			p.observers = append(p.observers, o)
		}
	}
}

// WithProfileNames records the noise profile names in every report.
func WithProfileNames(profile, repairProfile string) PipelineOption {
	return func(p *pipelineService) {
		p.profile = profile
		p.repairProfile = repairProfile
	}
}

// WithLossyRepairWarning makes every repair pass warn that its profile can drop items.
func WithLossyRepairWarning(lossy bool) PipelineOption {
	return func(p *pipelineService) {
		p.lossyRepair = lossy
	}
}

// NewPipelineService wires the stages of a run.
func NewPipelineService(
	snapshot portssvc.SnapshotSvc,
	generation portssvc.GenerationSvc,
	repair portssvc.GapRepairSvc,
	enhance portssvc.EnhanceSvc,
	satellites portssvc.SatelliteSvc,
	verification portssvc.VerificationSvc,
	opts ...PipelineOption,
) portssvc.PipelineSvc {
	p := &pipelineService{
		snapshot:     snapshot,
		generation:   generation,
		repair:       repair,
		enhance:      enhance,
		satellites:   satellites,
		verification: verification,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipelineService) newReport(req portssvc.PipelineRequest) domain.RunReport {
	return domain.RunReport{
		RunID:     req.RunID,
		Command:   req.Command,
		Backend:   req.Backend,
		DryRun:    req.DryRun,
		Profile:   p.profile,
		StartedAt: p.now(),
	}
}

func (p *pipelineService) finish(ctx context.Context, report *domain.RunReport) {
	report.FinishedAt = p.now()
	for _, o := range p.observers {
		o.RunFinished(ctx, *report)
	}
	p.LogInfo(ctx, "Run finished",
		slog.String("command", report.Command),
		slog.Duration("duration", report.Duration()),
		slog.Int("warnings", len(report.Warnings)))
}

// RunGenerate runs snapshot, generation, the optional repair, enhance and satellite
// stages, then verification.
func (p *pipelineService) RunGenerate(ctx context.Context, req portssvc.PipelineRequest) (report domain.RunReport, err error) {
	report = p.newReport(req)
	defer p.finish(ctx, &report)

	snapshot, err := p.snapshot.TakeSnapshot(ctx, req.Generate.FillExisting)
	if err != nil {
		return report, err
	}
	report.Snapshot = snapshot
	if snapshot.CatalogSynthesized {
		report.AddWarning("catalog was empty, fallback reference data was synthesized")
	}

	outcome, err := p.generation.Generate(ctx, snapshot, req.Generate)
	if err != nil {
		return report, err
	}
	report.Generation = &outcome.Result
	p.addCommits(&report, outcome.Commits)

	if err := p.runOptionalStages(ctx, &report, req, snapshot.Catalog, outcome.TransactionIDs); err != nil {
		return report, err
	}
	return report, p.runVerify(ctx, &report, req)
}

// RunRepair runs only the gap repair loop followed by verification.
func (p *pipelineService) RunRepair(ctx context.Context, req portssvc.PipelineRequest) (report domain.RunReport, err error) {
	report = p.newReport(req)
	defer p.finish(ctx, &report)

	snapshot, err := p.snapshot.TakeSnapshot(ctx, false)
	if err != nil {
		return report, err
	}
	report.Snapshot = snapshot

	if err := p.runRepair(ctx, &report, snapshot.Catalog); err != nil {
		return report, err
	}
	return report, p.runVerify(ctx, &report, req)
}

// RunEnhance adds items to sparse transactions, then repairs gaps unless skipped.
func (p *pipelineService) RunEnhance(ctx context.Context, req portssvc.PipelineRequest) (report domain.RunReport, err error) {
	report = p.newReport(req)
	defer p.finish(ctx, &report)

	snapshot, err := p.snapshot.TakeSnapshot(ctx, false)
	if err != nil {
		return report, err
	}
	report.Snapshot = snapshot

	req.Enhance = true
	if err := p.runOptionalStages(ctx, &report, req, snapshot.Catalog, nil); err != nil {
		return report, err
	}
	return report, p.runVerify(ctx, &report, req)
}

// RunVerify only reads the dataset.
func (p *pipelineService) RunVerify(ctx context.Context, req portssvc.PipelineRequest) (report domain.RunReport, err error) {
	report = p.newReport(req)
	defer p.finish(ctx, &report)

	req.SkipVerify = false
	return report, p.runVerify(ctx, &report, req)
}

func (p *pipelineService) runOptionalStages(ctx context.Context, report *domain.RunReport, req portssvc.PipelineRequest, catalog domain.Catalog, newIDs []int64) error {
	if req.Enhance {
		res, commits, err := p.enhance.Enhance(ctx, catalog)
		if err != nil {
			return err
		}
		report.Enhance = &res
		p.addCommits(report, commits)
	}

	if !req.SkipRepair {
		if err := p.runRepair(ctx, report, catalog); err != nil {
			return err
		}
	}

	if req.Substitutions || req.Demographics {
		sat := domain.SatelliteResult{}
		if req.Substitutions {
			res, stats, err := p.satellites.GenerateSubstitutions(ctx, catalog, newIDs)
			if err != nil {
				return err
			}
			sat.SubstitutionAttempts = res.SubstitutionAttempts
			sat.SubstitutionsCreated = res.SubstitutionsCreated
			report.AddCommitStats(stats)
		}
		if req.Demographics {
			res, stats, err := p.satellites.FillDemographics(ctx, catalog.Customers)
			if err != nil {
				return err
			}
			sat.CustomersExamined = res.CustomersExamined
			sat.CustomersUpdated = res.CustomersUpdated
			report.AddCommitStats(stats)
		}
		report.Satellites = &sat
	}
	return nil
}

func (p *pipelineService) runRepair(ctx context.Context, report *domain.RunReport, catalog domain.Catalog) error {
	report.RepairProfile = p.repairProfile
	if p.lossyRepair {
		report.AddWarning(fmt.Sprintf("repair profile %q can drop items, repaired transactions may stay empty", p.repairProfile))
	}
	res, commits, err := p.repair.Repair(ctx, catalog)
	if err != nil {
		return err
	}
	report.Repair = &res
	p.addCommits(report, commits)
	if !res.Converged() {
		report.AddWarning(fmt.Sprintf(
			"%d transactions still have no items after %d repair passes; row-level security or write permissions may be blocking inserts",
			res.Residual, res.Passes))
	}
	return nil
}

func (p *pipelineService) runVerify(ctx context.Context, report *domain.RunReport, req portssvc.PipelineRequest) error {
	if req.SkipVerify {
		return nil
	}
	res, err := p.verification.Verify(ctx, req.Generate.Target)
	if err != nil {
		return err
	}
	report.Verification = &res
	return nil
}

func (p *pipelineService) addCommits(report *domain.RunReport, commits []domain.CommitStats) {
	for _, stats := range commits {
		if stats.Attempted == 0 && stats.Batches == 0 {
			continue
		}
		report.AddCommitStats(stats)
		if stats.Failed > 0 {
			report.AddWarning(fmt.Sprintf("%d of %d %s rows were not committed", stats.Failed, stats.Attempted, stats.Table))
		}
	}
}

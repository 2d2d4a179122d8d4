package services

import (
	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portsrepo "github.com/SscSPs/retail_stt_seeder/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/retail_stt_seeder/internal/core/ports/services"
)

// ContainerOptions carries the tunables the services are built with.
type ContainerOptions struct {
	Profile           domain.NoiseProfile
	RepairProfile     domain.NoiseProfile
	EnhanceProfile    domain.NoiseProfile
	Commit            CommitPolicy
	Seed              uint64
	RepairPasses      int
	FallbackCustomers int
	VerifyFloorRatio  float64
	EnhanceRules      []domain.EnhanceRule
	Satellite         SatelliteOptions
	Progress          BatchProgressFunc
	Observers         []portssvc.RunObserver
}

// NewServiceContainer creates a new service container with properly initialized dependencies.
// Every stage draws from its own PRNG derived from opts.Seed so runs are reproducible.
func NewServiceContainer(repos portsrepo.RepositoryProvider, opts ContainerOptions) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	var committerOpts []CommitterOption
	if opts.Progress != nil {
		committerOpts = append(committerOpts, WithBatchProgress(opts.Progress))
	}
	committer := NewBatchCommitter(opts.Commit, committerOpts...)

	noise := NewNoiseModel(opts.Profile, NewRand(opts.Seed+1))
	repairNoise := NewNoiseModel(opts.RepairProfile, NewRand(opts.Seed+2))
	enhanceProfile := opts.EnhanceProfile
	if enhanceProfile.Name == "" {
		enhanceProfile = opts.Profile
	}

	container.Catalog = NewCatalogService(repos.CatalogRepo, NewRand(opts.Seed), opts.FallbackCustomers)
	container.Snapshot = NewSnapshotService(container.Catalog, repos.TransactionRepo, repos.ItemRepo)
	container.Generation = NewGenerationService(repos.TransactionRepo, repos.ItemRepo, committer, noise, NewRand(opts.Seed+3))
	container.Repair = NewGapRepairService(repos.TransactionRepo, repos.ItemRepo, committer, repairNoise, opts.RepairPasses)
	container.Enhance = NewEnhanceService(repos.TransactionRepo, repos.ItemRepo, committer,
		NewNoiseModel(enhanceProfile, NewRand(opts.Seed+4)), NewRand(opts.Seed+5), opts.EnhanceRules)
	container.Satellites = NewSatelliteService(repos.SatelliteRepo, committer, NewRand(opts.Seed+6), opts.Satellite)
	container.Verification = NewVerificationService(repos.TransactionRepo, repos.ItemRepo, repos.StatsRepo, opts.VerifyFloorRatio)
	container.Reset = NewResetService(repos.DatasetRepo)

	pipelineOpts := []PipelineOption{
		WithProfileNames(opts.Profile.Name, opts.RepairProfile.Name),
		WithLossyRepairWarning(!opts.RepairProfile.NeverDrops()),
	}
	for _, o := range opts.Observers {
		pipelineOpts = append(pipelineOpts, WithRunObserver(o))
	}
	container.Pipeline = NewPipelineService(
		container.Snapshot,
		container.Generation,
		container.Repair,
		container.Enhance,
		container.Satellites,
		container.Verification,
		pipelineOpts...,
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CatalogSvc      = (*catalogService)(nil)
	_ portssvc.SnapshotSvc     = (*snapshotService)(nil)
	_ portssvc.GenerationSvc   = (*generationService)(nil)
	_ portssvc.GapRepairSvc    = (*gapRepairService)(nil)
	_ portssvc.EnhanceSvc      = (*enhanceService)(nil)
	_ portssvc.SatelliteSvc    = (*satelliteService)(nil)
	_ portssvc.VerificationSvc = (*verificationService)(nil)
	_ portssvc.ResetSvc        = (*resetService)(nil)
	_ portssvc.PipelineSvc     = (*pipelineService)(nil)
)

package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portsrepo "github.com/SscSPs/retail_stt_seeder/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/retail_stt_seeder/internal/core/ports/services"
)

var (
	substitutionReasons   = []string{"Out of stock", "Customer preference", "Price difference", "Recommendation"}
	substitutionLocations = []string{"Manila", "Cebu", "Davao", "Quezon City"}
)

// SatelliteOptions tunes the flavor-data generators.
type SatelliteOptions struct {
	MinSubstitutionAttempts int
	MaxSubstitutionAttempts int
	SubstitutionCapture     float64 // probability an attempt is recorded
	SubstitutionLookback    time.Duration
	AgeCapture              float64
	GenderCapture           float64
	IncomeCapture           float64
}

// DefaultSatelliteOptions returns the capture rates used by the dataset scripts.
func DefaultSatelliteOptions() SatelliteOptions {
	return SatelliteOptions{
		MinSubstitutionAttempts: 50,
		MaxSubstitutionAttempts: 150,
		SubstitutionCapture:     0.7,
		SubstitutionLookback:    30 * 24 * time.Hour,
		AgeCapture:              0.6,
		GenderCapture:           0.5,
		IncomeCapture:           0.2,
	}
}

type satelliteService struct {
	BaseService
	repo      portsrepo.SatelliteRepositoryFacade
	committer *BatchCommitter
	rng       Rand
	opts      SatelliteOptions
	now       func() time.Time
}

// NewSatelliteService creates the substitutions and demographics generator.
func NewSatelliteService(repo portsrepo.SatelliteRepositoryFacade, committer *BatchCommitter, rng Rand, opts SatelliteOptions) portssvc.SatelliteSvc {
	return &satelliteService{repo: repo, committer: committer, rng: rng, opts: opts, now: time.Now}
}

// GenerateSubstitutions simulates original -> substitute pairings. Each attempt is captured
// with SubstitutionCapture probability; original and substitute are always distinct products.
func (s *satelliteService) GenerateSubstitutions(ctx context.Context, catalog domain.Catalog, transactionIDs []int64) (domain.SatelliteResult, domain.CommitStats, error) {
	var result domain.SatelliteResult
	if len(catalog.Products) < 2 {
		s.LogWarn(ctx, "Not enough products for substitutions", slog.Int("products", len(catalog.Products)))
		return result, domain.CommitStats{Table: TableSubstitutions}, nil
	}

	attempts := uniformInt(s.rng, s.opts.MinSubstitutionAttempts, s.opts.MaxSubstitutionAttempts)
	result.SubstitutionAttempts = attempts
	now := s.now()

	subs := make([]domain.Substitution, 0, attempts)
	for range attempts {
		if s.rng.Float64() >= s.opts.SubstitutionCapture {
			continue
		}
		i := s.rng.IntN(len(catalog.Products))
		j := s.rng.IntN(len(catalog.Products) - 1)
		if j >= i {
			j++
		}
		sub := domain.Substitution{
			OriginalProductID:   catalog.Products[i].ID,
			SubstituteProductID: catalog.Products[j].ID,
			Reason:              pick(s.rng, substitutionReasons),
			StoreLocation:       pick(s.rng, substitutionLocations),
			CreatedAt:           now.Add(-time.Duration(s.rng.Float64() * float64(s.opts.SubstitutionLookback))),
		}
		if len(transactionIDs) > 0 {
			id := pick(s.rng, transactionIDs)
			sub.TransactionID = &id
		}
		subs = append(subs, sub)
	}

	committed, stats := CommitInBatches(ctx, s.committer, TableSubstitutions, subs, s.repo.InsertSubstitutions)
	result.SubstitutionsCreated = len(committed)
	s.LogInfo(ctx, "Substitutions generated",
		slog.Int("attempts", attempts), slog.Int("created", result.SubstitutionsCreated))
	return result, stats, nil
}

// FillDemographics captures missing age, gender and income on customers that lack them.
// Fields already present are never overwritten.
func (s *satelliteService) FillDemographics(ctx context.Context, customers []domain.Customer) (domain.SatelliteResult, domain.CommitStats, error) {
	var result domain.SatelliteResult
	updates := make([]domain.DemographicUpdate, 0)

	for _, c := range customers {
		if c.HasDemographics() {
			continue
		}
		result.CustomersExamined++
		update := domain.DemographicUpdate{CustomerID: c.ID}
		if c.Age == nil && s.rng.Float64() < s.opts.AgeCapture {
			age := uniformInt(s.rng, 18, 77)
			update.Age = &age
		}
		if c.Gender == nil && s.rng.Float64() < s.opts.GenderCapture {
			gender := pick(s.rng, customerGenders)
			update.Gender = &gender
		}
		if c.IncomeRange == nil && s.rng.Float64() < s.opts.IncomeCapture {
			income := pick(s.rng, incomeRanges)
			update.IncomeRange = &income
		}
		if !update.IsEmpty() {
			updates = append(updates, update)
		}
	}

	committed, stats := CommitInBatches(ctx, s.committer, TableDemographics, updates, s.repo.UpdateDemographics)
	result.CustomersUpdated = len(committed)
	s.LogInfo(ctx, "Customer demographics filled",
		slog.Int("examined", result.CustomersExamined), slog.Int("updated", result.CustomersUpdated))
	return result, stats, nil
}

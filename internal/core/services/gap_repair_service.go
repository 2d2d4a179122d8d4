package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portsrepo "github.com/SscSPs/retail_stt_seeder/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/retail_stt_seeder/internal/core/ports/services"
)

// DefaultRepairPasses bounds the gap repair loop.
const DefaultRepairPasses = 3

type gapRepairService struct {
	BaseService
	txnRepo   portsrepo.TransactionRepositoryFacade
	noise     *NoiseModel
	filler    *itemFiller
	maxPasses int
}

// NewGapRepairService creates the gap repair pass. noise should use a high-success
// profile so the loop converges.
func NewGapRepairService(txnRepo portsrepo.TransactionRepositoryFacade, itemRepo portsrepo.ItemWriter, committer *BatchCommitter, noise *NoiseModel, maxPasses int) portssvc.GapRepairSvc {
	if maxPasses <= 0 {
		maxPasses = DefaultRepairPasses
	}
	return &gapRepairService{
		txnRepo:   txnRepo,
		noise:     noise,
		filler:    newItemFiller(txnRepo, itemRepo, committer, noise),
		maxPasses: maxPasses,
	}
}

// Repair finds transactions with no items and backfills them, pass after pass, until none
// remain or maxPasses is exhausted. A residual is reported, not returned as an error.
func (s *gapRepairService) Repair(ctx context.Context, catalog domain.Catalog) (domain.RepairResult, []domain.CommitStats, error) {
	var result domain.RepairResult
	var commits []domain.CommitStats

	if len(catalog.Products) == 0 {
		return result, nil, apperrors.ErrEmptyCatalog
	}

	gaps, err := s.txnRepo.ListTransactionFills(ctx, 0)
	if err != nil {
		return result, nil, apperrors.NewAppError(503, "failed to list item-less transactions", err)
	}
	result.InitialGaps = len(gaps)

	for pass := 1; pass <= s.maxPasses && len(gaps) > 0; pass++ {
		if ctx.Err() != nil {
			break
		}
		result.Passes = pass
		result.GapsPerPass = append(result.GapsPerPass, len(gaps))
		s.LogInfo(ctx, "Gap repair pass", slog.Int("pass", pass), slog.Int("itemless", len(gaps)))

		res := s.filler.fill(ctx, gaps, func(domain.TransactionFill) CaptureDecision {
			return s.noise.DecideItems(catalog.Products)
		})
		result.Repaired += res.Filled
		result.ItemsAdded += res.ItemsCreated
		result.TotalsUpdated += res.TotalsUpdated
		commits = append(commits, res.Commits...)

		gaps, err = s.txnRepo.ListTransactionFills(ctx, 0)
		if err != nil {
			return result, commits, apperrors.NewAppError(503, "failed to list item-less transactions", err)
		}
	}

	result.Residual = len(gaps)
	if result.Residual > 0 {
		s.LogWarn(ctx, "Transactions still without items after gap repair, check row-level security and write permissions",
			slog.Int("residual", result.Residual), slog.Int("passes", result.Passes))
	} else {
		s.LogInfo(ctx, "Gap repair converged",
			slog.Int("repaired", result.Repaired), slog.Int("items_added", result.ItemsAdded))
	}
	return result, commits, nil
}

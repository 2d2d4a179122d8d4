package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portsrepo "github.com/SscSPs/retail_stt_seeder/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/retail_stt_seeder/internal/core/ports/services"
	"github.com/SscSPs/retail_stt_seeder/internal/utils/accounting"
)

// DefaultVerifyFloorRatio is the lowest stored-total floor any built-in profile uses.
const DefaultVerifyFloorRatio = 0.7

type verificationService struct {
	BaseService
	txnRepo    portsrepo.TransactionReader
	itemRepo   portsrepo.ItemReader
	statsRepo  portsrepo.StatsReader
	floorRatio float64
}

// NewVerificationService creates the read-only verification pass.
func NewVerificationService(txnRepo portsrepo.TransactionReader, itemRepo portsrepo.ItemReader, statsRepo portsrepo.StatsReader, floorRatio float64) portssvc.VerificationSvc {
	if floorRatio <= 0 {
		floorRatio = DefaultVerifyFloorRatio
	}
	return &verificationService{txnRepo: txnRepo, itemRepo: itemRepo, statsRepo: statsRepo, floorRatio: floorRatio}
}

// Verify recomputes transaction and item counts, the items-per-transaction histogram and
// the revenue reconciliation. It performs no writes.
func (s *verificationService) Verify(ctx context.Context, target int) (domain.VerificationResult, error) {
	result := domain.VerificationResult{Target: target}
	var err error

	if result.TransactionCount, err = s.txnRepo.CountTransactions(ctx); err != nil {
		return result, apperrors.NewAppError(503, "failed to count transactions", err)
	}
	if result.ItemCount, err = s.itemRepo.CountItems(ctx); err != nil {
		return result, apperrors.NewAppError(503, "failed to count transaction items", err)
	}
	if result.Histogram, err = s.statsRepo.ItemHistogram(ctx); err != nil {
		return result, apperrors.NewAppError(503, "failed to compute item histogram", err)
	}
	if result.StoredRevenue, result.ItemRevenue, err = s.statsRepo.RevenueTotals(ctx); err != nil {
		return result, apperrors.NewAppError(503, "failed to compute revenue totals", err)
	}
	if result.InvalidItemCount, err = s.statsRepo.CountInvalidItems(ctx); err != nil {
		return result, apperrors.NewAppError(503, "failed to count invalid items", err)
	}
	if result.FloorViolations, err = s.statsRepo.CountFloorViolations(ctx, s.floorRatio); err != nil {
		return result, apperrors.NewAppError(503, "failed to count total floor violations", err)
	}

	if result.TransactionCount > 0 {
		avg := float64(result.ItemCount) / float64(result.TransactionCount)
		result.ItemsPerTransaction = math.Round(avg*100) / 100
	}
	for _, b := range result.Histogram {
		if b.Items == 0 {
			result.ZeroItemCount = b.Transactions
		}
	}

	result.DiscrepancyPct = accounting.DiscrepancyPct(result.StoredRevenue, result.ItemRevenue)
	result.Grade = accounting.GradeDiscrepancy(result.DiscrepancyPct)

	if !result.TargetMet() {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("transaction count %d is below target %d", result.TransactionCount, target))
	}
	if result.ZeroItemCount > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d transactions have no items; check row-level security and write permissions", result.ZeroItemCount))
	}
	if result.InvalidItemCount > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d items have quantity < 1 or price <= 0", result.InvalidItemCount))
	}
	if result.FloorViolations > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d transactions store a total below %.0f%% of their item sum", result.FloorViolations, s.floorRatio*100))
	}
	if result.Grade == domain.GradeNeedsAttention {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("revenue discrepancy %.2f%% needs attention", result.DiscrepancyPct))
	}

	result.Passed = result.TargetMet() &&
		result.ZeroItemCount == 0 &&
		result.InvalidItemCount == 0 &&
		result.FloorViolations == 0 &&
		result.Grade != domain.GradeNeedsAttention

	s.LogInfo(ctx, "Verification finished",
		slog.Int64("transactions", result.TransactionCount),
		slog.Int64("items", result.ItemCount),
		slog.Float64("items_per_transaction", result.ItemsPerTransaction),
		slog.Float64("discrepancy_pct", result.DiscrepancyPct),
		slog.String("grade", string(result.Grade)),
		slog.Bool("passed", result.Passed))
	return result, nil
}

type resetService struct {
	BaseService
	repo portsrepo.DatasetResetter
}

// NewResetService creates the dataset reset service.
func NewResetService(repo portsrepo.DatasetResetter) portssvc.ResetSvc {
	return &resetService{repo: repo}
}

// Reset deletes every generated and reference row.
func (s *resetService) Reset(ctx context.Context) error {
	s.LogWarn(ctx, "Resetting dataset")
	if err := s.repo.ResetDataset(ctx); err != nil {
		return apperrors.NewAppError(503, "failed to reset dataset", err)
	}
	s.LogInfo(ctx, "Dataset reset")
	return nil
}

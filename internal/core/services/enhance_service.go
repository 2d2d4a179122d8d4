package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portsrepo "github.com/SscSPs/retail_stt_seeder/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/retail_stt_seeder/internal/core/ports/services"
)

type enhanceService struct {
	BaseService
	txnRepo portsrepo.TransactionRepositoryFacade
	noise   *NoiseModel
	filler  *itemFiller
	rng     Rand
	rules   map[int]domain.EnhanceRule
	maxSeen int
}

// NewEnhanceService creates the pass that adds extra captured items to sparse transactions.
func NewEnhanceService(txnRepo portsrepo.TransactionRepositoryFacade, itemRepo portsrepo.ItemWriter, committer *BatchCommitter, noise *NoiseModel, rng Rand, rules []domain.EnhanceRule) portssvc.EnhanceSvc {
	s := &enhanceService{
		txnRepo: txnRepo,
		noise:   noise,
		filler:  newItemFiller(txnRepo, itemRepo, committer, noise),
		rng:     rng,
		rules:   make(map[int]domain.EnhanceRule, len(rules)),
	}
	for _, r := range rules {
		s.rules[r.ExistingItems] = r
		s.maxSeen = max(s.maxSeen, r.ExistingItems)
	}
	return s
}

// Enhance lists transactions holding at most the largest rule's item count and, per the
// rule matching each one's current count, adds extra items with the rule's probability.
// Totals are recomputed over existing plus new items.
func (s *enhanceService) Enhance(ctx context.Context, catalog domain.Catalog) (domain.EnhanceResult, []domain.CommitStats, error) {
	var result domain.EnhanceResult
	if len(catalog.Products) == 0 {
		return result, nil, apperrors.ErrEmptyCatalog
	}
	if len(s.rules) == 0 {
		return result, nil, nil
	}

	fills, err := s.txnRepo.ListTransactionFills(ctx, s.maxSeen)
	if err != nil {
		return result, nil, apperrors.NewAppError(503, "failed to list sparse transactions", err)
	}
	result.Examined = len(fills)

	res := s.filler.fill(ctx, fills, func(fill domain.TransactionFill) CaptureDecision {
		rule, ok := s.rules[fill.ItemCount]
		if !ok || s.rng.Float64() >= rule.Probability {
			return CaptureDecision{}
		}
		return s.noise.DecideCount(uniformInt(s.rng, rule.Min, rule.Max), catalog.Products)
	})

	result.Enhanced = res.Filled
	result.ItemsAdded = res.ItemsCreated
	result.TotalsUpdated = res.TotalsUpdated

	s.LogInfo(ctx, "Enhance pass finished",
		slog.Int("examined", result.Examined),
		slog.Int("enhanced", result.Enhanced),
		slog.Int("items_added", result.ItemsAdded))
	return result, res.Commits, nil
}

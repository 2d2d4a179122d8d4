package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portsrepo "github.com/SscSPs/retail_stt_seeder/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/retail_stt_seeder/internal/core/ports/services"
)

type generationService struct {
	BaseService
	txnRepo   portsrepo.TransactionWriter
	committer *BatchCommitter
	synth     *Synthesizer
	noise     *NoiseModel
	filler    *itemFiller
}

// NewGenerationService creates the service that drafts, captures and commits new transactions.
func NewGenerationService(txnRepo portsrepo.TransactionWriter, itemRepo portsrepo.ItemWriter, committer *BatchCommitter, noise *NoiseModel, rng Rand) portssvc.GenerationSvc {
	return &generationService{
		txnRepo:   txnRepo,
		committer: committer,
		synth:     NewSynthesizer(rng),
		noise:     noise,
		filler:    newItemFiller(txnRepo, itemRepo, committer, noise),
	}
}

// Generate tops the dataset up from snapshot.TransactionCount to req.Target, then runs
// the noise model over every new transaction (and, with FillExisting, over the snapshot's
// item-less transactions).
func (s *generationService) Generate(ctx context.Context, snapshot domain.DatasetSnapshot, req portssvc.GenerateRequest) (portssvc.GenerationOutcome, error) {
	var outcome portssvc.GenerationOutcome
	if err := req.Window.Validate(); err != nil {
		return outcome, err
	}
	if err := snapshot.Catalog.Validate(); err != nil {
		return outcome, err
	}

	deficit := snapshot.Deficit(req.Target)
	outcome.Result.Requested = deficit

	fills := make([]domain.TransactionFill, 0, deficit+len(snapshot.Itemless))
	if deficit > 0 {
		s.LogInfo(ctx, "Drafting transactions",
			slog.Int("target", req.Target),
			slog.Int64("existing", snapshot.TransactionCount),
			slog.Int("deficit", deficit))

		drafts := s.synth.Draft(deficit, req.Window, snapshot.Catalog)
		created, stats := CommitInBatches(ctx, s.committer, TableTransactions, drafts, s.txnRepo.InsertTransactions)
		outcome.Commits = append(outcome.Commits, stats)
		outcome.Result.TransactionsCreated = len(created)

		outcome.TransactionIDs = make([]int64, 0, len(created))
		for _, txn := range created {
			outcome.TransactionIDs = append(outcome.TransactionIDs, txn.ID)
			fills = append(fills, domain.TransactionFill{Transaction: txn})
		}
	} else {
		s.LogInfo(ctx, "Target already reached, no transactions drafted",
			slog.Int("target", req.Target), slog.Int64("existing", snapshot.TransactionCount))
	}

	if req.FillExisting {
		fills = append(fills, snapshot.Itemless...)
	}
	if len(fills) == 0 {
		return outcome, nil
	}

	products := snapshot.Catalog.Products
	res := s.filler.fill(ctx, fills, func(domain.TransactionFill) CaptureDecision {
		return s.noise.Decide(products)
	})

	outcome.Result.TransactionsMissed = res.Missed
	outcome.Result.ItemsCreated = res.ItemsCreated
	outcome.Result.ItemsDropped = res.ItemsDropped
	outcome.Result.TotalsUpdated = res.TotalsUpdated
	outcome.Result.TierCounts = res.TierCounts
	outcome.Commits = append(outcome.Commits, res.Commits...)

	s.LogInfo(ctx, "Generation pass finished",
		slog.Int("transactions_created", outcome.Result.TransactionsCreated),
		slog.Int("transactions_missed", res.Missed),
		slog.Int("items_created", res.ItemsCreated),
		slog.Int("items_dropped", res.ItemsDropped),
		slog.Int("totals_updated", res.TotalsUpdated))
	return outcome, nil
}

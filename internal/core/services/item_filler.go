package services

import (
	"context"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portsrepo "github.com/SscSPs/retail_stt_seeder/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Table names used in commit statistics.
const (
	TableTransactions  = "transactions"
	TableItems         = "transaction_items"
	TableTotals        = "transaction_totals"
	TableSubstitutions = "substitutions"
	TableDemographics  = "customer_demographics"
)

// itemFiller runs the noise model over a set of transactions, commits the resulting items
// and then rewrites each affected total from the items that actually committed.
type itemFiller struct {
	txnRepo      portsrepo.TransactionWriter
	itemRepo     portsrepo.ItemWriter
	committer    *BatchCommitter
	noise        *NoiseModel
	materializer *Materializer
}

func newItemFiller(txnRepo portsrepo.TransactionWriter, itemRepo portsrepo.ItemWriter, committer *BatchCommitter, noise *NoiseModel) *itemFiller {
	return &itemFiller{
		txnRepo:      txnRepo,
		itemRepo:     itemRepo,
		committer:    committer,
		noise:        noise,
		materializer: NewMaterializer(noise.Profile()),
	}
}

type fillResult struct {
	Filled        int // transactions that received at least one committed item
	Missed        int
	ItemsCreated  int
	ItemsDropped  int
	TotalsUpdated int
	TierCounts    map[string]int
	Commits       []domain.CommitStats
}

// decideFunc produces the capture decision for one transaction.
type decideFunc func(fill domain.TransactionFill) CaptureDecision

func (f *itemFiller) fill(ctx context.Context, fills []domain.TransactionFill, decide decideFunc) fillResult {
	res := fillResult{TierCounts: make(map[string]int)}

	items := make([]domain.TransactionItem, 0, len(fills)*3)
	baseSums := make(map[int64]decimal.Decimal, len(fills))
	variances := make(map[int64]float64, len(fills))

	for _, fill := range fills {
		decision := decide(fill)
		if decision.Missed {
			res.Missed++
			continue
		}
		if decision.Sampled == 0 {
			continue
		}
		if decision.Tier != "" {
			res.TierCounts[decision.Tier]++
		}
		id := fill.Transaction.ID
		mat := f.materializer.Materialize(id, decision, f.noise.Variance())
		res.ItemsDropped += decision.Dropped()
		items = append(items, mat.Items...)
		baseSums[id] = fill.ItemSum
		variances[id] = mat.Variance
	}

	committed, itemStats := CommitInBatches(ctx, f.committer, TableItems, items, f.itemRepo.InsertItems)
	res.Commits = append(res.Commits, itemStats)
	res.ItemsCreated = len(committed)

	updates := f.materializer.TotalUpdates(committed, baseSums, variances)
	res.Filled = len(updates)

	updated, totalStats := CommitInBatches(ctx, f.committer, TableTotals, updates, f.txnRepo.UpdateTransactionTotals)
	res.Commits = append(res.Commits, totalStats)
	res.TotalsUpdated = len(updated)
	return res
}

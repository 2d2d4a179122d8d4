package services

import (
	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/SscSPs/retail_stt_seeder/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// MaterializedTransaction is the concrete output of one capture decision.
type MaterializedTransaction struct {
	TransactionID int64
	Items         []domain.TransactionItem
	Variance      float64
	Decision      CaptureDecision
}

// Sum returns quantity x price over the materialized items.
func (m MaterializedTransaction) Sum() decimal.Decimal {
	return domain.SumItems(m.Items)
}

// Materializer turns capture decisions into item rows and recomputes totals.
type Materializer struct {
	floorRatio float64
}

// NewMaterializer creates a materializer using the profile's total floor.
func NewMaterializer(profile domain.NoiseProfile) *Materializer {
	return &Materializer{floorRatio: profile.TotalVariance.FloorRatio}
}

// Materialize emits item rows for the captures that survived. Dropped captures are never emitted.
func (m *Materializer) Materialize(transactionID int64, decision CaptureDecision, variance float64) MaterializedTransaction {
	out := MaterializedTransaction{
		TransactionID: transactionID,
		Variance:      variance,
		Decision:      decision,
	}
	if decision.Missed {
		return out
	}
	for _, c := range decision.Kept() {
		item := domain.TransactionItem{
			TransactionID: transactionID,
			ProductID:     c.ProductID,
			Quantity:      c.Quantity,
			Price:         c.Price,
		}
		if item.Validate() != nil {
			continue
		}
		out.Items = append(out.Items, item)
	}
	return out
}

// StoredTotal recomputes a transaction total from an item sum: perturbed by variance
// and floored at floorRatio x sum.
func (m *Materializer) StoredTotal(sum decimal.Decimal, variance float64) decimal.Decimal {
	return accounting.PerturbedTotal(sum, variance, m.floorRatio)
}

// TotalUpdates builds total updates from the items that actually committed.
// baseSums holds the pre-existing item sum per transaction (zero for new transactions);
// variances holds each transaction's variance draw. Transactions with no committed
// items keep their stored total.
func (m *Materializer) TotalUpdates(committed []domain.TransactionItem, baseSums map[int64]decimal.Decimal, variances map[int64]float64) []domain.TotalUpdate {
	sums := make(map[int64]decimal.Decimal)
	order := make([]int64, 0)
	for _, item := range committed {
		if _, seen := sums[item.TransactionID]; !seen {
			order = append(order, item.TransactionID)
			sums[item.TransactionID] = baseSums[item.TransactionID]
		}
		sums[item.TransactionID] = sums[item.TransactionID].Add(item.LineTotal())
	}

	updates := make([]domain.TotalUpdate, 0, len(order))
	for _, id := range order {
		updates = append(updates, domain.TotalUpdate{
			TransactionID: id,
			TotalAmount:   m.StoredTotal(sums[id], variances[id]),
		})
	}
	return updates
}

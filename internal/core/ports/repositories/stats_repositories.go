package repositories

import (
	"context"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatsReader defines the aggregate queries behind the verification pass.
// Implementations must be side-effect free.
type StatsReader interface {
	// ItemHistogram returns the number of transactions per item count, including the 0 bucket.
	ItemHistogram(ctx context.Context) ([]domain.HistogramBucket, error)

	// RevenueTotals returns the sum of stored transaction totals and the sum of quantity x price over all items.
	RevenueTotals(ctx context.Context) (stored decimal.Decimal, items decimal.Decimal, err error)

	// CountInvalidItems counts items with quantity < 1 or price <= 0.
	CountInvalidItems(ctx context.Context) (int64, error)

	// CountFloorViolations counts transactions whose stored total is below floorRatio x item sum.
	CountFloorViolations(ctx context.Context, floorRatio float64) (int64, error)
}

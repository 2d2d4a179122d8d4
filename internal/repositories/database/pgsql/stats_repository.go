package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portsrepo "github.com/SscSPs/retail_stt_seeder/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxStatsRepository struct {
	BaseRepository
}

// newPgxStatsRepository creates the read-only aggregate repository.
func newPgxStatsRepository(pool *pgxpool.Pool) portsrepo.StatsReader {
	return &PgxStatsRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.StatsReader = (*PgxStatsRepository)(nil)

// ItemHistogram returns the number of transactions per item count, including the 0 bucket.
func (r *PgxStatsRepository) ItemHistogram(ctx context.Context) ([]domain.HistogramBucket, error) {
	query := `
		SELECT item_count, COUNT(*) AS transactions
		FROM (
			SELECT t.id, COUNT(i.id) AS item_count
			FROM transactions t
			LEFT JOIN transaction_items i ON i.transaction_id = t.id
			GROUP BY t.id
		) counts
		GROUP BY item_count
		ORDER BY item_count;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query item histogram: %w", err)
	}
	buckets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.HistogramBucket, error) {
		var b domain.HistogramBucket
		err := row.Scan(&b.Items, &b.Transactions)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan item histogram: %w", err)
	}
	return buckets, nil
}

// RevenueTotals returns the sum of stored totals and the sum of quantity x price over all items.
func (r *PgxStatsRepository) RevenueTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(total_amount) FROM transactions), 0),
			COALESCE((SELECT SUM(quantity * price) FROM transaction_items), 0);
	`
	var stored, items decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query).Scan(&stored, &items); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to query revenue totals: %w", err)
	}
	return stored, items, nil
}

// CountInvalidItems counts items with quantity < 1 or price <= 0.
func (r *PgxStatsRepository) CountInvalidItems(ctx context.Context) (int64, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM transaction_items WHERE quantity < 1 OR price <= 0;`)
	if err != nil {
		return 0, fmt.Errorf("failed to count invalid items: %w", err)
	}
	return n, nil
}

// CountFloorViolations counts transactions whose stored total is below floorRatio x item sum.
func (r *PgxStatsRepository) CountFloorViolations(ctx context.Context, floorRatio float64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM (
			SELECT COALESCE(t.total_amount, 0) AS total_amount, SUM(i.quantity * i.price) AS item_sum
			FROM transactions t
			JOIN transaction_items i ON i.transaction_id = t.id
			GROUP BY t.id, t.total_amount
		) sums
		WHERE sums.total_amount < sums.item_sum * $1::numeric;
	`
	n, err := r.count(ctx, query, floorRatio)
	if err != nil {
		return 0, fmt.Errorf("failed to count floor violations: %w", err)
	}
	return n, nil
}

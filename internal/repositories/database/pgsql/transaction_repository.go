package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portsrepo "github.com/SscSPs/retail_stt_seeder/internal/core/ports/repositories"
	"github.com/SscSPs/retail_stt_seeder/internal/models"
	"github.com/SscSPs/retail_stt_seeder/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// CountTransactions returns the number of stored transactions.
func (r *PgxTransactionRepository) CountTransactions(ctx context.Context) (int64, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM transactions;`)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

// ListTransactionFills returns transactions owning at most maxItems items along with their
// current item count and item sum.
func (r *PgxTransactionRepository) ListTransactionFills(ctx context.Context, maxItems int) ([]domain.TransactionFill, error) {
	query := `
		SELECT t.id, COALESCE(t.store_id, 0), t.customer_id, COALESCE(t.created_at, now()),
		       COALESCE(t.total_amount, 0), t.payment_method, t.checkout_seconds, t.is_weekend,
		       t.store_location, t.customer_age, t.customer_gender,
		       COUNT(i.id) AS item_count,
		       COALESCE(SUM(i.quantity * i.price), 0) AS item_sum
		FROM transactions t
		LEFT JOIN transaction_items i ON i.transaction_id = t.id
		GROUP BY t.id
		HAVING COUNT(i.id) <= $1
		ORDER BY t.id;
	`
	rows, err := r.Pool.Query(ctx, query, maxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction fills: %w", err)
	}

	fills, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.TransactionFill, error) {
		var f models.TransactionFill
		err := row.Scan(
			&f.ID,
			&f.StoreID,
			&f.CustomerID,
			&f.CreatedAt,
			&f.TotalAmount,
			&f.PaymentMethod,
			&f.CheckoutSeconds,
			&f.IsWeekend,
			&f.StoreLocation,
			&f.CustomerAge,
			&f.CustomerGender,
			&f.ItemCount,
			&f.ItemSum,
		)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction fills: %w", err)
	}
	return mapping.ToDomainSlice(fills, mapping.ToDomainTransactionFill), nil
}

// InsertTransactions persists drafts and returns them with their ids.
func (r *PgxTransactionRepository) InsertTransactions(ctx context.Context, txns []domain.Transaction) ([]domain.Transaction, error) {
	rows := mapping.ToModelSlice(txns, mapping.ToModelTransaction)
	query := `
		INSERT INTO transactions (
			store_id, customer_id, created_at, total_amount, payment_method,
			checkout_seconds, is_weekend, store_location, customer_age, customer_gender
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id;
	`
	err := r.insertReturningIDs(ctx, query, len(rows),
		func(i int) []any {
			t := rows[i]
			return []any{
				t.StoreID,
				t.CustomerID,
				t.CreatedAt,
				t.TotalAmount,
				t.PaymentMethod,
				t.CheckoutSeconds,
				t.IsWeekend,
				t.StoreLocation,
				t.CustomerAge,
				t.CustomerGender,
			}
		},
		func(i int, id int64) { rows[i].ID = id })
	if err != nil {
		return nil, fmt.Errorf("failed to insert transactions: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainTransaction), nil
}

// UpdateTransactionTotals overwrites stored totals and returns the updates that matched a row.
func (r *PgxTransactionRepository) UpdateTransactionTotals(ctx context.Context, updates []domain.TotalUpdate) ([]domain.TotalUpdate, error) {
	query := `UPDATE transactions SET total_amount = $2 WHERE id = $1;`
	matched, err := r.execEach(ctx, query, len(updates), func(i int) []any {
		return []any{updates[i].TransactionID, updates[i].TotalAmount}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction totals: %w", err)
	}
	return pick(updates, matched), nil
}

type PgxItemRepository struct {
	BaseRepository
}

// newPgxItemRepository creates a new repository for transaction items.
func newPgxItemRepository(pool *pgxpool.Pool) portsrepo.ItemRepositoryFacade {
	return &PgxItemRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ItemRepositoryFacade = (*PgxItemRepository)(nil)

// CountItems returns the number of stored transaction items.
func (r *PgxItemRepository) CountItems(ctx context.Context) (int64, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM transaction_items;`)
	if err != nil {
		return 0, fmt.Errorf("failed to count transaction items: %w", err)
	}
	return n, nil
}

// InsertItems persists items and returns them with their ids.
func (r *PgxItemRepository) InsertItems(ctx context.Context, items []domain.TransactionItem) ([]domain.TransactionItem, error) {
	rows := mapping.ToModelSlice(items, mapping.ToModelTransactionItem)
	query := `
		INSERT INTO transaction_items (transaction_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`
	err := r.insertReturningIDs(ctx, query, len(rows),
		func(i int) []any {
			it := rows[i]
			return []any{it.TransactionID, it.ProductID, it.Quantity, it.Price}
		},
		func(i int, id int64) { rows[i].ID = id })
	if err != nil {
		return nil, fmt.Errorf("failed to insert items: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainTransactionItem), nil
}

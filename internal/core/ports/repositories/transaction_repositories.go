package repositories

import (
	"context"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// CountTransactions returns the number of stored transactions.
	CountTransactions(ctx context.Context) (int64, error)

	// ListTransactionFills returns every transaction owning at most maxItems items,
	// together with its current item count and item sum. maxItems = 0 is the
	// anti-join used by gap repair.
	ListTransactionFills(ctx context.Context, maxItems int) ([]domain.TransactionFill, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// InsertTransactions persists drafts and returns them with store-assigned ids.
	InsertTransactions(ctx context.Context, txns []domain.Transaction) ([]domain.Transaction, error)

	// UpdateTransactionTotals overwrites stored totals and returns the updates that matched a row.
	UpdateTransactionTotals(ctx context.Context, updates []domain.TotalUpdate) ([]domain.TotalUpdate, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

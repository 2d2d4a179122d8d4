package repositories

import (
	"context"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
)

// ItemReader defines read operations for transaction items
type ItemReader interface {
	CountItems(ctx context.Context) (int64, error)
}

// ItemWriter defines write operations for transaction items.
// Items are only ever inserted; repairs add rows rather than editing existing ones.
type ItemWriter interface {
	InsertItems(ctx context.Context, items []domain.TransactionItem) ([]domain.TransactionItem, error)
}

// ItemRepositoryFacade combines all item-related repository interfaces
type ItemRepositoryFacade interface {
	ItemReader
	ItemWriter
}

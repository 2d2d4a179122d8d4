package dryrun_test

import (
	"context"
	"testing"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/SscSPs/retail_stt_seeder/internal/repositories/dryrun"
	"github.com/SscSPs/retail_stt_seeder/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_WritesAreSuppressed(t *testing.T) {
	ctx := context.Background()
	base := memory.NewStore()
	stores, err := base.InsertStores(ctx, []domain.Store{{Name: "Tondo"}})
	require.NoError(t, err)
	existing, err := base.InsertTransactions(ctx, []domain.Transaction{{StoreID: stores[0].ID}, {StoreID: stores[0].ID}})
	require.NoError(t, err)

	rec := dryrun.NewRecorder()
	repos := dryrun.NewRepositoryProvider(memory.NewRepositoryProvider(base), rec)

	txns, err := repos.TransactionRepo.InsertTransactions(ctx, []domain.Transaction{{StoreID: stores[0].ID}})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Negative(t, txns[0].ID)

	items, err := repos.ItemRepo.InsertItems(ctx, []domain.TransactionItem{
		{TransactionID: existing[0].ID, ProductID: 1, Quantity: 1, Price: decimal.NewFromInt(10)},
		{TransactionID: existing[0].ID, ProductID: 1, Quantity: 2, Price: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.NotEqual(t, items[0].ID, items[1].ID)

	n, err := repos.TransactionRepo.CountTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "base store is untouched")

	gaps, err := repos.TransactionRepo.ListTransactionFills(ctx, 0)
	require.NoError(t, err)
	require.Len(t, gaps, 1, "filled transaction is hidden")
	assert.Equal(t, existing[1].ID, gaps[0].Transaction.ID)

	updated, err := repos.TransactionRepo.UpdateTransactionTotals(ctx, []domain.TotalUpdate{{TransactionID: existing[0].ID}})
	require.NoError(t, err)
	assert.Len(t, updated, 1)

	require.NoError(t, repos.DatasetRepo.ResetDataset(ctx))
	products, _ := base.ListStores(ctx)
	assert.Len(t, products, 1)

	assert.Equal(t, map[string]int{
		"transactions":       1,
		"transaction_items":  2,
		"transaction_totals": 1,
		"reset":              1,
	}, rec.Writes())
}

func TestProvider_CatalogInsertsEchoInput(t *testing.T) {
	ctx := context.Background()
	rec := dryrun.NewRecorder()
	repos := dryrun.NewRepositoryProvider(memory.NewRepositoryProvider(memory.NewStore()), rec)

	brands, err := repos.CatalogRepo.InsertBrands(ctx, []domain.Brand{{Name: "Alaska"}, {Name: "Oishi"}})
	require.NoError(t, err)
	require.Len(t, brands, 2)
	assert.Equal(t, "Oishi", brands[1].Name)
	assert.Negative(t, brands[1].ID)

	listed, err := repos.CatalogRepo.ListBrands(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
	assert.Equal(t, 2, rec.Writes()["brands"])
}

package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/SscSPs/retail_stt_seeder/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *memory.Store) (domain.Store, domain.Product) {
	t.Helper()
	ctx := context.Background()
	price := decimal.NewFromInt(40)
	stores, err := s.InsertStores(ctx, []domain.Store{{Name: "Quiapo", Location: "Manila"}})
	require.NoError(t, err)
	products, err := s.InsertProducts(ctx, []domain.Product{{Name: "Evap", Price: &price}})
	require.NoError(t, err)
	return stores[0], products[0]
}

func TestStore_InsertAssignsIDsAndCounts(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	store, product := seed(t, s)

	txns, err := s.InsertTransactions(ctx, []domain.Transaction{
		{StoreID: store.ID, CreatedAt: time.Now(), TotalAmount: decimal.NewFromInt(100)},
		{StoreID: store.ID, CreatedAt: time.Now(), TotalAmount: decimal.NewFromInt(200)},
	})
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.NotZero(t, txns[0].ID)
	assert.NotEqual(t, txns[0].ID, txns[1].ID)

	_, err = s.InsertItems(ctx, []domain.TransactionItem{
		{TransactionID: txns[0].ID, ProductID: product.ID, Quantity: 2, Price: decimal.NewFromInt(40)},
	})
	require.NoError(t, err)

	n, _ := s.CountTransactions(ctx)
	assert.Equal(t, int64(2), n)
	n, _ = s.CountItems(ctx)
	assert.Equal(t, int64(1), n)

	gaps, err := s.ListTransactionFills(ctx, 0)
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, txns[1].ID, gaps[0].Transaction.ID)

	sparse, err := s.ListTransactionFills(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sparse, 2)
	assert.Equal(t, 1, sparse[0].ItemCount)
	assert.Equal(t, "80", sparse[0].ItemSum.String())
}

func TestStore_ForeignKeyAndCheckViolationsAreConstraintErrors(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	store, product := seed(t, s)
	txns, err := s.InsertTransactions(ctx, []domain.Transaction{{StoreID: store.ID}})
	require.NoError(t, err)

	tests := []struct {
		name string
		item domain.TransactionItem
	}{
		{name: "unknown transaction", item: domain.TransactionItem{TransactionID: 999, ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(1)}},
		{name: "unknown product", item: domain.TransactionItem{TransactionID: txns[0].ID, ProductID: 999, Quantity: 1, Price: decimal.NewFromInt(1)}},
		{name: "zero quantity", item: domain.TransactionItem{TransactionID: txns[0].ID, ProductID: product.ID, Quantity: 0, Price: decimal.NewFromInt(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.InsertItems(ctx, []domain.TransactionItem{tt.item})
			require.Error(t, err)
			assert.Equal(t, apperrors.Constraint, apperrors.ClassifyWriteError(err))
		})
	}

	_, err = s.InsertTransactions(ctx, []domain.Transaction{{StoreID: 12345}})
	assert.Equal(t, apperrors.Constraint, apperrors.ClassifyWriteError(err))
}

func TestStore_FaultInjection(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	store, product := seed(t, s)
	txns, err := s.InsertTransactions(ctx, []domain.Transaction{{StoreID: store.ID}})
	require.NoError(t, err)

	rls := &memory.ConstraintError{Code: "42501", Message: "new row violates row-level security policy"}
	s.SetFault(func(table string, _ int) error {
		if table == memory.TableItems {
			return rls
		}
		return nil
	})

	_, err = s.InsertItems(ctx, []domain.TransactionItem{{TransactionID: txns[0].ID, ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(5)}})
	assert.Equal(t, apperrors.Permission, apperrors.ClassifyWriteError(err))

	_, err = s.InsertTransactions(ctx, []domain.Transaction{{StoreID: store.ID}})
	assert.NoError(t, err)

	s.SetFault(nil)
	_, err = s.InsertItems(ctx, []domain.TransactionItem{{TransactionID: txns[0].ID, ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(5)}})
	assert.NoError(t, err)
}

func TestStore_Stats(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	store, product := seed(t, s)

	txns, err := s.InsertTransactions(ctx, []domain.Transaction{
		{StoreID: store.ID, TotalAmount: decimal.NewFromInt(100)},
		{StoreID: store.ID, TotalAmount: decimal.NewFromInt(10)},
		{StoreID: store.ID, TotalAmount: decimal.NewFromInt(50)},
	})
	require.NoError(t, err)
	_, err = s.InsertItems(ctx, []domain.TransactionItem{
		{TransactionID: txns[0].ID, ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(90)},
		{TransactionID: txns[1].ID, ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(40)},
		{TransactionID: txns[1].ID, ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(20)},
	})
	require.NoError(t, err)

	histogram, err := s.ItemHistogram(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.HistogramBucket{
		{Items: 0, Transactions: 1},
		{Items: 1, Transactions: 1},
		{Items: 2, Transactions: 1},
	}, histogram)

	stored, items, err := s.RevenueTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, "160", stored.String())
	assert.Equal(t, "150", items.String())

	// txns[1] stores 10 against an item sum of 60
	violations, err := s.CountFloorViolations(ctx, 0.7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), violations)

	invalid, err := s.CountInvalidItems(ctx)
	require.NoError(t, err)
	assert.Zero(t, invalid)
}

func TestStore_UpdateTransactionTotalsReturnsMatchedUpdates(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	store, _ := seed(t, s)
	txns, err := s.InsertTransactions(ctx, []domain.Transaction{
		{StoreID: store.ID, CreatedAt: time.Now(), TotalAmount: decimal.NewFromInt(100)},
		{StoreID: store.ID, CreatedAt: time.Now(), TotalAmount: decimal.NewFromInt(200)},
	})
	require.NoError(t, err)

	applied, err := s.UpdateTransactionTotals(ctx, []domain.TotalUpdate{
		{TransactionID: 9999, TotalAmount: decimal.NewFromInt(1)},
		{TransactionID: txns[1].ID, TotalAmount: decimal.NewFromInt(250)},
		{TransactionID: txns[0].ID, TotalAmount: decimal.NewFromInt(120)},
	})
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, txns[1].ID, applied[0].TransactionID)
	assert.Equal(t, txns[0].ID, applied[1].TransactionID)

	totals := map[int64]string{}
	for _, txn := range s.Transactions() {
		totals[txn.ID] = txn.TotalAmount.String()
	}
	assert.Equal(t, map[int64]string{txns[0].ID: "120", txns[1].ID: "250"}, totals)
}

func TestStore_UpdateDemographicsKeepsExistingValues(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	age := 30
	customers, err := s.InsertCustomers(ctx, []domain.Customer{{Name: "Ana Cruz", Age: &age}})
	require.NoError(t, err)

	newAge, gender := 55, "Female"
	applied, err := s.UpdateDemographics(ctx, []domain.DemographicUpdate{
		{CustomerID: 999, Gender: &gender},
		{CustomerID: customers[0].ID, Age: &newAge, Gender: &gender},
	})
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, customers[0].ID, applied[0].CustomerID)

	listed, _ := s.ListCustomers(ctx)
	require.Len(t, listed, 1)
	assert.Equal(t, 30, *listed[0].Age)
	assert.Equal(t, "Female", *listed[0].Gender)
	assert.Nil(t, listed[0].IncomeRange)
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seed(t, s)

	require.NoError(t, s.ResetDataset(ctx))

	products, _ := s.ListProducts(ctx)
	stores, _ := s.ListStores(ctx)
	assert.Empty(t, products)
	assert.Empty(t, stores)
}

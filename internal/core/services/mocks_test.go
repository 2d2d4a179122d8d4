package services_test

import (
	"context"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockTransactionRepository is a mock type for the TransactionRepositoryFacade interface.
// Insert and update methods accept a func as first return value to echo their input.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CountTransactions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionFills(ctx context.Context, maxItems int) ([]domain.TransactionFill, error) {
	args := m.Called(ctx, maxItems)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionFill), args.Error(1)
}

func (m *MockTransactionRepository) InsertTransactions(ctx context.Context, txns []domain.Transaction) ([]domain.Transaction, error) {
	args := m.Called(ctx, txns)
	if fn, ok := args.Get(0).(func([]domain.Transaction) []domain.Transaction); ok {
		return fn(txns), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransactionTotals(ctx context.Context, updates []domain.TotalUpdate) ([]domain.TotalUpdate, error) {
	args := m.Called(ctx, updates)
	if fn, ok := args.Get(0).(func([]domain.TotalUpdate) []domain.TotalUpdate); ok {
		return fn(updates), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TotalUpdate), args.Error(1)
}

// MockItemRepository is a mock type for the ItemRepositoryFacade interface
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) CountItems(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) InsertItems(ctx context.Context, items []domain.TransactionItem) ([]domain.TransactionItem, error) {
	args := m.Called(ctx, items)
	if fn, ok := args.Get(0).(func([]domain.TransactionItem) []domain.TransactionItem); ok {
		return fn(items), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionItem), args.Error(1)
}

// MockStatsRepository is a mock type for the StatsReader interface
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) ItemHistogram(ctx context.Context) ([]domain.HistogramBucket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistogramBucket), args.Error(1)
}

func (m *MockStatsRepository) RevenueTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockStatsRepository) CountInvalidItems(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) CountFloorViolations(ctx context.Context, floorRatio float64) (int64, error) {
	args := m.Called(ctx, floorRatio)
	return args.Get(0).(int64), args.Error(1)
}

// MockCatalogRepository is a mock type for the CatalogRepositoryFacade interface
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Brand), args.Error(1)
}

func (m *MockCatalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogRepository) ListStores(ctx context.Context) ([]domain.Store, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Store), args.Error(1)
}

func (m *MockCatalogRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCatalogRepository) InsertBrands(ctx context.Context, brands []domain.Brand) ([]domain.Brand, error) {
	args := m.Called(ctx, brands)
	if fn, ok := args.Get(0).(func([]domain.Brand) []domain.Brand); ok {
		return fn(brands), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Brand), args.Error(1)
}

func (m *MockCatalogRepository) InsertProducts(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	args := m.Called(ctx, products)
	if fn, ok := args.Get(0).(func([]domain.Product) []domain.Product); ok {
		return fn(products), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogRepository) InsertStores(ctx context.Context, stores []domain.Store) ([]domain.Store, error) {
	args := m.Called(ctx, stores)
	if fn, ok := args.Get(0).(func([]domain.Store) []domain.Store); ok {
		return fn(stores), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Store), args.Error(1)
}

func (m *MockCatalogRepository) InsertCustomers(ctx context.Context, customers []domain.Customer) ([]domain.Customer, error) {
	args := m.Called(ctx, customers)
	if fn, ok := args.Get(0).(func([]domain.Customer) []domain.Customer); ok {
		return fn(customers), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

// assignTransactionIDs echoes drafts with sequential ids starting at first.
func assignTransactionIDs(first int64) func([]domain.Transaction) []domain.Transaction {
	next := first
	return func(txns []domain.Transaction) []domain.Transaction {
		out := make([]domain.Transaction, len(txns))
		for i, txn := range txns {
			txn.ID = next
			next++
			out[i] = txn
		}
		return out
	}
}

func echoItems(items []domain.TransactionItem) []domain.TransactionItem {
	return items
}

func echoUpdates(updates []domain.TotalUpdate) []domain.TotalUpdate {
	return updates
}

// Package memory provides a mutex-guarded in-memory dataset that implements every
// repository port. It backs the memory backend and end-to-end tests.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portsrepo "github.com/SscSPs/retail_stt_seeder/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Table names understood by fault injection.
const (
	TableBrands       = "brands"
	TableProducts     = "products"
	TableStores       = "stores"
	TableCustomers    = "customers"
	TableTransactions = "transactions"
	TableItems        = "transaction_items"
	TableSubstitution = "substitutions"
)

// ConstraintError mimics a Postgres integrity violation.
type ConstraintError struct {
	Code    string
	Message string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s (SQLSTATE %s)", e.Message, e.Code)
}

// SQLState returns the Postgres error code.
func (e *ConstraintError) SQLState() string {
	return e.Code
}

// FaultFunc decides whether a write of n rows into table fails.
type FaultFunc func(table string, n int) error

type memoryState struct {
	brands        map[int64]domain.Brand
	products      map[int64]domain.Product
	stores        map[int64]domain.Store
	customers     map[int64]domain.Customer
	transactions  map[int64]domain.Transaction
	items         map[int64]domain.TransactionItem
	substitutions map[int64]domain.Substitution
}

func newMemoryState() memoryState {
	return memoryState{
		brands:        make(map[int64]domain.Brand),
		products:      make(map[int64]domain.Product),
		stores:        make(map[int64]domain.Store),
		customers:     make(map[int64]domain.Customer),
		transactions:  make(map[int64]domain.Transaction),
		items:         make(map[int64]domain.TransactionItem),
		substitutions: make(map[int64]domain.Substitution),
	}
}

// Store is the in-memory dataset.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	nextID int64
	fault  FaultFunc
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newMemoryState()}
}

// SetFault installs a write fault. nil removes it.
func (s *Store) SetFault(fn FaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = fn
}

// NewRepositoryProvider exposes the store through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CatalogRepo:     s,
		TransactionRepo: s,
		ItemRepo:        s,
		StatsRepo:       s,
		SatelliteRepo:   s,
		DatasetRepo:     s,
	}
}

var (
	_ portsrepo.CatalogRepositoryFacade     = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*Store)(nil)
	_ portsrepo.ItemRepositoryFacade        = (*Store)(nil)
	_ portsrepo.StatsReader                 = (*Store)(nil)
	_ portsrepo.SatelliteRepositoryFacade   = (*Store)(nil)
	_ portsrepo.DatasetResetter             = (*Store)(nil)
)

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) checkFault(table string, n int) error {
	if s.fault == nil {
		return nil
	}
	return s.fault(table, n)
}

func sortedValues[T any](m map[int64]T) []T {
	keys := slices.Sorted(maps.Keys(m))
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

// --- Catalog ---

func (s *Store) ListBrands(_ context.Context) ([]domain.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.state.brands), nil
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.state.products), nil
}

func (s *Store) ListStores(_ context.Context) ([]domain.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.state.stores), nil
}

func (s *Store) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.state.customers), nil
}

func (s *Store) InsertBrands(_ context.Context, brands []domain.Brand) ([]domain.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFault(TableBrands, len(brands)); err != nil {
		return nil, err
	}
	out := make([]domain.Brand, len(brands))
	for i, b := range brands {
		b.ID = s.id()
		s.state.brands[b.ID] = b
		out[i] = b
	}
	return out, nil
}

func (s *Store) InsertProducts(_ context.Context, products []domain.Product) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFault(TableProducts, len(products)); err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.BrandID != nil {
			if _, ok := s.state.brands[*p.BrandID]; !ok {
				return nil, &ConstraintError{Code: "23503", Message: fmt.Sprintf("brand %d does not exist", *p.BrandID)}
			}
		}
	}
	out := make([]domain.Product, len(products))
	for i, p := range products {
		p.ID = s.id()
		s.state.products[p.ID] = p
		out[i] = p
	}
	return out, nil
}

func (s *Store) InsertStores(_ context.Context, stores []domain.Store) ([]domain.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFault(TableStores, len(stores)); err != nil {
		return nil, err
	}
	out := make([]domain.Store, len(stores))
	for i, st := range stores {
		st.ID = s.id()
		s.state.stores[st.ID] = st
		out[i] = st
	}
	return out, nil
}

func (s *Store) InsertCustomers(_ context.Context, customers []domain.Customer) ([]domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFault(TableCustomers, len(customers)); err != nil {
		return nil, err
	}
	out := make([]domain.Customer, len(customers))
	for i, c := range customers {
		c.ID = s.id()
		s.state.customers[c.ID] = c
		out[i] = c
	}
	return out, nil
}

// --- Transactions and items ---

func (s *Store) CountTransactions(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.state.transactions)), nil
}

func (s *Store) CountItems(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.state.items)), nil
}

// itemAggregates returns item count and item sum per transaction. Caller holds the lock.
func (s *Store) itemAggregates() (map[int64]int, map[int64]decimal.Decimal) {
	counts := make(map[int64]int, len(s.state.transactions))
	sums := make(map[int64]decimal.Decimal, len(s.state.transactions))
	for _, item := range s.state.items {
		counts[item.TransactionID]++
		sums[item.TransactionID] = sums[item.TransactionID].Add(item.LineTotal())
	}
	return counts, sums
}

func (s *Store) ListTransactionFills(_ context.Context, maxItems int) ([]domain.TransactionFill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts, sums := s.itemAggregates()
	fills := make([]domain.TransactionFill, 0)
	for _, txn := range sortedValues(s.state.transactions) {
		if counts[txn.ID] > maxItems {
			continue
		}
		fills = append(fills, domain.TransactionFill{Transaction: txn, ItemCount: counts[txn.ID], ItemSum: sums[txn.ID]})
	}
	return fills, nil
}

func (s *Store) InsertTransactions(_ context.Context, txns []domain.Transaction) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFault(TableTransactions, len(txns)); err != nil {
		return nil, err
	}
	for _, txn := range txns {
		if _, ok := s.state.stores[txn.StoreID]; !ok {
			return nil, &ConstraintError{Code: "23503", Message: fmt.Sprintf("store %d does not exist", txn.StoreID)}
		}
	}
	out := make([]domain.Transaction, len(txns))
	for i, txn := range txns {
		txn.ID = s.id()
		s.state.transactions[txn.ID] = txn
		out[i] = txn
	}
	return out, nil
}

func (s *Store) UpdateTransactionTotals(_ context.Context, updates []domain.TotalUpdate) ([]domain.TotalUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFault(TableTransactions, len(updates)); err != nil {
		return nil, err
	}
	applied := make([]domain.TotalUpdate, 0, len(updates))
	for _, u := range updates {
		txn, ok := s.state.transactions[u.TransactionID]
		if !ok {
			continue
		}
		txn.TotalAmount = u.TotalAmount
		s.state.transactions[u.TransactionID] = txn
		applied = append(applied, u)
	}
	return applied, nil
}

func (s *Store) InsertItems(_ context.Context, items []domain.TransactionItem) ([]domain.TransactionItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFault(TableItems, len(items)); err != nil {
		return nil, err
	}
	for _, item := range items {
		if _, ok := s.state.transactions[item.TransactionID]; !ok {
			return nil, &ConstraintError{Code: "23503", Message: fmt.Sprintf("transaction %d does not exist", item.TransactionID)}
		}
		if _, ok := s.state.products[item.ProductID]; !ok {
			return nil, &ConstraintError{Code: "23503", Message: fmt.Sprintf("product %d does not exist", item.ProductID)}
		}
		if item.Validate() != nil {
			return nil, &ConstraintError{Code: "23514", Message: "transaction_items check constraint violated"}
		}
	}
	out := make([]domain.TransactionItem, len(items))
	for i, item := range items {
		item.ID = s.id()
		s.state.items[item.ID] = item
		out[i] = item
	}
	return out, nil
}

// --- Stats ---

func (s *Store) ItemHistogram(_ context.Context) ([]domain.HistogramBucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts, _ := s.itemAggregates()
	perCount := make(map[int]int64)
	for id := range s.state.transactions {
		perCount[counts[id]]++
	}
	buckets := make([]domain.HistogramBucket, 0, len(perCount))
	for _, items := range slices.Sorted(maps.Keys(perCount)) {
		buckets = append(buckets, domain.HistogramBucket{Items: items, Transactions: perCount[items]})
	}
	return buckets, nil
}

func (s *Store) RevenueTotals(_ context.Context) (decimal.Decimal, decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := decimal.Zero
	for _, txn := range s.state.transactions {
		stored = stored.Add(txn.TotalAmount)
	}
	items := decimal.Zero
	for _, item := range s.state.items {
		items = items.Add(item.LineTotal())
	}
	return stored, items, nil
}

func (s *Store) CountInvalidItems(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, item := range s.state.items {
		if item.Validate() != nil {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountFloorViolations(_ context.Context, floorRatio float64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts, sums := s.itemAggregates()
	ratio := decimal.NewFromFloat(floorRatio)
	var n int64
	for id, txn := range s.state.transactions {
		if counts[id] == 0 {
			continue
		}
		if txn.TotalAmount.LessThan(sums[id].Mul(ratio)) {
			n++
		}
	}
	return n, nil
}

// --- Satellites ---

func (s *Store) InsertSubstitutions(_ context.Context, subs []domain.Substitution) ([]domain.Substitution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFault(TableSubstitution, len(subs)); err != nil {
		return nil, err
	}
	out := make([]domain.Substitution, len(subs))
	for i, sub := range subs {
		sub.ID = s.id()
		s.state.substitutions[sub.ID] = sub
		out[i] = sub
	}
	return out, nil
}

func (s *Store) UpdateDemographics(_ context.Context, updates []domain.DemographicUpdate) ([]domain.DemographicUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFault(TableCustomers, len(updates)); err != nil {
		return nil, err
	}
	applied := make([]domain.DemographicUpdate, 0, len(updates))
	for _, u := range updates {
		c, ok := s.state.customers[u.CustomerID]
		if !ok {
			continue
		}
		if c.Age == nil {
			c.Age = u.Age
		}
		if c.Gender == nil {
			c.Gender = u.Gender
		}
		if c.IncomeRange == nil {
			c.IncomeRange = u.IncomeRange
		}
		s.state.customers[c.ID] = c
		applied = append(applied, u)
	}
	return applied, nil
}

// ResetDataset drops every row and restarts ids.
func (s *Store) ResetDataset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = newMemoryState()
	s.nextID = 0
	return nil
}

// Transactions returns a copy of every stored transaction, ordered by id.
func (s *Store) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.state.transactions)
}

// Items returns a copy of every stored item, ordered by id.
func (s *Store) Items() []domain.TransactionItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.state.items)
}

// Substitutions returns a copy of every stored substitution, ordered by id.
func (s *Store) Substitutions() []domain.Substitution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.state.substitutions)
}

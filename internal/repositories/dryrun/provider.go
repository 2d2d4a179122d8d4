// Package dryrun decorates a repository provider so that reads reach the real store while
// writes are counted and echoed back with synthetic ids.
package dryrun

import (
	"context"
	"log/slog"
	"maps"
	"sync"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portsrepo "github.com/SscSPs/retail_stt_seeder/internal/core/ports/repositories"
	"github.com/SscSPs/retail_stt_seeder/internal/platform/logging"
)

// Recorder tracks suppressed writes. Synthetic ids are negative so they never collide
// with ids assigned by a real store.
type Recorder struct {
	mu     sync.Mutex
	nextID int64
	writes map[string]int
	filled map[int64]struct{}
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{writes: make(map[string]int), filled: make(map[int64]struct{})}
}

func (r *Recorder) record(ctx context.Context, table string, n int) {
	r.mu.Lock()
	r.writes[table] += n
	r.mu.Unlock()
	logging.FromContext(ctx).Debug("Dry run, write suppressed", slog.String("table", table), slog.Int("rows", n))
}

func (r *Recorder) ids(n int) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, n)
	for i := range out {
		r.nextID--
		out[i] = r.nextID
	}
	return out
}

func (r *Recorder) markFilled(ids ...int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.filled[id] = struct{}{}
	}
}

func (r *Recorder) isFilled(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.filled[id]
	return ok
}

// Writes returns the number of suppressed rows per table.
func (r *Recorder) Writes() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.writes)
}

// NewRepositoryProvider wraps base. Every write goes to rec instead of base.
func NewRepositoryProvider(base portsrepo.RepositoryProvider, rec *Recorder) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CatalogRepo:     &catalogRepo{CatalogReader: base.CatalogRepo, rec: rec},
		TransactionRepo: &transactionRepo{TransactionReader: base.TransactionRepo, rec: rec},
		ItemRepo:        &itemRepo{ItemReader: base.ItemRepo, rec: rec},
		StatsRepo:       base.StatsRepo,
		SatelliteRepo:   &satelliteRepo{rec: rec},
		DatasetRepo:     &datasetRepo{rec: rec},
	}
}

type catalogRepo struct {
	portsrepo.CatalogReader
	rec *Recorder
}

func (c *catalogRepo) InsertBrands(ctx context.Context, brands []domain.Brand) ([]domain.Brand, error) {
	c.rec.record(ctx, "brands", len(brands))
	out := make([]domain.Brand, len(brands))
	for i, id := range c.rec.ids(len(brands)) {
		out[i] = brands[i]
		out[i].ID = id
	}
	return out, nil
}

func (c *catalogRepo) InsertProducts(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	c.rec.record(ctx, "products", len(products))
	out := make([]domain.Product, len(products))
	for i, id := range c.rec.ids(len(products)) {
		out[i] = products[i]
		out[i].ID = id
	}
	return out, nil
}

func (c *catalogRepo) InsertStores(ctx context.Context, stores []domain.Store) ([]domain.Store, error) {
	c.rec.record(ctx, "stores", len(stores))
	out := make([]domain.Store, len(stores))
	for i, id := range c.rec.ids(len(stores)) {
		out[i] = stores[i]
		out[i].ID = id
	}
	return out, nil
}

func (c *catalogRepo) InsertCustomers(ctx context.Context, customers []domain.Customer) ([]domain.Customer, error) {
	c.rec.record(ctx, "customers", len(customers))
	out := make([]domain.Customer, len(customers))
	for i, id := range c.rec.ids(len(customers)) {
		out[i] = customers[i]
		out[i].ID = id
	}
	return out, nil
}

type transactionRepo struct {
	portsrepo.TransactionReader
	rec *Recorder
}

// ListTransactionFills hides transactions this run already filled, so repair loops converge.
func (t *transactionRepo) ListTransactionFills(ctx context.Context, maxItems int) ([]domain.TransactionFill, error) {
	fills, err := t.TransactionReader.ListTransactionFills(ctx, maxItems)
	if err != nil {
		return nil, err
	}
	out := fills[:0]
	for _, f := range fills {
		if !t.rec.isFilled(f.Transaction.ID) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (t *transactionRepo) InsertTransactions(ctx context.Context, txns []domain.Transaction) ([]domain.Transaction, error) {
	t.rec.record(ctx, "transactions", len(txns))
	out := make([]domain.Transaction, len(txns))
	for i, id := range t.rec.ids(len(txns)) {
		out[i] = txns[i]
		out[i].ID = id
	}
	return out, nil
}

func (t *transactionRepo) UpdateTransactionTotals(ctx context.Context, updates []domain.TotalUpdate) ([]domain.TotalUpdate, error) {
	t.rec.record(ctx, "transaction_totals", len(updates))
	return updates, nil
}

type itemRepo struct {
	portsrepo.ItemReader
	rec *Recorder
}

func (i *itemRepo) InsertItems(ctx context.Context, items []domain.TransactionItem) ([]domain.TransactionItem, error) {
	i.rec.record(ctx, "transaction_items", len(items))
	out := make([]domain.TransactionItem, len(items))
	for n, id := range i.rec.ids(len(items)) {
		out[n] = items[n]
		out[n].ID = id
		i.rec.markFilled(items[n].TransactionID)
	}
	return out, nil
}

type satelliteRepo struct {
	rec *Recorder
}

func (s *satelliteRepo) InsertSubstitutions(ctx context.Context, subs []domain.Substitution) ([]domain.Substitution, error) {
	s.rec.record(ctx, "substitutions", len(subs))
	out := make([]domain.Substitution, len(subs))
	for i, id := range s.rec.ids(len(subs)) {
		out[i] = subs[i]
		out[i].ID = id
	}
	return out, nil
}

func (s *satelliteRepo) UpdateDemographics(ctx context.Context, updates []domain.DemographicUpdate) ([]domain.DemographicUpdate, error) {
	s.rec.record(ctx, "customer_demographics", len(updates))
	return updates, nil
}

type datasetRepo struct {
	rec *Recorder
}

func (d *datasetRepo) ResetDataset(ctx context.Context) error {
	d.rec.record(ctx, "reset", 1)
	return nil
}

var (
	_ portsrepo.CatalogRepositoryFacade     = (*catalogRepo)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*transactionRepo)(nil)
	_ portsrepo.ItemRepositoryFacade        = (*itemRepo)(nil)
	_ portsrepo.SatelliteRepositoryFacade   = (*satelliteRepo)(nil)
	_ portsrepo.DatasetResetter             = (*datasetRepo)(nil)
)

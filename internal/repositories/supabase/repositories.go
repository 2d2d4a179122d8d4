package supabase

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portsrepo "github.com/SscSPs/retail_stt_seeder/internal/core/ports/repositories"
	"github.com/SscSPs/retail_stt_seeder/internal/models"
	"github.com/SscSPs/retail_stt_seeder/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const (
	tableBrands        = "brands"
	tableProducts      = "products"
	tableStores        = "stores"
	tableCustomers     = "customers"
	tableTransactions  = "transactions"
	tableItems         = "transaction_items"
	tableSubstitutions = "substitutions"
)

// Repository implements every repository port over one Client.
type Repository struct {
	client *Client
}

// NewRepositoryProvider wires a Repository into every port.
func NewRepositoryProvider(client *Client) portsrepo.RepositoryProvider {
	r := &Repository{client: client}
	return portsrepo.RepositoryProvider{
		CatalogRepo:     r,
		TransactionRepo: r,
		ItemRepo:        r,
		StatsRepo:       r,
		SatelliteRepo:   r,
		DatasetRepo:     r,
	}
}

var (
	_ portsrepo.CatalogRepositoryFacade     = (*Repository)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*Repository)(nil)
	_ portsrepo.ItemRepositoryFacade        = (*Repository)(nil)
	_ portsrepo.StatsReader                 = (*Repository)(nil)
	_ portsrepo.SatelliteRepositoryFacade   = (*Repository)(nil)
	_ portsrepo.DatasetResetter             = (*Repository)(nil)
)

func (r *Repository) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	rows, err := selectAll[models.Brand](ctx, r.client, tableBrands, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainBrand), nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := selectAll[models.Product](ctx, r.client, tableProducts, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainProduct), nil
}

func (r *Repository) ListStores(ctx context.Context) ([]domain.Store, error) {
	rows, err := selectAll[models.Store](ctx, r.client, tableStores, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainStore), nil
}

func (r *Repository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := selectAll[models.Customer](ctx, r.client, tableCustomers, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainCustomer), nil
}

func (r *Repository) InsertBrands(ctx context.Context, brands []domain.Brand) ([]domain.Brand, error) {
	rows, err := insert(ctx, r.client, tableBrands, mapping.ToModelSlice(brands, mapping.ToModelBrand))
	if err != nil {
		return nil, fmt.Errorf("failed to insert brands: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainBrand), nil
}

func (r *Repository) InsertProducts(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	rows, err := insert(ctx, r.client, tableProducts, mapping.ToModelSlice(products, mapping.ToModelProduct))
	if err != nil {
		return nil, fmt.Errorf("failed to insert products: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainProduct), nil
}

func (r *Repository) InsertStores(ctx context.Context, stores []domain.Store) ([]domain.Store, error) {
	rows, err := insert(ctx, r.client, tableStores, mapping.ToModelSlice(stores, mapping.ToModelStore))
	if err != nil {
		return nil, fmt.Errorf("failed to insert stores: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainStore), nil
}

func (r *Repository) InsertCustomers(ctx context.Context, customers []domain.Customer) ([]domain.Customer, error) {
	rows, err := insert(ctx, r.client, tableCustomers, mapping.ToModelSlice(customers, mapping.ToModelCustomer))
	if err != nil {
		return nil, fmt.Errorf("failed to insert customers: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainCustomer), nil
}

func (r *Repository) CountTransactions(ctx context.Context) (int64, error) {
	n, err := r.client.count(ctx, tableTransactions, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

func (r *Repository) CountItems(ctx context.Context) (int64, error) {
	n, err := r.client.count(ctx, tableItems, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count transaction items: %w", err)
	}
	return n, nil
}

type lineRow struct {
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type transactionWithLines struct {
	models.Transaction
	Lines []lineRow `json:"transaction_items"`
}

// ListTransactionFills embeds each transaction's items and aggregates them client side,
// since PostgREST has no GROUP BY.
func (r *Repository) ListTransactionFills(ctx context.Context, maxItems int) ([]domain.TransactionFill, error) {
	rows, err := selectAll[transactionWithLines](ctx, r.client, tableTransactions,
		url.Values{"select": {"*,transaction_items(quantity,price)"}})
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction fills: %w", err)
	}
	var fills []domain.TransactionFill
	for _, row := range rows {
		if len(row.Lines) > maxItems {
			continue
		}
		fill := models.TransactionFill{Transaction: row.Transaction, ItemCount: len(row.Lines), ItemSum: decimal.Zero}
		for _, l := range row.Lines {
			fill.ItemSum = fill.ItemSum.Add(decimal.NewFromInt(int64(l.Quantity)).Mul(l.Price))
		}
		fills = append(fills, mapping.ToDomainTransactionFill(fill))
	}
	return fills, nil
}

func (r *Repository) InsertTransactions(ctx context.Context, txns []domain.Transaction) ([]domain.Transaction, error) {
	rows, err := insert(ctx, r.client, tableTransactions, mapping.ToModelSlice(txns, mapping.ToModelTransaction))
	if err != nil {
		return nil, fmt.Errorf("failed to insert transactions: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainTransaction), nil
}

// UpdateTransactionTotals issues one PATCH per transaction. It stops at the first failure
// and reports the updates already applied.
func (r *Repository) UpdateTransactionTotals(ctx context.Context, updates []domain.TotalUpdate) ([]domain.TotalUpdate, error) {
	applied := make([]domain.TotalUpdate, 0, len(updates))
	for _, u := range updates {
		n, err := r.client.patch(ctx, tableTransactions,
			url.Values{"id": {eq(u.TransactionID)}},
			map[string]any{"total_amount": u.TotalAmount})
		if err != nil {
			return applied, fmt.Errorf("failed to update total of transaction %d: %w", u.TransactionID, err)
		}
		if n > 0 {
			applied = append(applied, u)
		}
	}
	return applied, nil
}

func (r *Repository) InsertItems(ctx context.Context, items []domain.TransactionItem) ([]domain.TransactionItem, error) {
	rows, err := insert(ctx, r.client, tableItems, mapping.ToModelSlice(items, mapping.ToModelTransactionItem))
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction items: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainTransactionItem), nil
}

type totalRow struct {
	ID          int64           `json:"id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type itemRow struct {
	TransactionID int64           `json:"transaction_id"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
}

// ledger loads every stored total and every item line for the aggregate queries.
func (r *Repository) ledger(ctx context.Context) ([]totalRow, map[int64][]itemRow, error) {
	totals, err := selectAll[totalRow](ctx, r.client, tableTransactions, url.Values{"select": {"id,total_amount"}})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read transaction totals: %w", err)
	}
	items, err := selectAll[itemRow](ctx, r.client, tableItems, url.Values{"select": {"id,transaction_id,quantity,price"}})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read transaction items: %w", err)
	}
	byTxn := make(map[int64][]itemRow, len(totals))
	for _, it := range items {
		byTxn[it.TransactionID] = append(byTxn[it.TransactionID], it)
	}
	return totals, byTxn, nil
}

func lineSum(items []itemRow) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromInt(int64(it.Quantity)).Mul(it.Price))
	}
	return sum
}

func (r *Repository) ItemHistogram(ctx context.Context) ([]domain.HistogramBucket, error) {
	totals, byTxn, err := r.ledger(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[int]int64)
	for _, t := range totals {
		counts[len(byTxn[t.ID])]++
	}
	buckets := make([]domain.HistogramBucket, 0, len(counts))
	for items, n := range counts {
		buckets = append(buckets, domain.HistogramBucket{Items: items, Transactions: n})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Items < buckets[j].Items })
	return buckets, nil
}

func (r *Repository) RevenueTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	totals, byTxn, err := r.ledger(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	stored, items := decimal.Zero, decimal.Zero
	for _, t := range totals {
		stored = stored.Add(t.TotalAmount)
	}
	for _, lines := range byTxn {
		items = items.Add(lineSum(lines))
	}
	return stored, items, nil
}

func (r *Repository) CountInvalidItems(ctx context.Context) (int64, error) {
	n, err := r.client.count(ctx, tableItems, url.Values{"or": {"(quantity.lt.1,price.lte.0)"}})
	if err != nil {
		return 0, fmt.Errorf("failed to count invalid items: %w", err)
	}
	return n, nil
}

func (r *Repository) CountFloorViolations(ctx context.Context, floorRatio float64) (int64, error) {
	totals, byTxn, err := r.ledger(ctx)
	if err != nil {
		return 0, err
	}
	ratio := decimal.NewFromFloat(floorRatio)
	var violations int64
	for _, t := range totals {
		lines := byTxn[t.ID]
		if len(lines) == 0 {
			continue
		}
		if t.TotalAmount.LessThan(lineSum(lines).Mul(ratio)) {
			violations++
		}
	}
	return violations, nil
}

func (r *Repository) InsertSubstitutions(ctx context.Context, subs []domain.Substitution) ([]domain.Substitution, error) {
	rows, err := insert(ctx, r.client, tableSubstitutions, mapping.ToModelSlice(subs, mapping.ToModelSubstitution))
	if err != nil {
		return nil, fmt.Errorf("failed to insert substitutions: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainSubstitution), nil
}

// UpdateDemographics patches each captured field only where it is still null, so values
// already present are never overwritten.
func (r *Repository) UpdateDemographics(ctx context.Context, updates []domain.DemographicUpdate) ([]domain.DemographicUpdate, error) {
	applied := make([]domain.DemographicUpdate, 0, len(updates))
	for _, u := range updates {
		fields := map[string]any{}
		if u.Age != nil {
			fields["age"] = *u.Age
		}
		if u.Gender != nil {
			fields["gender"] = *u.Gender
		}
		if u.IncomeRange != nil {
			fields["income_range"] = *u.IncomeRange
		}
		touched := false
		for _, column := range []string{"age", "gender", "income_range"} {
			value, ok := fields[column]
			if !ok {
				continue
			}
			n, err := r.client.patch(ctx, tableCustomers,
				url.Values{"id": {eq(u.CustomerID)}, column: {"is.null"}},
				map[string]any{column: value})
			if err != nil {
				return applied, fmt.Errorf("failed to update demographics of customer %d: %w", u.CustomerID, err)
			}
			touched = touched || n > 0
		}
		if touched {
			applied = append(applied, u)
		}
	}
	return applied, nil
}

// ResetDataset deletes every row, children first. Identity sequences are not restarted
// because PostgREST cannot issue TRUNCATE.
func (r *Repository) ResetDataset(ctx context.Context) error {
	for _, table := range []string{tableItems, tableSubstitutions, tableTransactions, tableCustomers, tableProducts, tableBrands, tableStores} {
		if err := r.client.deleteAll(ctx, table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

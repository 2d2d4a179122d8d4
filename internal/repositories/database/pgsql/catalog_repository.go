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

type PgxCatalogRepository struct {
	BaseRepository
}

// newPgxCatalogRepository creates a new repository for reference data.
func newPgxCatalogRepository(pool *pgxpool.Pool) portsrepo.CatalogRepositoryFacade {
	return &PgxCatalogRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CatalogRepositoryFacade = (*PgxCatalogRepository)(nil)

// ListBrands retrieves all brands.
func (r *PgxCatalogRepository) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, name, category, is_tbwa FROM brands ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query brands: %w", err)
	}
	brands, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Brand, error) {
		var b models.Brand
		err := row.Scan(&b.ID, &b.Name, &b.Category, &b.IsTBWA)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan brands: %w", err)
	}
	return mapping.ToDomainSlice(brands, mapping.ToDomainBrand), nil
}

// ListProducts retrieves all products.
func (r *PgxCatalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, name, brand_id, category, price FROM products ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Product, error) {
		var p models.Product
		err := row.Scan(&p.ID, &p.Name, &p.BrandID, &p.Category, &p.Price)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}
	return mapping.ToDomainSlice(products, mapping.ToDomainProduct), nil
}

// ListStores retrieves all stores.
func (r *PgxCatalogRepository) ListStores(ctx context.Context) ([]domain.Store, error) {
	query := `
		SELECT id, name, location, region, city, store_type, latitude, longitude
		FROM stores
		ORDER BY id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	stores, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Store, error) {
		var s models.Store
		err := row.Scan(&s.ID, &s.Name, &s.Location, &s.Region, &s.City, &s.StoreType, &s.Latitude, &s.Longitude)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan stores: %w", err)
	}
	return mapping.ToDomainSlice(stores, mapping.ToDomainStore), nil
}

// ListCustomers retrieves all customers.
func (r *PgxCatalogRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	query := `
		SELECT id, name, COALESCE(region, ''), age, gender, income_range
		FROM customers
		ORDER BY id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	customers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Customer, error) {
		var c models.Customer
		err := row.Scan(&c.ID, &c.Name, &c.Region, &c.Age, &c.Gender, &c.IncomeRange)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan customers: %w", err)
	}
	return mapping.ToDomainSlice(customers, mapping.ToDomainCustomer), nil
}

// InsertBrands persists brands and returns them with their ids.
func (r *PgxCatalogRepository) InsertBrands(ctx context.Context, brands []domain.Brand) ([]domain.Brand, error) {
	rows := mapping.ToModelSlice(brands, mapping.ToModelBrand)
	query := `INSERT INTO brands (name, category, is_tbwa) VALUES ($1, $2, $3) RETURNING id;`
	err := r.insertReturningIDs(ctx, query, len(rows),
		func(i int) []any { return []any{rows[i].Name, rows[i].Category, rows[i].IsTBWA} },
		func(i int, id int64) { rows[i].ID = id })
	if err != nil {
		return nil, fmt.Errorf("failed to insert brands: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainBrand), nil
}

// InsertProducts persists products and returns them with their ids.
func (r *PgxCatalogRepository) InsertProducts(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	rows := mapping.ToModelSlice(products, mapping.ToModelProduct)
	query := `INSERT INTO products (name, brand_id, category, price) VALUES ($1, $2, $3, $4) RETURNING id;`
	err := r.insertReturningIDs(ctx, query, len(rows),
		func(i int) []any { return []any{rows[i].Name, rows[i].BrandID, rows[i].Category, rows[i].Price} },
		func(i int, id int64) { rows[i].ID = id })
	if err != nil {
		return nil, fmt.Errorf("failed to insert products: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainProduct), nil
}

// InsertStores persists stores and returns them with their ids.
func (r *PgxCatalogRepository) InsertStores(ctx context.Context, stores []domain.Store) ([]domain.Store, error) {
	rows := mapping.ToModelSlice(stores, mapping.ToModelStore)
	query := `
		INSERT INTO stores (name, location, region, city, store_type, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`
	err := r.insertReturningIDs(ctx, query, len(rows),
		func(i int) []any {
			s := rows[i]
			return []any{s.Name, s.Location, s.Region, s.City, s.StoreType, s.Latitude, s.Longitude}
		},
		func(i int, id int64) { rows[i].ID = id })
	if err != nil {
		return nil, fmt.Errorf("failed to insert stores: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainStore), nil
}

// InsertCustomers persists customers and returns them with their ids.
func (r *PgxCatalogRepository) InsertCustomers(ctx context.Context, customers []domain.Customer) ([]domain.Customer, error) {
	rows := mapping.ToModelSlice(customers, mapping.ToModelCustomer)
	query := `INSERT INTO customers (name, region, age, gender, income_range) VALUES ($1, $2, $3, $4, $5) RETURNING id;`
	err := r.insertReturningIDs(ctx, query, len(rows),
		func(i int) []any {
			c := rows[i]
			return []any{c.Name, c.Region, c.Age, c.Gender, c.IncomeRange}
		},
		func(i int, id int64) { rows[i].ID = id })
	if err != nil {
		return nil, fmt.Errorf("failed to insert customers: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainCustomer), nil
}

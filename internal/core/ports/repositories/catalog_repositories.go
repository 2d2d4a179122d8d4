package repositories

import (
	"context"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
)

// CatalogReader defines read operations for reference data.
type CatalogReader interface {
	// ListBrands retrieves all brands.
	ListBrands(ctx context.Context) ([]domain.Brand, error)

	// ListProducts retrieves all products.
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// ListStores retrieves all stores.
	ListStores(ctx context.Context) ([]domain.Store, error)

	// ListCustomers retrieves all customers.
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

// CatalogWriter defines write operations used when synthesizing a fallback catalog.
// Each insert returns the persisted rows with store-assigned ids.
type CatalogWriter interface {
	InsertBrands(ctx context.Context, brands []domain.Brand) ([]domain.Brand, error)
	InsertProducts(ctx context.Context, products []domain.Product) ([]domain.Product, error)
	InsertStores(ctx context.Context, stores []domain.Store) ([]domain.Store, error)
	InsertCustomers(ctx context.Context, customers []domain.Customer) ([]domain.Customer, error)
}

// CatalogRepositoryFacade combines all catalog-related repository interfaces
type CatalogRepositoryFacade interface {
	CatalogReader
	CatalogWriter
}

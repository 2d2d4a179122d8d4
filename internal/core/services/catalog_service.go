package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portsrepo "github.com/SscSPs/retail_stt_seeder/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/retail_stt_seeder/internal/core/ports/services"
)

type catalogService struct {
	BaseService
	repo              portsrepo.CatalogRepositoryFacade
	rng               Rand
	fallbackCustomers int
}

// NewCatalogService creates the catalog loader. fallbackCustomers is how many customers
// to synthesize when the customer pool is empty; 0 leaves it empty.
func NewCatalogService(repo portsrepo.CatalogRepositoryFacade, rng Rand, fallbackCustomers int) portssvc.CatalogSvc {
	return &catalogService{repo: repo, rng: rng, fallbackCustomers: fallbackCustomers}
}

// LoadCatalog reads brands, products, stores and customers. Every empty set among
// brands, products and stores is synthesized and persisted before returning.
// Any read or write error aborts: downstream stages cannot run on a partial catalog.
func (s *catalogService) LoadCatalog(ctx context.Context) (domain.Catalog, bool, error) {
	var catalog domain.Catalog
	synthesized := false

	brands, err := s.repo.ListBrands(ctx)
	if err != nil {
		return catalog, false, apperrors.NewAppError(503, "failed to list brands", err)
	}
	if len(brands) == 0 {
		s.LogWarn(ctx, "No brands found, synthesizing fallback brands")
		brands, err = s.repo.InsertBrands(ctx, fallbackBrands())
		if err != nil {
			return catalog, false, apperrors.NewAppError(503, "failed to persist fallback brands", err)
		}
		synthesized = true
	}
	catalog.Brands = brands

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return catalog, false, apperrors.NewAppError(503, "failed to list products", err)
	}
	if len(products) == 0 {
		s.LogWarn(ctx, "No products found, synthesizing fallback products", slog.Int("brands", len(brands)))
		products, err = s.repo.InsertProducts(ctx, fallbackProducts(s.rng, brands))
		if err != nil {
			return catalog, false, apperrors.NewAppError(503, "failed to persist fallback products", err)
		}
		synthesized = true
	}
	catalog.Products = products

	stores, err := s.repo.ListStores(ctx)
	if err != nil {
		return catalog, false, apperrors.NewAppError(503, "failed to list stores", err)
	}
	if len(stores) == 0 {
		s.LogWarn(ctx, "No stores found, synthesizing fallback stores")
		stores, err = s.repo.InsertStores(ctx, fallbackStores())
		if err != nil {
			return catalog, false, apperrors.NewAppError(503, "failed to persist fallback stores", err)
		}
		synthesized = true
	}
	catalog.Stores = stores

	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return catalog, false, apperrors.NewAppError(503, "failed to list customers", err)
	}
	if len(customers) == 0 && s.fallbackCustomers > 0 {
		s.LogWarn(ctx, "No customers found, synthesizing fallback customers", slog.Int("count", s.fallbackCustomers))
		customers, err = s.repo.InsertCustomers(ctx, fallbackCustomers(s.rng, s.fallbackCustomers, stores))
		if err != nil {
			return catalog, false, apperrors.NewAppError(503, "failed to persist fallback customers", err)
		}
		synthesized = true
	}
	catalog.Customers = customers

	if err := catalog.Validate(); err != nil {
		return catalog, synthesized, err
	}

	s.LogInfo(ctx, "Catalog loaded",
		slog.Int("brands", len(catalog.Brands)),
		slog.Int("products", len(catalog.Products)),
		slog.Int("stores", len(catalog.Stores)),
		slog.Int("customers", len(catalog.Customers)),
		slog.Bool("synthesized", synthesized))
	return catalog, synthesized, nil
}

type snapshotService struct {
	BaseService
	catalog  portssvc.CatalogSvc
	txnRepo  portsrepo.TransactionReader
	itemRepo portsrepo.ItemReader
	now      func() time.Time
}

// NewSnapshotService creates the service computing the run's DatasetSnapshot.
func NewSnapshotService(catalog portssvc.CatalogSvc, txnRepo portsrepo.TransactionReader, itemRepo portsrepo.ItemReader) portssvc.SnapshotSvc {
	return &snapshotService{catalog: catalog, txnRepo: txnRepo, itemRepo: itemRepo, now: time.Now}
}

// TakeSnapshot loads the catalog and current counts once. includeItemless also lists
// transactions that own no items.
func (s *snapshotService) TakeSnapshot(ctx context.Context, includeItemless bool) (domain.DatasetSnapshot, error) {
	snapshot := domain.DatasetSnapshot{TakenAt: s.now()}

	catalog, synthesized, err := s.catalog.LoadCatalog(ctx)
	if err != nil {
		return snapshot, err
	}
	snapshot.Catalog = catalog
	snapshot.CatalogSynthesized = synthesized

	snapshot.TransactionCount, err = s.txnRepo.CountTransactions(ctx)
	if err != nil {
		return snapshot, apperrors.NewAppError(503, "failed to count transactions", err)
	}
	snapshot.ItemCount, err = s.itemRepo.CountItems(ctx)
	if err != nil {
		return snapshot, apperrors.NewAppError(503, "failed to count transaction items", err)
	}

	if includeItemless {
		snapshot.Itemless, err = s.txnRepo.ListTransactionFills(ctx, 0)
		if err != nil {
			return snapshot, apperrors.NewAppError(503, "failed to list item-less transactions", err)
		}
	}

	s.LogInfo(ctx, "Dataset snapshot taken",
		slog.Int64("transactions", snapshot.TransactionCount),
		slog.Int64("items", snapshot.ItemCount),
		slog.Int("itemless", len(snapshot.Itemless)))
	return snapshot, nil
}

package pgsql

import (
	portsrepo "github.com/SscSPs/retail_stt_seeder/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ portsrepo.TransactionManager = (*BaseRepository)(nil)

// NewRepositoryProvider builds every repository on one pool. Multi-row writes run inside
// a single database transaction each, so a failed batch leaves nothing behind.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CatalogRepo:     newPgxCatalogRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		ItemRepo:        newPgxItemRepository(dbPool),
		StatsRepo:       newPgxStatsRepository(dbPool),
		SatelliteRepo:   newPgxSatelliteRepository(dbPool),
		DatasetRepo:     newPgxDatasetRepository(dbPool),
	}
}

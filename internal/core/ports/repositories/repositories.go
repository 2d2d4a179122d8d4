package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Every backend (postgres, supabase REST, in-memory, dry-run) builds one of these.
type RepositoryProvider struct {
	CatalogRepo     CatalogRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	ItemRepo        ItemRepositoryFacade
	StatsRepo       StatsReader
	SatelliteRepo   SatelliteRepositoryFacade
	DatasetRepo     DatasetResetter
}

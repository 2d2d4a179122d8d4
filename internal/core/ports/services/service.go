package services

// ServiceContainer holds instances of all the application services.
// It is the entry point the CLI commands use to reach service functionality.
type ServiceContainer struct {
	Catalog      CatalogSvc
	Snapshot     SnapshotSvc
	Generation   GenerationSvc
	Repair       GapRepairSvc
	Enhance      EnhanceSvc
	Satellites   SatelliteSvc
	Verification VerificationSvc
	Reset        ResetSvc
	Pipeline     PipelineSvc
}

package repositories

import (
	"context"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
)

// SubstitutionWriter persists simulated product substitutions.
type SubstitutionWriter interface {
	InsertSubstitutions(ctx context.Context, subs []domain.Substitution) ([]domain.Substitution, error)
}

// DemographicsWriter fills captured demographic fields on existing customers.
type DemographicsWriter interface {
	UpdateDemographics(ctx context.Context, updates []domain.DemographicUpdate) ([]domain.DemographicUpdate, error)
}

// SatelliteRepositoryFacade combines the flavor-data writers
type SatelliteRepositoryFacade interface {
	SubstitutionWriter
	DemographicsWriter
}

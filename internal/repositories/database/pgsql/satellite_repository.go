package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portsrepo "github.com/SscSPs/retail_stt_seeder/internal/core/ports/repositories"
	"github.com/SscSPs/retail_stt_seeder/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSatelliteRepository struct {
	BaseRepository
}

// newPgxSatelliteRepository creates the repository for substitutions and demographics.
func newPgxSatelliteRepository(pool *pgxpool.Pool) portsrepo.SatelliteRepositoryFacade {
	return &PgxSatelliteRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SatelliteRepositoryFacade = (*PgxSatelliteRepository)(nil)

// InsertSubstitutions persists substitutions and returns them with their ids.
func (r *PgxSatelliteRepository) InsertSubstitutions(ctx context.Context, subs []domain.Substitution) ([]domain.Substitution, error) {
	rows := mapping.ToModelSlice(subs, mapping.ToModelSubstitution)
	query := `
		INSERT INTO substitutions (original_product_id, substitute_product_id, transaction_id, reason, store_location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;
	`
	err := r.insertReturningIDs(ctx, query, len(rows),
		func(i int) []any {
			s := rows[i]
			return []any{s.OriginalProductID, s.SubstituteProductID, s.TransactionID, s.Reason, s.StoreLocation, s.CreatedAt}
		},
		func(i int, id int64) { rows[i].ID = id })
	if err != nil {
		return nil, fmt.Errorf("failed to insert substitutions: %w", err)
	}
	return mapping.ToDomainSlice(rows, mapping.ToDomainSubstitution), nil
}

// UpdateDemographics fills captured fields, never overwriting values already present.
func (r *PgxSatelliteRepository) UpdateDemographics(ctx context.Context, updates []domain.DemographicUpdate) ([]domain.DemographicUpdate, error) {
	query := `
		UPDATE customers
		SET age = COALESCE(age, $2),
		    gender = COALESCE(gender, $3),
		    income_range = COALESCE(income_range, $4)
		WHERE id = $1;
	`
	matched, err := r.execEach(ctx, query, len(updates), func(i int) []any {
		u := updates[i]
		return []any{u.CustomerID, u.Age, u.Gender, u.IncomeRange}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update customer demographics: %w", err)
	}
	return pick(updates, matched), nil
}

type PgxDatasetRepository struct {
	BaseRepository
}

// newPgxDatasetRepository creates the repository used by the reset command.
func newPgxDatasetRepository(pool *pgxpool.Pool) portsrepo.DatasetResetter {
	return &PgxDatasetRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.DatasetResetter = (*PgxDatasetRepository)(nil)

// ResetDataset truncates every seeded table and restarts their identities.
func (r *PgxDatasetRepository) ResetDataset(ctx context.Context) error {
	query := `
		TRUNCATE transaction_items, substitutions, transactions, customers, products, brands, stores
		RESTART IDENTITY CASCADE;
	`
	if _, err := r.Pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to reset dataset: %w", err)
	}
	return nil
}

package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// count runs a single-value COUNT query.
func (r *BaseRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// insertReturningIDs queues one INSERT ... RETURNING id per row in a single transaction and
// hands each returned id to setID. Either every row is written or none is.
func (r *BaseRepository) insertReturningIDs(ctx context.Context, query string, n int, argsFor func(i int) []any, setID func(i int, id int64)) error {
	if n == 0 {
		return nil
	}
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	batch := &pgx.Batch{}
	for i := range n {
		batch.Queue(query, argsFor(i)...)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range n {
		var id int64
		if err := br.QueryRow().Scan(&id); err != nil {
			br.Close()
			return err
		}
		setID(i, id)
	}
	if err := br.Close(); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// execEach runs one statement per row in a single transaction and returns the indexes
// of the rows whose statement affected at least one row.
func (r *BaseRepository) execEach(ctx context.Context, query string, n int, argsFor func(i int) []any) ([]int, error) {
	if n == 0 {
		return nil, nil
	}
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	for i := range n {
		batch.Queue(query, argsFor(i)...)
	}

	br := tx.SendBatch(ctx, batch)
	matched := make([]int, 0, n)
	for i := range n {
		ct, err := br.Exec()
		if err != nil {
			br.Close()
			return nil, err
		}
		if ct.RowsAffected() > 0 {
			matched = append(matched, i)
		}
	}
	if err := br.Close(); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return matched, nil
}

// pick returns rows at the given indexes.
func pick[T any](rows []T, indexes []int) []T {
	out := make([]T, len(indexes))
	for n, i := range indexes {
		out[n] = rows[i]
	}
	return out
}

// Package repository provides database access layer.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitlog/fitlog/internal/model"
)

// Repository provides database access methods.
type Repository struct {
	pool     *pgxpool.Pool
	foods    *EntryStore[*model.FoodLog, model.FoodLogPatch]
	workouts *EntryStore[*model.WorkoutLog, model.WorkoutLogPatch]
}

// New creates a new Repository with a connection pool.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{
		pool:     pool,
		foods:    newEntryStore(pool, foodLogTable),
		workouts: newEntryStore(pool, workoutLogTable),
	}, nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to Repository.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// FoodLogs returns the owner-scoped food log store.
func (r *Repository) FoodLogs() *EntryStore[*model.FoodLog, model.FoodLogPatch] {
	return r.foods
}

// WorkoutLogs returns the owner-scoped workout log store.
func (r *Repository) WorkoutLogs() *EntryStore[*model.WorkoutLog, model.WorkoutLogPatch] {
	return r.workouts
}

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

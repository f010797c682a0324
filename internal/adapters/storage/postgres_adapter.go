package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/careslot/backend/internal/domain/providers"
	"github.com/careslot/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/careslot/backend/pkg/errors"
)

// snapshotsTable holds one row per snapshot key:
//
//	CREATE TABLE snapshots (
//	    key        TEXT PRIMARY KEY,
//	    data       BYTEA NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
const snapshotsTable = "snapshots"

// PostgresAdapter implements the SnapshotStore interface on a snapshots table,
// one whole-snapshot row per key.
type PostgresAdapter struct {
	sqlDB *sql.DB
	db    *goqu.Database
}

// NewPostgresAdapter creates a new Postgres snapshot store
func NewPostgresAdapter(client *postgres.Client) providers.SnapshotStore {
	return NewPostgresAdapterFromDB(client.DB())
}

// NewPostgresAdapterFromDB creates a Postgres snapshot store over an existing
// database handle
func NewPostgresAdapterFromDB(db *sql.DB) providers.SnapshotStore {
	return &PostgresAdapter{
		sqlDB: db,
		db:    goqu.New("postgres", db),
	}
}

// Load retrieves the snapshot stored under key
func (a *PostgresAdapter) Load(ctx context.Context, key string) ([]byte, error) {
	query, args, err := a.db.Select("data").
		From(snapshotsTable).
		Where(goqu.Ex{"key": key}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var data []byte
	err = a.sqlDB.QueryRowContext(ctx, query, args...).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, providers.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load snapshot", err)
	}

	return data, nil
}

// Save overwrites the snapshot stored under key
func (a *PostgresAdapter) Save(ctx context.Context, key string, value []byte) error {
	now := time.Now()

	query, args, err := a.db.Insert(snapshotsTable).
		Rows(goqu.Record{
			"key":        key,
			"data":       value,
			"updated_at": now,
		}).
		OnConflict(goqu.DoUpdate("key", goqu.Record{
			"data":       value,
			"updated_at": now,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.sqlDB.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to save snapshot", err)
	}

	return nil
}

// Delete removes the snapshot stored under key
func (a *PostgresAdapter) Delete(ctx context.Context, key string) error {
	query, args, err := a.db.Delete(snapshotsTable).
		Where(goqu.Ex{"key": key}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	if _, err := a.sqlDB.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete snapshot", err)
	}

	return nil
}

// FilePath: internal/repository/postgres/postgres.readings.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/abahued/windwall-hub/internal/database"
	"github.com/abahued/windwall-hub/internal/errors"
	"github.com/abahued/windwall-hub/internal/models"
	"github.com/abahued/windwall-hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

type ReadingRepo struct {
	PostgresBaseRepo
}

// NewReadingRepository creates the reading repository and bootstraps its
// tables.
func NewReadingRepository(db database.DB) (*ReadingRepo, error) {
	repo := &ReadingRepo{PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *ReadingRepo) initializeSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS readings (
			id BIGSERIAL PRIMARY KEY,
			timestamp TIMESTAMP NOT NULL,
			prop_group INTEGER NOT NULL,
			propeller1 DOUBLE PRECISION NOT NULL,
			propeller2 DOUBLE PRECISION NOT NULL,
			propeller3 DOUBLE PRECISION NOT NULL,
			propeller4 DOUBLE PRECISION NOT NULL,
			propeller5 DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS readings_snapshot (
			id BIGSERIAL PRIMARY KEY,
			timestamp TIMESTAMP NOT NULL,
			prop_group INTEGER NOT NULL,
			propeller1 DOUBLE PRECISION NOT NULL,
			propeller2 DOUBLE PRECISION NOT NULL,
			propeller3 DOUBLE PRECISION NOT NULL,
			propeller4 DOUBLE PRECISION NOT NULL,
			propeller5 DOUBLE PRECISION NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_readings_timestamp
			ON readings(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_readings_snapshot_group
			ON readings_snapshot(prop_group, id DESC)`,
	}

	for _, query := range queries {
		if _, err := r.db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize readings schema", err)
		}
	}
	return nil
}

const readingColumns = `id, timestamp, prop_group, propeller1, propeller2, propeller3, propeller4, propeller5`

func (r *ReadingRepo) Insert(ctx context.Context, tx database.Transaction, reading *models.Reading) error {
	query := `
		INSERT INTO readings (timestamp, prop_group, propeller1, propeller2, propeller3, propeller4, propeller5)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.on(tx).GetContext(ctx, &reading.ID, query,
		reading.Timestamp, reading.Group,
		reading.Propeller1, reading.Propeller2, reading.Propeller3,
		reading.Propeller4, reading.Propeller5)
	if err != nil {
		return errors.NewDatabaseError("failed to insert reading", err)
	}
	return nil
}

func (r *ReadingRepo) InsertSnapshot(ctx context.Context, tx database.Transaction, reading *models.Reading) error {
	query := `
		INSERT INTO readings_snapshot (timestamp, prop_group, propeller1, propeller2, propeller3, propeller4, propeller5)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.on(tx).ExecContext(ctx, query,
		reading.Timestamp, reading.Group,
		reading.Propeller1, reading.Propeller2, reading.Propeller3,
		reading.Propeller4, reading.Propeller5)
	if err != nil {
		return errors.NewDatabaseError("failed to insert snapshot reading", err)
	}
	return nil
}

func (r *ReadingRepo) Latest(ctx context.Context) (*models.Reading, error) {
	reading := &models.Reading{}
	query := `SELECT ` + readingColumns + ` FROM readings ORDER BY id DESC LIMIT 1`

	err := r.db.GetDB().GetContext(ctx, reading, query)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no readings found", err)
		}
		return nil, errors.NewDatabaseError("failed to get latest reading", err)
	}
	return reading, nil
}

func (r *ReadingRepo) LatestSnapshotByGroup(ctx context.Context, group int) (*models.Reading, error) {
	reading := &models.Reading{}
	query := `SELECT ` + readingColumns + ` FROM readings_snapshot
		WHERE prop_group = $1 ORDER BY id DESC LIMIT 1`

	err := r.db.GetDB().GetContext(ctx, reading, query, group)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no snapshot readings for group", err)
		}
		return nil, errors.NewDatabaseError("failed to get latest snapshot reading", err)
	}
	return reading, nil
}

func (r *ReadingRepo) List(ctx context.Context) ([]*models.Reading, error) {
	readings := []*models.Reading{}
	query := `SELECT ` + readingColumns + ` FROM readings ORDER BY id`

	err := r.db.GetDB().SelectContext(ctx, &readings, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list readings", err)
	}
	return readings, nil
}

func (r *ReadingRepo) ListByDay(ctx context.Context, day time.Time) ([]*models.Reading, error) {
	return r.ListByWindow(ctx, day, day.AddDate(0, 0, 1))
}

func (r *ReadingRepo) ListByWindow(ctx context.Context, start, end time.Time) ([]*models.Reading, error) {
	readings := []*models.Reading{}
	query := `SELECT ` + readingColumns + ` FROM readings
		WHERE timestamp >= $1 AND timestamp < $2
		ORDER BY timestamp`

	err := r.db.GetDB().SelectContext(ctx, &readings, query, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list readings by window", err)
	}
	return readings, nil
}

func (r *ReadingRepo) GroupTotals(ctx context.Context) ([]repository.GroupTotal, error) {
	totals := []repository.GroupTotal{}
	query := `
		SELECT prop_group,
			SUM(propeller1 + propeller2 + propeller3 + propeller4 + propeller5) AS total
		FROM readings
		GROUP BY prop_group
		ORDER BY prop_group`

	err := r.db.GetDB().SelectContext(ctx, &totals, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to aggregate group totals", err)
	}
	return totals, nil
}

func (r *ReadingRepo) DeleteAll(ctx context.Context, tx database.Transaction) (int64, error) {
	result, err := r.on(tx).ExecContext(ctx, `DELETE FROM readings`)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to delete readings", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}
	return rows, nil
}

func (r *ReadingRepo) DeleteSnapshotAll(ctx context.Context) (int64, error) {
	result, err := r.db.GetDB().ExecContext(ctx, `DELETE FROM readings_snapshot`)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to clear snapshot table", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}
	return rows, nil
}

func (r *ReadingRepo) DeleteZeroRows(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM readings
		WHERE propeller1 = 0 AND propeller2 = 0 AND propeller3 = 0
			AND propeller4 = 0 AND propeller5 = 0`

	result, err := r.db.GetDB().ExecContext(ctx, query)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to delete zero readings", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}
	nuts.L.Infof("[ReadingRepo] Deleted %d all-zero readings", rows)
	return rows, nil
}

func (r *ReadingRepo) DeleteLatest(ctx context.Context) (*models.Reading, error) {
	reading := &models.Reading{}
	query := `
		DELETE FROM readings
		WHERE id = (SELECT MAX(id) FROM readings)
		RETURNING ` + readingColumns

	err := r.db.GetDB().GetContext(ctx, reading, query)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no readings found", err)
		}
		return nil, errors.NewDatabaseError("failed to delete latest reading", err)
	}
	return reading, nil
}

func (r *ReadingRepo) DeleteIDRange(ctx context.Context, startID, endID int64) (int64, error) {
	query := `DELETE FROM readings WHERE id >= $1 AND id <= $2`

	result, err := r.db.GetDB().ExecContext(ctx, query, startID, endID)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to delete reading range", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}
	return rows, nil
}

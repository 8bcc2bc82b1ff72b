// FilePath: internal/repository/postgres/postgres.status.go
package postgres

import (
	"context"
	"database/sql"

	"github.com/abahued/windwall-hub/internal/database"
	"github.com/abahued/windwall-hub/internal/errors"
	"github.com/abahued/windwall-hub/internal/models"
)

type StatusRepo struct {
	PostgresBaseRepo
}

// NewStatusRepository creates the status log repository and bootstraps its
// table. Timestamps are stored in UTC.
func NewStatusRepository(db database.DB) (*StatusRepo, error) {
	repo := &StatusRepo{PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *StatusRepo) initializeSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS status_events (
			id BIGSERIAL PRIMARY KEY,
			status INTEGER NOT NULL,
			last_update TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_status_events_last_update
			ON status_events(last_update DESC)`,
	}

	for _, query := range queries {
		if _, err := r.db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize status schema", err)
		}
	}
	return nil
}

func (r *StatusRepo) Append(ctx context.Context, event *models.StatusEvent) error {
	query := `
		INSERT INTO status_events (status, last_update)
		VALUES ($1, $2)
		RETURNING id`

	err := r.db.GetDB().GetContext(ctx, &event.ID, query, event.Status, event.LastUpdate)
	if err != nil {
		return errors.NewDatabaseError("failed to append status event", err)
	}
	return nil
}

func (r *StatusRepo) Latest(ctx context.Context) (*models.StatusEvent, error) {
	event := &models.StatusEvent{}
	query := `SELECT id, status, last_update FROM status_events ORDER BY last_update DESC LIMIT 1`

	err := r.db.GetDB().GetContext(ctx, event, query)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no status events found", err)
		}
		return nil, errors.NewDatabaseError("failed to get latest status", err)
	}
	return event, nil
}

func (r *StatusRepo) History(ctx context.Context) ([]*models.StatusEvent, error) {
	events := []*models.StatusEvent{}
	query := `SELECT id, status, last_update FROM status_events ORDER BY last_update DESC`

	err := r.db.GetDB().SelectContext(ctx, &events, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get status history", err)
	}
	return events, nil
}

func (r *StatusRepo) DeleteLatest(ctx context.Context) (*models.StatusEvent, error) {
	event := &models.StatusEvent{}
	query := `
		DELETE FROM status_events
		WHERE id = (SELECT MAX(id) FROM status_events)
		RETURNING id, status, last_update`

	err := r.db.GetDB().GetContext(ctx, event, query)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no status events found", err)
		}
		return nil, errors.NewDatabaseError("failed to delete latest status", err)
	}
	return event, nil
}

func (r *StatusRepo) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.GetDB().ExecContext(ctx, `DELETE FROM status_events`)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to delete status history", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}
	return rows, nil
}

// MarkRangeOnline flips offline rows in [startID, endID] to online while
// preserving their original timestamps, and returns the affected ids.
func (r *StatusRepo) MarkRangeOnline(ctx context.Context, startID, endID int64) ([]int64, error) {
	ids := []int64{}
	query := `
		UPDATE status_events
		SET status = $1
		WHERE id >= $2 AND id <= $3 AND status = $4
		RETURNING id`

	err := r.db.GetDB().SelectContext(ctx, &ids, query,
		models.StatusOnline, startID, endID, models.StatusOffline)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to update status range", err)
	}
	return ids, nil
}

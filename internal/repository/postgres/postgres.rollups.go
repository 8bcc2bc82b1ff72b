// FilePath: internal/repository/postgres/postgres.rollups.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/abahued/windwall-hub/internal/database"
	"github.com/abahued/windwall-hub/internal/errors"
	"github.com/abahued/windwall-hub/internal/models"
)

type RollupRepo struct {
	PostgresBaseRepo
}

// NewRollupRepository creates the rollup repository and bootstraps its
// tables. The unique keys on day and month back the atomic accumulate
// upserts; the grand total is pinned to a single row.
func NewRollupRepository(db database.DB) (*RollupRepo, error) {
	repo := &RollupRepo{PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *RollupRepo) initializeSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS daily_totals (
			id BIGSERIAL PRIMARY KEY,
			day DATE NOT NULL UNIQUE,
			total DOUBLE PRECISION NOT NULL,
			group1 DOUBLE PRECISION NOT NULL,
			group2 DOUBLE PRECISION NOT NULL,
			group3 DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS monthly_totals (
			id BIGSERIAL PRIMARY KEY,
			month DATE NOT NULL UNIQUE,
			total DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS grand_total (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			total DOUBLE PRECISION NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := r.db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize rollup schema", err)
		}
	}
	return nil
}

func (r *RollupRepo) AccumulateDay(ctx context.Context, tx database.Transaction, day time.Time, total, group1, group2, group3 float64) error {
	query := `
		INSERT INTO daily_totals (day, total, group1, group2, group3)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (day) DO UPDATE SET
			total = daily_totals.total + EXCLUDED.total,
			group1 = daily_totals.group1 + EXCLUDED.group1,
			group2 = daily_totals.group2 + EXCLUDED.group2,
			group3 = daily_totals.group3 + EXCLUDED.group3`

	_, err := r.on(tx).ExecContext(ctx, query, day, total, group1, group2, group3)
	if err != nil {
		return errors.NewDatabaseError("failed to accumulate daily total", err)
	}
	return nil
}

func (r *RollupRepo) AccumulateMonth(ctx context.Context, tx database.Transaction, month time.Time, total float64) error {
	query := `
		INSERT INTO monthly_totals (month, total)
		VALUES ($1, $2)
		ON CONFLICT (month) DO UPDATE SET
			total = monthly_totals.total + EXCLUDED.total`

	_, err := r.on(tx).ExecContext(ctx, query, month, total)
	if err != nil {
		return errors.NewDatabaseError("failed to accumulate monthly total", err)
	}
	return nil
}

func (r *RollupRepo) AccumulateGrand(ctx context.Context, tx database.Transaction, total float64) error {
	query := `
		INSERT INTO grand_total (id, total)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET
			total = grand_total.total + EXCLUDED.total`

	_, err := r.on(tx).ExecContext(ctx, query, total)
	if err != nil {
		return errors.NewDatabaseError("failed to accumulate grand total", err)
	}
	return nil
}

func (r *RollupRepo) ListDays(ctx context.Context) ([]*models.DailyTotal, error) {
	days := []*models.DailyTotal{}
	query := `SELECT id, day, total, group1, group2, group3 FROM daily_totals ORDER BY day`

	err := r.db.GetDB().SelectContext(ctx, &days, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list daily totals", err)
	}
	return days, nil
}

func (r *RollupRepo) GetDay(ctx context.Context, day time.Time) (*models.DailyTotal, error) {
	result := &models.DailyTotal{}
	query := `SELECT id, day, total, group1, group2, group3 FROM daily_totals WHERE day = $1`

	err := r.db.GetDB().GetContext(ctx, result, query, day)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no daily total for date", err)
		}
		return nil, errors.NewDatabaseError("failed to get daily total", err)
	}
	return result, nil
}

func (r *RollupRepo) ListDaysInRange(ctx context.Context, start, end time.Time) ([]*models.DailyTotal, error) {
	days := []*models.DailyTotal{}
	query := `
		SELECT id, day, total, group1, group2, group3 FROM daily_totals
		WHERE day >= $1 AND day <= $2
		ORDER BY day`

	err := r.db.GetDB().SelectContext(ctx, &days, query, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list daily totals in range", err)
	}
	return days, nil
}

func (r *RollupRepo) ListMonths(ctx context.Context) ([]*models.MonthlyTotal, error) {
	months := []*models.MonthlyTotal{}
	query := `SELECT id, month, total FROM monthly_totals ORDER BY month`

	err := r.db.GetDB().SelectContext(ctx, &months, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list monthly totals", err)
	}
	return months, nil
}

func (r *RollupRepo) GetMonth(ctx context.Context, month time.Time) (*models.MonthlyTotal, error) {
	result := &models.MonthlyTotal{}
	query := `SELECT id, month, total FROM monthly_totals WHERE month = $1`

	err := r.db.GetDB().GetContext(ctx, result, query, month)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no monthly total for month", err)
		}
		return nil, errors.NewDatabaseError("failed to get monthly total", err)
	}
	return result, nil
}

func (r *RollupRepo) GetGrand(ctx context.Context) (*models.GrandTotal, error) {
	result := &models.GrandTotal{}
	query := `SELECT id, total FROM grand_total WHERE id = 1`

	err := r.db.GetDB().GetContext(ctx, result, query)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no grand total yet", err)
		}
		return nil, errors.NewDatabaseError("failed to get grand total", err)
	}
	return result, nil
}

func (r *RollupRepo) DeleteAll(ctx context.Context, tx database.Transaction) error {
	queries := []string{
		`DELETE FROM daily_totals`,
		`DELETE FROM monthly_totals`,
		`DELETE FROM grand_total`,
	}
	for _, query := range queries {
		if _, err := r.on(tx).ExecContext(ctx, query); err != nil {
			return errors.NewDatabaseError("failed to delete rollups", err)
		}
	}
	return nil
}

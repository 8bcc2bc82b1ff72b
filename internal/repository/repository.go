// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/abahued/windwall-hub/internal/database"
	"github.com/abahued/windwall-hub/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates that a resource already exists
	ErrDuplicate = errors.New("resource already exists")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// GroupTotal is one row of the per-group history aggregation.
type GroupTotal struct {
	Group int     `db:"prop_group"`
	Total float64 `db:"total"`
}

// ReadingRepository defines the interface for raw reading storage. Methods
// taking a database.Transaction participate in the caller's transaction;
// a nil transaction executes against the pool directly.
type ReadingRepository interface {
	database.Repository
	Insert(ctx context.Context, tx database.Transaction, reading *models.Reading) error
	InsertSnapshot(ctx context.Context, tx database.Transaction, reading *models.Reading) error
	Latest(ctx context.Context) (*models.Reading, error)
	LatestSnapshotByGroup(ctx context.Context, group int) (*models.Reading, error)
	List(ctx context.Context) ([]*models.Reading, error)
	ListByDay(ctx context.Context, day time.Time) ([]*models.Reading, error)
	ListByWindow(ctx context.Context, start, end time.Time) ([]*models.Reading, error)
	GroupTotals(ctx context.Context) ([]GroupTotal, error)
	DeleteAll(ctx context.Context, tx database.Transaction) (int64, error)
	DeleteSnapshotAll(ctx context.Context) (int64, error)
	DeleteZeroRows(ctx context.Context) (int64, error)
	DeleteLatest(ctx context.Context) (*models.Reading, error)
	DeleteIDRange(ctx context.Context, startID, endID int64) (int64, error)
}

// RollupRepository defines the interface for the incremental rollup tables.
// The accumulate operations are atomic insert-or-increment upserts keyed by
// the bucket's unique constraint, so concurrent ingestion for an unseen
// bucket cannot produce duplicate rows.
type RollupRepository interface {
	database.Repository
	AccumulateDay(ctx context.Context, tx database.Transaction, day time.Time, total, group1, group2, group3 float64) error
	AccumulateMonth(ctx context.Context, tx database.Transaction, month time.Time, total float64) error
	AccumulateGrand(ctx context.Context, tx database.Transaction, total float64) error
	ListDays(ctx context.Context) ([]*models.DailyTotal, error)
	GetDay(ctx context.Context, day time.Time) (*models.DailyTotal, error)
	ListDaysInRange(ctx context.Context, start, end time.Time) ([]*models.DailyTotal, error)
	ListMonths(ctx context.Context) ([]*models.MonthlyTotal, error)
	GetMonth(ctx context.Context, month time.Time) (*models.MonthlyTotal, error)
	GetGrand(ctx context.Context) (*models.GrandTotal, error)
	DeleteAll(ctx context.Context, tx database.Transaction) error
}

// StatusRepository defines the interface for the append-only device status
// log.
type StatusRepository interface {
	database.Repository
	Append(ctx context.Context, event *models.StatusEvent) error
	Latest(ctx context.Context) (*models.StatusEvent, error)
	History(ctx context.Context) ([]*models.StatusEvent, error)
	DeleteLatest(ctx context.Context) (*models.StatusEvent, error)
	DeleteAll(ctx context.Context) (int64, error)
	MarkRangeOnline(ctx context.Context, startID, endID int64) ([]int64, error)
}

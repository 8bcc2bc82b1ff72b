// FilePath: internal/wallservice/wallservice_fakes_test.go
package wallservice

import (
	"context"
	"database/sql"
	"time"

	"github.com/abahued/windwall-hub/internal/database"
	"github.com/abahued/windwall-hub/internal/errors"
	"github.com/abahued/windwall-hub/internal/models"
	"github.com/abahued/windwall-hub/internal/repository"
)

// fixedClock always reports the same instant.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return nil
}

// fakeReadingRepo keeps the history and snapshot tables in memory.
type fakeReadingRepo struct {
	history  []*models.Reading
	snapshot map[int]*models.Reading
	nextID   int64
	lastTx   *fakeTx
}

func newFakeReadingRepo() *fakeReadingRepo {
	return &fakeReadingRepo{snapshot: make(map[int]*models.Reading)}
}

func (f *fakeReadingRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	f.lastTx = &fakeTx{}
	return f.lastTx, nil
}

func (f *fakeReadingRepo) Insert(ctx context.Context, tx database.Transaction, reading *models.Reading) error {
	f.nextID++
	reading.ID = f.nextID
	stored := *reading
	f.history = append(f.history, &stored)
	return nil
}

func (f *fakeReadingRepo) InsertSnapshot(ctx context.Context, tx database.Transaction, reading *models.Reading) error {
	stored := *reading
	f.snapshot[reading.Group] = &stored
	return nil
}

func (f *fakeReadingRepo) Latest(ctx context.Context) (*models.Reading, error) {
	if len(f.history) == 0 {
		return nil, errors.NewNotFoundError("no readings found", nil)
	}
	return f.history[len(f.history)-1], nil
}

func (f *fakeReadingRepo) LatestSnapshotByGroup(ctx context.Context, group int) (*models.Reading, error) {
	reading, ok := f.snapshot[group]
	if !ok {
		return nil, errors.NewNotFoundError("no readings found for group", nil)
	}
	return reading, nil
}

func (f *fakeReadingRepo) List(ctx context.Context) ([]*models.Reading, error) {
	return f.history, nil
}

func (f *fakeReadingRepo) ListByDay(ctx context.Context, day time.Time) ([]*models.Reading, error) {
	var out []*models.Reading
	for _, r := range f.history {
		if r.Timestamp.Year() == day.Year() && r.Timestamp.YearDay() == day.YearDay() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReadingRepo) ListByWindow(ctx context.Context, start, end time.Time) ([]*models.Reading, error) {
	var out []*models.Reading
	for _, r := range f.history {
		if !r.Timestamp.Before(start) && r.Timestamp.Before(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReadingRepo) GroupTotals(ctx context.Context) ([]repository.GroupTotal, error) {
	byGroup := make(map[int]float64)
	for _, r := range f.history {
		byGroup[r.Group] += r.Sum()
	}
	var out []repository.GroupTotal
	for group, total := range byGroup {
		out = append(out, repository.GroupTotal{Group: group, Total: total})
	}
	return out, nil
}

func (f *fakeReadingRepo) DeleteAll(ctx context.Context, tx database.Transaction) (int64, error) {
	deleted := int64(len(f.history))
	f.history = nil
	return deleted, nil
}

func (f *fakeReadingRepo) DeleteSnapshotAll(ctx context.Context) (int64, error) {
	deleted := int64(len(f.snapshot))
	f.snapshot = make(map[int]*models.Reading)
	return deleted, nil
}

func (f *fakeReadingRepo) DeleteZeroRows(ctx context.Context) (int64, error) {
	var kept []*models.Reading
	var deleted int64
	for _, r := range f.history {
		if r.AllZero() {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	f.history = kept
	return deleted, nil
}

func (f *fakeReadingRepo) DeleteLatest(ctx context.Context) (*models.Reading, error) {
	if len(f.history) == 0 {
		return nil, errors.NewNotFoundError("no readings found", nil)
	}
	last := f.history[len(f.history)-1]
	f.history = f.history[:len(f.history)-1]
	return last, nil
}

func (f *fakeReadingRepo) DeleteIDRange(ctx context.Context, startID, endID int64) (int64, error) {
	var kept []*models.Reading
	var deleted int64
	for _, r := range f.history {
		if r.ID >= startID && r.ID <= endID {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	f.history = kept
	return deleted, nil
}

// fakeRollupRepo keys days and months by their formatted value.
type fakeRollupRepo struct {
	days   map[string]*models.DailyTotal
	months map[string]*models.MonthlyTotal
	grand  *models.GrandTotal
	nextID int64
}

func newFakeRollupRepo() *fakeRollupRepo {
	return &fakeRollupRepo{
		days:   make(map[string]*models.DailyTotal),
		months: make(map[string]*models.MonthlyTotal),
	}
}

func (f *fakeRollupRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return &fakeTx{}, nil
}

func (f *fakeRollupRepo) AccumulateDay(ctx context.Context, tx database.Transaction, day time.Time, total, group1, group2, group3 float64) error {
	key := day.Format(models.DateFormat)
	row, ok := f.days[key]
	if !ok {
		f.nextID++
		row = &models.DailyTotal{ID: f.nextID, Day: day}
		f.days[key] = row
	}
	row.Total += total
	row.Group1 += group1
	row.Group2 += group2
	row.Group3 += group3
	return nil
}

func (f *fakeRollupRepo) AccumulateMonth(ctx context.Context, tx database.Transaction, month time.Time, total float64) error {
	key := month.Format(models.MonthFormat)
	row, ok := f.months[key]
	if !ok {
		f.nextID++
		row = &models.MonthlyTotal{ID: f.nextID, Month: month}
		f.months[key] = row
	}
	row.Total += total
	return nil
}

func (f *fakeRollupRepo) AccumulateGrand(ctx context.Context, tx database.Transaction, total float64) error {
	if f.grand == nil {
		f.grand = &models.GrandTotal{ID: 1}
	}
	f.grand.Total += total
	return nil
}

func (f *fakeRollupRepo) ListDays(ctx context.Context) ([]*models.DailyTotal, error) {
	var out []*models.DailyTotal
	for _, day := range f.days {
		out = append(out, day)
	}
	return out, nil
}

func (f *fakeRollupRepo) GetDay(ctx context.Context, day time.Time) (*models.DailyTotal, error) {
	row, ok := f.days[day.Format(models.DateFormat)]
	if !ok {
		return nil, errors.NewNotFoundError("no daily total found", nil)
	}
	return row, nil
}

func (f *fakeRollupRepo) ListDaysInRange(ctx context.Context, start, end time.Time) ([]*models.DailyTotal, error) {
	var out []*models.DailyTotal
	for _, day := range f.days {
		if !day.Day.Before(start) && !day.Day.After(end) {
			out = append(out, day)
		}
	}
	return out, nil
}

func (f *fakeRollupRepo) ListMonths(ctx context.Context) ([]*models.MonthlyTotal, error) {
	var out []*models.MonthlyTotal
	for _, month := range f.months {
		out = append(out, month)
	}
	return out, nil
}

func (f *fakeRollupRepo) GetMonth(ctx context.Context, month time.Time) (*models.MonthlyTotal, error) {
	row, ok := f.months[month.Format(models.MonthFormat)]
	if !ok {
		return nil, errors.NewNotFoundError("no monthly total found", nil)
	}
	return row, nil
}

func (f *fakeRollupRepo) GetGrand(ctx context.Context) (*models.GrandTotal, error) {
	if f.grand == nil {
		return nil, errors.NewNotFoundError("no grand total found", nil)
	}
	return f.grand, nil
}

func (f *fakeRollupRepo) DeleteAll(ctx context.Context, tx database.Transaction) error {
	f.days = make(map[string]*models.DailyTotal)
	f.months = make(map[string]*models.MonthlyTotal)
	f.grand = nil
	return nil
}

// fakeStatusRepo is an in-memory append-only status log.
type fakeStatusRepo struct {
	events []*models.StatusEvent
	nextID int64
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{}
}

func (f *fakeStatusRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return &fakeTx{}, nil
}

func (f *fakeStatusRepo) Append(ctx context.Context, event *models.StatusEvent) error {
	f.nextID++
	event.ID = f.nextID
	stored := *event
	f.events = append(f.events, &stored)
	return nil
}

func (f *fakeStatusRepo) Latest(ctx context.Context) (*models.StatusEvent, error) {
	if len(f.events) == 0 {
		return nil, errors.NewNotFoundError("no status found", nil)
	}
	return f.events[len(f.events)-1], nil
}

func (f *fakeStatusRepo) History(ctx context.Context) ([]*models.StatusEvent, error) {
	out := make([]*models.StatusEvent, 0, len(f.events))
	for i := len(f.events) - 1; i >= 0; i-- {
		out = append(out, f.events[i])
	}
	return out, nil
}

func (f *fakeStatusRepo) DeleteLatest(ctx context.Context) (*models.StatusEvent, error) {
	if len(f.events) == 0 {
		return nil, errors.NewNotFoundError("no status found", nil)
	}
	last := f.events[len(f.events)-1]
	f.events = f.events[:len(f.events)-1]
	return last, nil
}

func (f *fakeStatusRepo) DeleteAll(ctx context.Context) (int64, error) {
	deleted := int64(len(f.events))
	f.events = nil
	return deleted, nil
}

func (f *fakeStatusRepo) MarkRangeOnline(ctx context.Context, startID, endID int64) ([]int64, error) {
	var ids []int64
	for _, e := range f.events {
		if e.ID >= startID && e.ID <= endID && e.Status == models.StatusOffline {
			e.Status = models.StatusOnline
			ids = append(ids, e.ID)
		}
	}
	return ids, nil
}

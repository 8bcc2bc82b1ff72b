// FilePath: internal/wallservice/wallservice_test.go
package wallservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abahued/windwall-hub/internal/clock"
	"github.com/abahued/windwall-hub/internal/models"
)

// 16:30 UTC is 10:30 in Mexico City (CST, UTC-6, no DST since 2022).
var testNow = time.Date(2024, time.January, 15, 16, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, now time.Time) (*WallService, *fakeReadingRepo, *fakeRollupRepo, *fakeStatusRepo) {
	t.Helper()
	zone, err := clock.NewZone("America/Mexico_City")
	require.NoError(t, err)

	readings := newFakeReadingRepo()
	rollups := newFakeRollupRepo()
	status := newFakeStatusRepo()
	svc := New(readings, rollups, status, nil, &fixedClock{now: now}, zone)
	require.NoError(t, svc.Validate())
	return svc, readings, rollups, status
}

func TestRecordReadingAccumulatesRollups(t *testing.T) {
	svc, readings, rollups, _ := newTestService(t, testNow)
	ctx := context.Background()

	reading, saved, err := svc.RecordReading(ctx, 1, [5]float64{1, 1, 1, 1, 1})
	require.NoError(t, err)
	require.True(t, saved)
	require.NotNil(t, reading)

	assert.Equal(t, int64(1), reading.ID)
	assert.Equal(t, "2024-01-15 10:30:00", reading.Timestamp.Format(models.TimeFormat))
	require.Len(t, readings.history, 1)
	require.Contains(t, readings.snapshot, 1)
	require.True(t, readings.lastTx.committed)

	day, err := rollups.GetDay(ctx, time.Date(2024, time.January, 15, 0, 0, 0, 0, reading.Timestamp.Location()))
	require.NoError(t, err)
	assert.Equal(t, 5.0, day.Total)
	assert.Equal(t, 2.0, day.Group1)
	assert.Equal(t, 1.0, day.Group2)
	assert.Equal(t, 2.0, day.Group3)

	month, err := rollups.GetMonth(ctx, time.Date(2024, time.January, 1, 0, 0, 0, 0, reading.Timestamp.Location()))
	require.NoError(t, err)
	assert.Equal(t, 5.0, month.Total)

	grand, err := rollups.GetGrand(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5.0, grand.Total)

	// A second reading on the same day increments the same buckets.
	_, saved, err = svc.RecordReading(ctx, 2, [5]float64{0.5, 0.5, 1, 0, 0})
	require.NoError(t, err)
	require.True(t, saved)

	day, err = rollups.GetDay(ctx, time.Date(2024, time.January, 15, 0, 0, 0, 0, reading.Timestamp.Location()))
	require.NoError(t, err)
	assert.Equal(t, 7.0, day.Total)
	assert.Equal(t, 3.0, day.Group1)
	assert.Equal(t, 2.0, day.Group2)
	assert.Equal(t, 2.0, day.Group3)

	grand, err = rollups.GetGrand(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7.0, grand.Total)
}

func TestRecordReadingBelowThreshold(t *testing.T) {
	svc, readings, rollups, _ := newTestService(t, testNow)

	reading, saved, err := svc.RecordReading(context.Background(), 1, [5]float64{0.02, 0.02, 0.02, 0.02, 0.02})
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Nil(t, reading)

	assert.Empty(t, readings.history)
	assert.Empty(t, readings.snapshot)
	assert.Empty(t, rollups.days)
	assert.Nil(t, rollups.grand)
	assert.Nil(t, readings.lastTx, "no transaction should be opened for a rejected reading")
}

func TestRecordReadingAtThreshold(t *testing.T) {
	svc, readings, _, _ := newTestService(t, testNow)

	_, saved, err := svc.RecordReading(context.Background(), 1, [5]float64{0.2, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.True(t, saved, "a sum of exactly 0.2 must be persisted")
	assert.Len(t, readings.history, 1)
}

func TestLatestReadingByGroupUsesSnapshot(t *testing.T) {
	svc, _, _, _ := newTestService(t, testNow)
	ctx := context.Background()

	_, _, err := svc.RecordReading(ctx, 1, [5]float64{1, 0, 0, 0, 0})
	require.NoError(t, err)
	_, _, err = svc.RecordReading(ctx, 2, [5]float64{0, 0, 1, 0, 0})
	require.NoError(t, err)

	view, err := svc.LatestReadingByGroup(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Group)
	assert.Equal(t, 1.0, view.Propeller1)
}

func TestCurrentDayZeroDefault(t *testing.T) {
	svc, _, _, _ := newTestService(t, testNow)

	view, err := svc.CurrentDay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", view.Date)
	assert.Zero(t, view.Total)
	assert.Zero(t, view.Group1)
}

func TestCurrentMonthZeroDefault(t *testing.T) {
	svc, _, _, _ := newTestService(t, testNow)

	view, err := svc.CurrentMonth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-01", view.Date)
	assert.Zero(t, view.Total)
}

func TestGrandZeroDefault(t *testing.T) {
	svc, _, _, _ := newTestService(t, testNow)

	grand, err := svc.Grand(context.Background())
	require.NoError(t, err)
	assert.Zero(t, grand.Total)
}

func TestCurrentWeekCalibratesDayTotals(t *testing.T) {
	svc, _, rollups, _ := newTestService(t, testNow)
	ctx := context.Background()
	loc := svc.Zone.Location()

	// 2024-01-15 is a Monday.
	monday := time.Date(2024, time.January, 15, 0, 0, 0, 0, loc)
	require.NoError(t, rollups.AccumulateDay(ctx, nil, monday, 6, 2, 2, 2))
	// Previous Sunday, outside the current week.
	require.NoError(t, rollups.AccumulateDay(ctx, nil, monday.AddDate(0, 0, -1), 99, 0, 0, 0))

	week, err := svc.CurrentWeek(ctx)
	require.NoError(t, err)

	require.Len(t, week.WeekTotals, 1)
	assert.InDelta(t, 6.0*6.0/216.0*1000.0, week.WeekTotals["Monday, 2024-01-15"], 1e-9)
	assert.Equal(t, 6.0, week.TotalWeek)
}

func TestLast30DaysZeroFilled(t *testing.T) {
	svc, _, rollups, _ := newTestService(t, testNow)
	ctx := context.Background()
	loc := svc.Zone.Location()

	require.NoError(t, rollupsAccumulate(ctx, rollups, time.Date(2024, time.January, 10, 0, 0, 0, 0, loc), 4))

	totals, err := svc.Last30Days(ctx)
	require.NoError(t, err)

	assert.Len(t, totals, 31)
	assert.Equal(t, 4.0, totals["10"])
	assert.Zero(t, totals["11"])
}

func rollupsAccumulate(ctx context.Context, rollups *fakeRollupRepo, day time.Time, total float64) error {
	return rollups.AccumulateDay(ctx, nil, day, total, 0, 0, 0)
}

func TestDayOfMonthTotalSpansMonths(t *testing.T) {
	svc, _, rollups, _ := newTestService(t, testNow)
	ctx := context.Background()
	loc := svc.Zone.Location()

	require.NoError(t, rollupsAccumulate(ctx, rollups, time.Date(2023, time.December, 5, 0, 0, 0, 0, loc), 3))
	require.NoError(t, rollupsAccumulate(ctx, rollups, time.Date(2024, time.January, 5, 0, 0, 0, 0, loc), 4))
	require.NoError(t, rollupsAccumulate(ctx, rollups, time.Date(2024, time.January, 6, 0, 0, 0, 0, loc), 9))

	total, err := svc.DayOfMonthTotal(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 7.0, total)
}

func TestMonthNumberTotalsSpansYears(t *testing.T) {
	svc, _, rollups, _ := newTestService(t, testNow)
	ctx := context.Background()
	loc := svc.Zone.Location()

	require.NoError(t, rollups.AccumulateMonth(ctx, nil, time.Date(2023, time.January, 1, 0, 0, 0, 0, loc), 10))
	require.NoError(t, rollups.AccumulateMonth(ctx, nil, time.Date(2024, time.January, 1, 0, 0, 0, 0, loc), 5))
	require.NoError(t, rollups.AccumulateMonth(ctx, nil, time.Date(2024, time.March, 1, 0, 0, 0, 0, loc), 2))

	totals, err := svc.MonthNumberTotals(ctx)
	require.NoError(t, err)

	assert.Len(t, totals, 12)
	assert.Equal(t, 15.0, totals[1])
	assert.Equal(t, 2.0, totals[3])
	assert.Zero(t, totals[7])
}

func TestHourlyTotalsCalibrated(t *testing.T) {
	svc, readings, _, _ := newTestService(t, testNow)
	ctx := context.Background()
	loc := svc.Zone.Location()

	readings.history = append(readings.history, &models.Reading{
		Timestamp:  time.Date(2024, time.January, 15, 10, 30, 0, 0, loc),
		Propeller1: 6,
	})

	totals, err := svc.HourlyTotals(ctx, svc.Zone.LocalDay(svc.Clock))
	require.NoError(t, err)

	assert.Len(t, totals, 24)
	assert.InDelta(t, 6.0*6.0/216.0*1000.0, totals[10], 1e-9)
	assert.Zero(t, totals[11])
}

func TestMinuteTotalsBucketsOneHour(t *testing.T) {
	svc, readings, _, _ := newTestService(t, testNow)
	ctx := context.Background()
	loc := svc.Zone.Location()

	inHour := time.Date(2024, time.January, 15, 10, 42, 3, 0, loc)
	nextHour := time.Date(2024, time.January, 15, 11, 0, 0, 0, loc)
	readings.history = append(readings.history,
		&models.Reading{Timestamp: inHour, Propeller3: 6},
		&models.Reading{Timestamp: nextHour, Propeller3: 99},
	)

	totals, err := svc.MinuteTotals(ctx, time.Date(2024, time.January, 15, 10, 15, 0, 0, loc))
	require.NoError(t, err)

	assert.Len(t, totals, 60)
	assert.InDelta(t, 6.0*6.0/216.0*1000.0, totals[42].Propeller3, 1e-9)
	assert.InDelta(t, 6.0*6.0/216.0*1000.0, totals[42].Total, 1e-9)
	assert.Zero(t, totals[0].Total)
}

func TestDerivedViewsStableWithoutNewIngestion(t *testing.T) {
	svc, readings, _, _ := newTestService(t, testNow)
	ctx := context.Background()
	loc := svc.Zone.Location()

	readings.history = append(readings.history,
		&models.Reading{Timestamp: time.Date(2024, time.January, 15, 10, 12, 0, 0, loc), Propeller1: 3, Propeller4: 2},
		&models.Reading{Timestamp: time.Date(2024, time.January, 15, 14, 48, 0, 0, loc), Propeller2: 7},
	)

	day := svc.Zone.LocalDay(svc.Clock)
	hoursFirst, err := svc.HourlyTotals(ctx, day)
	require.NoError(t, err)
	hoursSecond, err := svc.HourlyTotals(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, hoursFirst, hoursSecond, "re-reading hourly totals must not change them")

	moment := time.Date(2024, time.January, 15, 10, 0, 0, 0, loc)
	minutesFirst, err := svc.MinuteTotals(ctx, moment)
	require.NoError(t, err)
	minutesSecond, err := svc.MinuteTotals(ctx, moment)
	require.NoError(t, err)
	assert.Equal(t, minutesFirst, minutesSecond, "re-reading minute totals must not change them")
}

func TestHourTotalIsRaw(t *testing.T) {
	svc, readings, _, _ := newTestService(t, testNow)
	loc := svc.Zone.Location()

	readings.history = append(readings.history,
		&models.Reading{Timestamp: time.Date(2024, time.January, 15, 10, 5, 0, 0, loc), Propeller1: 2, Propeller2: 3},
		&models.Reading{Timestamp: time.Date(2024, time.January, 15, 9, 5, 0, 0, loc), Propeller1: 50},
	)

	total, err := svc.HourTotal(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 5.0, total)
}

func TestGroupTotals(t *testing.T) {
	svc, _, _, _ := newTestService(t, testNow)
	ctx := context.Background()

	_, _, err := svc.RecordReading(ctx, 1, [5]float64{1, 1, 0, 0, 0})
	require.NoError(t, err)
	_, _, err = svc.RecordReading(ctx, 3, [5]float64{0, 0, 0, 2, 2})
	require.NoError(t, err)

	totals, err := svc.GroupTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, totals["group1"])
	assert.Equal(t, 4.0, totals["group3"])
}

func TestRecordStatusRejectsUnknownValue(t *testing.T) {
	svc, _, _, status := newTestService(t, testNow)

	_, err := svc.RecordStatus(context.Background(), 2)
	require.Error(t, err)
	assert.Empty(t, status.events)
}

func TestRecordStatusAppends(t *testing.T) {
	svc, _, _, status := newTestService(t, testNow)
	ctx := context.Background()

	event, err := svc.RecordStatus(ctx, models.StatusOnline)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOnline, event.Status)
	assert.Equal(t, testNow, event.LastUpdate)

	// A repeated signal appends a new row, it never updates in place.
	_, err = svc.RecordStatus(ctx, models.StatusOnline)
	require.NoError(t, err)
	assert.Len(t, status.events, 2)
}

func TestCurrentStatusRendersDisplayZone(t *testing.T) {
	svc, _, _, _ := newTestService(t, testNow)
	ctx := context.Background()

	_, err := svc.RecordStatus(ctx, models.StatusOnline)
	require.NoError(t, err)

	view, err := svc.CurrentStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15 10:30:00", view.LastUpdate)
}

func TestMarkStatusRangeOnlinePreservesTimestamps(t *testing.T) {
	svc, _, _, status := newTestService(t, testNow)
	ctx := context.Background()

	before := testNow.Add(-10 * time.Minute)
	require.NoError(t, status.Append(ctx, &models.StatusEvent{Status: models.StatusOffline, LastUpdate: before}))
	require.NoError(t, status.Append(ctx, &models.StatusEvent{Status: models.StatusOnline, LastUpdate: testNow}))

	ids, err := svc.MarkStatusRangeOnline(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids, "only offline rows flip")

	assert.Equal(t, models.StatusOnline, status.events[0].Status)
	assert.Equal(t, before, status.events[0].LastUpdate, "timestamp must survive the flip")
}

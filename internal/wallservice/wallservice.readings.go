// FilePath: internal/wallservice/wallservice.readings.go
package wallservice

import (
	"context"
	"fmt"
	"time"

	"github.com/abahued/windwall-hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// RecordReading ingests one sampled set of propeller values. Readings whose
// five-value sum falls below the activity threshold are acknowledged but
// produce no writes at all. Accepted readings are appended to the history
// and snapshot tables and folded into the day, month and all-time rollups,
// all inside a single transaction.
func (s *WallService) RecordReading(ctx context.Context, group int, props [5]float64) (*models.Reading, bool, error) {
	now := s.Zone.LocalNow(s.Clock)
	reading := &models.Reading{
		Timestamp:  now,
		Group:      group,
		Propeller1: props[0],
		Propeller2: props[1],
		Propeller3: props[2],
		Propeller4: props[3],
		Propeller5: props[4],
	}

	totalSum := reading.Sum()
	if totalSum < MinActivityThreshold {
		nuts.L.Infof("[WallService] Reading below threshold (%.3f < %.1f), not saved", totalSum, MinActivityThreshold)
		return nil, false, nil
	}

	tx, err := s.Readings.BeginTx(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback() // Ignored once committed

	if err := s.Readings.Insert(ctx, tx, reading); err != nil {
		return nil, false, err
	}
	if err := s.Readings.InsertSnapshot(ctx, tx, reading); err != nil {
		return nil, false, err
	}

	group1, group2, group3 := reading.GroupSums()
	day := dayStart(now)
	month := monthStart(now)

	if err := s.Rollups.AccumulateDay(ctx, tx, day, totalSum, group1, group2, group3); err != nil {
		return nil, false, err
	}
	if err := s.Rollups.AccumulateMonth(ctx, tx, month, totalSum); err != nil {
		return nil, false, err
	}
	if err := s.Rollups.AccumulateGrand(ctx, tx, totalSum); err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	if s.Cache != nil {
		s.Cache.SetLatest(ctx, reading)
	}
	return reading, true, nil
}

// LatestReading returns the most recent reading from the durable history,
// preferring the Redis mirror when it is warm.
func (s *WallService) LatestReading(ctx context.Context) (*models.ReadingView, error) {
	if s.Cache != nil {
		if view := s.Cache.GetLatest(ctx); view != nil {
			return view, nil
		}
	}

	reading, err := s.Readings.Latest(ctx)
	if err != nil {
		return nil, err
	}
	view := reading.View()
	return &view, nil
}

// LatestReadingByGroup returns the most recent snapshot reading for a group.
func (s *WallService) LatestReadingByGroup(ctx context.Context, group int) (*models.ReadingView, error) {
	if s.Cache != nil {
		if view := s.Cache.GetLatestByGroup(ctx, group); view != nil {
			return view, nil
		}
	}

	reading, err := s.Readings.LatestSnapshotByGroup(ctx, group)
	if err != nil {
		return nil, err
	}
	view := reading.View()
	return &view, nil
}

// AllReadings returns the full reading history.
func (s *WallService) AllReadings(ctx context.Context) ([]models.ReadingView, error) {
	readings, err := s.Readings.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.ReadingView, 0, len(readings))
	for _, reading := range readings {
		views = append(views, reading.View())
	}
	return views, nil
}

// HourlyTotals buckets one day's readings into hours 0-23 and reports the
// calibrated total per hour. Recomputed from raw data on each call.
func (s *WallService) HourlyTotals(ctx context.Context, day time.Time) (map[int]float64, error) {
	readings, err := s.Readings.ListByDay(ctx, dayStart(day))
	if err != nil {
		return nil, err
	}

	totals := make(map[int]float64, 24)
	for hour := 0; hour < 24; hour++ {
		totals[hour] = 0
	}
	for _, reading := range readings {
		totals[reading.Timestamp.Hour()] += calibratedSum(reading)
	}
	return totals, nil
}

// MinuteTotals buckets the readings of one hour into minutes 0-59 with
// calibrated per-propeller values.
func (s *WallService) MinuteTotals(ctx context.Context, moment time.Time) (map[int]models.MinuteTotal, error) {
	hourStart := time.Date(moment.Year(), moment.Month(), moment.Day(), moment.Hour(), 0, 0, 0, moment.Location())
	readings, err := s.Readings.ListByWindow(ctx, hourStart, hourStart.Add(time.Hour))
	if err != nil {
		return nil, err
	}

	totals := make(map[int]models.MinuteTotal, 60)
	for minute := 0; minute < 60; minute++ {
		totals[minute] = models.MinuteTotal{}
	}
	for _, reading := range readings {
		bucket := totals[reading.Timestamp.Minute()]
		bucket.Propeller1 += models.Calibrate(reading.Propeller1)
		bucket.Propeller2 += models.Calibrate(reading.Propeller2)
		bucket.Propeller3 += models.Calibrate(reading.Propeller3)
		bucket.Propeller4 += models.Calibrate(reading.Propeller4)
		bucket.Propeller5 += models.Calibrate(reading.Propeller5)
		bucket.Total += calibratedSum(reading)
		totals[reading.Timestamp.Minute()] = bucket
	}
	return totals, nil
}

// HourTotal sums today's raw (uncalibrated) readings within one hour.
func (s *WallService) HourTotal(ctx context.Context, hour int) (float64, error) {
	readings, err := s.Readings.ListByDay(ctx, s.Zone.LocalDay(s.Clock))
	if err != nil {
		return 0, err
	}

	var total float64
	for _, reading := range readings {
		if reading.Timestamp.Hour() == hour {
			total += reading.Sum()
		}
	}
	return total, nil
}

// GroupTotals sums the full history per reading group.
func (s *WallService) GroupTotals(ctx context.Context) (map[string]float64, error) {
	rows, err := s.Readings.GroupTotals(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64, len(rows))
	for _, row := range rows {
		totals[fmt.Sprintf("group%d", row.Group)] = row.Total
	}
	return totals, nil
}

func calibratedSum(r *models.Reading) float64 {
	return models.Calibrate(r.Propeller1) + models.Calibrate(r.Propeller2) +
		models.Calibrate(r.Propeller3) + models.Calibrate(r.Propeller4) +
		models.Calibrate(r.Propeller5)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

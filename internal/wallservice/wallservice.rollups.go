// FilePath: internal/wallservice/wallservice.rollups.go
package wallservice

import (
	"context"
	"fmt"

	"github.com/abahued/windwall-hub/internal/errors"
	"github.com/abahued/windwall-hub/internal/models"
)

// WeekView is the current-week derived view: calibrated per-day totals plus
// the raw week sum.
type WeekView struct {
	WeekTotals map[string]float64 `json:"week_totals"`
	TotalWeek  float64            `json:"total_week"`
}

// AllDays returns every daily rollup row.
func (s *WallService) AllDays(ctx context.Context) ([]models.DailyTotalView, error) {
	days, err := s.Rollups.ListDays(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.DailyTotalView, 0, len(days))
	for _, day := range days {
		views = append(views, day.View())
	}
	return views, nil
}

// CurrentDay returns today's rollup, or a zero-valued view when no reading
// has arrived yet today.
func (s *WallService) CurrentDay(ctx context.Context) (*models.DailyTotalView, error) {
	today := s.Zone.LocalDay(s.Clock)
	day, err := s.Rollups.GetDay(ctx, today)
	if err != nil {
		if errors.IsNotFound(err) {
			return &models.DailyTotalView{Date: today.Format(models.DateFormat)}, nil
		}
		return nil, err
	}
	view := day.View()
	return &view, nil
}

// Last30Days returns a day-number keyed map of the last 30 days' totals,
// zero-filled for days without data.
func (s *WallService) Last30Days(ctx context.Context) (map[string]float64, error) {
	today := s.Zone.LocalDay(s.Clock)
	start := today.AddDate(0, 0, -30)

	days, err := s.Rollups.ListDaysInRange(ctx, start, today)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64, 31)
	for i := 0; i <= 30; i++ {
		totals[start.AddDate(0, 0, i).Format("02")] = 0
	}
	for _, day := range days {
		totals[day.Day.Format("02")] = day.Total
	}
	return totals, nil
}

// CurrentWeek returns the Monday-to-Sunday week containing today, with
// calibrated day totals and the raw week sum.
func (s *WallService) CurrentWeek(ctx context.Context) (*WeekView, error) {
	today := s.Zone.LocalDay(s.Clock)
	weekday := (int(today.Weekday()) + 6) % 7 // Monday = 0
	weekStart := today.AddDate(0, 0, -weekday)
	weekEnd := weekStart.AddDate(0, 0, 6)

	days, err := s.Rollups.ListDaysInRange(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	view := &WeekView{WeekTotals: make(map[string]float64, len(days))}
	for _, day := range days {
		key := fmt.Sprintf("%s, %s", day.Day.Weekday(), day.Day.Format(models.DateFormat))
		view.WeekTotals[key] = models.Calibrate(day.Total)
		view.TotalWeek += day.Total
	}
	return view, nil
}

// DayOfMonthTotal sums the daily rollups across all months sharing the
// given day number.
func (s *WallService) DayOfMonthTotal(ctx context.Context, dayNumber int) (float64, error) {
	days, err := s.Rollups.ListDays(ctx)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, day := range days {
		if day.Day.Day() == dayNumber {
			total += day.Total
		}
	}
	return total, nil
}

// AllMonths returns every monthly rollup row.
func (s *WallService) AllMonths(ctx context.Context) ([]models.MonthlyTotalView, error) {
	months, err := s.Rollups.ListMonths(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.MonthlyTotalView, 0, len(months))
	for _, month := range months {
		views = append(views, month.View())
	}
	return views, nil
}

// MonthNumberTotals sums the monthly rollups across all years per calendar
// month number, 1-12, zero-filled.
func (s *WallService) MonthNumberTotals(ctx context.Context) (map[int]float64, error) {
	months, err := s.Rollups.ListMonths(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[int]float64, 12)
	for m := 1; m <= 12; m++ {
		totals[m] = 0
	}
	for _, month := range months {
		totals[int(month.Month.Month())] += month.Total
	}
	return totals, nil
}

// CurrentMonth returns this month's rollup, or a zero-valued view.
func (s *WallService) CurrentMonth(ctx context.Context) (*models.MonthlyTotalView, error) {
	now := s.Zone.LocalDay(s.Clock)
	month, err := s.Rollups.GetMonth(ctx, monthStart(now))
	if err != nil {
		if errors.IsNotFound(err) {
			return &models.MonthlyTotalView{Date: now.Format(models.MonthFormat)}, nil
		}
		return nil, err
	}
	view := month.View()
	return &view, nil
}

// Grand returns the all-time total, zero when nothing has been ingested.
func (s *WallService) Grand(ctx context.Context) (*models.GrandTotal, error) {
	grand, err := s.Rollups.GetGrand(ctx)
	if err != nil {
		if errors.IsNotFound(err) {
			return &models.GrandTotal{}, nil
		}
		return nil, err
	}
	return grand, nil
}

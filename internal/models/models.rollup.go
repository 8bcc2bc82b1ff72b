// FilePath: internal/models/models.rollup.go
package models

import "time"

// DailyTotal holds the accumulated totals for one calendar day (local tz).
// Rows are only ever incremented, never replaced.
type DailyTotal struct {
	ID     int64     `json:"id" db:"id"`
	Day    time.Time `json:"-" db:"day"`
	Total  float64   `json:"total" db:"total"`
	Group1 float64   `json:"group1" db:"group1"`
	Group2 float64   `json:"group2" db:"group2"`
	Group3 float64   `json:"group3" db:"group3"`
}

type DailyTotalView struct {
	ID     int64   `json:"id"`
	Date   string  `json:"date"`
	Total  float64 `json:"total"`
	Group1 float64 `json:"group1"`
	Group2 float64 `json:"group2"`
	Group3 float64 `json:"group3"`
}

func (d *DailyTotal) View() DailyTotalView {
	return DailyTotalView{
		ID:     d.ID,
		Date:   d.Day.Format(DateFormat),
		Total:  d.Total,
		Group1: d.Group1,
		Group2: d.Group2,
		Group3: d.Group3,
	}
}

// MonthlyTotal holds the accumulated total for one calendar month, keyed by
// the first day of the month.
type MonthlyTotal struct {
	ID    int64     `json:"id" db:"id"`
	Month time.Time `json:"-" db:"month"`
	Total float64   `json:"total" db:"total"`
}

type MonthlyTotalView struct {
	ID    int64   `json:"id"`
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

func (m *MonthlyTotal) View() MonthlyTotalView {
	return MonthlyTotalView{
		ID:    m.ID,
		Date:  m.Month.Format(MonthFormat),
		Total: m.Total,
	}
}

// GrandTotal is the all-time accumulator. At most one row ever exists.
type GrandTotal struct {
	ID    int64   `json:"id" db:"id"`
	Total float64 `json:"total" db:"total"`
}

// MinuteTotal is one bucket of the per-minute derived view, calibrated.
type MinuteTotal struct {
	Propeller1 float64 `json:"propeller1"`
	Propeller2 float64 `json:"propeller2"`
	Propeller3 float64 `json:"propeller3"`
	Propeller4 float64 `json:"propeller4"`
	Propeller5 float64 `json:"propeller5"`
	Total      float64 `json:"total"`
}

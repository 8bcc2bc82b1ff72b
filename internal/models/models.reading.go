// FilePath: internal/models/models.reading.go
package models

import "time"

// Text formats used in every request/response body.
const (
	TimeFormat  = "2006-01-02 15:04:05"
	DateFormat  = "2006-01-02"
	MonthFormat = "2006-01"
)

// Reading is one sampled set of the five propeller values. The same shape
// is stored twice: in the durable history table and in the latest-value
// snapshot table.
type Reading struct {
	ID         int64     `json:"id" db:"id"`
	Timestamp  time.Time `json:"-" db:"timestamp"`
	Group      int       `json:"group" db:"prop_group"`
	Propeller1 float64   `json:"propeller1" db:"propeller1"`
	Propeller2 float64   `json:"propeller2" db:"propeller2"`
	Propeller3 float64   `json:"propeller3" db:"propeller3"`
	Propeller4 float64   `json:"propeller4" db:"propeller4"`
	Propeller5 float64   `json:"propeller5" db:"propeller5"`
}

// Sum returns the total of all five propeller values.
func (r *Reading) Sum() float64 {
	return r.Propeller1 + r.Propeller2 + r.Propeller3 + r.Propeller4 + r.Propeller5
}

// GroupSums returns the fixed three-way partition of the five propellers:
// group1 = p1+p2, group2 = p3, group3 = p4+p5.
func (r *Reading) GroupSums() (g1, g2, g3 float64) {
	return r.Propeller1 + r.Propeller2, r.Propeller3, r.Propeller4 + r.Propeller5
}

// AllZero reports whether every propeller value is exactly zero.
func (r *Reading) AllZero() bool {
	return r.Propeller1 == 0 && r.Propeller2 == 0 && r.Propeller3 == 0 &&
		r.Propeller4 == 0 && r.Propeller5 == 0
}

// ReadingView is the wire representation of a reading with the timestamp
// rendered as local wall-clock text.
type ReadingView struct {
	ID         int64   `json:"id"`
	Date       string  `json:"date"`
	Group      int     `json:"group"`
	Propeller1 float64 `json:"propeller1"`
	Propeller2 float64 `json:"propeller2"`
	Propeller3 float64 `json:"propeller3"`
	Propeller4 float64 `json:"propeller4"`
	Propeller5 float64 `json:"propeller5"`
}

// View renders the reading for API responses. Reading timestamps are
// persisted in local wall time already, so no conversion happens here.
func (r *Reading) View() ReadingView {
	return ReadingView{
		ID:         r.ID,
		Date:       r.Timestamp.Format(TimeFormat),
		Group:      r.Group,
		Propeller1: r.Propeller1,
		Propeller2: r.Propeller2,
		Propeller3: r.Propeller3,
		Propeller4: r.Propeller4,
		Propeller5: r.Propeller5,
	}
}

// CalibrationDivisor converts raw propeller units to the power-like unit
// reported by the derived views. Applied at query time only, never stored.
const CalibrationDivisor = 216.0

// Calibrate applies the fixed sensor calibration transform v^2/216*1000.
func Calibrate(v float64) float64 {
	return v * v / CalibrationDivisor * 1000
}

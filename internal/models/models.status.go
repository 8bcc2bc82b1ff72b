// FilePath: internal/models/models.status.go
package models

import "time"

// Device status values as reported on the wire.
const (
	StatusOffline = 0
	StatusOnline  = 1
)

// StatusEvent is one row of the append-only device status log. LastUpdate
// is persisted in UTC and converted to the display zone on every read.
type StatusEvent struct {
	ID         int64     `json:"id" db:"id"`
	Status     int       `json:"status" db:"status"`
	LastUpdate time.Time `json:"-" db:"last_update"`
}

type StatusEventView struct {
	ID         int64  `json:"id"`
	Status     int    `json:"status"`
	LastUpdate string `json:"lastUpdate"`
}

// View renders the event with its timestamp converted to loc.
func (s *StatusEvent) View(loc *time.Location) StatusEventView {
	return StatusEventView{
		ID:         s.ID,
		Status:     s.Status,
		LastUpdate: s.LastUpdate.In(loc).Format(TimeFormat),
	}
}

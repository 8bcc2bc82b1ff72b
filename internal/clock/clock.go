// FilePath: internal/clock/clock.go
package clock

import "time"

// Clock produces the current moment. The monitor and the ingestion path
// take it injected so tests can advance a fake clock instead of sleeping.
type Clock interface {
	Now() time.Time
}

// WallClock is the real clock.
type WallClock struct{}

func (WallClock) Now() time.Time {
	return time.Now().UTC()
}

// Zone converts between storage time (UTC) and the fixed display zone.
// All conversion to local wall time happens through this adapter, nowhere
// else.
type Zone struct {
	loc *time.Location
}

// NewZone loads the display timezone by IANA name.
func NewZone(name string) (*Zone, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}
	return &Zone{loc: loc}, nil
}

// Location returns the display location.
func (z *Zone) Location() *time.Location {
	return z.loc
}

// ToLocal converts a stored UTC instant to display wall time.
func (z *Zone) ToLocal(t time.Time) time.Time {
	return t.In(z.loc)
}

// LocalNow returns the current moment in the display zone, truncated to
// second precision as stored for readings.
func (z *Zone) LocalNow(c Clock) time.Time {
	return c.Now().In(z.loc).Truncate(time.Second)
}

// LocalDay returns midnight of the current display-zone day.
func (z *Zone) LocalDay(c Clock) time.Time {
	now := c.Now().In(z.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, z.loc)
}

// FilePath: internal/clock/clock_test.go
package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func TestNewZoneRejectsUnknownName(t *testing.T) {
	_, err := NewZone("Mars/Olympus_Mons")
	require.Error(t, err)
}

func TestToLocal(t *testing.T) {
	zone, err := NewZone("America/Mexico_City")
	require.NoError(t, err)

	utc := time.Date(2024, time.January, 15, 16, 30, 0, 0, time.UTC)
	local := zone.ToLocal(utc)
	assert.Equal(t, "2024-01-15 10:30:00", local.Format("2006-01-02 15:04:05"))
}

func TestLocalNowTruncatesToSeconds(t *testing.T) {
	zone, err := NewZone("America/Mexico_City")
	require.NoError(t, err)

	clk := fixedClock{now: time.Date(2024, time.January, 15, 16, 30, 45, 123456789, time.UTC)}
	local := zone.LocalNow(clk)
	assert.Zero(t, local.Nanosecond())
	assert.Equal(t, 45, local.Second())
	assert.Equal(t, 10, local.Hour())
}

func TestLocalDayCrossesUTCBoundary(t *testing.T) {
	zone, err := NewZone("America/Mexico_City")
	require.NoError(t, err)

	// 03:00 UTC on the 16th is still 21:00 on the 15th in Mexico City.
	clk := fixedClock{now: time.Date(2024, time.January, 16, 3, 0, 0, 0, time.UTC)}
	day := zone.LocalDay(clk)
	assert.Equal(t, "2024-01-15", day.Format("2006-01-02"))
	assert.Zero(t, day.Hour())
}

func TestWallClockReturnsUTC(t *testing.T) {
	now := WallClock{}.Now()
	assert.Equal(t, time.UTC, now.Location())
}

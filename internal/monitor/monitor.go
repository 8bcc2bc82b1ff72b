// FilePath: internal/monitor/monitor.go
package monitor

import (
	"context"
	"time"

	"github.com/abahued/windwall-hub/internal/clock"
	"github.com/abahued/windwall-hub/internal/errors"
	"github.com/abahued/windwall-hub/internal/models"
	"github.com/abahued/windwall-hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Monitor watches the status log for device silence. Once per interval it
// reads the latest status event; if the device looks online but has been
// silent longer than the offline window, it appends a synthetic offline
// event. It never transitions offline to online; only real heartbeats or
// the manual range correction do that.
type Monitor struct {
	status       repository.StatusRepository
	clock        clock.Clock
	interval     time.Duration
	offlineAfter time.Duration
}

// New creates a silence monitor with an injected clock so tests can advance
// time instead of sleeping.
func New(status repository.StatusRepository, clk clock.Clock, interval, offlineAfter time.Duration) *Monitor {
	return &Monitor{
		status:       status,
		clock:        clk,
		interval:     interval,
		offlineAfter: offlineAfter,
	}
}

// Run executes the monitor loop until ctx is cancelled. Check failures are
// logged and the loop continues; they are never fatal to the host process.
func (m *Monitor) Run(ctx context.Context) {
	nuts.L.Infof("[Monitor] Started (interval %s, offline after %s)", m.interval, m.offlineAfter)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			nuts.L.Infof("[Monitor] Stopped")
			return
		case <-ticker.C:
			if err := m.CheckOnce(ctx); err != nil {
				nuts.L.Errorf("[Monitor] Check failed, retrying next cycle: %v", err)
			}
		}
	}
}

// CheckOnce performs one silence check. An empty status log is a no-op: the
// monitor has nothing to say about a device that never reported.
func (m *Monitor) CheckOnce(ctx context.Context) error {
	latest, err := m.status.Latest(ctx)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}

	if latest.Status != models.StatusOnline {
		return nil
	}

	now := m.clock.Now()
	silence := now.Sub(latest.LastUpdate)
	if silence <= m.offlineAfter {
		return nil
	}

	nuts.L.Warnf("[Monitor] No heartbeat for %s, recording offline status", silence.Truncate(time.Second))
	event := &models.StatusEvent{
		Status:     models.StatusOffline,
		LastUpdate: now,
	}
	if err := m.status.Append(ctx, event); err != nil {
		return err
	}

	nuts.L.Infof("[Monitor] Device marked offline after silence since %s", latest.LastUpdate.Format(models.TimeFormat))
	return nil
}

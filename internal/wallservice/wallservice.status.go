// FilePath: internal/wallservice/wallservice.status.go
package wallservice

import (
	"context"

	"github.com/abahued/windwall-hub/internal/errors"
	"github.com/abahued/windwall-hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// RecordStatus appends a heartbeat event to the status log. The log is
// append-only: every signal is a new row, never an update.
func (s *WallService) RecordStatus(ctx context.Context, status int) (*models.StatusEvent, error) {
	if status != models.StatusOffline && status != models.StatusOnline {
		return nil, errors.NewValidationError("invalid status value, must be 0 or 1", nil)
	}

	event := &models.StatusEvent{
		Status:     status,
		LastUpdate: s.Clock.Now(),
	}
	if err := s.Status.Append(ctx, event); err != nil {
		return nil, err
	}

	nuts.L.Infof("[WallService] Recorded status %d at %s", status, event.LastUpdate.Format(models.TimeFormat))
	return event, nil
}

// CurrentStatus returns the most recent status event rendered in the
// display zone.
func (s *WallService) CurrentStatus(ctx context.Context) (*models.StatusEventView, error) {
	event, err := s.Status.Latest(ctx)
	if err != nil {
		return nil, err
	}
	view := event.View(s.Zone.Location())
	return &view, nil
}

// StatusHistory returns the full status log, newest first, in display time.
func (s *WallService) StatusHistory(ctx context.Context) ([]models.StatusEventView, error) {
	events, err := s.Status.History(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.StatusEventView, 0, len(events))
	for _, event := range events {
		views = append(views, event.View(s.Zone.Location()))
	}
	return views, nil
}

// MarkStatusRangeOnline retroactively flips offline rows in an id range to
// online, preserving their timestamps. A correction tool for windows where
// the device was up but its heartbeats were lost.
func (s *WallService) MarkStatusRangeOnline(ctx context.Context, startID, endID int64) ([]int64, error) {
	ids, err := s.Status.MarkRangeOnline(ctx, startID, endID)
	if err != nil {
		return nil, err
	}

	nuts.L.Infof("[WallService] Marked %d status entries online (ids %d-%d requested)", len(ids), startID, endID)
	return ids, nil
}

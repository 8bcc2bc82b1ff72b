package cleanup

import (
	"context"
	"fmt"

	"github.com/abahued/windwall-hub/internal/models"
	"github.com/abahued/windwall-hub/internal/repository"
	"github.com/abahued/windwall-hub/internal/wallservice"
	nuts "github.com/vaudience/go-nuts"
)

// ResetService coordinates the destructive operator actions: clearing
// readings and rollups, clearing the snapshot table, purging all-zero rows
// and range deletes. Multi-table resets run in one transaction so rollups
// and raw data cannot diverge.
type ResetService struct {
	readings repository.ReadingRepository
	rollups  repository.RollupRepository
	status   repository.StatusRepository
	cache    wallservice.ReadingCache
	events   *nuts.EventEmitter
}

// New creates a new ResetService. cache may be nil.
func New(
	readings repository.ReadingRepository,
	rollups repository.RollupRepository,
	status repository.StatusRepository,
	cache wallservice.ReadingCache,
) *ResetService {
	return &ResetService{
		readings: readings,
		rollups:  rollups,
		status:   status,
		cache:    cache,
		events:   nuts.NewEventEmitter(),
	}
}

// ResetAll deletes the reading history and every rollup table in a single
// transaction. The snapshot table and status log are left alone.
func (s *ResetService) ResetAll(ctx context.Context) error {
	tx, err := s.readings.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Ignored once committed

	deleted, err := s.readings.DeleteAll(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to delete readings: %w", err)
	}
	if err := s.rollups.DeleteAll(ctx, tx); err != nil {
		return fmt.Errorf("failed to delete rollups: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.invalidateCache(ctx)
	s.events.Emit("readings.reset", fmt.Sprintf("%d", deleted))
	return nil
}

// ResetSnapshot clears the latest-value snapshot table.
func (s *ResetService) ResetSnapshot(ctx context.Context) error {
	deleted, err := s.readings.DeleteSnapshotAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear snapshot table: %w", err)
	}

	s.invalidateCache(ctx)
	s.events.Emit("snapshot.reset", fmt.Sprintf("%d", deleted))
	return nil
}

// PurgeZeroReadings deletes history rows whose five values are all zero.
// Rollups are untouched: all-zero rows never contributed to them.
func (s *ResetService) PurgeZeroReadings(ctx context.Context) (int64, error) {
	deleted, err := s.readings.DeleteZeroRows(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge zero readings: %w", err)
	}

	s.events.Emit("readings.zeros_purged", fmt.Sprintf("%d", deleted))
	return deleted, nil
}

// DeleteLatestReading removes the newest history row and returns it.
func (s *ResetService) DeleteLatestReading(ctx context.Context) (*models.Reading, error) {
	reading, err := s.readings.DeleteLatest(ctx)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.events.Emit("reading.deleted", fmt.Sprintf("%d", reading.ID))
	return reading, nil
}

// DeleteReadingRange removes a contiguous id range from the history table
// and reports how many rows went away.
func (s *ResetService) DeleteReadingRange(ctx context.Context, startID, endID int64) (int64, error) {
	deleted, err := s.readings.DeleteIDRange(ctx, startID, endID)
	if err != nil {
		return 0, err
	}

	s.events.Emit("readings.range_deleted", fmt.Sprintf("%d", deleted))
	return deleted, nil
}

// DeleteLatestStatus removes the newest status event and returns it.
func (s *ResetService) DeleteLatestStatus(ctx context.Context) (*models.StatusEvent, error) {
	event, err := s.status.DeleteLatest(ctx)
	if err != nil {
		return nil, err
	}

	s.events.Emit("status.deleted", fmt.Sprintf("%d", event.ID))
	return event, nil
}

// ResetStatusHistory clears the whole status log.
func (s *ResetService) ResetStatusHistory(ctx context.Context) (int64, error) {
	deleted, err := s.status.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to reset status history: %w", err)
	}

	s.events.Emit("status.reset", fmt.Sprintf("%d", deleted))
	return deleted, nil
}

// OnReset registers a callback for reset events.
func (s *ResetService) OnReset(event string, handler func(detail string)) {
	s.events.On(event, "reset_handler", func(args ...interface{}) {
		if len(args) > 0 {
			if detail, ok := args[0].(string); ok {
				handler(detail)
			}
		}
	})
}

func (s *ResetService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

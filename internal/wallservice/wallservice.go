package wallservice

import (
	"context"

	"github.com/abahued/windwall-hub/internal/clock"
	"github.com/abahued/windwall-hub/internal/errors"
	"github.com/abahued/windwall-hub/internal/models"
	"github.com/abahued/windwall-hub/internal/repository"
)

// MinActivityThreshold is the minimum five-value sum a reading must reach
// to be persisted. Readings below it are acknowledged but not stored.
const MinActivityThreshold = 0.2

// ReadingCache is the optional hot-path mirror of the most recent reading.
type ReadingCache interface {
	SetLatest(ctx context.Context, reading *models.Reading)
	GetLatest(ctx context.Context) *models.ReadingView
	GetLatestByGroup(ctx context.Context, group int) *models.ReadingView
	Invalidate(ctx context.Context)
}

// WallService contains all repositories and service-wide dependencies
type WallService struct {
	Readings repository.ReadingRepository
	Rollups  repository.RollupRepository
	Status   repository.StatusRepository
	Cache    ReadingCache
	Clock    clock.Clock
	Zone     *clock.Zone
}

// New creates a new WallService instance. cache may be nil.
func New(
	readings repository.ReadingRepository,
	rollups repository.RollupRepository,
	status repository.StatusRepository,
	cache ReadingCache,
	clk clock.Clock,
	zone *clock.Zone,
) *WallService {
	return &WallService{
		Readings: readings,
		Rollups:  rollups,
		Status:   status,
		Cache:    cache,
		Clock:    clk,
		Zone:     zone,
	}
}

// Validate checks if all required dependencies are initialized
func (s *WallService) Validate() error {
	if s.Readings == nil {
		return ErrMissingDependency("readings")
	}
	if s.Rollups == nil {
		return ErrMissingDependency("rollups")
	}
	if s.Status == nil {
		return ErrMissingDependency("status")
	}
	if s.Clock == nil {
		return ErrMissingDependency("clock")
	}
	if s.Zone == nil {
		return ErrMissingDependency("zone")
	}
	return nil
}

func ErrMissingDependency(name string) error {
	return errors.NewInternalError("missing dependency: "+name, nil)
}

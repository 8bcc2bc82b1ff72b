// FilePath: internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abahued/windwall-hub/internal/config"
	"github.com/abahued/windwall-hub/internal/models"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

const (
	latestKey      = "windwall:latest"
	latestGroupKey = "windwall:latest:group:%d"
	latestTTL      = 24 * time.Hour
)

// LatestCache mirrors the most recent accepted reading in Redis so the
// dashboard's "last value" polls skip Postgres. It is best effort: every
// failure is logged and swallowed, callers fall back to the snapshot table.
type LatestCache struct {
	client *redis.Client
}

func New(cfg config.RedisConfig) *LatestCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &LatestCache{client: client}
}

func (c *LatestCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *LatestCache) Close() error {
	return c.client.Close()
}

// SetLatest stores the reading under the overall key and its group key.
func (c *LatestCache) SetLatest(ctx context.Context, reading *models.Reading) {
	payload, err := json.Marshal(reading.View())
	if err != nil {
		nuts.L.Warnf("[LatestCache] Failed to marshal reading %d: %v", reading.ID, err)
		return
	}

	keys := []string{latestKey, fmt.Sprintf(latestGroupKey, reading.Group)}
	for _, key := range keys {
		if err := c.client.Set(ctx, key, payload, latestTTL).Err(); err != nil {
			nuts.L.Warnf("[LatestCache] Failed to set %s: %v", key, err)
		}
	}
}

// GetLatest returns the cached overall latest reading, or nil on miss.
func (c *LatestCache) GetLatest(ctx context.Context) *models.ReadingView {
	return c.get(ctx, latestKey)
}

// GetLatestByGroup returns the cached latest reading for a group, or nil.
func (c *LatestCache) GetLatestByGroup(ctx context.Context, group int) *models.ReadingView {
	return c.get(ctx, fmt.Sprintf(latestGroupKey, group))
}

func (c *LatestCache) get(ctx context.Context, key string) *models.ReadingView {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			nuts.L.Warnf("[LatestCache] Failed to get %s: %v", key, err)
		}
		return nil
	}

	view := &models.ReadingView{}
	if err := json.Unmarshal(payload, view); err != nil {
		nuts.L.Warnf("[LatestCache] Corrupt cache entry %s: %v", key, err)
		return nil
	}
	return view
}

// Invalidate drops all latest keys. Called by the reset operations.
func (c *LatestCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, "windwall:latest*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			nuts.L.Warnf("[LatestCache] Failed to delete %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		nuts.L.Warnf("[LatestCache] Scan failed during invalidation: %v", err)
	}
}

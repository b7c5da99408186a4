// Package cache stores computed aggregation snapshots in Redis so that
// dashboard reads do not recompute over the full ticket set on every
// request. Entries are best effort; a cache miss or an unreachable Redis
// falls back to a fresh computation.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-core/internal/persistence"
	"github.com/spec-kit/helpdesk-core/internal/stats"
)

const (
	metricsKeyPrefix = "helpdesk:metrics:"
	dashboardKey     = "helpdesk:metrics:dashboard"
)

// MetricsCache caches aggregation results keyed by their request shape.
type MetricsCache struct {
	rdb    *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewMetricsCache constructs the cache. A zero ttl disables expiry.
func NewMetricsCache(rdb *persistence.Redis, ttl time.Duration, logger *zap.Logger) *MetricsCache {
	return &MetricsCache{rdb: rdb, ttl: ttl, logger: logger}
}

// Key derives a stable cache key for a request. Window presets resolve
// against now; the resolved end bound is truncated to its calendar day for
// keying, so repeated preset queries within a day share one entry while
// the same preset issued on different days hashes to a different key.
// Write-path invalidation keeps entries from going stale within the day.
func Key(req stats.AggregationRequest, now time.Time) string {
	start, end := req.Window.Resolve(now)
	if req.Window.Preset != "" && end != nil {
		day := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
		end = &day
	}
	payload, _ := json.Marshal(struct {
		Start   *time.Time
		End     *time.Time
		Request stats.AggregationRequest
	}{start, end, req})
	sum := sha256.Sum256(payload)
	return metricsKeyPrefix + hex.EncodeToString(sum[:16])
}

// Get returns the cached metrics for key, or (nil, nil) on a miss.
func (c *MetricsCache) Get(ctx context.Context, key string) (*stats.Metrics, error) {
	if c == nil || c.rdb == nil || c.rdb.Client == nil {
		return nil, nil
	}
	raw, err := c.rdb.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("metrics cache get: %w", err)
	}
	var metrics stats.Metrics
	if err := json.Unmarshal(raw, &metrics); err != nil {
		// A stale or corrupted entry is treated as a miss.
		c.logger.Warn("discarding unreadable metrics cache entry", zap.String("key", key), zap.Error(err))
		_ = c.rdb.Client.Del(ctx, key).Err()
		return nil, nil
	}
	return &metrics, nil
}

// Set stores metrics under key.
func (c *MetricsCache) Set(ctx context.Context, key string, metrics *stats.Metrics) error {
	if c == nil || c.rdb == nil || c.rdb.Client == nil {
		return nil
	}
	raw, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("metrics cache set: %w", err)
	}
	return c.rdb.Client.Set(ctx, key, raw, c.ttl).Err()
}

// SetDashboard stores the precomputed all-tickets snapshot used by the
// dashboard refresh worker.
func (c *MetricsCache) SetDashboard(ctx context.Context, metrics *stats.Metrics) error {
	return c.Set(ctx, dashboardKey, metrics)
}

// GetDashboard returns the precomputed dashboard snapshot, if any.
func (c *MetricsCache) GetDashboard(ctx context.Context) (*stats.Metrics, error) {
	return c.Get(ctx, dashboardKey)
}

// Invalidate drops every cached metrics entry. Called after any write
// that changes a ticket's state, priority or assignment.
func (c *MetricsCache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil || c.rdb.Client == nil {
		return
	}
	iter := c.rdb.Client.Scan(ctx, 0, metricsKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("metrics cache invalidation failed", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("metrics cache scan failed", zap.Error(err))
	}
}

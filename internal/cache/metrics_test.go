package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/stats"
)

var keyTime = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

func TestKeyDeterministic(t *testing.T) {
	req := stats.AggregationRequest{Window: stats.TimeWindow{Preset: stats.Preset30Days}}
	assert.Equal(t, Key(req, keyTime), Key(req, keyTime))
}

func TestKeyVariesWithRequest(t *testing.T) {
	base := stats.AggregationRequest{}
	hardware := domain.CategoryHardware
	byCategory := stats.AggregationRequest{Category: &hardware}
	windowed := stats.AggregationRequest{Window: stats.TimeWindow{Preset: stats.Preset7Days}}

	keys := map[string]bool{
		Key(base, keyTime):       true,
		Key(byCategory, keyTime): true,
		Key(windowed, keyTime):   true,
	}
	assert.Len(t, keys, 3)
}

func TestKeyStableWithinDay(t *testing.T) {
	// A preset resolves its end bound against now, but keying truncates
	// that bound to the day so repeated queries can hit the same entry.
	req := stats.AggregationRequest{Window: stats.TimeWindow{Preset: stats.Preset7Days}}
	assert.Equal(t, Key(req, keyTime), Key(req, keyTime.Add(5*time.Second)))
	assert.Equal(t, Key(req, keyTime), Key(req, keyTime.Add(3*time.Hour)))
}

func TestKeyResolvesPresetBoundaries(t *testing.T) {
	// Presets hash by their resolved bounds, so the same preset on
	// different days must produce different keys.
	req := stats.AggregationRequest{Window: stats.TimeWindow{Preset: stats.PresetToday}}
	nextDay := keyTime.AddDate(0, 0, 1)
	assert.NotEqual(t, Key(req, keyTime), Key(req, nextDay))
}

func TestNilCacheIsInert(t *testing.T) {
	var c *MetricsCache
	ctx := context.Background()

	got, err := c.Get(ctx, "anything")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, c.Set(ctx, "anything", &stats.Metrics{Total: 1}))
	assert.NoError(t, c.SetDashboard(ctx, &stats.Metrics{}))
	c.Invalidate(ctx)
}

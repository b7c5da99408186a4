package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExplicitBounds(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	t.Run("timestamps pass through", func(t *testing.T) {
		w := TimeWindow{Start: &start, End: &end}
		gotStart, gotEnd := w.Resolve(now)
		require.NotNil(t, gotStart)
		require.NotNil(t, gotEnd)
		assert.Equal(t, start, *gotStart)
		assert.Equal(t, end, *gotEnd)
	})

	t.Run("bare end date extends to last instant of day", func(t *testing.T) {
		w := TimeWindow{End: &end, EndIsDate: true}
		_, gotEnd := w.Resolve(now)
		require.NotNil(t, gotEnd)
		assert.Equal(t, 23, gotEnd.Hour())
		assert.Equal(t, 59, gotEnd.Minute())
		assert.Equal(t, 59, gotEnd.Second())
		assert.Equal(t, int(time.Second-time.Nanosecond), gotEnd.Nanosecond())

		// A ticket created at 18:00 on the end date is inside the window.
		evening := time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)
		assert.False(t, evening.After(*gotEnd))
	})

	t.Run("open ended window", func(t *testing.T) {
		gotStart, gotEnd := TimeWindow{}.Resolve(now)
		assert.Nil(t, gotStart)
		assert.Nil(t, gotEnd)
	})
}

func TestResolvePresets(t *testing.T) {
	// A Wednesday in mid May; the quarter starts April 1st.
	eval := time.Date(2024, 5, 15, 14, 30, 0, 0, time.UTC)

	cases := []struct {
		preset    WindowPreset
		wantStart time.Time
	}{
		{PresetToday, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)},
		{Preset7Days, time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC)},
		{Preset15Days, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)},
		{Preset30Days, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
		{PresetQuarter, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{PresetYear, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(string(tc.preset), func(t *testing.T) {
			start, end := TimeWindow{Preset: tc.preset}.Resolve(eval)
			require.NotNil(t, start)
			require.NotNil(t, end)
			assert.Equal(t, tc.wantStart, *start)
			assert.Equal(t, eval, *end)
		})
	}

	t.Run("all is unbounded", func(t *testing.T) {
		start, end := TimeWindow{Preset: PresetAll}.Resolve(eval)
		assert.Nil(t, start)
		assert.Nil(t, end)
	})

	t.Run("preset overrides explicit bounds", func(t *testing.T) {
		explicit := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		start, _ := TimeWindow{Preset: PresetToday, Start: &explicit}.Resolve(eval)
		require.NotNil(t, start)
		assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), *start)
	})
}

func TestResolveQuarterBoundaries(t *testing.T) {
	cases := []struct {
		month     time.Month
		wantStart time.Month
	}{
		{time.January, time.January},
		{time.March, time.January},
		{time.April, time.April},
		{time.June, time.April},
		{time.July, time.July},
		{time.October, time.October},
		{time.December, time.October},
	}
	for _, tc := range cases {
		eval := time.Date(2024, tc.month, 20, 9, 0, 0, 0, time.UTC)
		start, _ := TimeWindow{Preset: PresetQuarter}.Resolve(eval)
		require.NotNil(t, start)
		assert.Equal(t, tc.wantStart, start.Month(), "month %s", tc.month)
		assert.Equal(t, 1, start.Day())
	}
}

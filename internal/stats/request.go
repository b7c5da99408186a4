package stats

import (
	"time"

	"github.com/spec-kit/helpdesk-core/internal/domain"
)

// WindowPreset names a time window anchored to the caller's local calendar
// day at evaluation time.
type WindowPreset string

const (
	PresetToday   WindowPreset = "today"
	Preset7Days   WindowPreset = "7d"
	Preset15Days  WindowPreset = "15d"
	Preset30Days  WindowPreset = "30d"
	PresetQuarter WindowPreset = "quarter"
	PresetYear    WindowPreset = "year"
	PresetAll     WindowPreset = "all"
)

// TimeWindow bounds the creation timestamps considered by a query. Either a
// preset or explicit bounds; explicit bounds are inclusive on both ends.
// EndIsDate marks End as a bare calendar date whose bound extends to the
// last instant of its day.
type TimeWindow struct {
	Preset    WindowPreset
	Start     *time.Time
	End       *time.Time
	EndIsDate bool
}

// Resolve converts the window into explicit bounds at the given evaluation
// time. A nil bound means unbounded on that side.
func (w TimeWindow) Resolve(now time.Time) (*time.Time, *time.Time) {
	if w.Preset != "" && w.Preset != PresetAll {
		return presetBounds(w.Preset, now)
	}
	start := w.Start
	end := w.End
	if end != nil && w.EndIsDate {
		e := endOfDay(*end)
		end = &e
	}
	return start, end
}

func presetBounds(preset WindowPreset, now time.Time) (*time.Time, *time.Time) {
	day := startOfDay(now)
	var start time.Time
	switch preset {
	case PresetToday:
		start = day
	case Preset7Days:
		start = day.AddDate(0, 0, -7)
	case Preset15Days:
		start = day.AddDate(0, 0, -15)
	case Preset30Days:
		start = day.AddDate(0, 0, -30)
	case PresetQuarter:
		quarterMonth := time.Month((int(now.Month())-1)/3*3 + 1)
		start = time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, now.Location())
	case PresetYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return nil, nil
	}
	return &start, &now
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// AggregationRequest is the immutable description of one statistics query:
// a time window plus independently optional filters. A new value is
// constructed per query; the engine never mutates it.
type AggregationRequest struct {
	Window       TimeWindow
	State        *domain.TicketState
	Priority     *domain.TicketPriority
	Category     *domain.TicketCategory
	TechnicianID *int64
	CreatorID    *int64
	Search       string
}

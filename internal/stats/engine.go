// Package stats computes statistics over ticket collections. All
// computation is synchronous and read-only: callers own their snapshot for
// the duration of one call, and identical inputs at an identical
// evaluation time produce identical output, ranking order included.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-core/internal/domain"
)

// TopLimit caps ranking lists.
const TopLimit = 5

// TechnicianRank counts a technician's assigned and completed tickets
// within the filtered set.
type TechnicianRank struct {
	TechnicianID int64
	Assigned     int
	Resolved     int
}

// CreatorRank counts a creator's tickets within the filtered set.
type CreatorRank struct {
	CreatorID int64
	Tickets   int
}

// Metrics is the immutable result of one aggregation. Count maps carry
// every enum member, zero-filled, so chart renderers never probe for
// missing keys.
type Metrics struct {
	Total                  int
	ByState                map[domain.TicketState]int
	ByPriority             map[domain.TicketPriority]int
	ByCategory             map[domain.TicketCategory]int
	ResolutionRateFraction float64
	AverageResolutionHours *float64
	TopTechnicians         []TechnicianRank
	TopCreators            []CreatorRank
}

// Filter applies the request's filters in fixed order: time window, state,
// priority, category, technician, creator, free-text. Each filter is
// independently optional. The input slice is never modified.
func Filter(tickets []domain.Ticket, req AggregationRequest, now time.Time) []domain.Ticket {
	start, end := req.Window.Resolve(now)

	out := make([]domain.Ticket, 0, len(tickets))
	search := strings.ToLower(strings.TrimSpace(req.Search))
	for _, t := range tickets {
		if start != nil && t.CreatedAt.Before(*start) {
			continue
		}
		if end != nil && t.CreatedAt.After(*end) {
			continue
		}
		if req.State != nil && t.State != *req.State {
			continue
		}
		if req.Priority != nil && t.Priority != *req.Priority {
			continue
		}
		if req.Category != nil && t.Category != *req.Category {
			continue
		}
		if req.TechnicianID != nil {
			if t.TechnicianID == nil || *t.TechnicianID != *req.TechnicianID {
				continue
			}
		}
		if req.CreatorID != nil && t.CreatorID != *req.CreatorID {
			continue
		}
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Aggregate filters the collection per the request and computes Metrics
// over the survivors. It never fails: empty input degrades to zero counts,
// a zero resolution rate and a nil resolution average.
func Aggregate(tickets []domain.Ticket, req AggregationRequest, now time.Time) Metrics {
	filtered := Filter(tickets, req, now)
	return Compute(filtered)
}

// Compute builds Metrics over an already filtered collection.
func Compute(tickets []domain.Ticket) Metrics {
	m := Metrics{
		Total:      len(tickets),
		ByState:    make(map[domain.TicketState]int, len(domain.AllTicketStates)),
		ByPriority: make(map[domain.TicketPriority]int, len(domain.AllTicketPriorities)),
		ByCategory: make(map[domain.TicketCategory]int, len(domain.AllTicketCategories)),
	}
	for _, s := range domain.AllTicketStates {
		m.ByState[s] = 0
	}
	for _, p := range domain.AllTicketPriorities {
		m.ByPriority[p] = 0
	}
	for _, c := range domain.AllTicketCategories {
		m.ByCategory[c] = 0
	}

	var (
		completed      int
		resolutionSum  float64
		resolutionSeen int
		byTechnician   = map[int64]*TechnicianRank{}
		byCreator      = map[int64]*CreatorRank{}
	)

	for i := range tickets {
		t := &tickets[i]
		m.ByState[t.State]++
		m.ByPriority[t.Priority]++
		m.ByCategory[t.Category]++

		if t.Completed() {
			completed++
			if done := t.CompletionTime(); done != nil && !t.CreatedAt.IsZero() {
				resolutionSum += done.Sub(t.CreatedAt).Hours()
				resolutionSeen++
			}
		}

		if t.TechnicianID != nil {
			rank, ok := byTechnician[*t.TechnicianID]
			if !ok {
				rank = &TechnicianRank{TechnicianID: *t.TechnicianID}
				byTechnician[*t.TechnicianID] = rank
			}
			rank.Assigned++
			if t.Completed() {
				rank.Resolved++
			}
		}

		rank, ok := byCreator[t.CreatorID]
		if !ok {
			rank = &CreatorRank{CreatorID: t.CreatorID}
			byCreator[t.CreatorID] = rank
		}
		rank.Tickets++
	}

	if m.Total > 0 {
		m.ResolutionRateFraction = float64(completed) / float64(m.Total)
	}
	if resolutionSeen > 0 {
		avg := resolutionSum / float64(resolutionSeen)
		m.AverageResolutionHours = &avg
	}

	m.TopTechnicians = topTechnicians(byTechnician)
	m.TopCreators = topCreators(byCreator)
	return m
}

func topTechnicians(byTechnician map[int64]*TechnicianRank) []TechnicianRank {
	ranks := make([]TechnicianRank, 0, len(byTechnician))
	for _, r := range byTechnician {
		ranks = append(ranks, *r)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Resolved != ranks[j].Resolved {
			return ranks[i].Resolved > ranks[j].Resolved
		}
		return ranks[i].TechnicianID < ranks[j].TechnicianID
	})
	if len(ranks) > TopLimit {
		ranks = ranks[:TopLimit]
	}
	return ranks
}

func topCreators(byCreator map[int64]*CreatorRank) []CreatorRank {
	ranks := make([]CreatorRank, 0, len(byCreator))
	for _, r := range byCreator {
		ranks = append(ranks, *r)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Tickets != ranks[j].Tickets {
			return ranks[i].Tickets > ranks[j].Tickets
		}
		return ranks[i].CreatorID < ranks[j].CreatorID
	})
	if len(ranks) > TopLimit {
		ranks = ranks[:TopLimit]
	}
	return ranks
}

func matchesSearch(t domain.Ticket, loweredTerm string) bool {
	return strings.Contains(strings.ToLower(t.Title), loweredTerm) ||
		strings.Contains(strings.ToLower(t.Description), loweredTerm)
}

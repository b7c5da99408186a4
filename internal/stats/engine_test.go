package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-core/internal/domain"
)

var now = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

func ticket(id int64, mutate ...func(*domain.Ticket)) domain.Ticket {
	t := domain.Ticket{
		ID:          id,
		Title:       "Laptop will not boot",
		Description: "Black screen after the vendor logo",
		Category:    domain.CategoryHardware,
		CreatorID:   1,
		State:       domain.TicketStateOpen,
		Priority:    domain.TicketPriorityMedium,
		CreatedAt:   now.Add(-72 * time.Hour),
	}
	for _, m := range mutate {
		m(&t)
	}
	return t
}

func assigned(techID int64) func(*domain.Ticket) {
	return func(t *domain.Ticket) {
		t.TechnicianID = &techID
		t.State = domain.TicketStateInProcess
	}
}

func resolvedBy(techID int64, after time.Duration) func(*domain.Ticket) {
	return func(t *domain.Ticket) {
		t.TechnicianID = &techID
		t.State = domain.TicketStateResolved
		done := t.CreatedAt.Add(after)
		t.ResolvedAt = &done
	}
}

func closedBy(techID int64, after time.Duration) func(*domain.Ticket) {
	return func(t *domain.Ticket) {
		t.TechnicianID = &techID
		t.State = domain.TicketStateClosed
		done := t.CreatedAt.Add(after)
		t.ResolvedAt = &done
		closed := done.Add(time.Hour)
		t.ClosedAt = &closed
	}
}

func creator(id int64) func(*domain.Ticket) {
	return func(t *domain.Ticket) { t.CreatorID = id }
}

func TestComputeEmptyInput(t *testing.T) {
	m := Compute(nil)

	assert.Equal(t, 0, m.Total)
	assert.Zero(t, m.ResolutionRateFraction)
	assert.Nil(t, m.AverageResolutionHours)
	assert.Empty(t, m.TopTechnicians)
	assert.Empty(t, m.TopCreators)

	// Enum maps are zero-filled, never sparse.
	assert.Len(t, m.ByState, len(domain.AllTicketStates))
	assert.Len(t, m.ByPriority, len(domain.AllTicketPriorities))
	assert.Len(t, m.ByCategory, len(domain.AllTicketCategories))
	for _, s := range domain.AllTicketStates {
		assert.Equal(t, 0, m.ByState[s])
	}
}

func TestComputeCounts(t *testing.T) {
	tickets := []domain.Ticket{
		ticket(1),
		ticket(2, assigned(10)),
		ticket(3, resolvedBy(10, 24*time.Hour)),
		ticket(4, closedBy(11, 48*time.Hour)),
		ticket(5, func(t *domain.Ticket) { t.State = domain.TicketStateCancelled }),
	}

	m := Compute(tickets)
	assert.Equal(t, 5, m.Total)
	assert.Equal(t, 1, m.ByState[domain.TicketStateOpen])
	assert.Equal(t, 1, m.ByState[domain.TicketStateInProcess])
	assert.Equal(t, 1, m.ByState[domain.TicketStateResolved])
	assert.Equal(t, 1, m.ByState[domain.TicketStateClosed])
	assert.Equal(t, 1, m.ByState[domain.TicketStateCancelled])
	assert.Equal(t, 5, m.ByCategory[domain.CategoryHardware])

	// Resolved plus closed out of five.
	assert.InDelta(t, 0.4, m.ResolutionRateFraction, 1e-9)

	// (24h + 48h) / 2 completed tickets with timestamps.
	require.NotNil(t, m.AverageResolutionHours)
	assert.InDelta(t, 36.0, *m.AverageResolutionHours, 1e-9)
}

func TestComputeAverageSkipsTicketsWithoutTimestamps(t *testing.T) {
	tickets := []domain.Ticket{
		ticket(1, resolvedBy(10, 10*time.Hour)),
		// Completed but no completion timestamp recorded upstream.
		ticket(2, func(t *domain.Ticket) { t.State = domain.TicketStateResolved }),
	}

	m := Compute(tickets)
	assert.InDelta(t, 1.0, m.ResolutionRateFraction, 1e-9)
	require.NotNil(t, m.AverageResolutionHours)
	assert.InDelta(t, 10.0, *m.AverageResolutionHours, 1e-9)
}

func TestTopTechniciansOrderingAndTies(t *testing.T) {
	var tickets []domain.Ticket
	id := int64(1)
	add := func(n int, mutate func(*domain.Ticket)) {
		for i := 0; i < n; i++ {
			tickets = append(tickets, ticket(id, mutate))
			id++
		}
	}

	add(3, resolvedBy(20, time.Hour))
	add(2, resolvedBy(10, time.Hour))
	add(2, resolvedBy(30, time.Hour)) // ties with 10 on resolved count
	add(1, assigned(40))              // assigned only, ranks last

	m := Compute(tickets)
	require.Len(t, m.TopTechnicians, 4)
	assert.Equal(t, int64(20), m.TopTechnicians[0].TechnicianID)
	// Tie on two resolved: lower id first.
	assert.Equal(t, int64(10), m.TopTechnicians[1].TechnicianID)
	assert.Equal(t, int64(30), m.TopTechnicians[2].TechnicianID)
	assert.Equal(t, int64(40), m.TopTechnicians[3].TechnicianID)
	assert.Equal(t, 0, m.TopTechnicians[3].Resolved)
	assert.Equal(t, 1, m.TopTechnicians[3].Assigned)
}

func TestTopListsAreCapped(t *testing.T) {
	var tickets []domain.Ticket
	for i := int64(1); i <= 8; i++ {
		tickets = append(tickets, ticket(i, creator(i)))
	}

	m := Compute(tickets)
	assert.Len(t, m.TopCreators, TopLimit)
	// Equal counts everywhere: ascending creator id decides.
	for i, rank := range m.TopCreators {
		assert.Equal(t, int64(i+1), rank.CreatorID)
	}
}

func TestFilterCombinations(t *testing.T) {
	techID := int64(10)
	tickets := []domain.Ticket{
		ticket(1, creator(1)),
		ticket(2, creator(2), func(t *domain.Ticket) {
			t.Category = domain.CategoryNetwork
			t.Priority = domain.TicketPriorityHigh
		}),
		ticket(3, creator(2), resolvedBy(techID, time.Hour)),
		ticket(4, creator(3), func(t *domain.Ticket) {
			t.Title = "Backup restore request"
			t.Description = "Need yesterday's database snapshot"
		}),
	}

	t.Run("state filter", func(t *testing.T) {
		state := domain.TicketStateResolved
		got := Filter(tickets, AggregationRequest{State: &state}, now)
		require.Len(t, got, 1)
		assert.Equal(t, int64(3), got[0].ID)
	})

	t.Run("category and priority combine", func(t *testing.T) {
		category := domain.CategoryNetwork
		priority := domain.TicketPriorityHigh
		got := Filter(tickets, AggregationRequest{Category: &category, Priority: &priority}, now)
		require.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].ID)
	})

	t.Run("technician filter skips unassigned", func(t *testing.T) {
		got := Filter(tickets, AggregationRequest{TechnicianID: &techID}, now)
		require.Len(t, got, 1)
		assert.Equal(t, int64(3), got[0].ID)
	})

	t.Run("creator filter", func(t *testing.T) {
		creatorID := int64(2)
		got := Filter(tickets, AggregationRequest{CreatorID: &creatorID}, now)
		assert.Len(t, got, 2)
	})

	t.Run("search is case insensitive over title and description", func(t *testing.T) {
		got := Filter(tickets, AggregationRequest{Search: "BACKUP"}, now)
		require.Len(t, got, 1)
		assert.Equal(t, int64(4), got[0].ID)

		got = Filter(tickets, AggregationRequest{Search: "database"}, now)
		require.Len(t, got, 1)
		assert.Equal(t, int64(4), got[0].ID)
	})

	t.Run("no filters returns everything", func(t *testing.T) {
		got := Filter(tickets, AggregationRequest{}, now)
		assert.Len(t, got, len(tickets))
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		before := make([]domain.Ticket, len(tickets))
		copy(before, tickets)
		state := domain.TicketStateOpen
		Filter(tickets, AggregationRequest{State: &state}, now)
		assert.Equal(t, before, tickets)
	})
}

func TestAggregateDeterminism(t *testing.T) {
	tickets := []domain.Ticket{
		ticket(1, resolvedBy(10, time.Hour)),
		ticket(2, resolvedBy(20, 2*time.Hour)),
		ticket(3, creator(5)),
	}
	req := AggregationRequest{Window: TimeWindow{Preset: Preset30Days}}

	first := Aggregate(tickets, req, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Aggregate(tickets, req, now))
	}
}

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-core/internal/domain"
)

func rated(value int) func(*domain.Ticket) {
	return func(t *domain.Ticket) {
		t.Rating = &domain.Rating{Value: value, CreatedAt: now}
	}
}

func TestSatisfaction(t *testing.T) {
	tickets := []domain.Ticket{
		ticket(1, rated(5)),
		ticket(2, rated(5)),
		ticket(3, rated(2)),
		ticket(4), // unrated, ignored
	}

	summary := Satisfaction(tickets)
	assert.Equal(t, 3, summary.Rated)
	require.NotNil(t, summary.Average)
	assert.InDelta(t, 4.0, *summary.Average, 1e-9)
	assert.Equal(t, 2, summary.ByValue[5])
	assert.Equal(t, 1, summary.ByValue[2])
	assert.Equal(t, 0, summary.ByValue[1])
	assert.Len(t, summary.ByValue, 5)
}

func TestSatisfactionNoRatings(t *testing.T) {
	summary := Satisfaction([]domain.Ticket{ticket(1), ticket(2)})
	assert.Zero(t, summary.Rated)
	assert.Nil(t, summary.Average)
	assert.Len(t, summary.ByValue, 5)
}

func TestComplaintSummary(t *testing.T) {
	complaints := []domain.Complaint{
		{ID: 1, State: domain.ComplaintStatePending},
		{ID: 2, State: domain.ComplaintStatePending},
		{ID: 3, State: domain.ComplaintStateResolved},
	}
	s := ComplaintSummary(complaints)
	assert.Equal(t, ComplaintStats{Total: 3, Pending: 2, Resolved: 1}, s)

	assert.Equal(t, ComplaintStats{}, ComplaintSummary(nil))
}

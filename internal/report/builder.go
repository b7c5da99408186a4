// Package report composes aggregation output and the filtered ticket set
// into an exportable value. The Report object is the sole contract between
// aggregation and export: serializers consume it and never reach back into
// the engine.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/stats"
)

// Report is an immutable snapshot: the exact filtered ticket list, the
// metrics computed over it, and a copy of the request that produced both.
type Report struct {
	ID          string
	GeneratedAt time.Time
	Request     stats.AggregationRequest
	Tickets     []domain.Ticket
	Metrics     stats.Metrics
}

// Build filters the collection per the request, computes metrics over the
// survivors and captures both. A new Report is always a new value; the
// input collection is never retained or modified.
func Build(tickets []domain.Ticket, req stats.AggregationRequest, now time.Time) Report {
	filtered := stats.Filter(tickets, req, now)

	retained := make([]domain.Ticket, len(filtered))
	for i := range filtered {
		retained[i] = *filtered[i].Clone()
	}

	return Report{
		ID:          uuid.NewString(),
		GeneratedAt: now,
		Request:     req,
		Tickets:     retained,
		Metrics:     stats.Compute(filtered),
	}
}

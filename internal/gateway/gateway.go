// Package gateway defines the contract to the authoritative ticket store.
// The engines in this module validate against a local snapshot; whatever a
// gateway reports back is authoritative and overrides any optimistic local
// change.
package gateway

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk-core/internal/domain"
)

// TicketFilter narrows server-side ticket listings.
type TicketFilter struct {
	CreatorID    *int64
	TechnicianID *int64
	States       []domain.TicketState
	Priorities   []domain.TicketPriority
	Category     *domain.TicketCategory
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Search       *string
	Limit        int
	Offset       int
}

// ComplaintFilter narrows complaint listings.
type ComplaintFilter struct {
	TechnicianID *int64
	CreatorID    *int64
	State        *domain.ComplaintState
}

// TicketPatch carries the mutable fields of a transition. Nil fields are
// left untouched by the store. The Clear flags null out timestamps when an
// administrative override moves a ticket backwards.
type TicketPatch struct {
	State        *domain.TicketState
	Priority     *domain.TicketPriority
	TechnicianID *int64
	Solution     *string
	ComplaintID  *int64
	AssignedAt   *time.Time
	ResolvedAt   *time.Time
	ClosedAt     *time.Time

	ClearResolvedAt bool
	ClearClosedAt   bool
}

// TicketGateway is the abstract persistence/API contract. Implementations
// talk to the remote helpdesk API or to a directly owned store; either way
// they are the source of truth.
type TicketGateway interface {
	FetchTickets(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	FetchTicket(ctx context.Context, id int64) (*domain.Ticket, error)
	CreateTicket(ctx context.Context, ticket *domain.Ticket) error
	PersistTransition(ctx context.Context, id int64, patch TicketPatch) (*domain.Ticket, error)
	PersistRating(ctx context.Context, id int64, rating domain.Rating) error

	FetchTechnicians(ctx context.Context) ([]domain.Technician, error)

	FetchHistory(ctx context.Context, ticketID int64) ([]domain.HistoryEntry, error)
	AppendHistory(ctx context.Context, entry *domain.HistoryEntry) error

	FetchComplaints(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	FetchComplaint(ctx context.Context, id int64) (*domain.Complaint, error)
	CreateComplaint(ctx context.Context, complaint *domain.Complaint) error
	UpdateComplaint(ctx context.Context, complaint *domain.Complaint) error

	FetchCategories(ctx context.Context) ([]domain.TicketCategory, error)
	FetchStates(ctx context.Context) ([]domain.TicketState, error)
	FetchPriorities(ctx context.Context) ([]domain.TicketPriority, error)
}

package events

import (
	"time"

	"github.com/spec-kit/helpdesk-core/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket_created"
	EventTicketAssigned     EventType = "ticket_assigned"
	EventTicketStateChanged EventType = "ticket_state_changed"
	EventTicketCancelled    EventType = "ticket_cancelled"
	EventTicketRated        EventType = "ticket_rated"
	EventComplaintFiled     EventType = "complaint_filed"
	EventComplaintResolved  EventType = "complaint_resolved"
	EventSolutionDraftSaved EventType = "solution_draft_saved"
)

// Event is a domain event emitted by the ticket services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  int64     `json:"ticket_id"`
	ActorID   int64     `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title    string                `json:"title"`
	Category domain.TicketCategory `json:"category"`
	Priority domain.TicketPriority `json:"priority"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TechnicianID int64 `json:"technician_id"`
}

// TicketStateChangedPayload payload.
type TicketStateChangedPayload struct {
	PreviousState domain.TicketState `json:"previous_state"`
	NewState      domain.TicketState `json:"new_state"`
	Comment       string             `json:"comment,omitempty"`
}

// TicketRatedPayload payload.
type TicketRatedPayload struct {
	Value int `json:"value"`
}

// ComplaintFiledPayload payload.
type ComplaintFiledPayload struct {
	ComplaintID  int64                    `json:"complaint_id"`
	TechnicianID int64                    `json:"technician_id"`
	Category     domain.ComplaintCategory `json:"category"`
}

// ComplaintResolvedPayload payload.
type ComplaintResolvedPayload struct {
	ComplaintID int64 `json:"complaint_id"`
}

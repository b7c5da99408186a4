package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-core/internal/domain"
)

// CreateTicketRequest payload. Priority is absent on purpose; the server
// derives it from category and the creator's classification.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
}

// TransitionRequest payload for state changes.
type TransitionRequest struct {
	State    domain.TicketState `json:"state"`
	Solution *string            `json:"solution,omitempty"`
}

// AssignRequest payload.
type AssignRequest struct {
	TechnicianID int64 `json:"technician_id"`
}

// SolutionRequest payload for solution drafts.
type SolutionRequest struct {
	Solution string `json:"solution"`
}

// RatingRequest payload.
type RatingRequest struct {
	Value   int    `json:"value"`
	Comment string `json:"comment"`
}

// TicketResponse is the full ticket view.
type TicketResponse struct {
	ID           int64                 `json:"id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Category     domain.TicketCategory `json:"category"`
	CreatorID    int64                 `json:"creator_id"`
	State        domain.TicketState    `json:"state"`
	Priority     domain.TicketPriority `json:"priority"`
	TechnicianID *int64                `json:"technician_id,omitempty"`
	Solution     *string               `json:"solution,omitempty"`
	Rating       *RatingResponse       `json:"rating,omitempty"`
	ComplaintID  *int64                `json:"complaint_id,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	AssignedAt   *time.Time            `json:"assigned_at,omitempty"`
	ResolvedAt   *time.Time            `json:"resolved_at,omitempty"`
	ClosedAt     *time.Time            `json:"closed_at,omitempty"`
}

// RatingResponse view.
type RatingResponse struct {
	Value     int       `json:"value"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntryResponse view.
type HistoryEntryResponse struct {
	ID            int64              `json:"id"`
	PreviousState domain.TicketState `json:"previous_state"`
	NewState      domain.TicketState `json:"new_state"`
	ActorID       int64              `json:"actor_id"`
	Comment       string             `json:"comment,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// TechnicianResponse view.
type TechnicianResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Available   bool   `json:"available"`
	ActiveCount int    `json:"active_count"`
}

// TicketFromDomain maps a domain ticket to its response shape.
func TicketFromDomain(t *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Category:     t.Category,
		CreatorID:    t.CreatorID,
		State:        t.State,
		Priority:     t.Priority,
		TechnicianID: t.TechnicianID,
		Solution:     t.Solution,
		ComplaintID:  t.ComplaintID,
		CreatedAt:    t.CreatedAt,
		AssignedAt:   t.AssignedAt,
		ResolvedAt:   t.ResolvedAt,
		ClosedAt:     t.ClosedAt,
	}
	if t.Rating != nil {
		resp.Rating = &RatingResponse{
			Value:     t.Rating.Value,
			Comment:   t.Rating.Comment,
			CreatedAt: t.Rating.CreatedAt,
		}
	}
	return resp
}

// HistoryFromDomain maps a history entry to its response shape.
func HistoryFromDomain(e *domain.HistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:            e.ID,
		PreviousState: e.PreviousState,
		NewState:      e.NewState,
		ActorID:       e.ActorID,
		Comment:       e.Comment,
		CreatedAt:     e.CreatedAt,
	}
}

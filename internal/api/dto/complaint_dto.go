package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-core/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Category    domain.ComplaintCategory `json:"category"`
	Priority    domain.TicketPriority    `json:"priority"`
	Description string                   `json:"description"`
}

// ResolveComplaintRequest payload.
type ResolveComplaintRequest struct {
	AdminResponse string `json:"admin_response"`
}

// ComplaintResponse view.
type ComplaintResponse struct {
	ID            int64                    `json:"id"`
	TicketID      int64                    `json:"ticket_id"`
	TechnicianID  int64                    `json:"technician_id"`
	CreatorID     int64                    `json:"creator_id"`
	Category      domain.ComplaintCategory `json:"category"`
	Priority      domain.TicketPriority    `json:"priority"`
	Description   string                   `json:"description"`
	State         domain.ComplaintState    `json:"state"`
	AdminResponse string                   `json:"admin_response,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	ResolvedAt    *time.Time               `json:"resolved_at,omitempty"`
}

// ComplaintFromDomain maps a domain complaint to its response shape.
func ComplaintFromDomain(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:            c.ID,
		TicketID:      c.TicketID,
		TechnicianID:  c.TechnicianID,
		CreatorID:     c.CreatorID,
		Category:      c.Category,
		Priority:      c.Priority,
		Description:   c.Description,
		State:         c.State,
		AdminResponse: c.AdminResponse,
		CreatedAt:     c.CreatedAt,
		ResolvedAt:    c.ResolvedAt,
	}
}

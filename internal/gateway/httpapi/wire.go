package httpapi

import (
	"time"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/gateway"
)

type wireRating struct {
	Value     int       `json:"value"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type wireTicket struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	CreatorID    int64       `json:"creator_id"`
	State        string      `json:"state"`
	Priority     string      `json:"priority"`
	TechnicianID *int64      `json:"technician_id,omitempty"`
	Solution     *string     `json:"solution,omitempty"`
	Rating       *wireRating `json:"rating,omitempty"`
	ComplaintID  *int64      `json:"complaint_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	AssignedAt   *time.Time  `json:"assigned_at,omitempty"`
	ResolvedAt   *time.Time  `json:"resolved_at,omitempty"`
	ClosedAt     *time.Time  `json:"closed_at,omitempty"`
}

func (w wireTicket) toDomain() domain.Ticket {
	t := domain.Ticket{
		ID:           w.ID,
		Title:        w.Title,
		Description:  w.Description,
		Category:     domain.TicketCategory(w.Category),
		CreatorID:    w.CreatorID,
		State:        domain.TicketState(w.State),
		Priority:     domain.TicketPriority(w.Priority),
		TechnicianID: w.TechnicianID,
		Solution:     w.Solution,
		ComplaintID:  w.ComplaintID,
		CreatedAt:    w.CreatedAt,
		AssignedAt:   w.AssignedAt,
		ResolvedAt:   w.ResolvedAt,
		ClosedAt:     w.ClosedAt,
	}
	if w.Rating != nil {
		t.Rating = &domain.Rating{
			Value:     w.Rating.Value,
			Comment:   w.Rating.Comment,
			CreatedAt: w.Rating.CreatedAt,
		}
	}
	return t
}

func wireTicketFromDomain(t *domain.Ticket) wireTicket {
	w := wireTicket{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Category:     string(t.Category),
		CreatorID:    t.CreatorID,
		State:        string(t.State),
		Priority:     string(t.Priority),
		TechnicianID: t.TechnicianID,
		Solution:     t.Solution,
		ComplaintID:  t.ComplaintID,
		CreatedAt:    t.CreatedAt,
		AssignedAt:   t.AssignedAt,
		ResolvedAt:   t.ResolvedAt,
		ClosedAt:     t.ClosedAt,
	}
	if t.Rating != nil {
		w.Rating = &wireRating{
			Value:     t.Rating.Value,
			Comment:   t.Rating.Comment,
			CreatedAt: t.Rating.CreatedAt,
		}
	}
	return w
}

type wirePatch struct {
	State           *string    `json:"state,omitempty"`
	Priority        *string    `json:"priority,omitempty"`
	TechnicianID    *int64     `json:"technician_id,omitempty"`
	Solution        *string    `json:"solution,omitempty"`
	ComplaintID     *int64     `json:"complaint_id,omitempty"`
	AssignedAt      *time.Time `json:"assigned_at,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	ClearResolvedAt bool       `json:"clear_resolved_at,omitempty"`
	ClearClosedAt   bool       `json:"clear_closed_at,omitempty"`
}

func wirePatchFromDomain(p gateway.TicketPatch) wirePatch {
	w := wirePatch{
		TechnicianID:    p.TechnicianID,
		Solution:        p.Solution,
		ComplaintID:     p.ComplaintID,
		AssignedAt:      p.AssignedAt,
		ResolvedAt:      p.ResolvedAt,
		ClosedAt:        p.ClosedAt,
		ClearResolvedAt: p.ClearResolvedAt,
		ClearClosedAt:   p.ClearClosedAt,
	}
	if p.State != nil {
		s := string(*p.State)
		w.State = &s
	}
	if p.Priority != nil {
		s := string(*p.Priority)
		w.Priority = &s
	}
	return w
}

type wireHistoryEntry struct {
	ID            int64     `json:"id"`
	TicketID      int64     `json:"ticket_id"`
	PreviousState string    `json:"previous_state"`
	NewState      string    `json:"new_state"`
	ActorID       int64     `json:"actor_id"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (w wireHistoryEntry) toDomain() domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:            w.ID,
		TicketID:      w.TicketID,
		PreviousState: domain.TicketState(w.PreviousState),
		NewState:      domain.TicketState(w.NewState),
		ActorID:       w.ActorID,
		Comment:       w.Comment,
		CreatedAt:     w.CreatedAt,
	}
}

func wireHistoryFromDomain(e *domain.HistoryEntry) wireHistoryEntry {
	return wireHistoryEntry{
		ID:            e.ID,
		TicketID:      e.TicketID,
		PreviousState: string(e.PreviousState),
		NewState:      string(e.NewState),
		ActorID:       e.ActorID,
		Comment:       e.Comment,
		CreatedAt:     e.CreatedAt,
	}
}

type wireComplaint struct {
	ID            int64      `json:"id"`
	TicketID      int64      `json:"ticket_id"`
	TechnicianID  int64      `json:"technician_id"`
	CreatorID     int64      `json:"creator_id"`
	Category      string     `json:"category"`
	Priority      string     `json:"priority"`
	Description   string     `json:"description"`
	State         string     `json:"state"`
	AdminResponse string     `json:"admin_response,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

func (w wireComplaint) toDomain() domain.Complaint {
	return domain.Complaint{
		ID:            w.ID,
		TicketID:      w.TicketID,
		TechnicianID:  w.TechnicianID,
		CreatorID:     w.CreatorID,
		Category:      domain.ComplaintCategory(w.Category),
		Priority:      domain.TicketPriority(w.Priority),
		Description:   w.Description,
		State:         domain.ComplaintState(w.State),
		AdminResponse: w.AdminResponse,
		CreatedAt:     w.CreatedAt,
		ResolvedAt:    w.ResolvedAt,
	}
}

func wireComplaintFromDomain(c *domain.Complaint) wireComplaint {
	return wireComplaint{
		ID:            c.ID,
		TicketID:      c.TicketID,
		TechnicianID:  c.TechnicianID,
		CreatorID:     c.CreatorID,
		Category:      string(c.Category),
		Priority:      string(c.Priority),
		Description:   c.Description,
		State:         string(c.State),
		AdminResponse: c.AdminResponse,
		CreatedAt:     c.CreatedAt,
		ResolvedAt:    c.ResolvedAt,
	}
}

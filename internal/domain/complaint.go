package domain

import (
	"strings"
	"time"
)

// ComplaintState enumerates complaint lifecycle states.
type ComplaintState string

const (
	ComplaintStatePending  ComplaintState = "PENDING"
	ComplaintStateResolved ComplaintState = "RESOLVED"
)

// ComplaintCategory enumerates the reasons a worker may object to a
// technician's handling of a ticket.
type ComplaintCategory string

const (
	ComplaintPoorService     ComplaintCategory = "POOR_SERVICE"
	ComplaintSlowResponse    ComplaintCategory = "SLOW_RESPONSE"
	ComplaintUnresolvedIssue ComplaintCategory = "UNRESOLVED_ISSUE"
	ComplaintOther           ComplaintCategory = "OTHER"
)

// AllComplaintCategories lists every complaint category.
var AllComplaintCategories = []ComplaintCategory{
	ComplaintPoorService,
	ComplaintSlowResponse,
	ComplaintUnresolvedIssue,
	ComplaintOther,
}

// Complaint is a worker's formal objection against a ticket's technician.
// It references its ticket and technician by id only; there are no
// embedded back-pointers.
type Complaint struct {
	ID            int64
	TicketID      int64
	TechnicianID  int64
	CreatorID     int64
	Category      ComplaintCategory
	Priority      TicketPriority
	Description   string
	State         ComplaintState
	AdminResponse string
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}

// Validate checks creation-time invariants.
func (c *Complaint) Validate() error {
	if strings.TrimSpace(c.Description) == "" {
		return errComplaintDescription()
	}
	if !validComplaintCategory(c.Category) {
		return errUnknownComplaintCategory(c.Category)
	}
	return nil
}

// Pending reports whether the complaint still awaits an admin response.
func (c *Complaint) Pending() bool {
	return c.State == ComplaintStatePending
}

func validComplaintCategory(category ComplaintCategory) bool {
	for _, c := range AllComplaintCategories {
		if c == category {
			return true
		}
	}
	return false
}

package domain

import (
	"strings"
	"time"
)

// TicketState enumerates lifecycle states for tickets.
type TicketState string

const (
	TicketStateOpen      TicketState = "OPEN"
	TicketStateInProcess TicketState = "IN_PROCESS"
	TicketStateResolved  TicketState = "RESOLVED"
	TicketStateClosed    TicketState = "CLOSED"
	TicketStateCancelled TicketState = "CANCELLED"
)

// AllTicketStates lists every state in display order. Aggregation output is
// zero-filled over this set.
var AllTicketStates = []TicketState{
	TicketStateOpen,
	TicketStateInProcess,
	TicketStateResolved,
	TicketStateClosed,
	TicketStateCancelled,
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// AllTicketPriorities lists every priority in ascending order of urgency.
var AllTicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

// TicketCategory enumerates the fixed problem categories.
type TicketCategory string

const (
	CategoryHardware TicketCategory = "HARDWARE"
	CategorySoftware TicketCategory = "SOFTWARE"
	CategoryNetwork  TicketCategory = "NETWORK"
	CategoryPrinters TicketCategory = "PRINTERS"
	CategoryOther    TicketCategory = "OTHER"
)

// AllTicketCategories lists every category in display order.
var AllTicketCategories = []TicketCategory{
	CategoryHardware,
	CategorySoftware,
	CategoryNetwork,
	CategoryPrinters,
	CategoryOther,
}

const (
	TitleMinLen       = 5
	TitleMaxLen       = 100
	DescriptionMinLen = 10
	DescriptionMaxLen = 1000
	SolutionMinLen    = 10
)

// Ticket is the aggregate for support requests. IDs are assigned by the
// backing store; title, description, category, creator and creation time
// are immutable after creation.
type Ticket struct {
	ID           int64
	Title        string
	Description  string
	Category     TicketCategory
	CreatorID    int64
	State        TicketState
	Priority     TicketPriority
	TechnicianID *int64
	Solution     *string
	Rating       *Rating
	ComplaintID  *int64
	CreatedAt    time.Time
	AssignedAt   *time.Time
	ResolvedAt   *time.Time
	ClosedAt     *time.Time
}

// Validate checks creation-time invariants.
func (t *Ticket) Validate() error {
	title := strings.TrimSpace(t.Title)
	if len(title) < TitleMinLen || len(title) > TitleMaxLen {
		return errTitleLength(len(title))
	}
	desc := strings.TrimSpace(t.Description)
	if len(desc) < DescriptionMinLen || len(desc) > DescriptionMaxLen {
		return errDescriptionLength(len(desc))
	}
	if !validCategory(t.Category) {
		return errUnknownCategory(t.Category)
	}
	if t.CreatorID == 0 {
		return errMissingCreator()
	}
	return nil
}

// Active reports whether the ticket counts against its technician's
// at-most-one-active-ticket budget.
func (t *Ticket) Active() bool {
	return t.State == TicketStateOpen || t.State == TicketStateInProcess
}

// Terminal reports whether the ticket has reached an immutable state.
func (t *Ticket) Terminal() bool {
	return t.State == TicketStateClosed || t.State == TicketStateCancelled
}

// Completed reports whether the ticket reached Resolved or Closed.
func (t *Ticket) Completed() bool {
	return t.State == TicketStateResolved || t.State == TicketStateClosed
}

// CompletionTime returns the resolution timestamp, falling back to the
// closure timestamp, for completed tickets.
func (t *Ticket) CompletionTime() *time.Time {
	if t.ResolvedAt != nil {
		return t.ResolvedAt
	}
	return t.ClosedAt
}

// HasSolution reports whether the ticket carries an acceptable solution
// text after trimming whitespace.
func (t *Ticket) HasSolution() bool {
	return t.Solution != nil && len(strings.TrimSpace(*t.Solution)) >= SolutionMinLen
}

// Clone returns a deep copy. Engines mutate copies, never shared values.
func (t *Ticket) Clone() *Ticket {
	c := *t
	c.TechnicianID = clonePtr(t.TechnicianID)
	c.ComplaintID = clonePtr(t.ComplaintID)
	c.AssignedAt = clonePtr(t.AssignedAt)
	c.ResolvedAt = clonePtr(t.ResolvedAt)
	c.ClosedAt = clonePtr(t.ClosedAt)
	if t.Solution != nil {
		s := *t.Solution
		c.Solution = &s
	}
	if t.Rating != nil {
		r := *t.Rating
		c.Rating = &r
	}
	return &c
}

func validCategory(category TicketCategory) bool {
	for _, c := range AllTicketCategories {
		if c == category {
			return true
		}
	}
	return false
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

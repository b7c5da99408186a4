package lifecycle

import (
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/pkg/util"
)

// Engine validates and applies ticket state transitions. Every guard is a
// pure predicate over the passed values: the engine holds no ticket state
// of its own and performs no I/O, so it can be exercised without a network.
// Tickets are mutated in place only after all guards pass; on error the
// ticket is untouched and no history entry is produced.
//
// The engine mirrors invariants the backend enforces server-side. It exists
// for early validation and optimistic UI; a later rejection from the
// backend is authoritative.
type Engine struct {
	clock func() time.Time
}

// NewEngine constructs an engine using wall-clock time.
func NewEngine() *Engine {
	return &Engine{clock: time.Now}
}

// NewEngineWithClock constructs an engine with a fixed clock source.
func NewEngineWithClock(clock func() time.Time) *Engine {
	return &Engine{clock: clock}
}

func (e *Engine) now() time.Time {
	if e.clock == nil {
		return time.Now()
	}
	return e.clock()
}

// AssignTechnician assigns a technician to the ticket, enforcing the
// at-most-one-active-ticket-per-technician policy. The technician's current
// load comes from the caller's directory snapshot.
func (e *Engine) AssignTechnician(t *domain.Ticket, tech domain.Technician, actor domain.Actor) (*domain.HistoryEntry, error) {
	if t.Terminal() {
		return nil, util.NewConstraintViolation("ticket is in a terminal state",
			map[string]any{"ticket_id": t.ID, "state": string(t.State)})
	}
	active := tech.ActiveCount
	if t.TechnicianID != nil && *t.TechnicianID == tech.ID && t.Active() {
		// This ticket already counts against the technician's own load.
		active--
	}
	if active > 0 {
		return nil, util.NewConstraintViolation("technician already holds an active ticket",
			map[string]any{"technician_id": tech.ID, "active_count": tech.ActiveCount})
	}

	now := e.now()
	t.TechnicianID = &tech.ID
	t.AssignedAt = &now
	return e.historyEntry(t, t.State, t.State, actor, "technician assigned"), nil
}

// Transition moves the ticket to targetState when the lifecycle graph
// permits it. Entering Resolved or Closed requires a solution text of at
// least 10 characters after trimming; the text is persisted into the
// ticket. Resolution and closure timestamps are stamped as appropriate.
// The solution guard has precedence: a missing solution is reported even
// when the graph would have rejected the step anyway.
func (e *Engine) Transition(t *domain.Ticket, targetState domain.TicketState, actor domain.Actor, solutionText *string) (*domain.HistoryEntry, error) {
	solution, err := e.solutionFor(t, targetState, solutionText)
	if err != nil {
		return nil, err
	}

	if !isValidTransition(t.State, targetState) {
		return nil, util.NewInvalidTransition(string(t.State), string(targetState))
	}

	return e.apply(t, targetState, actor, solution, ""), nil
}

// AdminSetState is the administrative override: it may move the ticket to
// any other state, backward included, on an administrator's authority. The
// solution-text guard still applies when entering Resolved or Closed.
func (e *Engine) AdminSetState(t *domain.Ticket, targetState domain.TicketState, actor domain.Actor, solutionText *string) (*domain.HistoryEntry, error) {
	if !actor.IsAdmin() {
		return nil, util.NewForbidden("administrator role required for state override")
	}
	if targetState == t.State {
		return nil, util.NewInvalidTransition(string(t.State), string(targetState))
	}

	solution, err := e.solutionFor(t, targetState, solutionText)
	if err != nil {
		return nil, err
	}

	return e.apply(t, targetState, actor, solution, "administrative override"), nil
}

// Cancel voids an Open ticket. Only the ticket's creator may cancel; the
// engine validates the precondition against the supplied actor identity.
func (e *Engine) Cancel(t *domain.Ticket, actor domain.Actor) (*domain.HistoryEntry, error) {
	if actor.ID != t.CreatorID {
		return nil, util.NewForbidden("only the ticket creator may cancel")
	}
	if t.State != domain.TicketStateOpen {
		return nil, util.NewInvalidTransition(string(t.State), string(domain.TicketStateCancelled))
	}

	previous := t.State
	t.State = domain.TicketStateCancelled
	return e.historyEntry(t, previous, t.State, actor, "cancelled by creator"), nil
}

// Rate records the creator's satisfaction score for a resolved ticket. A
// ticket is rated at most once; a repeated call always fails.
func (e *Engine) Rate(t *domain.Ticket, actor domain.Actor, value int, comment string) error {
	if t.Rating != nil {
		return util.NewAlreadyRated(t.ID)
	}
	if t.State != domain.TicketStateResolved {
		return util.NewNotEligible("only resolved tickets can be rated")
	}
	if actor.ID != t.CreatorID {
		return util.NewNotEligible("only the ticket creator may rate")
	}

	rating := domain.Rating{
		Value:     value,
		Comment:   comment,
		CreatedAt: e.now(),
	}
	if err := rating.Validate(); err != nil {
		return err
	}
	t.Rating = &rating
	return nil
}

// SaveSolution stores or overwrites the ticket's solution text without a
// state change, so a technician can draft the solution before resolving.
func (e *Engine) SaveSolution(t *domain.Ticket, actor domain.Actor, text string) error {
	if actor.Role == domain.RoleWorker {
		return util.NewForbidden("only technicians or administrators may edit the solution")
	}
	if t.Terminal() {
		return util.NewConstraintViolation("ticket is in a terminal state",
			map[string]any{"ticket_id": t.ID, "state": string(t.State)})
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return util.NewInvalidInput("solution text must not be empty", nil)
	}
	t.Solution = &trimmed
	return nil
}

// FileComplaint creates a pending complaint against the ticket's assigned
// technician. The complaint references ticket and technician by id only.
func (e *Engine) FileComplaint(t *domain.Ticket, actor domain.Actor, category domain.ComplaintCategory, priority domain.TicketPriority, description string) (*domain.Complaint, error) {
	if t.TechnicianID == nil {
		return nil, util.NewConstraintViolation("ticket has no assigned technician",
			map[string]any{"ticket_id": t.ID})
	}
	if actor.ID != t.CreatorID {
		return nil, util.NewForbidden("only the ticket creator may file a complaint")
	}

	complaint := &domain.Complaint{
		TicketID:     t.ID,
		TechnicianID: *t.TechnicianID,
		CreatorID:    actor.ID,
		Category:     category,
		Priority:     priority,
		Description:  strings.TrimSpace(description),
		State:        domain.ComplaintStatePending,
		CreatedAt:    e.now(),
	}
	if err := complaint.Validate(); err != nil {
		return nil, err
	}
	return complaint, nil
}

// ResolveComplaint closes a pending complaint with the administrator's
// response. Resolving twice always fails.
func (e *Engine) ResolveComplaint(c *domain.Complaint, actor domain.Actor, adminResponse string) error {
	if !c.Pending() {
		return util.NewAlreadyResolved(c.ID)
	}
	if !actor.IsAdmin() {
		return util.NewForbidden("administrator role required to resolve complaints")
	}

	now := e.now()
	c.State = domain.ComplaintStateResolved
	c.AdminResponse = adminResponse
	c.ResolvedAt = &now
	return nil
}

// solutionFor resolves the effective solution text for a transition: the
// supplied text wins, an already stored solution suffices otherwise.
func (e *Engine) solutionFor(t *domain.Ticket, targetState domain.TicketState, solutionText *string) (*string, error) {
	if !requiresSolution(targetState) {
		if solutionText == nil {
			return nil, nil
		}
		trimmed := strings.TrimSpace(*solutionText)
		return &trimmed, nil
	}

	candidate := solutionText
	if candidate == nil {
		candidate = t.Solution
	}
	if candidate == nil {
		return nil, util.NewMissingSolution()
	}
	trimmed := strings.TrimSpace(*candidate)
	if len(trimmed) < domain.SolutionMinLen {
		return nil, util.NewMissingSolution()
	}
	return &trimmed, nil
}

func (e *Engine) apply(t *domain.Ticket, targetState domain.TicketState, actor domain.Actor, solution *string, comment string) *domain.HistoryEntry {
	now := e.now()
	previous := t.State
	t.State = targetState
	if solution != nil && *solution != "" {
		t.Solution = solution
	}

	switch targetState {
	case domain.TicketStateResolved:
		t.ResolvedAt = &now
		t.ClosedAt = nil
	case domain.TicketStateClosed:
		if t.ResolvedAt == nil {
			t.ResolvedAt = &now
		}
		t.ClosedAt = &now
	default:
		// Reopening via override clears completion timestamps.
		t.ResolvedAt = nil
		t.ClosedAt = nil
	}

	return e.historyEntry(t, previous, targetState, actor, comment)
}

func (e *Engine) historyEntry(t *domain.Ticket, previous, next domain.TicketState, actor domain.Actor, comment string) *domain.HistoryEntry {
	return &domain.HistoryEntry{
		TicketID:      t.ID,
		PreviousState: previous,
		NewState:      next,
		ActorID:       actor.ID,
		Comment:       comment,
		CreatedAt:     e.now(),
	}
}

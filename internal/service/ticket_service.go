package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-core/internal/cache"
	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/events"
	"github.com/spec-kit/helpdesk-core/internal/gateway"
	"github.com/spec-kit/helpdesk-core/internal/lifecycle"
	"github.com/spec-kit/helpdesk-core/internal/observability"
	"github.com/spec-kit/helpdesk-core/internal/priority"
	"github.com/spec-kit/helpdesk-core/pkg/util"
)

// TicketService coordinates ticket workflows. Guards run locally through
// the lifecycle engine against a fetched snapshot; the gateway's verdict
// on the persisted result is authoritative and replaces the local copy.
type TicketService struct {
	gw         gateway.TicketGateway
	engine     *lifecycle.Engine
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	cache      *cache.MetricsCache
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Gateway    gateway.TicketGateway
	Engine     *lifecycle.Engine
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Cache      *cache.MetricsCache
	Logger     *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    domain.TicketCategory
}

// TicketListFilter describes listing filters before role scoping.
type TicketListFilter struct {
	States      []domain.TicketState
	Priorities  []domain.TicketPriority
	Category    *domain.TicketCategory
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Search      *string
	Limit       int
	Offset      int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	engine := deps.Engine
	if engine == nil {
		engine = lifecycle.NewEngine()
	}
	return &TicketService{
		gw:         deps.Gateway,
		engine:     engine,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		cache:      deps.Cache,
		logger:     deps.Logger,
	}
}

// CreateTicket validates and persists a new ticket. The initial priority
// is derived from the category and the creator's classification; callers
// never choose it directly.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		CreatorID:   actor.ID,
		State:       domain.TicketStateOpen,
		Priority:    priority.Resolve(input.Category, actor.Classification),
	}
	if err := ticket.Validate(); err != nil {
		return nil, err
	}

	if err := s.gw.CreateTicket(ctx, ticket); err != nil {
		return nil, util.MapError(err)
	}

	s.invalidateMetrics(ctx)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Category: ticket.Category,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets visible to the actor. Workers see their own
// tickets, technicians the tickets assigned to them, administrators all.
func (s *TicketService) ListTickets(ctx context.Context, actor domain.Actor, filter TicketListFilter) ([]domain.Ticket, error) {
	gwFilter := gateway.TicketFilter{
		States:      filter.States,
		Priorities:  filter.Priorities,
		Category:    filter.Category,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Search:      filter.Search,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	switch actor.Role {
	case domain.RoleWorker:
		gwFilter.CreatorID = &actor.ID
	case domain.RoleTechnician:
		gwFilter.TechnicianID = &actor.ID
	}
	tickets, err := s.gw.FetchTickets(ctx, gwFilter)
	if err != nil {
		return nil, util.MapError(err)
	}
	return tickets, nil
}

// GetTicket fetches a ticket and enforces visibility.
func (s *TicketService) GetTicket(ctx context.Context, actor domain.Actor, id int64) (*domain.Ticket, error) {
	ticket, err := s.gw.FetchTicket(ctx, id)
	if err != nil {
		return nil, util.MapError(err)
	}
	if actor.Role == domain.RoleWorker && ticket.CreatorID != actor.ID {
		return nil, util.NewForbidden("ticket belongs to another creator")
	}
	return ticket, nil
}

// GetHistory returns the ticket's audit trail, oldest first.
func (s *TicketService) GetHistory(ctx context.Context, actor domain.Actor, ticketID int64) ([]domain.HistoryEntry, error) {
	if _, err := s.GetTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	entries, err := s.gw.FetchHistory(ctx, ticketID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return entries, nil
}

// ListTechnicians returns the technician directory with live workload.
func (s *TicketService) ListTechnicians(ctx context.Context) ([]domain.Technician, error) {
	techs, err := s.gw.FetchTechnicians(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return techs, nil
}

// AssignTechnician assigns a technician to the ticket, enforcing the
// single-active-ticket workload rule against the current directory.
func (s *TicketService) AssignTechnician(ctx context.Context, actor domain.Actor, ticketID, technicianID int64) (*domain.Ticket, error) {
	ticket, err := s.gw.FetchTicket(ctx, ticketID)
	if err != nil {
		return nil, util.MapError(err)
	}
	tech, err := s.findTechnician(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	candidate := ticket.Clone()
	entry, err := s.engine.AssignTechnician(candidate, *tech, actor)
	if err != nil {
		return nil, err
	}

	patch := gateway.TicketPatch{
		TechnicianID: candidate.TechnicianID,
		AssignedAt:   candidate.AssignedAt,
	}
	stored, err := s.persist(ctx, ticketID, patch, entry)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticketID,
		ActorID:  actor.ID,
		Payload:  events.TicketAssignedPayload{TechnicianID: technicianID},
	})
	return stored, nil
}

// Transition moves the ticket along the lifecycle graph.
func (s *TicketService) Transition(ctx context.Context, actor domain.Actor, ticketID int64, target domain.TicketState, solution *string) (*domain.Ticket, error) {
	ticket, err := s.gw.FetchTicket(ctx, ticketID)
	if err != nil {
		return nil, util.MapError(err)
	}

	candidate := ticket.Clone()
	entry, err := s.engine.Transition(candidate, target, actor, solution)
	if err != nil {
		return nil, err
	}
	return s.commitStateChange(ctx, actor, ticket, candidate, entry)
}

// AdminSetState applies the administrative state override.
func (s *TicketService) AdminSetState(ctx context.Context, actor domain.Actor, ticketID int64, target domain.TicketState, solution *string) (*domain.Ticket, error) {
	ticket, err := s.gw.FetchTicket(ctx, ticketID)
	if err != nil {
		return nil, util.MapError(err)
	}

	candidate := ticket.Clone()
	entry, err := s.engine.AdminSetState(candidate, target, actor, solution)
	if err != nil {
		return nil, err
	}
	return s.commitStateChange(ctx, actor, ticket, candidate, entry)
}

// Cancel voids an Open ticket on the creator's request.
func (s *TicketService) Cancel(ctx context.Context, actor domain.Actor, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.gw.FetchTicket(ctx, ticketID)
	if err != nil {
		return nil, util.MapError(err)
	}

	candidate := ticket.Clone()
	entry, err := s.engine.Cancel(candidate, actor)
	if err != nil {
		return nil, err
	}

	stored, err := s.commitStateChange(ctx, actor, ticket, candidate, entry)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCancelled,
		TicketID: ticketID,
		ActorID:  actor.ID,
	})
	return stored, nil
}

// Rate records the creator's satisfaction score for a resolved ticket.
func (s *TicketService) Rate(ctx context.Context, actor domain.Actor, ticketID int64, value int, comment string) (*domain.Ticket, error) {
	ticket, err := s.gw.FetchTicket(ctx, ticketID)
	if err != nil {
		return nil, util.MapError(err)
	}

	candidate := ticket.Clone()
	if err := s.engine.Rate(candidate, actor, value, comment); err != nil {
		return nil, err
	}

	if err := s.gw.PersistRating(ctx, ticketID, *candidate.Rating); err != nil {
		return nil, util.MapError(err)
	}

	s.invalidateMetrics(ctx)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketRated,
		TicketID: ticketID,
		ActorID:  actor.ID,
		Payload:  events.TicketRatedPayload{Value: value},
	})
	return candidate, nil
}

// SaveSolution stores a solution draft without changing state.
func (s *TicketService) SaveSolution(ctx context.Context, actor domain.Actor, ticketID int64, text string) (*domain.Ticket, error) {
	ticket, err := s.gw.FetchTicket(ctx, ticketID)
	if err != nil {
		return nil, util.MapError(err)
	}

	candidate := ticket.Clone()
	if err := s.engine.SaveSolution(candidate, actor, text); err != nil {
		return nil, err
	}

	stored, err := s.gw.PersistTransition(ctx, ticketID, gateway.TicketPatch{Solution: candidate.Solution})
	if err != nil {
		return nil, util.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventSolutionDraftSaved,
		TicketID: ticketID,
		ActorID:  actor.ID,
	})
	return stored, nil
}

// FileComplaint registers a complaint against the ticket's technician and
// links it to the ticket.
func (s *TicketService) FileComplaint(ctx context.Context, actor domain.Actor, ticketID int64, category domain.ComplaintCategory, prio domain.TicketPriority, description string) (*domain.Complaint, error) {
	ticket, err := s.gw.FetchTicket(ctx, ticketID)
	if err != nil {
		return nil, util.MapError(err)
	}

	complaint, err := s.engine.FileComplaint(ticket, actor, category, prio, description)
	if err != nil {
		return nil, err
	}

	if err := s.gw.CreateComplaint(ctx, complaint); err != nil {
		return nil, util.MapError(err)
	}
	if _, err := s.gw.PersistTransition(ctx, ticketID, gateway.TicketPatch{ComplaintID: &complaint.ID}); err != nil {
		return nil, util.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventComplaintFiled,
		TicketID: ticketID,
		ActorID:  actor.ID,
		Payload: events.ComplaintFiledPayload{
			ComplaintID:  complaint.ID,
			TechnicianID: complaint.TechnicianID,
			Category:     complaint.Category,
		},
	})
	return complaint, nil
}

// ListComplaints returns complaints visible to the actor.
func (s *TicketService) ListComplaints(ctx context.Context, actor domain.Actor, state *domain.ComplaintState) ([]domain.Complaint, error) {
	filter := gateway.ComplaintFilter{State: state}
	switch actor.Role {
	case domain.RoleWorker:
		filter.CreatorID = &actor.ID
	case domain.RoleTechnician:
		filter.TechnicianID = &actor.ID
	}
	complaints, err := s.gw.FetchComplaints(ctx, filter)
	if err != nil {
		return nil, util.MapError(err)
	}
	return complaints, nil
}

// ResolveComplaint closes a pending complaint with the admin's response.
func (s *TicketService) ResolveComplaint(ctx context.Context, actor domain.Actor, complaintID int64, adminResponse string) (*domain.Complaint, error) {
	complaint, err := s.gw.FetchComplaint(ctx, complaintID)
	if err != nil {
		return nil, util.MapError(err)
	}

	if err := s.engine.ResolveComplaint(complaint, actor, adminResponse); err != nil {
		return nil, err
	}
	if err := s.gw.UpdateComplaint(ctx, complaint); err != nil {
		return nil, util.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventComplaintResolved,
		TicketID: complaint.TicketID,
		ActorID:  actor.ID,
		Payload:  events.ComplaintResolvedPayload{ComplaintID: complaint.ID},
	})
	return complaint, nil
}

// Catalog returns the closed enumerations for clients to render pickers.
func (s *TicketService) Catalog(ctx context.Context) (states []domain.TicketState, priorities []domain.TicketPriority, categories []domain.TicketCategory, err error) {
	if states, err = s.gw.FetchStates(ctx); err != nil {
		return nil, nil, nil, util.MapError(err)
	}
	if priorities, err = s.gw.FetchPriorities(ctx); err != nil {
		return nil, nil, nil, util.MapError(err)
	}
	if categories, err = s.gw.FetchCategories(ctx); err != nil {
		return nil, nil, nil, util.MapError(err)
	}
	return states, priorities, categories, nil
}

// commitStateChange persists an engine-approved state change and records
// the transition in history and metrics.
func (s *TicketService) commitStateChange(ctx context.Context, actor domain.Actor, before, after *domain.Ticket, entry *domain.HistoryEntry) (*domain.Ticket, error) {
	stored, err := s.persist(ctx, before.ID, statePatch(before, after), entry)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransition(string(entry.PreviousState), string(entry.NewState))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStateChanged,
		TicketID: before.ID,
		ActorID:  actor.ID,
		Payload: events.TicketStateChangedPayload{
			PreviousState: entry.PreviousState,
			NewState:      entry.NewState,
			Comment:       entry.Comment,
		},
	})
	return stored, nil
}

// persist writes the patch and the history entry. The returned ticket is
// whatever the gateway reports back; a rejection discards the optimistic
// local change entirely.
func (s *TicketService) persist(ctx context.Context, ticketID int64, patch gateway.TicketPatch, entry *domain.HistoryEntry) (*domain.Ticket, error) {
	stored, err := s.gw.PersistTransition(ctx, ticketID, patch)
	if err != nil {
		return nil, util.MapError(err)
	}
	if entry != nil {
		if err := s.gw.AppendHistory(ctx, entry); err != nil {
			// The state change already stuck; a failed audit write is
			// logged rather than surfaced as an operation failure.
			s.logger.Error("history append failed",
				zap.Int64("ticket_id", ticketID), zap.Error(err))
		}
	}
	s.invalidateMetrics(ctx)
	return stored, nil
}

// statePatch diffs the engine's mutation into a gateway patch.
func statePatch(before, after *domain.Ticket) gateway.TicketPatch {
	patch := gateway.TicketPatch{
		State:      &after.State,
		Solution:   after.Solution,
		ResolvedAt: after.ResolvedAt,
		ClosedAt:   after.ClosedAt,
	}
	if before.ResolvedAt != nil && after.ResolvedAt == nil {
		patch.ClearResolvedAt = true
	}
	if before.ClosedAt != nil && after.ClosedAt == nil {
		patch.ClearClosedAt = true
	}
	return patch
}

func (s *TicketService) findTechnician(ctx context.Context, technicianID int64) (*domain.Technician, error) {
	techs, err := s.gw.FetchTechnicians(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	for i := range techs {
		if techs[i].ID == technicianID {
			return &techs[i], nil
		}
	}
	return nil, util.NewNotFound("technician", map[string]any{"technician_id": technicianID})
}

func (s *TicketService) invalidateMetrics(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

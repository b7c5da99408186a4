package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-core/internal/api/dto"
	"github.com/spec-kit/helpdesk-core/internal/auth"
	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/service"
	"github.com/spec-kit/helpdesk-core/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewInvalidInput("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), *actor, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	filter, err := parseTicketListQuery(c)
	if err != nil {
		return err
	}

	tickets, err := h.service.ListTickets(c.UserContext(), *actor, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.TicketFromDomain(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), *actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// History GET /tickets/:id/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	entries, err := h.service.GetHistory(c.UserContext(), *actor, id)
	if err != nil {
		return err
	}
	items := make([]dto.HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.HistoryFromDomain(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Assign POST /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewInvalidInput("invalid payload", nil)
	}
	if req.TechnicianID == 0 {
		return util.NewInvalidInput("technician_id required", nil)
	}

	ticket, err := h.service.AssignTechnician(c.UserContext(), *actor, id, req.TechnicianID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// Transition POST /tickets/:id/transition.
func (h *TicketsHandler) Transition(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewInvalidInput("invalid payload", nil)
	}

	ticket, err := h.service.Transition(c.UserContext(), *actor, id, req.State, req.Solution)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// AdminSetState PUT /tickets/:id/state.
func (h *TicketsHandler) AdminSetState(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewInvalidInput("invalid payload", nil)
	}

	ticket, err := h.service.AdminSetState(c.UserContext(), *actor, id, req.State, req.Solution)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// Cancel POST /tickets/:id/cancel.
func (h *TicketsHandler) Cancel(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Cancel(c.UserContext(), *actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// Rate POST /tickets/:id/rating.
func (h *TicketsHandler) Rate(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.RatingRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewInvalidInput("invalid payload", nil)
	}

	ticket, err := h.service.Rate(c.UserContext(), *actor, id, req.Value, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// SaveSolution PUT /tickets/:id/solution.
func (h *TicketsHandler) SaveSolution(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.SolutionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewInvalidInput("invalid payload", nil)
	}

	ticket, err := h.service.SaveSolution(c.UserContext(), *actor, id, req.Solution)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// Technicians GET /technicians.
func (h *TicketsHandler) Technicians(c *fiber.Ctx) error {
	techs, err := h.service.ListTechnicians(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TechnicianResponse, 0, len(techs))
	for _, t := range techs {
		items = append(items, dto.TechnicianResponse{
			ID:          t.ID,
			Name:        t.Name,
			Available:   t.Available,
			ActiveCount: t.ActiveCount,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Catalog GET /catalog.
func (h *TicketsHandler) Catalog(c *fiber.Ctx) error {
	states, priorities, categories, err := h.service.Catalog(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"states":     states,
		"priorities": priorities,
		"categories": categories,
	}})
}

func ticketID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, util.NewInvalidInput("invalid ticket id", nil)
	}
	return id, nil
}

func parseTicketListQuery(c *fiber.Ctx) (service.TicketListFilter, error) {
	filter := service.TicketListFilter{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
	for _, raw := range splitQuery(c.Query("state")) {
		filter.States = append(filter.States, domain.TicketState(raw))
	}
	for _, raw := range splitQuery(c.Query("priority")) {
		filter.Priorities = append(filter.Priorities, domain.TicketPriority(raw))
	}
	if raw := c.Query("category"); raw != "" {
		category := domain.TicketCategory(raw)
		filter.Category = &category
	}
	if raw := c.Query("search"); raw != "" {
		filter.Search = &raw
	}

	var err error
	if filter.CreatedFrom, err = parseDateQuery(c.Query("from"), false); err != nil {
		return filter, err
	}
	if filter.CreatedTo, err = parseDateQuery(c.Query("to"), true); err != nil {
		return filter, err
	}
	return filter, nil
}

// parseDateQuery accepts RFC 3339 timestamps or bare dates. A bare "to"
// date extends to the last instant of its day.
func parseDateQuery(raw string, isEnd bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, util.NewInvalidInput("invalid date "+raw, nil)
	}
	if isEnd {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func splitQuery(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

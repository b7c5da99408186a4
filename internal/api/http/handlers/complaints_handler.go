package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-core/internal/api/dto"
	"github.com/spec-kit/helpdesk-core/internal/auth"
	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/service"
	"github.com/spec-kit/helpdesk-core/pkg/util"
)

// ComplaintsHandler manages complaint endpoints.
type ComplaintsHandler struct {
	service *service.TicketService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(ticketService *service.TicketService) *ComplaintsHandler {
	return &ComplaintsHandler{service: ticketService}
}

// File POST /tickets/:id/complaints.
func (h *ComplaintsHandler) File(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewInvalidInput("invalid payload", nil)
	}

	complaint, err := h.service.FileComplaint(c.UserContext(), *actor, id, req.Category, req.Priority, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ComplaintFromDomain(complaint)})
}

// List GET /complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var state *domain.ComplaintState
	if raw := c.Query("state"); raw != "" {
		s := domain.ComplaintState(raw)
		state = &s
	}

	complaints, err := h.service.ListComplaints(c.UserContext(), *actor, state)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, dto.ComplaintFromDomain(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Resolve POST /complaints/:id/resolve.
func (h *ComplaintsHandler) Resolve(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return util.NewInvalidInput("invalid complaint id", nil)
	}
	var req dto.ResolveComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewInvalidInput("invalid payload", nil)
	}

	complaint, err := h.service.ResolveComplaint(c.UserContext(), *actor, id, req.AdminResponse)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ComplaintFromDomain(complaint)})
}

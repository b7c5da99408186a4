package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-core/internal/api/dto"
	"github.com/spec-kit/helpdesk-core/internal/auth"
	"github.com/spec-kit/helpdesk-core/pkg/util"
)

// AuthHandler manages login endpoints.
type AuthHandler struct {
	directory *auth.Directory
	tokens    *auth.TokenManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(directory *auth.Directory, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{directory: directory, tokens: tokens}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewInvalidInput("invalid payload", nil)
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return util.NewInvalidInput("username and password required", nil)
	}

	actor, err := h.directory.Authenticate(req.Username, req.Password)
	if err != nil {
		return err
	}

	token, expiresAt, err := h.tokens.GenerateToken(*actor)
	if err != nil {
		return util.NewInternalError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}})
}

// Me GET /auth/me returns the authenticated actor.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"id":             actor.ID,
		"name":           actor.Name,
		"role":           actor.Role,
		"classification": actor.Classification,
	}})
}

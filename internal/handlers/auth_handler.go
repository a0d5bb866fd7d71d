package handlers

import (
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.authService.Logout(c.UserContext(), &req); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me returns the account loaded by RequireRole.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := identity.CurrentUser(c)
	return c.JSON(dto.UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Role:  string(user.Role),
	})
}

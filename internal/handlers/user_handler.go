package handlers

import (
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// SetStatus bans or reinstates an account.
func (h *UserHandler) SetStatus(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	if userID == identity.CurrentUser(c).ID {
		return badRequest(c, "Cannot change your own status")
	}

	var req dto.SetUserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.users.SetStatus(c.UserContext(), userID, models.UserStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

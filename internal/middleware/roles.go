package middleware

import (
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequireRole loads the caller's account after JWTProtected and rejects
// banned accounts. With roles given, the account's current role in the
// database must be one of them; the role claim in the token is not trusted.
func RequireRole(db *gorm.DB, roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := identity.GetUserID(c)
		if err != nil {
			return unauthorized(c)
		}

		var user models.User
		if err := db.WithContext(c.UserContext()).First(&user, "id = ?", userID).Error; err != nil {
			return unauthorized(c)
		}

		if user.Status == models.UserBanned {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Account is banned",
			})
		}

		if len(roles) > 0 && !hasRole(user.Role, roles) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Insufficient role",
			})
		}

		identity.SetUser(c, &user)
		return c.Next()
	}
}

func hasRole(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

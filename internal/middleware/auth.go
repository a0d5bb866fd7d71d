package middleware

import (
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/identity"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected accepts HS256 access tokens whose sub claim is a user ID.
// RequireRole must follow it on any route that reads the caller's account.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    []byte(cfg.JWTSecret),
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			if _, err := identity.GetUserID(c); err != nil {
				return unauthorized(c)
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Unauthorized: invalid or expired token",
	})
}

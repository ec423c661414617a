package middleware

import (
	"strings"

	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/models"
	"github.com/estudiolex/subastas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

const (
	localsUser  = "currentUser"
	localsToken = "rawToken"
)

// SessionRequired resolves the bearer token to a live session and
// attaches the owning user. Runs after JWTProtected, so the signature is
// already known good; what this adds is revocation and lazy expiry.
func SessionRequired(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return unauthorized(c)
		}

		user, err := auth.ValidateSession(token)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(localsUser, user)
		c.Locals(localsToken, token)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Success: false,
		Error:   dto.ErrorBody{Message: "Sesión inválida o expirada"},
	})
}

// BearerToken extracts the raw token from the Authorization header.
func BearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// CurrentUser returns the user attached by SessionRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUser).(*models.User)
	return user
}

// RawToken returns the bearer token attached by SessionRequired.
func RawToken(c *fiber.Ctx) string {
	token, _ := c.Locals(localsToken).(string)
	return token
}

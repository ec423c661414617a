package middleware

import (
	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// RequireRoles rejects authenticated users whose role is not in the
// permitted set. Missing user (middleware misordering) is a 401, wrong
// role is a 403.
func RequireRoles(roles ...string) fiber.Handler {
	permitted := make(map[string]bool, len(roles))
	for _, r := range roles {
		permitted[r] = true
	}

	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthorized(c)
		}
		if !permitted[user.Role] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Success: false,
				Error:   dto.ErrorBody{Message: "Acceso denegado"},
			})
		}
		return c.Next()
	}
}

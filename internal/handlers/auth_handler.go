package handlers

import (
	"errors"

	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/middleware"
	"github.com/estudiolex/subastas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	activity    *services.ActivityService
}

func NewAuthHandler(authService *services.AuthService, activity *services.ActivityService) *AuthHandler {
	return &AuthHandler{authService: authService, activity: activity}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return fail(c, fiber.StatusUnauthorized, "Credenciales inválidas")
		}
		if errors.Is(err, services.ErrAccountDisabled) {
			return fail(c, fiber.StatusUnauthorized, "Cuenta desactivada")
		}
		return fail(c, fiber.StatusInternalServerError, "Error interno del servidor")
	}

	h.activity.Record(services.ActivityEntry{
		Actor:     result.User,
		Action:    "login",
		Entity:    "session",
		EntityID:  result.User.ID.String(),
		IP:        c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})

	return ok(c, dto.AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := middleware.RawToken(c)
	if err := h.authService.Logout(token); err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudo cerrar la sesión")
	}

	if user := middleware.CurrentUser(c); user != nil {
		audit(h.activity, c, "logout", "session", user.ID.String(), nil)
	}
	return ok(c, fiber.Map{"message": "Sesión cerrada"})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	result, err := h.authService.Refresh(req.Token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrSessionNotFound) {
			return fail(c, fiber.StatusUnauthorized, "Sesión inválida o expirada")
		}
		return fail(c, fiber.StatusInternalServerError, "Error interno del servidor")
	}

	return ok(c, dto.AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return ok(c, middleware.CurrentUser(c))
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	if err := h.authService.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return fail(c, fiber.StatusUnauthorized, "Credenciales inválidas")
		}
		if errors.Is(err, services.ErrWeakPassword) {
			return fail(c, fiber.StatusBadRequest, "La contraseña debe tener al menos 8 caracteres")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo actualizar la contraseña")
	}

	audit(h.activity, c, "change_password", "user", user.ID.String(), nil)
	return ok(c, fiber.Map{"message": "Contraseña actualizada; vuelva a iniciar sesión"})
}

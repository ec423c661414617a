package handlers

import (
	"errors"

	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/middleware"
	"github.com/estudiolex/subastas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// SettingsHandler is the single write path for site settings: one
// authenticated, validated upsert keyed by setting key. There are no
// parallel or debug routes.
type SettingsHandler struct {
	settings *services.SettingsService
	activity *services.ActivityService
}

func NewSettingsHandler(settings *services.SettingsService, activity *services.ActivityService) *SettingsHandler {
	return &SettingsHandler{settings: settings, activity: activity}
}

func (h *SettingsHandler) List(c *fiber.Ctx) error {
	rows, err := h.settings.List()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener la configuración")
	}
	return ok(c, rows)
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	row, err := h.settings.Get(c.Params("key"))
	if err != nil {
		if errors.Is(err, services.ErrSettingNotFound) {
			return fail(c, fiber.StatusNotFound, "Configuración no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener la configuración")
	}
	return ok(c, row)
}

func (h *SettingsHandler) Upsert(c *fiber.Ctx) error {
	var req dto.SettingRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	user := middleware.CurrentUser(c)
	row, err := h.settings.Upsert(c.Params("key"), req.Value, user.Email)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return failValidation(c, ve)
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo guardar la configuración")
	}

	audit(h.activity, c, "upsert", "setting", row.Key, fiber.Map{"value": row.Value})
	return ok(c, row)
}

func (h *SettingsHandler) BulkUpsert(c *fiber.Ctx) error {
	var req dto.BulkSettingsRequest
	if err := c.BodyParser(&req); err != nil || len(req.Items) == 0 {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	user := middleware.CurrentUser(c)
	if err := h.settings.BulkUpsert(req.Items, user.Email); err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return failValidation(c, ve)
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo guardar la configuración")
	}

	audit(h.activity, c, "bulk_upsert", "setting", "", fiber.Map{"count": len(req.Items)})
	return ok(c, fiber.Map{"message": "Configuración actualizada"})
}

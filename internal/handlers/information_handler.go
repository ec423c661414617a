package handlers

import (
	"errors"

	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InformationHandler struct {
	info     *services.InformationService
	activity *services.ActivityService
}

func NewInformationHandler(info *services.InformationService, activity *services.ActivityService) *InformationHandler {
	return &InformationHandler{info: info, activity: activity}
}

func (h *InformationHandler) List(c *fiber.Ctx) error {
	rows, err := h.info.List(false, c.Query("category"))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener la información")
	}
	return ok(c, rows)
}

func (h *InformationHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID inválido")
	}

	row, err := h.info.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrInformationNotFound) {
			return fail(c, fiber.StatusNotFound, "Información no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener la información")
	}
	return ok(c, row)
}

func (h *InformationHandler) Create(c *fiber.Ctx) error {
	var req dto.InformationRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	row, err := h.info.Create(&req)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return failValidation(c, ve)
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo crear la información")
	}

	audit(h.activity, c, "create", "information", row.ID.String(), fiber.Map{"title": row.Title})
	return created(c, row)
}

func (h *InformationHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID inválido")
	}

	var req dto.InformationRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	row, err := h.info.Update(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrInformationNotFound) {
			return fail(c, fiber.StatusNotFound, "Información no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo actualizar la información")
	}

	audit(h.activity, c, "update", "information", id.String(), nil)
	return ok(c, row)
}

func (h *InformationHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID inválido")
	}

	if err := h.info.Delete(id); err != nil {
		if errors.Is(err, services.ErrInformationNotFound) {
			return fail(c, fiber.StatusNotFound, "Información no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo eliminar la información")
	}

	audit(h.activity, c, "delete", "information", id.String(), nil)
	return ok(c, fiber.Map{"message": "Información eliminada"})
}

package handlers

import (
	"errors"

	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PracticeAreaHandler struct {
	areas    *services.PracticeAreaService
	activity *services.ActivityService
}

func NewPracticeAreaHandler(areas *services.PracticeAreaService, activity *services.ActivityService) *PracticeAreaHandler {
	return &PracticeAreaHandler{areas: areas, activity: activity}
}

func (h *PracticeAreaHandler) List(c *fiber.Ctx) error {
	rows, err := h.areas.List(false)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudieron obtener las áreas de práctica")
	}
	return ok(c, rows)
}

func (h *PracticeAreaHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID inválido")
	}

	row, err := h.areas.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrPracticeAreaNotFound) {
			return fail(c, fiber.StatusNotFound, "Área de práctica no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener el área de práctica")
	}
	return ok(c, row)
}

func (h *PracticeAreaHandler) Create(c *fiber.Ctx) error {
	var req dto.PracticeAreaRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	row, err := h.areas.Create(&req)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return failValidation(c, ve)
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo crear el área de práctica")
	}

	audit(h.activity, c, "create", "practice_area", row.ID.String(), fiber.Map{"name": row.Name})
	return created(c, row)
}

func (h *PracticeAreaHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID inválido")
	}

	var req dto.PracticeAreaRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	row, err := h.areas.Update(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrPracticeAreaNotFound) {
			return fail(c, fiber.StatusNotFound, "Área de práctica no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo actualizar el área de práctica")
	}

	audit(h.activity, c, "update", "practice_area", id.String(), nil)
	return ok(c, row)
}

func (h *PracticeAreaHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID inválido")
	}

	if err := h.areas.Delete(id); err != nil {
		if errors.Is(err, services.ErrPracticeAreaNotFound) {
			return fail(c, fiber.StatusNotFound, "Área de práctica no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo eliminar el área de práctica")
	}

	audit(h.activity, c, "delete", "practice_area", id.String(), nil)
	return ok(c, fiber.Map{"message": "Área de práctica eliminada"})
}

func (h *PracticeAreaHandler) Reorder(c *fiber.Ctx) error {
	var req dto.ReorderRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	if err := h.areas.Reorder(req.IDs); err != nil {
		if errors.Is(err, services.ErrPracticeAreaNotFound) {
			return fail(c, fiber.StatusNotFound, "Área de práctica no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo reordenar")
	}

	audit(h.activity, c, "reorder", "practice_area", "", fiber.Map{"count": len(req.IDs)})
	return ok(c, fiber.Map{"message": "Orden actualizado"})
}

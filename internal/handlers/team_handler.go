package handlers

import (
	"errors"

	"github.com/estudiolex/subastas-backend/internal/config"
	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/services"
	"github.com/estudiolex/subastas-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TeamHandler struct {
	team     *services.TeamService
	uploader storage.Uploader
	activity *services.ActivityService
	cfg      *config.Config
}

func NewTeamHandler(team *services.TeamService, uploader storage.Uploader, activity *services.ActivityService, cfg *config.Config) *TeamHandler {
	return &TeamHandler{team: team, uploader: uploader, activity: activity, cfg: cfg}
}

func (h *TeamHandler) List(c *fiber.Ctx) error {
	rows, err := h.team.List(false)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener el equipo")
	}
	return ok(c, rows)
}

func (h *TeamHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID inválido")
	}

	row, err := h.team.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrTeamMemberNotFound) {
			return fail(c, fiber.StatusNotFound, "Integrante no encontrado")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener el integrante")
	}
	return ok(c, row)
}

func (h *TeamHandler) Create(c *fiber.Ctx) error {
	req, photoURL, errMsg := h.parseForm(c)
	if errMsg != "" {
		return fail(c, fiber.StatusBadRequest, errMsg)
	}

	row, err := h.team.Create(req, photoURL)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return failValidation(c, ve)
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo crear el integrante")
	}

	audit(h.activity, c, "create", "team_member", row.ID.String(), fiber.Map{"name": row.Name})
	return created(c, row)
}

func (h *TeamHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID inválido")
	}

	req, photoURL, errMsg := h.parseForm(c)
	if errMsg != "" {
		return fail(c, fiber.StatusBadRequest, errMsg)
	}

	row, err := h.team.Update(id, req, photoURL)
	if err != nil {
		if errors.Is(err, services.ErrTeamMemberNotFound) {
			return fail(c, fiber.StatusNotFound, "Integrante no encontrado")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo actualizar el integrante")
	}

	audit(h.activity, c, "update", "team_member", id.String(), nil)
	return ok(c, row)
}

func (h *TeamHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID inválido")
	}

	if err := h.team.Delete(id); err != nil {
		if errors.Is(err, services.ErrTeamMemberNotFound) {
			return fail(c, fiber.StatusNotFound, "Integrante no encontrado")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo eliminar el integrante")
	}

	audit(h.activity, c, "delete", "team_member", id.String(), nil)
	return ok(c, fiber.Map{"message": "Integrante eliminado"})
}

func (h *TeamHandler) Reorder(c *fiber.Ctx) error {
	var req dto.ReorderRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	if err := h.team.Reorder(req.IDs); err != nil {
		if errors.Is(err, services.ErrTeamMemberNotFound) {
			return fail(c, fiber.StatusNotFound, "Integrante no encontrado")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo reordenar")
	}

	audit(h.activity, c, "reorder", "team_member", "", fiber.Map{"count": len(req.IDs)})
	return ok(c, fiber.Map{"message": "Orden actualizado"})
}

func (h *TeamHandler) parseForm(c *fiber.Ctx) (*dto.TeamMemberRequest, string, string) {
	var req dto.TeamMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, "", "Cuerpo de la solicitud inválido"
	}

	photoURL := ""
	if form, err := c.MultipartForm(); err == nil && len(form.File["photo"]) > 0 {
		files, msg := collectFiles(c, "photo", h.cfg.MaxFileSize, allowedImageTypes)
		if msg != "" {
			return nil, "", msg
		}
		url, err := h.uploader.Put(c.Context(), files[0])
		if err != nil {
			return nil, "", "No se pudo subir la foto"
		}
		photoURL = url
	}
	return &req, photoURL, ""
}

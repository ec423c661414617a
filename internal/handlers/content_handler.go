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

type ContentHandler struct {
	content  *services.ContentService
	uploader storage.Uploader
	activity *services.ActivityService
	cfg      *config.Config
}

func NewContentHandler(content *services.ContentService, uploader storage.Uploader, activity *services.ActivityService, cfg *config.Config) *ContentHandler {
	return &ContentHandler{content: content, uploader: uploader, activity: activity, cfg: cfg}
}

func (h *ContentHandler) List(c *fiber.Ctx) error {
	rows, err := h.content.ListPageContent()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener el contenido")
	}
	return ok(c, rows)
}

func (h *ContentHandler) Get(c *fiber.Ctx) error {
	row, err := h.content.GetByKey(c.Params("key"))
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return fail(c, fiber.StatusNotFound, "Contenido no encontrado")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener el contenido")
	}
	return ok(c, row)
}

func (h *ContentHandler) Upsert(c *fiber.Ctx) error {
	var req dto.UpsertContentRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}
	if req.Key == "" {
		req.Key = c.Params("key")
	}

	row, err := h.content.Upsert(&req)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return failValidation(c, ve)
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo guardar el contenido")
	}

	audit(h.activity, c, "upsert", "content", row.Key, nil)
	return ok(c, row)
}

func (h *ContentHandler) BulkUpsert(c *fiber.Ctx) error {
	var req dto.BulkContentRequest
	if err := c.BodyParser(&req); err != nil || len(req.Items) == 0 {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	if err := h.content.BulkUpsert(req.Items); err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return failValidation(c, ve)
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo guardar el contenido")
	}

	audit(h.activity, c, "bulk_upsert", "content", "", fiber.Map{"count": len(req.Items)})
	return ok(c, fiber.Map{"message": "Contenido actualizado"})
}

func (h *ContentHandler) Delete(c *fiber.Ctx) error {
	key := c.Params("key")
	if err := h.content.DeleteByKey(key); err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return fail(c, fiber.StatusNotFound, "Contenido no encontrado")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo eliminar el contenido")
	}

	audit(h.activity, c, "delete", "content", key, nil)
	return ok(c, fiber.Map{"message": "Contenido eliminado"})
}

func (h *ContentHandler) ListStudio(c *fiber.Ctx) error {
	rows, err := h.content.ListStudio(false)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener el contenido del estudio")
	}
	return ok(c, rows)
}

func (h *ContentHandler) CreateStudio(c *fiber.Ctx) error {
	req, imageURL, errMsg := h.parseStudioForm(c)
	if errMsg != "" {
		return fail(c, fiber.StatusBadRequest, errMsg)
	}

	row, err := h.content.CreateStudio(req, imageURL)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return failValidation(c, ve)
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo crear la sección")
	}

	audit(h.activity, c, "create", "studio_content", row.ID.String(), nil)
	return created(c, row)
}

func (h *ContentHandler) UpdateStudio(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID inválido")
	}

	req, imageURL, errMsg := h.parseStudioForm(c)
	if errMsg != "" {
		return fail(c, fiber.StatusBadRequest, errMsg)
	}

	row, err := h.content.UpdateStudio(id, req, imageURL)
	if err != nil {
		if errors.Is(err, services.ErrStudioNotFound) {
			return fail(c, fiber.StatusNotFound, "Sección no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo actualizar la sección")
	}

	audit(h.activity, c, "update", "studio_content", id.String(), nil)
	return ok(c, row)
}

func (h *ContentHandler) DeleteStudio(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID inválido")
	}

	if err := h.content.DeleteStudio(id); err != nil {
		if errors.Is(err, services.ErrStudioNotFound) {
			return fail(c, fiber.StatusNotFound, "Sección no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo eliminar la sección")
	}

	audit(h.activity, c, "delete", "studio_content", id.String(), nil)
	return ok(c, fiber.Map{"message": "Sección eliminada"})
}

func (h *ContentHandler) ReorderStudio(c *fiber.Ctx) error {
	var req dto.ReorderRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	if err := h.content.ReorderStudio(req.IDs); err != nil {
		if errors.Is(err, services.ErrStudioNotFound) {
			return fail(c, fiber.StatusNotFound, "Sección no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo reordenar")
	}

	audit(h.activity, c, "reorder", "studio_content", "", fiber.Map{"count": len(req.IDs)})
	return ok(c, fiber.Map{"message": "Orden actualizado"})
}

// parseStudioForm handles both JSON bodies and multipart forms with an
// optional "image" file. A present file is uploaded first; its URL is
// handed to the service.
func (h *ContentHandler) parseStudioForm(c *fiber.Ctx) (*dto.StudioContentRequest, string, string) {
	var req dto.StudioContentRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, "", "Cuerpo de la solicitud inválido"
	}

	imageURL := ""
	if form, err := c.MultipartForm(); err == nil && len(form.File["image"]) > 0 {
		files, msg := collectFiles(c, "image", h.cfg.MaxFileSize, allowedImageTypes)
		if msg != "" {
			return nil, "", msg
		}
		url, err := h.uploader.Put(c.Context(), files[0])
		if err != nil {
			return nil, "", "No se pudo subir la imagen"
		}
		imageURL = url
	}
	return &req, imageURL, ""
}

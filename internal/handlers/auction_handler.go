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

type AuctionHandler struct {
	auctions *services.AuctionService
	uploader storage.Uploader
	activity *services.ActivityService
	cfg      *config.Config
}

func NewAuctionHandler(auctions *services.AuctionService, uploader storage.Uploader, activity *services.ActivityService, cfg *config.Config) *AuctionHandler {
	return &AuctionHandler{auctions: auctions, uploader: uploader, activity: activity, cfg: cfg}
}

func (h *AuctionHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	status := c.Query("status")
	search := c.Query("search")

	auctions, total, err := h.auctions.List(page, limit, status, search, false)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudieron obtener las subastas")
	}
	return okPage(c, auctions, page, limit, total)
}

func (h *AuctionHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID de subasta inválido")
	}

	auction, err := h.auctions.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrAuctionNotFound) {
			return fail(c, fiber.StatusNotFound, "Subasta no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener la subasta")
	}
	return ok(c, auction)
}

func (h *AuctionHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAuctionRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	auction, err := h.auctions.Create(&req)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return failValidation(c, ve)
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo crear la subasta")
	}

	audit(h.activity, c, "create", "auction", auction.ID.String(), fiber.Map{"title": auction.Title})
	return created(c, auction)
}

func (h *AuctionHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID de subasta inválido")
	}

	var req dto.UpdateAuctionRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	auction, err := h.auctions.Update(id, &req, "")
	if err != nil {
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			return failValidation(c, ve)
		case errors.Is(err, services.ErrAuctionNotFound):
			return fail(c, fiber.StatusNotFound, "Subasta no encontrada")
		case errors.Is(err, services.ErrInvalidStatus):
			return fail(c, fiber.StatusBadRequest, "Estado inválido")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo actualizar la subasta")
	}

	audit(h.activity, c, "update", "auction", id.String(), req)
	return ok(c, auction)
}

func (h *AuctionHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID de subasta inválido")
	}

	if err := h.auctions.Delete(id); err != nil {
		if errors.Is(err, services.ErrAuctionNotFound) {
			return fail(c, fiber.StatusNotFound, "Subasta no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo eliminar la subasta")
	}

	audit(h.activity, c, "delete", "auction", id.String(), nil)
	return ok(c, fiber.Map{"message": "Subasta eliminada"})
}

// UploadImages accepts multipart files under "images", pushes them to
// the configured storage backend and appends the resulting URLs.
func (h *AuctionHandler) UploadImages(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID de subasta inválido")
	}

	files, msg := collectFiles(c, "images", h.cfg.MaxFileSize, allowedImageTypes)
	if msg != "" {
		return fail(c, fiber.StatusBadRequest, msg)
	}
	if len(files) == 0 {
		return fail(c, fiber.StatusBadRequest, "Se requiere al menos una imagen")
	}

	urls, err := storage.PutAll(c.Context(), h.uploader, files)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudieron subir las imágenes")
	}

	images, err := h.auctions.AddImages(id, urls)
	if err != nil {
		if errors.Is(err, services.ErrAuctionNotFound) {
			return fail(c, fiber.StatusNotFound, "Subasta no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudieron guardar las imágenes")
	}

	audit(h.activity, c, "upload_images", "auction", id.String(), fiber.Map{"count": len(images)})
	return created(c, images)
}

// UploadPDF replaces the auction's terms-and-conditions document.
func (h *AuctionHandler) UploadPDF(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID de subasta inválido")
	}

	files, msg := collectFiles(c, "pdf", h.cfg.MaxFileSize, allowedPDFTypes)
	if msg != "" {
		return fail(c, fiber.StatusBadRequest, msg)
	}
	if len(files) == 0 {
		return fail(c, fiber.StatusBadRequest, "Se requiere un archivo PDF")
	}

	url, err := h.uploader.Put(c.Context(), files[0])
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudo subir el documento")
	}

	auction, err := h.auctions.Update(id, &dto.UpdateAuctionRequest{}, url)
	if err != nil {
		if errors.Is(err, services.ErrAuctionNotFound) {
			return fail(c, fiber.StatusNotFound, "Subasta no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo actualizar la subasta")
	}

	audit(h.activity, c, "upload_pdf", "auction", id.String(), fiber.Map{"url": url})
	return ok(c, auction)
}

func (h *AuctionHandler) DeleteImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID de subasta inválido")
	}
	imageID, err := uuid.Parse(c.Params("imageId"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID de imagen inválido")
	}

	if err := h.auctions.DeleteImage(id, imageID); err != nil {
		if errors.Is(err, services.ErrImageNotFound) {
			return fail(c, fiber.StatusNotFound, "Imagen no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo eliminar la imagen")
	}

	audit(h.activity, c, "delete_image", "auction", id.String(), fiber.Map{"imageId": imageID})
	return ok(c, fiber.Map{"message": "Imagen eliminada"})
}

func (h *AuctionHandler) SetPrimaryImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID de subasta inválido")
	}
	imageID, err := uuid.Parse(c.Params("imageId"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID de imagen inválido")
	}

	if err := h.auctions.SetPrimaryImage(id, imageID); err != nil {
		if errors.Is(err, services.ErrImageNotFound) {
			return fail(c, fiber.StatusNotFound, "Imagen no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo marcar la imagen principal")
	}

	audit(h.activity, c, "set_primary_image", "auction", id.String(), fiber.Map{"imageId": imageID})
	return ok(c, fiber.Map{"message": "Imagen principal actualizada"})
}

func (h *AuctionHandler) SetStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID de subasta inválido")
	}

	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	auction, err := h.auctions.SetStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAuctionNotFound):
			return fail(c, fiber.StatusNotFound, "Subasta no encontrada")
		case errors.Is(err, services.ErrInvalidStatus):
			return fail(c, fiber.StatusBadRequest, "Estado inválido")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo actualizar el estado")
	}

	audit(h.activity, c, "set_status", "auction", id.String(), fiber.Map{"status": req.Status})
	return ok(c, auction)
}

func (h *AuctionHandler) SetFeatured(c *fiber.Ctx) error {
	var req dto.FeaturedRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	if err := h.auctions.SetFeatured(req.IDs); err != nil {
		switch {
		case errors.Is(err, services.ErrTooManyFeatured):
			return fail(c, fiber.StatusBadRequest, "Solo se pueden destacar hasta 3 subastas")
		case errors.Is(err, services.ErrAuctionNotFound):
			return fail(c, fiber.StatusNotFound, "Subasta no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudieron actualizar las destacadas")
	}

	audit(h.activity, c, "set_featured", "auction", "", fiber.Map{"ids": req.IDs})
	return ok(c, fiber.Map{"message": "Subastas destacadas actualizadas"})
}

func (h *AuctionHandler) Reorder(c *fiber.Ctx) error {
	var req dto.ReorderRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	if err := h.auctions.Reorder(req.IDs); err != nil {
		if errors.Is(err, services.ErrAuctionNotFound) {
			return fail(c, fiber.StatusNotFound, "Subasta no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo reordenar")
	}

	audit(h.activity, c, "reorder", "auction", "", fiber.Map{"count": len(req.IDs)})
	return ok(c, fiber.Map{"message": "Orden actualizado"})
}

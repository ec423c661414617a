package handlers

import (
	"errors"

	"github.com/estudiolex/subastas-backend/internal/models"
	"github.com/estudiolex/subastas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PublicHandler serves the read-only site endpoints. It only ever shows
// published auctions, active records and stored content; drafts and
// disabled rows never leak here.
type PublicHandler struct {
	auctions *services.AuctionService
	content  *services.ContentService
	areas    *services.PracticeAreaService
	team     *services.TeamService
	info     *services.InformationService
	settings *services.SettingsService
}

func NewPublicHandler(
	auctions *services.AuctionService,
	content *services.ContentService,
	areas *services.PracticeAreaService,
	team *services.TeamService,
	info *services.InformationService,
	settings *services.SettingsService,
) *PublicHandler {
	return &PublicHandler{
		auctions: auctions,
		content:  content,
		areas:    areas,
		team:     team,
		info:     info,
		settings: settings,
	}
}

func (h *PublicHandler) ListAuctions(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 12)

	rows, total, err := h.auctions.List(page, limit, c.Query("status"), c.Query("search"), true)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudieron obtener las subastas")
	}
	return okPage(c, rows, page, limit, total)
}

func (h *PublicHandler) FeaturedAuctions(c *fiber.Ctx) error {
	rows, err := h.auctions.Featured()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudieron obtener las subastas destacadas")
	}
	return ok(c, rows)
}

func (h *PublicHandler) GetAuction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID inválido")
	}

	auction, err := h.auctions.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrAuctionNotFound) {
			return fail(c, fiber.StatusNotFound, "Subasta no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener la subasta")
	}
	if auction.Status == models.AuctionDraft {
		return fail(c, fiber.StatusNotFound, "Subasta no encontrada")
	}
	return ok(c, auction)
}

func (h *PublicHandler) PageContent(c *fiber.Ctx) error {
	rows, err := h.content.ListPageContent()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener el contenido")
	}
	return ok(c, rows)
}

func (h *PublicHandler) PageContentByKey(c *fiber.Ctx) error {
	row, err := h.content.GetByKey(c.Params("key"))
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return fail(c, fiber.StatusNotFound, "Contenido no encontrado")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener el contenido")
	}
	return ok(c, row)
}

func (h *PublicHandler) StudioContent(c *fiber.Ctx) error {
	rows, err := h.content.ListStudio(true)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener el contenido del estudio")
	}
	return ok(c, rows)
}

func (h *PublicHandler) PracticeAreas(c *fiber.Ctx) error {
	rows, err := h.areas.List(true)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudieron obtener las áreas de práctica")
	}
	return ok(c, rows)
}

func (h *PublicHandler) Team(c *fiber.Ctx) error {
	rows, err := h.team.List(true)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener el equipo")
	}
	return ok(c, rows)
}

func (h *PublicHandler) Information(c *fiber.Ctx) error {
	rows, err := h.info.List(true, c.Query("category"))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener la información")
	}
	return ok(c, rows)
}

func (h *PublicHandler) Settings(c *fiber.Ctx) error {
	rows, err := h.settings.List()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener la configuración")
	}
	return ok(c, rows)
}

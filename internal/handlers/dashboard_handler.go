package handlers

import (
	"github.com/estudiolex/subastas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
	activity  *services.ActivityService
}

func NewDashboardHandler(dashboard *services.DashboardService, activity *services.ActivityService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, activity: activity}
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudieron obtener las estadísticas")
	}
	return ok(c, stats)
}

func (h *DashboardHandler) ActivityLog(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)

	rows, total, err := h.activity.List(page, limit, c.Query("entity"), c.Query("action"))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudo obtener el registro de actividad")
	}
	return okPage(c, rows, page, limit, total)
}

package handlers

import (
	"time"

	"github.com/estudiolex/subastas-backend/internal/config"
	"github.com/estudiolex/subastas-backend/internal/database"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewHealthHandler(db *gorm.DB, cfg *config.Config) *HealthHandler {
	return &HealthHandler{db: db, cfg: cfg}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	if err := database.Ping(h.db); err != nil {
		status = "unhealthy: " + err.Error()
	}

	return c.JSON(fiber.Map{
		"status":      status,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.cfg.Env,
	})
}

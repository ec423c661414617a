package handlers

import (
	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/middleware"
	"github.com/estudiolex/subastas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(dto.DataResponse{Success: true, Data: data})
}

func okPage(c *fiber.Ctx, data interface{}, page, limit int, total int64) error {
	return c.JSON(dto.DataResponse{
		Success: true,
		Data:    data,
		Meta:    &dto.PageMeta{Page: page, Limit: limit, Total: total},
	})
}

func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(dto.DataResponse{Success: true, Data: data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{
		Success: false,
		Error:   dto.ErrorBody{Message: message},
	})
}

func failValidation(c *fiber.Ctx, ve *services.ValidationError) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Success: false,
		Error:   dto.ErrorBody{Message: "Datos inválidos", Details: ve.Fields},
	})
}

// audit fires a best-effort activity entry with the request's network
// context attached. Never blocks, never fails the request.
func audit(activity *services.ActivityService, c *fiber.Ctx, action, entity, entityID string, detail interface{}) {
	activity.Record(services.ActivityEntry{
		Actor:     middleware.CurrentUser(c),
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    detail,
		IP:        c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})
}

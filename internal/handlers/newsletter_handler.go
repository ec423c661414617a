package handlers

import (
	"errors"

	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type NewsletterHandler struct {
	newsletter *services.NewsletterService
	activity   *services.ActivityService
}

func NewNewsletterHandler(newsletter *services.NewsletterService, activity *services.ActivityService) *NewsletterHandler {
	return &NewsletterHandler{newsletter: newsletter, activity: activity}
}

// Subscribe is public; repeated subscriptions are idempotent.
func (h *NewsletterHandler) Subscribe(c *fiber.Ctx) error {
	var req dto.SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	sub, err := h.newsletter.Subscribe(req.Email)
	if err != nil {
		if errors.Is(err, services.ErrInvalidEmail) {
			return fail(c, fiber.StatusBadRequest, "Dirección de correo inválida")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo completar la suscripción")
	}

	return created(c, fiber.Map{"email": sub.Email, "subscribed": true})
}

// Unsubscribe is public, keyed by the token embedded in campaign mails.
func (h *NewsletterHandler) Unsubscribe(c *fiber.Ctx) error {
	token := c.Params("token")
	if err := h.newsletter.Unsubscribe(token); err != nil {
		if errors.Is(err, services.ErrSubscriberNotFound) {
			return fail(c, fiber.StatusNotFound, "Suscripción no encontrada")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo cancelar la suscripción")
	}
	return ok(c, fiber.Map{"unsubscribed": true})
}

func (h *NewsletterHandler) ListSubscribers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)
	activeOnly := c.QueryBool("active", false)

	rows, total, err := h.newsletter.ListSubscribers(page, limit, activeOnly)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudieron obtener los suscriptores")
	}
	return okPage(c, rows, page, limit, total)
}

func (h *NewsletterHandler) ListCampaigns(c *fiber.Ctx) error {
	rows, err := h.newsletter.ListCampaigns()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "No se pudieron obtener las campañas")
	}
	return ok(c, rows)
}

func (h *NewsletterHandler) CreateCampaign(c *fiber.Ctx) error {
	var req dto.CampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}

	campaign, err := h.newsletter.CreateCampaign(&req)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return failValidation(c, ve)
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo crear la campaña")
	}

	audit(h.activity, c, "create", "campaign", campaign.ID.String(), fiber.Map{"subject": campaign.Subject})
	return created(c, campaign)
}

func (h *NewsletterHandler) SendCampaign(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "ID de campaña inválido")
	}

	campaign, err := h.newsletter.SendCampaign(id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCampaignNotFound):
			return fail(c, fiber.StatusNotFound, "Campaña no encontrada")
		case errors.Is(err, services.ErrCampaignAlreadySent):
			return fail(c, fiber.StatusBadRequest, "La campaña ya fue enviada")
		case errors.Is(err, services.ErrSMTPNotConfigured):
			return fail(c, fiber.StatusServiceUnavailable, "El envío de correo no está configurado")
		}
		return fail(c, fiber.StatusInternalServerError, "No se pudo enviar la campaña")
	}

	audit(h.activity, c, "send", "campaign", id.String(), fiber.Map{
		"sent":   campaign.SentCount,
		"failed": campaign.FailedCount,
	})
	return ok(c, campaign)
}

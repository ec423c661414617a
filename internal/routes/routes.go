package routes

import (
	"time"

	"github.com/estudiolex/subastas-backend/internal/config"
	"github.com/estudiolex/subastas-backend/internal/handlers"
	"github.com/estudiolex/subastas-backend/internal/middleware"
	"github.com/estudiolex/subastas-backend/internal/models"
	"github.com/estudiolex/subastas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handlers collects everything Setup wires into the route table.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Health      *handlers.HealthHandler
	Public      *handlers.PublicHandler
	Auctions    *handlers.AuctionHandler
	Content     *handlers.ContentHandler
	Practice    *handlers.PracticeAreaHandler
	Team        *handlers.TeamHandler
	Information *handlers.InformationHandler
	Settings    *handlers.SettingsHandler
	Newsletter  *handlers.NewsletterHandler
	Dashboard   *handlers.DashboardHandler
}

func Setup(app *fiber.App, cfg *config.Config, auth *services.AuthService, h Handlers) {
	// Liveness lives outside the rate-limited API tree; probes fire often
	// enough to eat the whole window otherwise.
	app.Get("/health", h.Health.Check)

	api := app.Group("/api")

	// Global rate limit: 100 req / 15 min per IP, fixed window.
	api.Use(limiter.New(limiter.Config{
		Max:          100,
		Expiration:   15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth. Login carries its own stricter limiter: 5 req / 15 min per IP.
	authGroup := api.Group("/auth")
	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:          5,
		Expiration:   15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
	}), h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.Refresh)

	protected := func(handler fiber.Handler) []fiber.Handler {
		return []fiber.Handler{middleware.JWTProtected(cfg), middleware.SessionRequired(auth), handler}
	}
	authGroup.Post("/logout", protected(h.Auth.Logout)...)
	authGroup.Get("/me", protected(h.Auth.Me)...)
	authGroup.Put("/change-password", protected(h.Auth.ChangePassword)...)
	authGroup.Post("/change-password", protected(h.Auth.ChangePassword)...)

	// Public, read-only site surface.
	public := api.Group("/public")
	public.Get("/auctions", h.Public.ListAuctions)
	public.Get("/auctions/featured", h.Public.FeaturedAuctions)
	public.Get("/auctions/:id", h.Public.GetAuction)
	public.Get("/content", h.Public.PageContent)
	public.Get("/content/:key", h.Public.PageContentByKey)
	public.Get("/studio", h.Public.StudioContent)
	public.Get("/practice-areas", h.Public.PracticeAreas)
	public.Get("/team", h.Public.Team)
	public.Get("/information", h.Public.Information)
	public.Get("/settings", h.Public.Settings)
	public.Post("/newsletter/subscribe", h.Newsletter.Subscribe)
	public.Get("/newsletter/unsubscribe/:token", h.Newsletter.Unsubscribe)

	// Managed resources answer at /api/<resource>, the paths the panel
	// calls. /api/admin/<resource> serves the same table for panel builds
	// that still use the prefixed form.
	resourceRoutes(api, cfg, auth, h)
	resourceRoutes(api.Group("/admin"), cfg, auth, h)

	// Local uploads are served from disk; remote backends return absolute
	// URLs and never hit this route.
	if cfg.StorageBackend == config.StorageLocal {
		app.Static("/uploads", cfg.UploadDir)
	}
}

// resourceRoutes mounts the bearer-gated resource table under root. Every
// route checks the JWT and the live session; the role gate varies per
// resource.
func resourceRoutes(root fiber.Router, cfg *config.Config, auth *services.AuthService, h Handlers) {
	jwt := middleware.JWTProtected(cfg)
	session := middleware.SessionRequired(auth)

	// Content management is open to editors.
	editors := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleEditor)
	// Settings, newsletter and audit trail are not.
	admins := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)

	root.Get("/dashboard", jwt, session, editors, h.Dashboard.Stats)
	root.Get("/activity", jwt, session, admins, h.Dashboard.ActivityLog)

	auctions := root.Group("/auctions", jwt, session, editors)
	auctions.Get("/", h.Auctions.List)
	auctions.Post("/", h.Auctions.Create)
	auctions.Put("/reorder", h.Auctions.Reorder)
	auctions.Put("/featured", h.Auctions.SetFeatured)
	auctions.Put("/featured/update", h.Auctions.SetFeatured)
	auctions.Get("/:id", h.Auctions.Get)
	auctions.Put("/:id", h.Auctions.Update)
	auctions.Delete("/:id", h.Auctions.Delete)
	auctions.Post("/:id/images", h.Auctions.UploadImages)
	auctions.Post("/:id/pdf", h.Auctions.UploadPDF)
	auctions.Delete("/:id/images/:imageId", h.Auctions.DeleteImage)
	auctions.Put("/:id/images/:imageId/primary", h.Auctions.SetPrimaryImage)
	auctions.Put("/:id/status", h.Auctions.SetStatus)

	content := root.Group("/content", jwt, session, editors)
	content.Get("/", h.Content.List)
	content.Put("/bulk", h.Content.BulkUpsert)
	content.Get("/:key", h.Content.Get)
	content.Put("/:key", h.Content.Upsert)
	content.Delete("/:key", h.Content.Delete)

	studio := root.Group("/studio", jwt, session, editors)
	studio.Get("/", h.Content.ListStudio)
	studio.Post("/", h.Content.CreateStudio)
	studio.Put("/reorder", h.Content.ReorderStudio)
	studio.Put("/:id", h.Content.UpdateStudio)
	studio.Delete("/:id", h.Content.DeleteStudio)

	practice := root.Group("/practice-areas", jwt, session, editors)
	practice.Get("/", h.Practice.List)
	practice.Post("/", h.Practice.Create)
	practice.Put("/reorder", h.Practice.Reorder)
	practice.Get("/:id", h.Practice.Get)
	practice.Put("/:id", h.Practice.Update)
	practice.Delete("/:id", h.Practice.Delete)

	team := root.Group("/team", jwt, session, editors)
	team.Get("/", h.Team.List)
	team.Post("/", h.Team.Create)
	team.Put("/reorder", h.Team.Reorder)
	team.Get("/:id", h.Team.Get)
	team.Put("/:id", h.Team.Update)
	team.Delete("/:id", h.Team.Delete)

	information := root.Group("/information", jwt, session, editors)
	information.Get("/", h.Information.List)
	information.Post("/", h.Information.Create)
	information.Get("/:id", h.Information.Get)
	information.Put("/:id", h.Information.Update)
	information.Delete("/:id", h.Information.Delete)

	settings := root.Group("/settings", jwt, session, admins)
	settings.Get("/", h.Settings.List)
	settings.Put("/bulk", h.Settings.BulkUpsert)
	settings.Get("/:key", h.Settings.Get)
	settings.Put("/:key", h.Settings.Upsert)

	newsletter := root.Group("/newsletter", jwt, session, admins)
	newsletter.Get("/subscribers", h.Newsletter.ListSubscribers)
	newsletter.Get("/campaigns", h.Newsletter.ListCampaigns)
	newsletter.Post("/campaigns", h.Newsletter.CreateCampaign)
	newsletter.Post("/campaigns/:id/send", h.Newsletter.SendCampaign)
}

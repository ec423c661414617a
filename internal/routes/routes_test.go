package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/estudiolex/subastas-backend/internal/config"
	"github.com/estudiolex/subastas-backend/internal/database"
	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/handlers"
	"github.com/estudiolex/subastas-backend/internal/models"
	"github.com/estudiolex/subastas-backend/internal/services"
	"github.com/estudiolex/subastas-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	app  *fiber.App
	db   *gorm.DB
	auth *services.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		JWTExpire:      time.Hour,
		FrontendURL:    "http://localhost:5173",
		MaxFileSize:    10 << 20,
		UploadDir:      t.TempDir(),
		StorageBackend: config.StorageLocal,
	}

	uploader := storage.New(cfg)
	authService := services.NewAuthService(db, cfg)
	activityService := services.NewActivityService(db)
	t.Cleanup(activityService.Close)

	auctionService := services.NewAuctionService(db, uploader)
	contentService := services.NewContentService(db, uploader)
	practiceService := services.NewPracticeAreaService(db)
	teamService := services.NewTeamService(db, uploader)
	informationService := services.NewInformationService(db)
	settingsService := services.NewSettingsService(db)
	newsletterService := services.NewNewsletterService(db, nil)
	dashboardService := services.NewDashboardService(db)

	app := fiber.New()
	Setup(app, cfg, authService, Handlers{
		Auth:        handlers.NewAuthHandler(authService, activityService),
		Health:      handlers.NewHealthHandler(db, cfg),
		Public:      handlers.NewPublicHandler(auctionService, contentService, practiceService, teamService, informationService, settingsService),
		Auctions:    handlers.NewAuctionHandler(auctionService, uploader, activityService, cfg),
		Content:     handlers.NewContentHandler(contentService, uploader, activityService, cfg),
		Practice:    handlers.NewPracticeAreaHandler(practiceService, activityService),
		Team:        handlers.NewTeamHandler(teamService, uploader, activityService, cfg),
		Information: handlers.NewInformationHandler(informationService, activityService),
		Settings:    handlers.NewSettingsHandler(settingsService, activityService),
		Newsletter:  handlers.NewNewsletterHandler(newsletterService, activityService),
		Dashboard:   handlers.NewDashboardHandler(dashboardService, activityService),
	})

	return &testEnv{app: app, db: db, auth: authService}
}

func (e *testEnv) seedUser(t *testing.T, email, password, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		Name:     "Test",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var parsed map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	}
	return resp, parsed
}

func errorMessage(body map[string]interface{}) string {
	errObj, _ := body["error"].(map[string]interface{})
	msg, _ := errObj["message"].(string)
	return msg
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	resp, body := e.request(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode, "login failed: %v", body)
	data := body["data"].(map[string]interface{})
	return data["token"].(string)
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@estudio.com", "secreto123", models.RoleAdmin)

	t.Run("bad credentials envelope", func(t *testing.T) {
		resp, body := env.request(t, http.MethodPost, "/api/auth/login", "",
			dto.LoginRequest{Email: "admin@estudio.com", Password: "mala"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Credenciales inválidas", errorMessage(body))
	})

	t.Run("success returns token and user", func(t *testing.T) {
		resp, body := env.request(t, http.MethodPost, "/api/auth/login", "",
			dto.LoginRequest{Email: "admin@estudio.com", Password: "secreto123"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])

		data := body["data"].(map[string]interface{})
		assert.NotEmpty(t, data["token"])
		user := data["user"].(map[string]interface{})
		assert.Equal(t, "admin@estudio.com", user["email"])
		assert.Nil(t, user["password"], "hash must never leave the server")
	})
}

func TestProtectedRoutes(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@estudio.com", "secreto123", models.RoleAdmin)

	t.Run("missing token", func(t *testing.T) {
		resp, body := env.request(t, http.MethodGet, "/api/admin/dashboard", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, false, body["success"])
	})

	t.Run("forged token", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodGet, "/api/admin/dashboard", "eyJ.forged.token", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token reaches the dashboard", func(t *testing.T) {
		token := env.login(t, "admin@estudio.com", "secreto123")
		resp, body := env.request(t, http.MethodGet, "/api/dashboard", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])

		resp, _ = env.request(t, http.MethodGet, "/api/admin/dashboard", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "prefixed form keeps working")
	})

	t.Run("revoked session is rejected despite valid signature", func(t *testing.T) {
		token := env.login(t, "admin@estudio.com", "secreto123")

		resp, _ := env.request(t, http.MethodPost, "/api/auth/logout", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body := env.request(t, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Sesión inválida o expirada", errorMessage(body))
	})
}

func TestRoleGates(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "editor@estudio.com", "secreto123", models.RoleEditor)
	token := env.login(t, "editor@estudio.com", "secreto123")

	t.Run("editor can manage content", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodPut, "/api/content/home.hero", token,
			dto.UpsertContentRequest{Key: "home.hero", Title: "Hola", Body: "Texto"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("editor cannot touch settings", func(t *testing.T) {
		resp, body := env.request(t, http.MethodPut, "/api/settings/site.title", token,
			dto.SettingRequest{Value: "Estudio"})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "Acceso denegado", errorMessage(body))
	})

	t.Run("editor cannot read the audit trail", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodGet, "/api/activity", token, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestChangePasswordEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@estudio.com", "secreto123", models.RoleAdmin)
	token := env.login(t, "admin@estudio.com", "secreto123")

	resp, body := env.request(t, http.MethodPut, "/api/auth/change-password", token,
		dto.ChangePasswordRequest{CurrentPassword: "secreto123", NewPassword: "nuevoSecreto456"})
	require.Equal(t, http.StatusOK, resp.StatusCode, "%v", body)

	t.Run("every session is revoked", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("new password logs in", func(t *testing.T) {
		env.login(t, "admin@estudio.com", "nuevoSecreto456")
	})
}

func TestFeaturedAuctionsCap(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@estudio.com", "secreto123", models.RoleAdmin)
	token := env.login(t, "admin@estudio.com", "secreto123")

	ids := make([]uuid.UUID, 0, 4)
	for _, title := range []string{"Campo", "Casa", "Galpón", "Lote urbano"} {
		resp, body := env.request(t, http.MethodPost, "/api/auctions", token,
			dto.CreateAuctionRequest{Title: title, Status: models.AuctionPublished})
		require.Equal(t, http.StatusCreated, resp.StatusCode, "%v", body)
		data := body["data"].(map[string]interface{})
		ids = append(ids, uuid.MustParse(data["id"].(string)))
	}

	t.Run("four is over the limit", func(t *testing.T) {
		resp, body := env.request(t, http.MethodPut, "/api/auctions/featured/update", token,
			dto.FeaturedRequest{IDs: ids})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Solo se pueden destacar hasta 3 subastas", errorMessage(body))
	})

	t.Run("three pass", func(t *testing.T) {
		resp, body := env.request(t, http.MethodPut, "/api/auctions/featured/update", token,
			dto.FeaturedRequest{IDs: ids[:3]})
		require.Equal(t, http.StatusOK, resp.StatusCode, "%v", body)
	})
}

func TestPublicSurface(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@estudio.com", "secreto123", models.RoleAdmin)
	token := env.login(t, "admin@estudio.com", "secreto123")

	// One published, one draft.
	resp, body := env.request(t, http.MethodPost, "/api/auctions", token,
		dto.CreateAuctionRequest{Title: "Publicada", Status: models.AuctionPublished})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%v", body)
	resp, _ = env.request(t, http.MethodPost, "/api/auctions", token,
		dto.CreateAuctionRequest{Title: "Borrador"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("drafts never leak", func(t *testing.T) {
		resp, body := env.request(t, http.MethodGet, "/api/public/auctions", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		rows := body["data"].([]interface{})
		require.Len(t, rows, 1)
		first := rows[0].(map[string]interface{})
		assert.Equal(t, "Publicada", first["title"])

		meta := body["meta"].(map[string]interface{})
		assert.EqualValues(t, 1, meta["total"])
	})

	t.Run("newsletter subscribe is open", func(t *testing.T) {
		resp, body := env.request(t, http.MethodPost, "/api/public/newsletter/subscribe", "",
			dto.SubscribeRequest{Email: "cliente@gmail.com"})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, true, body["success"])
	})

	t.Run("health check", func(t *testing.T) {
		resp, body := env.request(t, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok", body["status"])

		resp, _ = env.request(t, http.MethodGet, "/api/health", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestLoginRateLimit(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@estudio.com", "secreto123", models.RoleAdmin)

	var last int
	for i := 0; i < 6; i++ {
		resp, _ := env.request(t, http.MethodPost, "/api/auth/login", "",
			dto.LoginRequest{Email: "admin@estudio.com", Password: "mala"})
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last, "sixth attempt inside the window must be throttled")
}

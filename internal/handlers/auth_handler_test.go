package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/seatswap/seatswap-backend/internal/apps"
	"github.com/seatswap/seatswap-backend/internal/apps/ai"
	"github.com/seatswap/seatswap-backend/internal/apps/analytics"
	"github.com/seatswap/seatswap-backend/internal/apps/listings"
	"github.com/seatswap/seatswap-backend/internal/apps/tickets"
	"github.com/seatswap/seatswap-backend/internal/config"
	"github.com/seatswap/seatswap-backend/internal/database"
	"github.com/seatswap/seatswap-backend/internal/handlers"
	"github.com/seatswap/seatswap-backend/internal/models"
	"github.com/seatswap/seatswap-backend/internal/routes"
	"github.com/seatswap/seatswap-backend/internal/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}))

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
		CookieSecure:     false,
	}

	plugins := []apps.Plugin{tickets.New(), listings.New(), analytics.New(), ai.New()}
	for _, p := range plugins {
		require.NoError(t, database.MigrateModels(db, p.Models()))
	}

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)

	app := fiber.New()
	routes.Setup(app, cfg, db,
		handlers.NewAuthHandler(authService, cfg),
		handlers.NewUserHandler(userService),
		handlers.NewHealthHandler(db),
		plugins,
	)
	return app, db
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		Role:     "user",
	}).Error)
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func refreshCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == handlers.RefreshCookieName {
			return c
		}
	}
	t.Fatal("refresh cookie not set")
	return nil
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// Full session lifecycle: login, refresh with the cookie, logout, then the
// revoked cookie is rejected.
func TestSessionLifecycle(t *testing.T) {
	app, db := newTestApp(t)
	seedUser(t, db, "testuser@example.com", "testpass123")

	// Login
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "testuser@example.com",
		"password": "testpass123",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.NotEmpty(t, body["access_token"])
	require.Equal(t, "bearer", body["token_type"])

	cookie := refreshCookie(t, resp)
	require.True(t, cookie.HttpOnly)
	require.NotEmpty(t, cookie.Value)

	// The refresh token never appears in the response body.
	require.Nil(t, body["refresh_token"])

	// Refresh
	req := jsonRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body = decodeBody(t, resp)
	require.NotEmpty(t, body["access_token"])

	rotated := refreshCookie(t, resp)
	require.NotEqual(t, cookie.Value, rotated.Value)

	// The pre-rotation cookie is already dead.
	req = jsonRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Logout with the rotated cookie
	req = jsonRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(rotated)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Logged out", decodeBody(t, resp)["message"])

	// Refresh with the revoked cookie fails.
	req = jsonRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(rotated)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app, db := newTestApp(t)
	seedUser(t, db, "testuser@example.com", "testpass123")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "testuser@example.com",
		"password": "wrong-pass",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutWithoutCookieStillSucceeds(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/logout", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Logged out", decodeBody(t, resp)["message"])
}

func TestRefreshWithoutCookieFails(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/refresh", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// The access token from login opens the JWT-protected surface.
func TestAccessTokenOpensProtectedRoutes(t *testing.T) {
	app, db := newTestApp(t)
	seedUser(t, db, "testuser@example.com", "testpass123")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "testuser@example.com",
		"password": "testpass123",
	}))
	require.NoError(t, err)
	accessToken, _ := decodeBody(t, resp)["access_token"].(string)
	require.NotEmpty(t, accessToken)

	req := jsonRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "testuser@example.com", decodeBody(t, resp)["email"])

	// No token, no entry.
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/users/me", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", decodeBody(t, resp)["status"])
}

package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/seatswap/seatswap-backend/internal/config"
	"github.com/seatswap/seatswap-backend/internal/dto"
	"github.com/seatswap/seatswap-backend/internal/services"
)

// RefreshCookieName is the cookie carrying the opaque refresh token.
const RefreshCookieName = "refresh_token"

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, refreshToken, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	h.setRefreshCookie(c, refreshToken)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, refreshToken, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("login failed", "action", "login", "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	h.setRefreshCookie(c, refreshToken)
	return c.JSON(resp)
}

// Refresh exchanges the cookie-borne refresh token for a new access token.
// The rotated refresh token replaces the cookie.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	raw := c.Cookies(RefreshCookieName)
	if raw == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid or expired refresh token",
		})
	}

	resp, refreshToken, err := h.authService.Refresh(raw)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrExpiredToken) {
			h.clearRefreshCookie(c)
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid or expired refresh token",
			})
		}
		slog.Error("refresh failed", "action", "refresh", "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	resp.User = nil
	h.setRefreshCookie(c, refreshToken)
	return c.JSON(resp)
}

// Logout always reports success: revoking an already-absent token is a
// no-op, not an error.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if raw := c.Cookies(RefreshCookieName); raw != "" {
		if err := h.authService.Logout(raw); err != nil {
			slog.Error("logout failed", "action", "logout", "error", err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to logout",
			})
		}
	}

	h.clearRefreshCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/api/auth",
		Domain:   h.cfg.CookieDomain,
		MaxAge:   int(h.cfg.JWTRefreshExpiry.Seconds()),
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/api/auth",
		Domain:   h.cfg.CookieDomain,
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

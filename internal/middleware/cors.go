package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/seatswap/seatswap-backend/internal/config"
)

func CORS(cfg *config.Config) fiber.Handler {
	// Credentials are required for the refresh cookie, but the CORS spec
	// forbids combining them with a wildcard origin.
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, OPTIONS",
		AllowCredentials: cfg.CORSOrigins != "*",
	})
}

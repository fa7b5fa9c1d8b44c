package apps

import (
	"github.com/gofiber/fiber/v2"
	"github.com/seatswap/seatswap-backend/internal/config"
	"gorm.io/gorm"
)

// Plugin is one product area (tickets, listings, analytics, ai).
type Plugin interface {
	// ID returns the unique plugin identifier.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts the plugin's routes on the given Fiber group.
	// The group is already prefixed with /api and has JWT middleware applied.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// AdminPlugin extends Plugin with admin-only route registration. The group
// has both JWT and Admin middleware applied.
type AdminPlugin interface {
	Plugin

	RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

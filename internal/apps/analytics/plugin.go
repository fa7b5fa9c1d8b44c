package analytics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/seatswap/seatswap-backend/internal/config"
	"gorm.io/gorm"
)

// AnalyticsPlugin has no tables of its own; it aggregates over listings.
type AnalyticsPlugin struct{}

func New() *AnalyticsPlugin {
	return &AnalyticsPlugin{}
}

func (p *AnalyticsPlugin) ID() string { return "analytics" }

func (p *AnalyticsPlugin) Models() []interface{} { return nil }

func (p *AnalyticsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewAnalyticsService(db)
	handler := NewAnalyticsHandler(svc)

	router.Get("/analytics/overview", handler.Overview)
	router.Get("/analytics/price-trends", handler.PriceTrends)
}

func (p *AnalyticsPlugin) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewAnalyticsService(db)
	handler := NewAnalyticsHandler(svc)

	router.Get("/analytics/marketplace", handler.Marketplace)
}

package listings

import (
	"github.com/gofiber/fiber/v2"
	"github.com/seatswap/seatswap-backend/internal/config"
	"gorm.io/gorm"
)

type ListingsPlugin struct{}

func New() *ListingsPlugin {
	return &ListingsPlugin{}
}

func (p *ListingsPlugin) ID() string { return "listings" }

func (p *ListingsPlugin) Models() []interface{} {
	return []interface{}{
		&Listing{},
	}
}

func (p *ListingsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewListingService(db)
	handler := NewListingHandler(svc)

	router.Post("/listings", handler.Create)
	router.Get("/listings", handler.Browse)
	router.Get("/listings/mine", handler.Mine)
	router.Get("/listings/:id", handler.Get)
	router.Put("/listings/:id", handler.Update)
	router.Post("/listings/:id/sold", handler.MarkSold)
	router.Post("/listings/:id/cancel", handler.Cancel)
}

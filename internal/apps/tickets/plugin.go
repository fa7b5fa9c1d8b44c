package tickets

import (
	"github.com/gofiber/fiber/v2"
	"github.com/seatswap/seatswap-backend/internal/config"
	"gorm.io/gorm"
)

type TicketsPlugin struct{}

func New() *TicketsPlugin {
	return &TicketsPlugin{}
}

func (p *TicketsPlugin) ID() string { return "tickets" }

func (p *TicketsPlugin) Models() []interface{} {
	return []interface{}{
		&SeasonTicket{},
	}
}

func (p *TicketsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewTicketService(db)
	handler := NewTicketHandler(svc)

	router.Post("/tickets", handler.Create)
	router.Get("/tickets", handler.List)
	router.Get("/tickets/:id", handler.Get)
	router.Put("/tickets/:id", handler.Update)
	router.Delete("/tickets/:id", handler.Delete)
}

package ai

import (
	"github.com/gofiber/fiber/v2"
	"github.com/seatswap/seatswap-backend/internal/config"
	"gorm.io/gorm"
)

type AIPlugin struct{}

func New() *AIPlugin {
	return &AIPlugin{}
}

func (p *AIPlugin) ID() string { return "ai" }

func (p *AIPlugin) Models() []interface{} {
	return []interface{}{
		&PricePrediction{},
		&AutomationRule{},
	}
}

func (p *AIPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewAIService(db, cfg)
	handler := NewAIHandler(svc)

	router.Post("/ai/price-prediction", handler.PredictPrice)
	router.Post("/ai/chat", handler.Chat)
	router.Post("/ai/automation/rules", handler.CreateRule)
	router.Get("/ai/automation/rules", handler.ListRules)
	router.Put("/ai/automation/rules/:id/toggle", handler.ToggleRule)
	router.Delete("/ai/automation/rules/:id", handler.DeleteRule)
}

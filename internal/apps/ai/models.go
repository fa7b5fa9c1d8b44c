package ai

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Prediction sources.
const (
	SourceGLM       = "glm"
	SourceDeepSeek  = "deepseek"
	SourceHeuristic = "heuristic"
)

// Automation rule types.
const (
	RuleAutoReprice = "auto_reprice"
	RuleAutoRelist  = "auto_relist"
)

// PricePrediction is one stored pricing suggestion.
type PricePrediction struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ListingID      *uuid.UUID     `gorm:"type:uuid;index" json:"listing_id,omitempty"`
	SuggestedPrice float64        `gorm:"not null" json:"suggested_price"`
	Confidence     float64        `json:"confidence"`
	Source         string         `gorm:"size:20;not null" json:"source"`
	Factors        datatypes.JSON `gorm:"type:jsonb" json:"factors"`
	CreatedAt      time.Time      `json:"created_at"`
}

// AutomationRule is a stored (not yet executed) pricing automation.
type AutomationRule struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ListingID uuid.UUID      `gorm:"type:uuid;not null;index" json:"listing_id"`
	Type      string         `gorm:"size:30;not null" json:"type"`
	Params    datatypes.JSON `gorm:"type:jsonb" json:"params"`
	Enabled   bool           `gorm:"default:true" json:"enabled"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// --- DTOs ---

type PredictionRequest struct {
	ListingID *uuid.UUID `json:"listing_id"`
	FaceValue float64    `json:"face_value"`
	Section   string     `json:"section"`
	EventDate time.Time  `json:"event_date"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
}

type CreateRuleRequest struct {
	ListingID uuid.UUID      `json:"listing_id"`
	Type      string         `json:"type"`
	Params    map[string]any `json:"params"`
}

package tickets

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeasonTicket is a holder's season package for one seat.
type SeasonTicket struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Team       string         `gorm:"size:100;not null" json:"team"`
	Venue      string         `gorm:"size:100;not null" json:"venue"`
	Section    string         `gorm:"size:20;not null;index" json:"section"`
	Row        string         `gorm:"size:10" json:"row"`
	Seat       string         `gorm:"size:10" json:"seat"`
	Season     string         `gorm:"size:20;not null" json:"season"`
	GamesTotal int            `gorm:"default:0" json:"games_total"`
	FaceValue  float64        `gorm:"not null" json:"face_value"`
	Notes      string         `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// --- DTOs ---

type CreateTicketRequest struct {
	Team       string  `json:"team"`
	Venue      string  `json:"venue"`
	Section    string  `json:"section"`
	Row        string  `json:"row"`
	Seat       string  `json:"seat"`
	Season     string  `json:"season"`
	GamesTotal int     `json:"games_total"`
	FaceValue  float64 `json:"face_value"`
	Notes      string  `json:"notes"`
}

type UpdateTicketRequest struct {
	Team       *string  `json:"team"`
	Venue      *string  `json:"venue"`
	Section    *string  `json:"section"`
	Row        *string  `json:"row"`
	Seat       *string  `json:"seat"`
	Season     *string  `json:"season"`
	GamesTotal *int     `json:"games_total"`
	FaceValue  *float64 `json:"face_value"`
	Notes      *string  `json:"notes"`
}

type TicketListResponse struct {
	Tickets []SeasonTicket `json:"tickets"`
	Total   int64          `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

package listings

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Listing statuses. active is the only non-terminal state.
const (
	StatusActive    = "active"
	StatusSold      = "sold"
	StatusCancelled = "cancelled"
)

// Listing is one game ticket offered for resale, carved out of a season
// ticket package.
type Listing struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	TicketID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"ticket_id"`
	EventName   string         `gorm:"size:200;not null" json:"event_name"`
	EventDate   time.Time      `gorm:"not null;index" json:"event_date"`
	Price       float64        `gorm:"not null" json:"price"`
	Status      string         `gorm:"size:20;not null;default:'active';index" json:"status"`
	Description string         `gorm:"type:text" json:"description"`
	SoldAt      *time.Time     `json:"sold_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// --- DTOs ---

type CreateListingRequest struct {
	TicketID    uuid.UUID `json:"ticket_id"`
	EventName   string    `json:"event_name"`
	EventDate   time.Time `json:"event_date"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
}

type UpdateListingRequest struct {
	EventName   *string    `json:"event_name"`
	EventDate   *time.Time `json:"event_date"`
	Price       *float64   `json:"price"`
	Description *string    `json:"description"`
}

type MarkSoldRequest struct {
	FinalPrice *float64 `json:"final_price"`
}

type BrowseFilter struct {
	Status   string
	MaxPrice float64
	Section  string
	Limit    int
	Offset   int
}

type ListingListResponse struct {
	Listings []Listing `json:"listings"`
	Total    int64     `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is one stored session credential. Only the SHA-256 hash of
// the opaque token is persisted; the raw value lives in the client cookie.
// A row is active iff it exists and ExpiresAt is in the future — revocation
// deletes the row.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

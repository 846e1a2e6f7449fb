package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reaction holds at most one row per (message, user); a repeated react
// by the same user updates Emoji in place.
type Reaction struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID string    `gorm:"not null;uniqueIndex:idx_message_user" json:"message_id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_message_user" json:"user_id"`
	Emoji     string    `gorm:"type:varchar(16);not null" json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

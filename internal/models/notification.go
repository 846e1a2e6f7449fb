package models

import "gorm.io/datatypes"

const (
	NotificationTypeNewMessage = "new_message"
	NotificationTypeReaction   = "reaction"
	NotificationTypeRead       = "read"
	NotificationTypeTyping     = "typing"
)

// Notification is the durable record behind every live envelope. Only
// IsSeen is ever mutated after creation (false -> true).
type Notification struct {
	BaseModel
	UserID     string         `gorm:"not null;index" json:"user_id"` // target user
	MessageID  *string        `gorm:"index" json:"message_id,omitempty"`
	ReactionID *string        `gorm:"index" json:"reaction_id,omitempty"`
	Type       string         `gorm:"not null" json:"type"`
	Data       datatypes.JSON `json:"data,omitempty"` // kind-specific payload snapshot
	IsSeen     bool           `gorm:"default:false" json:"is_seen"`
}

package relay

import (
	"context"
	"time"
)

// MessageEvent is the cross-service record of a delivered chat message.
type MessageEvent struct {
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

// Provider relays chat messages to an external bus. Relay failures are
// logged by callers and never fail the send path.
type Provider interface {
	PublishMessage(ctx context.Context, event MessageEvent) error
	Close() error
}

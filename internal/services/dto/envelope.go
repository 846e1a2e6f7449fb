package dto

import "encoding/json"

// Event kinds carried over the notification socket.
const (
	KindInitialNotifications = "initial_notifications"
	KindNewMessage           = "new_message"
	KindReaction             = "reaction"
	KindNotificationsSeen    = "notifications_seen"
)

// Envelope is a typed event addressed to a single user. The kind is
// serialized under "type" so clients can switch on it before decoding
// the rest of the frame.
type Envelope struct {
	Kind    string
	Payload map[string]any
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	frame := make(map[string]any, len(e.Payload)+1)
	for k, v := range e.Payload {
		frame[k] = v
	}
	frame["type"] = e.Kind
	return json.Marshal(frame)
}

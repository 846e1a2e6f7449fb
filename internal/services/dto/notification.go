package dto

// NotificationItem is one entry of the initial_notifications snapshot.
type NotificationItem struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	UserName    string      `json:"userName"`
	TimeAgo     string      `json:"timeAgo"`
	Unread      bool        `json:"unread"`
	Content     string      `json:"content"`
	MessageID   string      `json:"messageId"`
	ReactorData *SenderData `json:"reactor_data,omitempty"`
}

type UnseenSnapshot struct {
	UnreadCount   int64              `json:"unread_count"`
	Notifications []NotificationItem `json:"notifications"`
}

type MarkSeenRequest struct {
	NotificationIDs []string `json:"notification_ids"`
}

type MarkSeenResponse struct {
	NotificationIDs []string `json:"notification_ids"`
}

package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Nyaguthii-C/LetsChat/internal/logger"
	"github.com/Nyaguthii-C/LetsChat/internal/models"
	"github.com/Nyaguthii-C/LetsChat/internal/repositories"
	"github.com/Nyaguthii-C/LetsChat/internal/services/dto"
	"github.com/Nyaguthii-C/LetsChat/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EventPublisher pushes an envelope to every live connection of one user.
// Implemented by the websocket manager; delivery is best effort.
type EventPublisher interface {
	Publish(userID string, envelope dto.Envelope)
}

// NotificationDetail is the actor context stored alongside a notification
// so the unseen snapshot can be hydrated without re-joining message rows.
type NotificationDetail struct {
	ActorID        string `json:"actor_id"`
	ActorName      string `json:"actor_name"`
	ActorPhoto     string `json:"actor_photo,omitempty"`
	Content        string `json:"content,omitempty"`
	Emoji          string `json:"emoji,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

const unseenSnapshotLimit = 10

type NotificationService interface {
	Notify(db *gorm.DB, userID, kind string, messageID, reactionID *string, detail NotificationDetail) error
	UnseenSnapshot(db *gorm.DB, userID string) (*dto.UnseenSnapshot, error)
	ListNotifications(db *gorm.DB, userID string, seen *bool) ([]dto.NotificationItem, error)
	CountUnseen(db *gorm.DB, userID string) (int64, error)
	MarkSeen(db *gorm.DB, userID string, ids []string) ([]string, error)
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	publisher        EventPublisher
}

func NewNotificationService(notificationRepo repositories.NotificationRepository, publisher EventPublisher) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		publisher:        publisher,
	}
}

// Notify persists the notification, then fans it out to the target user's
// live connections. Persistence failure aborts the publish; publish failure
// never propagates because the row is the durable record.
func (s *NotificationServiceImpl) Notify(db *gorm.DB, userID, kind string, messageID, reactionID *string, detail NotificationDetail) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return apperrors.InternalError(err)
	}

	notification := &models.Notification{
		UserID:     userID,
		MessageID:  messageID,
		ReactionID: reactionID,
		Type:       kind,
		Data:       datatypes.JSON(data),
	}
	if err := s.notificationRepo.CreateNotification(db, notification); err != nil {
		return apperrors.DatabaseError(err, "notification", "failed to create notification")
	}

	s.publish(userID, s.liveEnvelope(notification, detail))
	return nil
}

func (s *NotificationServiceImpl) publish(userID string, envelope dto.Envelope) {
	if s.publisher == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("notification publish panicked", "user_id", userID, "panic", r)
		}
	}()
	s.publisher.Publish(userID, envelope)
}

// liveEnvelope shapes the realtime frame for a freshly created notification.
func (s *NotificationServiceImpl) liveEnvelope(n *models.Notification, detail NotificationDetail) dto.Envelope {
	switch n.Type {
	case models.NotificationTypeReaction:
		return dto.Envelope{
			Kind: dto.KindReaction,
			Payload: map[string]any{
				"message_id": deref(n.MessageID),
				"user_id":    detail.ActorID,
				"reactor_data": dto.SenderData{
					ID:           detail.ActorID,
					Name:         detail.ActorName,
					ProfilePhoto: detail.ActorPhoto,
				},
				"emoji":     detail.Emoji,
				"timestamp": n.CreatedAt.Format(time.RFC3339),
			},
		}
	case models.NotificationTypeNewMessage:
		return dto.Envelope{
			Kind: dto.KindNewMessage,
			Payload: map[string]any{
				"message_id": deref(n.MessageID),
				"sender_id":  detail.ActorID,
				"sender_data": dto.SenderData{
					ID:           detail.ActorID,
					Name:         detail.ActorName,
					ProfilePhoto: detail.ActorPhoto,
				},
				"content":         detail.Content,
				"timestamp":       n.CreatedAt.Format(time.RFC3339),
				"conversation_id": detail.ConversationID,
			},
		}
	default:
		// read and any future kinds go out under their own type.
		return dto.Envelope{
			Kind: n.Type,
			Payload: map[string]any{
				"message_id": deref(n.MessageID),
				"user_id":    detail.ActorID,
				"user_data": dto.SenderData{
					ID:           detail.ActorID,
					Name:         detail.ActorName,
					ProfilePhoto: detail.ActorPhoto,
				},
				"timestamp": n.CreatedAt.Format(time.RFC3339),
			},
		}
	}
}

// UnseenSnapshot returns the unseen count plus the most recent unseen
// notifications hydrated for display. Sent once per connection on join.
func (s *NotificationServiceImpl) UnseenSnapshot(db *gorm.DB, userID string) (*dto.UnseenSnapshot, error) {
	count, err := s.notificationRepo.CountUnseen(db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err, "notification", "failed to count unseen notifications")
	}
	notifications, err := s.notificationRepo.FindUnseen(db, userID, unseenSnapshotLimit)
	if err != nil {
		return nil, apperrors.DatabaseError(err, "notification", "failed to load unseen notifications")
	}

	snapshot := &dto.UnseenSnapshot{
		UnreadCount:   count,
		Notifications: make([]dto.NotificationItem, 0, len(notifications)),
	}
	for i := range notifications {
		snapshot.Notifications = append(snapshot.Notifications, toItem(&notifications[i]))
	}
	return snapshot, nil
}

func (s *NotificationServiceImpl) ListNotifications(db *gorm.DB, userID string, seen *bool) ([]dto.NotificationItem, error) {
	notifications, err := s.notificationRepo.FindUserNotifications(db, userID, seen)
	if err != nil {
		return nil, apperrors.DatabaseError(err, "notification", "failed to list notifications")
	}
	items := make([]dto.NotificationItem, 0, len(notifications))
	for i := range notifications {
		items = append(items, toItem(&notifications[i]))
	}
	return items, nil
}

func (s *NotificationServiceImpl) CountUnseen(db *gorm.DB, userID string) (int64, error) {
	count, err := s.notificationRepo.CountUnseen(db, userID)
	if err != nil {
		return 0, apperrors.DatabaseError(err, "notification", "failed to count unseen notifications")
	}
	return count, nil
}

// MarkSeen flips the caller's unseen notifications (all of them when ids is
// empty) and broadcasts the flipped ids so other open tabs converge. No
// broadcast happens when nothing changed.
func (s *NotificationServiceImpl) MarkSeen(db *gorm.DB, userID string, ids []string) ([]string, error) {
	flipped, err := s.notificationRepo.MarkSeen(db, userID, ids)
	if err != nil {
		return nil, apperrors.DatabaseError(err, "notification", "failed to mark notifications seen")
	}
	if len(flipped) > 0 {
		s.publish(userID, dto.Envelope{
			Kind:    dto.KindNotificationsSeen,
			Payload: map[string]any{"notification_ids": flipped},
		})
	}
	return flipped, nil
}

func toItem(n *models.Notification) dto.NotificationItem {
	var detail NotificationDetail
	if len(n.Data) > 0 {
		_ = json.Unmarshal(n.Data, &detail)
	}

	item := dto.NotificationItem{
		ID:        n.ID,
		Type:      n.Type,
		UserName:  detail.ActorName,
		TimeAgo:   timeAgo(n.CreatedAt),
		Unread:    !n.IsSeen,
		Content:   detail.Content,
		MessageID: deref(n.MessageID),
	}
	if n.Type == models.NotificationTypeReaction {
		item.Content = detail.Emoji
		item.ReactorData = &dto.SenderData{
			ID:           detail.ActorID,
			Name:         detail.ActorName,
			ProfilePhoto: detail.ActorPhoto,
		}
	}
	return item
}

// timeAgo renders a coarse relative timestamp for notification lists.
func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		m := int(d.Minutes())
		if m == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", m)
	case d < 24*time.Hour:
		h := int(d.Hours())
		if h == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", h)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

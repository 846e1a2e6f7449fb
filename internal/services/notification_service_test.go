package services

import (
	"sync"
	"testing"

	"github.com/Nyaguthii-C/LetsChat/internal/models"
	"github.com/Nyaguthii-C/LetsChat/internal/models/chat"
	"github.com/Nyaguthii-C/LetsChat/internal/repositories"
	"github.com/Nyaguthii-C/LetsChat/internal/services/dto"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingPublisher captures published envelopes per user.
type recordingPublisher struct {
	mu        sync.Mutex
	envelopes map[string][]dto.Envelope
	panicOn   bool
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{envelopes: make(map[string][]dto.Envelope)}
}

func (p *recordingPublisher) Publish(userID string, envelope dto.Envelope) {
	if p.panicOn {
		panic("publisher down")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.envelopes[userID] = append(p.envelopes[userID], envelope)
}

func (p *recordingPublisher) published(userID string) []dto.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]dto.Envelope(nil), p.envelopes[userID]...)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&chat.Conversation{},
		&chat.ConversationParticipant{},
		&chat.Message{},
		&chat.Reaction{},
		&models.Notification{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, name string) *models.User {
	t.Helper()
	user := &models.User{Email: email, FullName: name, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestNotifyPersistsThenPublishes(t *testing.T) {
	db := setupTestDB(t)
	publisher := newRecordingPublisher()
	svc := NewNotificationService(repositories.NewNotificationRepository(), publisher)

	alice := createTestUser(t, db, "alice@example.com", "Alice")
	messageID := "msg-1"

	err := svc.Notify(db, alice.ID, models.NotificationTypeNewMessage, &messageID, nil, NotificationDetail{
		ActorID:   "bob-id",
		ActorName: "Bob",
		Content:   "hey",
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", alice.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	published := publisher.published(alice.ID)
	require.Len(t, published, 1)
	assert.Equal(t, dto.KindNewMessage, published[0].Kind)
	assert.Equal(t, "msg-1", published[0].Payload["message_id"])
	assert.Equal(t, "hey", published[0].Payload["content"])
}

func TestNotifyReadReceiptKeepsItsKind(t *testing.T) {
	db := setupTestDB(t)
	publisher := newRecordingPublisher()
	svc := NewNotificationService(repositories.NewNotificationRepository(), publisher)

	alice := createTestUser(t, db, "alice@example.com", "Alice")
	messageID := "msg-1"

	err := svc.Notify(db, alice.ID, models.NotificationTypeRead, &messageID, nil, NotificationDetail{
		ActorID:   "bob-id",
		ActorName: "Bob",
	})
	require.NoError(t, err)

	published := publisher.published(alice.ID)
	require.Len(t, published, 1)
	assert.Equal(t, models.NotificationTypeRead, published[0].Kind)
	assert.Equal(t, "msg-1", published[0].Payload["message_id"])
}

func TestNotifySurvivesPublisherPanic(t *testing.T) {
	db := setupTestDB(t)
	publisher := newRecordingPublisher()
	publisher.panicOn = true
	svc := NewNotificationService(repositories.NewNotificationRepository(), publisher)

	alice := createTestUser(t, db, "alice@example.com", "Alice")

	err := svc.Notify(db, alice.ID, models.NotificationTypeNewMessage, nil, nil, NotificationDetail{ActorName: "Bob"})
	require.NoError(t, err)

	// The row is the durable record even when the fanout blew up.
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", alice.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUnseenSnapshotShape(t *testing.T) {
	db := setupTestDB(t)
	publisher := newRecordingPublisher()
	svc := NewNotificationService(repositories.NewNotificationRepository(), publisher)

	alice := createTestUser(t, db, "alice@example.com", "Alice")
	messageID := "msg-1"

	for i := 0; i < 12; i++ {
		require.NoError(t, svc.Notify(db, alice.ID, models.NotificationTypeNewMessage, &messageID, nil, NotificationDetail{
			ActorID:   "bob-id",
			ActorName: "Bob",
			Content:   "hello",
		}))
	}
	reactionID := "reaction-1"
	require.NoError(t, svc.Notify(db, alice.ID, models.NotificationTypeReaction, &messageID, &reactionID, NotificationDetail{
		ActorID:   "bob-id",
		ActorName: "Bob",
		Emoji:     "👍",
	}))

	snapshot, err := svc.UnseenSnapshot(db, alice.ID)
	require.NoError(t, err)

	// Count covers everything unseen, the list is capped.
	assert.EqualValues(t, 13, snapshot.UnreadCount)
	assert.Len(t, snapshot.Notifications, 10)

	var sawReaction bool
	for _, item := range snapshot.Notifications {
		assert.True(t, item.Unread)
		assert.Equal(t, "Bob", item.UserName)
		assert.NotEmpty(t, item.TimeAgo)
		if item.Type == models.NotificationTypeReaction {
			sawReaction = true
			require.NotNil(t, item.ReactorData)
			assert.Equal(t, "bob-id", item.ReactorData.ID)
			assert.Equal(t, "👍", item.Content)
		}
	}
	assert.True(t, sawReaction)
}

func TestMarkSeenPublishesOnlyOnChange(t *testing.T) {
	db := setupTestDB(t)
	publisher := newRecordingPublisher()
	svc := NewNotificationService(repositories.NewNotificationRepository(), publisher)

	alice := createTestUser(t, db, "alice@example.com", "Alice")
	require.NoError(t, svc.Notify(db, alice.ID, models.NotificationTypeNewMessage, nil, nil, NotificationDetail{ActorName: "Bob"}))

	before := len(publisher.published(alice.ID))

	flipped, err := svc.MarkSeen(db, alice.ID, nil)
	require.NoError(t, err)
	require.Len(t, flipped, 1)

	published := publisher.published(alice.ID)
	require.Len(t, published, before+1)
	seen := published[len(published)-1]
	assert.Equal(t, dto.KindNotificationsSeen, seen.Kind)
	assert.Equal(t, flipped, seen.Payload["notification_ids"])

	// Nothing left to flip: no frame goes out.
	flipped, err = svc.MarkSeen(db, alice.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, flipped)
	assert.Len(t, publisher.published(alice.ID), before+1)
}

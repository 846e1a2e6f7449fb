package repositories

import (
	"errors"

	"github.com/Nyaguthii-C/LetsChat/internal/models/chat"

	"gorm.io/gorm"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrReactionNotFound     = errors.New("reaction not found")
)

type ChatRepository interface {
	// Conversation operations
	CreateConversation(db *gorm.DB, conversation *chat.Conversation, participantIDs []string) error
	FindConversationByID(db *gorm.DB, id string) (*chat.Conversation, error)
	FindConversationBetweenUsers(db *gorm.DB, user1ID, user2ID string) (*chat.Conversation, error)
	FindUserConversations(db *gorm.DB, userID string) ([]chat.Conversation, error)
	IsParticipant(db *gorm.DB, conversationID, userID string) (bool, error)

	// Message operations
	CreateMessage(db *gorm.DB, message *chat.Message) error
	FindMessageByID(db *gorm.DB, id string) (*chat.Message, error)
	UpdateMessageContent(db *gorm.DB, messageID, content string) error
	MarkMessageRead(db *gorm.DB, messageID string) error
	DeleteMessage(db *gorm.DB, messageID string) error

	// Reaction operations
	UpsertReaction(db *gorm.DB, messageID, userID, emoji string) (*chat.Reaction, bool, error)
	FindReaction(db *gorm.DB, messageID, userID string) (*chat.Reaction, error)
	RemoveReaction(db *gorm.DB, messageID, userID string) error
	FindReactionsByMessage(db *gorm.DB, messageID string) ([]chat.Reaction, error)
}

type ChatRepositoryImpl struct{}

func NewChatRepository() ChatRepository {
	return &ChatRepositoryImpl{}
}

// --- Conversation operations ---

func (r *ChatRepositoryImpl) CreateConversation(db *gorm.DB, conversation *chat.Conversation, participantIDs []string) error {
	if err := db.Create(conversation).Error; err != nil {
		return err
	}
	for _, userID := range participantIDs {
		participant := &chat.ConversationParticipant{
			ConversationID: conversation.ID,
			UserID:         userID,
		}
		if err := db.Create(participant).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *ChatRepositoryImpl) FindConversationByID(db *gorm.DB, id string) (*chat.Conversation, error) {
	var conversation chat.Conversation
	err := db.
		Preload("Participants").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.created_at")
		}).
		First(&conversation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *ChatRepositoryImpl) FindConversationBetweenUsers(db *gorm.DB, user1ID, user2ID string) (*chat.Conversation, error) {
	var conversation chat.Conversation
	err := db.
		Joins("JOIN conversation_participants p1 ON p1.conversation_id = conversations.id AND p1.user_id = ?", user1ID).
		Joins("JOIN conversation_participants p2 ON p2.conversation_id = conversations.id AND p2.user_id = ?", user2ID).
		Preload("Participants").
		First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *ChatRepositoryImpl) FindUserConversations(db *gorm.DB, userID string) ([]chat.Conversation, error) {
	var conversations []chat.Conversation
	err := db.
		Joins("JOIN conversation_participants p ON p.conversation_id = conversations.id AND p.user_id = ?", userID).
		Preload("Participants").
		Order("conversations.created_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *ChatRepositoryImpl) IsParticipant(db *gorm.DB, conversationID, userID string) (bool, error) {
	var count int64
	err := db.Model(&chat.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	return count > 0, err
}

// --- Message operations ---

func (r *ChatRepositoryImpl) CreateMessage(db *gorm.DB, message *chat.Message) error {
	return db.Create(message).Error
}

func (r *ChatRepositoryImpl) FindMessageByID(db *gorm.DB, id string) (*chat.Message, error) {
	var message chat.Message
	if err := db.First(&message, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

func (r *ChatRepositoryImpl) UpdateMessageContent(db *gorm.DB, messageID, content string) error {
	return db.Model(&chat.Message{}).
		Where("id = ?", messageID).
		Update("content", content).Error
}

func (r *ChatRepositoryImpl) MarkMessageRead(db *gorm.DB, messageID string) error {
	return db.Model(&chat.Message{}).
		Where("id = ?", messageID).
		Update("is_read", true).Error
}

func (r *ChatRepositoryImpl) DeleteMessage(db *gorm.DB, messageID string) error {
	if err := db.Delete(&chat.Reaction{}, "message_id = ?", messageID).Error; err != nil {
		return err
	}
	return db.Delete(&chat.Message{}, "id = ?", messageID).Error
}

// --- Reaction operations ---

// UpsertReaction enforces the one-reaction-per-(message,user) invariant:
// a second react by the same user updates the emoji on the existing row.
// The bool result reports whether a new row was created.
func (r *ChatRepositoryImpl) UpsertReaction(db *gorm.DB, messageID, userID, emoji string) (*chat.Reaction, bool, error) {
	var existing chat.Reaction
	err := db.First(&existing, "message_id = ? AND user_id = ?", messageID, userID).Error

	if err == nil {
		if existing.Emoji != emoji {
			if err := db.Model(&existing).Update("emoji", emoji).Error; err != nil {
				return nil, false, err
			}
			existing.Emoji = emoji
		}
		return &existing, false, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	reaction := &chat.Reaction{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
	}
	if err := db.Create(reaction).Error; err != nil {
		return nil, false, err
	}
	return reaction, true, nil
}

func (r *ChatRepositoryImpl) FindReaction(db *gorm.DB, messageID, userID string) (*chat.Reaction, error) {
	var reaction chat.Reaction
	if err := db.First(&reaction, "message_id = ? AND user_id = ?", messageID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReactionNotFound
		}
		return nil, err
	}
	return &reaction, nil
}

// RemoveReaction is a hard delete, not a soft flag.
func (r *ChatRepositoryImpl) RemoveReaction(db *gorm.DB, messageID, userID string) error {
	result := db.Delete(&chat.Reaction{}, "message_id = ? AND user_id = ?", messageID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReactionNotFound
	}
	return nil
}

func (r *ChatRepositoryImpl) FindReactionsByMessage(db *gorm.DB, messageID string) ([]chat.Reaction, error) {
	var reactions []chat.Reaction
	if err := db.Where("message_id = ?", messageID).Order("created_at").Find(&reactions).Error; err != nil {
		return nil, err
	}
	return reactions, nil
}

package services

import (
	"context"
	"time"

	"github.com/Nyaguthii-C/LetsChat/internal/logger"
	"github.com/Nyaguthii-C/LetsChat/internal/models"
	"github.com/Nyaguthii-C/LetsChat/internal/models/chat"
	"github.com/Nyaguthii-C/LetsChat/internal/relay"
	"github.com/Nyaguthii-C/LetsChat/internal/repositories"
	"github.com/Nyaguthii-C/LetsChat/internal/services/dto"
	"github.com/Nyaguthii-C/LetsChat/pkg/apperrors"

	"gorm.io/gorm"
)

type ChatService interface {
	SendMessage(db *gorm.DB, senderID string, req dto.SendMessageRequest) (*dto.MessageResponse, error)
	UpdateMessage(db *gorm.DB, userID, messageID, content string) (*dto.MessageResponse, error)
	DeleteMessage(db *gorm.DB, userID, messageID string) error
	MarkMessageRead(db *gorm.DB, userID, messageID string) error
	AddReaction(db *gorm.DB, userID, messageID, emoji string) (*dto.ReactionResponse, error)
	RemoveReaction(db *gorm.DB, userID, messageID string) error
	GetConversation(db *gorm.DB, userID, conversationID string) (*dto.ConversationResponse, error)
	ListConversations(db *gorm.DB, userID string) ([]dto.ConversationResponse, error)
	GetConversationWithUser(db *gorm.DB, userID, otherEmail string) (*dto.ConversationResponse, error)
}

type ChatServiceImpl struct {
	chatRepo            repositories.ChatRepository
	userRepo            repositories.UserRepository
	notificationService NotificationService
	relayProvider       relay.Provider
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
	relayProvider relay.Provider,
) ChatService {
	return &ChatServiceImpl{
		chatRepo:            chatRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		relayProvider:       relayProvider,
	}
}

// SendMessage delivers a message into the conversation between sender and
// receiver, creating the conversation on first contact. The relay publish
// and the receiver notification happen only after the message commits.
func (s *ChatServiceImpl) SendMessage(db *gorm.DB, senderID string, req dto.SendMessageRequest) (*dto.MessageResponse, error) {
	sender, err := s.userRepo.FindByID(db, senderID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	receiver, err := s.userRepo.FindByEmail(db, req.ReceiverEmail)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	if sender.ID == receiver.ID {
		return nil, apperrors.ErrSelfMessage
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.DatabaseError(tx.Error, "chat", "failed to begin transaction")
	}
	defer tx.Rollback()

	conversation, err := s.chatRepo.FindConversationBetweenUsers(tx, sender.ID, receiver.ID)
	if err != nil {
		if err != repositories.ErrConversationNotFound {
			return nil, apperrors.DatabaseError(err, "chat", "failed to look up conversation")
		}
		conversation = &chat.Conversation{}
		if err := s.chatRepo.CreateConversation(tx, conversation, []string{sender.ID, receiver.ID}); err != nil {
			return nil, apperrors.DatabaseError(err, "chat", "failed to create conversation")
		}
	}

	message := &chat.Message{
		ConversationID: conversation.ID,
		SenderID:       sender.ID,
		ReceiverID:     receiver.ID,
		Content:        req.Content,
	}
	if err := s.chatRepo.CreateMessage(tx, message); err != nil {
		return nil, apperrors.DatabaseError(err, "chat", "failed to create message")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DatabaseError(err, "chat", "failed to commit message")
	}

	s.relayMessage(message)

	if err := s.notificationService.Notify(db, receiver.ID, models.NotificationTypeNewMessage, &message.ID, nil, NotificationDetail{
		ActorID:        sender.ID,
		ActorName:      sender.FullName,
		ActorPhoto:     sender.ProfilePhoto,
		Content:        message.Content,
		ConversationID: message.ConversationID,
	}); err != nil {
		logger.Error("failed to notify message receiver", "message_id", message.ID, "error", err)
	}

	resp := dto.ToMessageResponse(message)
	return &resp, nil
}

func (s *ChatServiceImpl) relayMessage(message *chat.Message) {
	if s.relayProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.relayProvider.PublishMessage(ctx, relay.MessageEvent{
		MessageID:      message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		ReceiverID:     message.ReceiverID,
		Content:        message.Content,
		Timestamp:      message.CreatedAt,
	})
	if err != nil {
		logger.Error("failed to relay message", "message_id", message.ID, "error", err)
	}
}

// UpdateMessage edits message content. Only the sender may edit.
func (s *ChatServiceImpl) UpdateMessage(db *gorm.DB, userID, messageID, content string) (*dto.MessageResponse, error) {
	message, err := s.chatRepo.FindMessageByID(db, messageID)
	if err != nil {
		return nil, apperrors.ErrMessageNotFound
	}
	if message.SenderID != userID {
		return nil, apperrors.ErrNotMessageSender
	}
	if err := s.chatRepo.UpdateMessageContent(db, messageID, content); err != nil {
		return nil, apperrors.DatabaseError(err, "chat", "failed to update message")
	}
	message.Content = content
	resp := dto.ToMessageResponse(message)
	return &resp, nil
}

// DeleteMessage removes a message. Only the sender may delete.
func (s *ChatServiceImpl) DeleteMessage(db *gorm.DB, userID, messageID string) error {
	message, err := s.chatRepo.FindMessageByID(db, messageID)
	if err != nil {
		return apperrors.ErrMessageNotFound
	}
	if message.SenderID != userID {
		return apperrors.ErrNotMessageSender
	}
	if err := s.chatRepo.DeleteMessage(db, messageID); err != nil {
		return apperrors.DatabaseError(err, "chat", "failed to delete message")
	}
	return nil
}

// MarkMessageRead flips the read flag, receiver only. The sender is told
// through a read notification; an already-read message is a silent no-op.
func (s *ChatServiceImpl) MarkMessageRead(db *gorm.DB, userID, messageID string) error {
	message, err := s.chatRepo.FindMessageByID(db, messageID)
	if err != nil {
		return apperrors.ErrMessageNotFound
	}
	if message.ReceiverID != userID {
		return apperrors.ErrNotMessageReceiver
	}
	if message.IsRead {
		return nil
	}
	if err := s.chatRepo.MarkMessageRead(db, messageID); err != nil {
		return apperrors.DatabaseError(err, "chat", "failed to mark message read")
	}

	reader, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		logger.Warn("reader not found for read notification", "user_id", userID)
		return nil
	}
	if err := s.notificationService.Notify(db, message.SenderID, models.NotificationTypeRead, &message.ID, nil, NotificationDetail{
		ActorID:    reader.ID,
		ActorName:  reader.FullName,
		ActorPhoto: reader.ProfilePhoto,
	}); err != nil {
		logger.Error("failed to notify sender of read receipt", "message_id", message.ID, "error", err)
	}
	return nil
}

// AddReaction upserts the caller's reaction on a message. A notification
// goes to the other participant only when a new reaction row was created;
// changing the emoji stays silent, and the reactor never notifies themself.
func (s *ChatServiceImpl) AddReaction(db *gorm.DB, userID, messageID, emoji string) (*dto.ReactionResponse, error) {
	message, err := s.chatRepo.FindMessageByID(db, messageID)
	if err != nil {
		return nil, apperrors.ErrMessageNotFound
	}
	if message.SenderID != userID && message.ReceiverID != userID {
		return nil, apperrors.ErrNotParticipant
	}

	reaction, created, err := s.chatRepo.UpsertReaction(db, messageID, userID, emoji)
	if err != nil {
		return nil, apperrors.DatabaseError(err, "chat", "failed to save reaction")
	}

	if created {
		target := message.SenderID
		if target == userID {
			target = message.ReceiverID
		}
		reactor, err := s.userRepo.FindByID(db, userID)
		if err == nil && target != userID {
			if err := s.notificationService.Notify(db, target, models.NotificationTypeReaction, &message.ID, &reaction.ID, NotificationDetail{
				ActorID:    reactor.ID,
				ActorName:  reactor.FullName,
				ActorPhoto: reactor.ProfilePhoto,
				Emoji:      emoji,
			}); err != nil {
				logger.Error("failed to notify reaction target", "message_id", message.ID, "error", err)
			}
		}
	}

	resp := dto.ToReactionResponse(reaction)
	return &resp, nil
}

func (s *ChatServiceImpl) RemoveReaction(db *gorm.DB, userID, messageID string) error {
	if err := s.chatRepo.RemoveReaction(db, messageID, userID); err != nil {
		if err == repositories.ErrReactionNotFound {
			return apperrors.ErrReactionNotFound
		}
		return apperrors.DatabaseError(err, "chat", "failed to remove reaction")
	}
	return nil
}

func (s *ChatServiceImpl) GetConversation(db *gorm.DB, userID, conversationID string) (*dto.ConversationResponse, error) {
	ok, err := s.chatRepo.IsParticipant(db, conversationID, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err, "chat", "failed to check participation")
	}
	if !ok {
		return nil, apperrors.ErrNotParticipant
	}
	conversation, err := s.chatRepo.FindConversationByID(db, conversationID)
	if err != nil {
		return nil, apperrors.ErrConversationNotFound
	}
	return s.toConversationResponse(db, conversation, true), nil
}

func (s *ChatServiceImpl) ListConversations(db *gorm.DB, userID string) ([]dto.ConversationResponse, error) {
	conversations, err := s.chatRepo.FindUserConversations(db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err, "chat", "failed to list conversations")
	}
	responses := make([]dto.ConversationResponse, 0, len(conversations))
	for i := range conversations {
		responses = append(responses, *s.toConversationResponse(db, &conversations[i], false))
	}
	return responses, nil
}

func (s *ChatServiceImpl) GetConversationWithUser(db *gorm.DB, userID, otherEmail string) (*dto.ConversationResponse, error) {
	other, err := s.userRepo.FindByEmail(db, otherEmail)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	conversation, err := s.chatRepo.FindConversationBetweenUsers(db, userID, other.ID)
	if err != nil {
		return nil, apperrors.ErrConversationNotFound
	}
	return s.GetConversation(db, userID, conversation.ID)
}

func (s *ChatServiceImpl) toConversationResponse(db *gorm.DB, conversation *chat.Conversation, includeMessages bool) *dto.ConversationResponse {
	resp := &dto.ConversationResponse{
		ID:        conversation.ID,
		CreatedAt: conversation.CreatedAt,
	}
	for _, p := range conversation.Participants {
		user, err := s.userRepo.FindByID(db, p.UserID)
		if err != nil {
			continue
		}
		resp.Participants = append(resp.Participants, dto.ToUserResponse(user))
	}
	if includeMessages {
		for i := range conversation.Messages {
			resp.Messages = append(resp.Messages, dto.ToMessageResponse(&conversation.Messages[i]))
		}
	}
	return resp
}

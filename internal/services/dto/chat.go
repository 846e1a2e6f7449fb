package dto

import (
	"time"

	"github.com/Nyaguthii-C/LetsChat/internal/models/chat"
)

type SendMessageRequest struct {
	ReceiverEmail string `json:"receiver_email" validate:"required,email"`
	Content       string `json:"content" validate:"required,min=1,max=4000"`
}

type UpdateMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

type AddReactionRequest struct {
	Emoji string `json:"emoji" validate:"required,min=1,max=16"`
}

type ReactionResponse struct {
	ID        string    `json:"id"`
	MessageID string    `json:"message_id"`
	UserID    string    `json:"user_id"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

func ToReactionResponse(reaction *chat.Reaction) ReactionResponse {
	return ReactionResponse{
		ID:        reaction.ID,
		MessageID: reaction.MessageID,
		UserID:    reaction.UserID,
		Emoji:     reaction.Emoji,
		CreatedAt: reaction.CreatedAt,
	}
}

type MessageResponse struct {
	ID             string             `json:"id"`
	ConversationID string             `json:"conversation_id"`
	SenderID       string             `json:"sender_id"`
	ReceiverID     string             `json:"receiver_id"`
	Content        string             `json:"content"`
	IsRead         bool               `json:"is_read"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Reactions      []ReactionResponse `json:"reactions,omitempty"`
}

func ToMessageResponse(message *chat.Message) MessageResponse {
	resp := MessageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		ReceiverID:     message.ReceiverID,
		Content:        message.Content,
		IsRead:         message.IsRead,
		CreatedAt:      message.CreatedAt,
		UpdatedAt:      message.UpdatedAt,
	}
	for i := range message.Reactions {
		resp.Reactions = append(resp.Reactions, ToReactionResponse(&message.Reactions[i]))
	}
	return resp
}

type ConversationResponse struct {
	ID           string            `json:"id"`
	Participants []UserResponse    `json:"participants"`
	Messages     []MessageResponse `json:"messages,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

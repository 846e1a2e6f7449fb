package apperrors

import "net/http"

// Factories for errors shared across the chat and notification domains.

// ErrNotFound converts a repository miss (e.g. gorm.ErrRecordNotFound)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// Predefined domain errors.
var (
	ErrUserNotFound         = New(CodeNotFound, "user", "User not found", http.StatusNotFound)
	ErrMessageNotFound      = New(CodeNotFound, "chat", "Message not found", http.StatusNotFound)
	ErrConversationNotFound = New(CodeNotFound, "chat", "Conversation not found", http.StatusNotFound)
	ErrReactionNotFound     = New(CodeNotFound, "chat", "Reaction not found", http.StatusNotFound)
	ErrNotMessageSender     = New(CodeForbidden, "chat", "Only the sender can modify this message", http.StatusForbidden)
	ErrNotMessageReceiver   = New(CodeForbidden, "chat", "Only the receiver can mark this message as read", http.StatusForbidden)
	ErrNotParticipant       = New(CodeForbidden, "chat", "User is not a participant in this conversation", http.StatusForbidden)
	ErrSelfMessage          = New(CodeInvalidOperation, "chat", "Cannot send a message to yourself", http.StatusBadRequest)
	ErrEmailTaken           = New(CodeAlreadyExists, "user", "Email is already registered", http.StatusConflict)
	ErrInvalidCredentials   = New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)
)

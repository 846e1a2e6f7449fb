package handlers

import (
	"github.com/Nyaguthii-C/LetsChat/internal/services"
	"github.com/Nyaguthii-C/LetsChat/ws"
)

// AppHandlers bundles every HTTP and websocket handler for route wiring.
type AppHandlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Chat         *ChatHandler
	Notification *NotificationHandler
	WS           *ws.Handler
}

func NewAppHandlers(container *services.ServiceContainer, wsHandler *ws.Handler) *AppHandlers {
	base := NewBaseHandler()
	return &AppHandlers{
		Auth:         NewAuthHandler(base, container.AuthService),
		User:         NewUserHandler(base, container.UserService),
		Chat:         NewChatHandler(base, container.ChatService),
		Notification: NewNotificationHandler(base, container.NotificationService),
		WS:           wsHandler,
	}
}

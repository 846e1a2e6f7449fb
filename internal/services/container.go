package services

import (
	"github.com/Nyaguthii-C/LetsChat/internal/relay"
	"github.com/Nyaguthii-C/LetsChat/internal/repositories"
)

// ServiceContainer wires the repositories and cross-service dependencies
// into the service layer. Handlers receive this as a unit.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	ChatService         ChatService
	NotificationService NotificationService
}

func NewServiceContainer(publisher EventPublisher, relayProvider relay.Provider) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	chatRepo := repositories.NewChatRepository()
	notificationRepo := repositories.NewNotificationRepository()

	notificationService := NewNotificationService(notificationRepo, publisher)

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo),
		UserService:         NewUserService(userRepo),
		ChatService:         NewChatService(chatRepo, userRepo, notificationService, relayProvider),
		NotificationService: notificationService,
	}
}

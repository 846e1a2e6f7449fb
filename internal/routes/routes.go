package routes

import (
	"github.com/Nyaguthii-C/LetsChat/internal/handlers"
	"github.com/Nyaguthii-C/LetsChat/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API and the notification socket.
func RegisterRoutes(router *gin.Engine, h *handlers.AppHandlers) {
	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh-token", middleware.AuthMiddleware(), h.Auth.Refresh)
	}

	users := api.Group("/users", middleware.AuthMiddleware())
	{
		users.GET("", h.User.List)
		users.GET("/me", h.User.Me)
	}

	chat := api.Group("/chat", middleware.AuthMiddleware())
	{
		chat.POST("/messages/send", h.Chat.SendMessage)
		chat.PATCH("/messages/:id", h.Chat.UpdateMessage)
		chat.DELETE("/messages/:id", h.Chat.DeleteMessage)
		chat.PUT("/messages/:id/read", h.Chat.MarkMessageRead)
		chat.POST("/messages/:id/reactions", h.Chat.AddReaction)
		chat.DELETE("/messages/:id/reactions", h.Chat.RemoveReaction)
		chat.GET("/conversations", h.Chat.ListConversations)
		chat.GET("/conversations/:id", h.Chat.GetConversation)
		chat.GET("/conversations/with/:email", h.Chat.GetConversationWithUser)
	}

	notifications := api.Group("/notifications", middleware.AuthMiddleware())
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/unseen-count", h.Notification.UnseenCount)
		notifications.POST("/mark-seen", h.Notification.MarkSeen)
	}

	// Token rides the query string; authentication happens before upgrade.
	router.GET("/ws/notifications", h.WS.ServeNotifications)
}

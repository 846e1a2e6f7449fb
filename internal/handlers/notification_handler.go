package handlers

import (
	"net/http"

	"github.com/Nyaguthii-C/LetsChat/internal/services"
	"github.com/Nyaguthii-C/LetsChat/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{BaseHandler: base, notificationService: notificationService}
}

// List returns the caller's notifications, optionally filtered with
// ?seen=true or ?seen=false.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}

	var seen *bool
	switch c.Query("seen") {
	case "true":
		v := true
		seen = &v
	case "false":
		v := false
		seen = &v
	}

	items, err := h.notificationService.ListNotifications(h.GetDB(c), userID, seen)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func (h *NotificationHandler) UnseenCount(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}
	count, err := h.notificationService.CountUnseen(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkSeen flips the given notifications to seen, or all of the caller's
// unseen notifications when the id list is empty.
func (h *NotificationHandler) MarkSeen(c *gin.Context) {
	userID, ok := h.GetAuthorizedUserID(c)
	if !ok {
		return
	}
	var req dto.MarkSeenRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	flipped, err := h.notificationService.MarkSeen(h.GetDB(c), userID, req.NotificationIDs)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MarkSeenResponse{NotificationIDs: flipped})
}

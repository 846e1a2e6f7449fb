package handlers

import (
	"net/http"

	"github.com/Nyaguthii-C/LetsChat/internal/middleware"
	"github.com/Nyaguthii-C/LetsChat/internal/validator"
	"github.com/Nyaguthii-C/LetsChat/pkg/apperrors"
	"github.com/Nyaguthii-C/LetsChat/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BaseHandler carries the helpers every handler shares: database access,
// request binding with validation, and uniform error responses.
type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler() *BaseHandler {
	return &BaseHandler{validator: validator.New()}
}

// GetDB returns the request-scoped database handle set by DBMiddleware.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	value, exists := c.Get(string(contextkeys.DBContextKey))
	if !exists {
		return nil
	}
	db, _ := value.(*gorm.DB)
	return db
}

// BindAndValidateJSON decodes the body into req and runs struct
// validation. On failure it writes the 400 response and returns false.
func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	if err := h.validator.Validate(req); err != nil {
		if verr, ok := err.(*validator.ValidationError); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Errors})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// HandleServiceError maps service errors onto HTTP responses.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	apperrors.HandleError(c, err)
}

// GetAuthorizedUserID returns the authenticated caller or writes a 401.
func (h *BaseHandler) GetAuthorizedUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", false
	}
	return userID, true
}

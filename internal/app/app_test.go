package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Nyaguthii-C/LetsChat/internal/config"
	"github.com/Nyaguthii-C/LetsChat/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "app-test-secret"
	cfg.JWT.TTL = 60
	cfg.Server.Env = "test"
	config.AppConfig = cfg

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	gin.SetMode(gin.TestMode)
	return SetupRouter(db, NewNoopRelayProvider())
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func registerUser(t *testing.T, router *gin.Engine, email, name string) (token, userID string) {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":     email,
		"full_name": name,
		"password":  "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	token = body["token"].(string)
	userID = body["user"].(map[string]any)["id"].(string)
	return token, userID
}

func TestRegisterAndLoginFlow(t *testing.T) {
	router := setupApp(t)

	token, _ := registerUser(t, router, "alice@example.com", "Alice")
	require.NotEmpty(t, token)

	// Duplicate registration is refused.
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":     "alice@example.com",
		"full_name": "Alice Again",
		"password":  "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Wrong password is refused.
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["token"])
}

func TestRefreshTokenFlow(t *testing.T) {
	router := setupApp(t)

	token, userID := registerUser(t, router, "alice@example.com", "Alice")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh-token", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	refreshed := body["token"].(string)
	assert.NotEmpty(t, refreshed)
	assert.Equal(t, userID, body["user"].(map[string]any)["id"])

	// The reissued token works on protected routes.
	w = doJSON(t, router, http.MethodGet, "/api/v1/users/me", refreshed, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// No token, no refresh.
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh-token", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := setupApp(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMessageAndNotificationFlow(t *testing.T) {
	router := setupApp(t)

	aliceToken, _ := registerUser(t, router, "alice@example.com", "Alice")
	bobToken, _ := registerUser(t, router, "bob@example.com", "Bob")

	// Alice messages Bob.
	w := doJSON(t, router, http.MethodPost, "/api/v1/chat/messages/send", aliceToken, map[string]any{
		"receiver_email": "bob@example.com",
		"content":        "hello bob",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	message := decode(t, w)
	messageID := message["id"].(string)
	conversationID := message["conversation_id"].(string)

	// Bob sees one unseen notification.
	w = doJSON(t, router, http.MethodGet, "/api/v1/notifications/unseen-count", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["unread_count"])

	// Bob reacts to the message; Alice gains a reaction notification.
	w = doJSON(t, router, http.MethodPost, "/api/v1/chat/messages/"+messageID+"/reactions", bobToken, map[string]any{
		"emoji": "👍",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/v1/notifications?seen=false", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	aliceNotifications := decode(t, w)["notifications"].([]any)
	require.Len(t, aliceNotifications, 1)
	assert.Equal(t, "reaction", aliceNotifications[0].(map[string]any)["type"])

	// Bob marks the message read; Alice gains a read notification.
	w = doJSON(t, router, http.MethodPut, "/api/v1/chat/messages/"+messageID+"/read", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Alice may not mark her own sent message read.
	w = doJSON(t, router, http.MethodPut, "/api/v1/chat/messages/"+messageID+"/read", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Bob clears his notifications.
	w = doJSON(t, router, http.MethodPost, "/api/v1/notifications/mark-seen", bobToken, map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)
	flipped := decode(t, w)["notification_ids"].([]any)
	assert.Len(t, flipped, 1)

	w = doJSON(t, router, http.MethodGet, "/api/v1/notifications/unseen-count", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["unread_count"])

	// Both participants see the conversation; outsiders do not.
	w = doJSON(t, router, http.MethodGet, "/api/v1/chat/conversations/"+conversationID, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	carolToken, _ := registerUser(t, router, "carol@example.com", "Carol")
	w = doJSON(t, router, http.MethodGet, "/api/v1/chat/conversations/"+conversationID, carolToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/chat/conversations", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["conversations"].([]any), 1)
}

func TestMessageEditAndDeletePermissions(t *testing.T) {
	router := setupApp(t)

	aliceToken, _ := registerUser(t, router, "alice@example.com", "Alice")
	bobToken, _ := registerUser(t, router, "bob@example.com", "Bob")

	w := doJSON(t, router, http.MethodPost, "/api/v1/chat/messages/send", aliceToken, map[string]any{
		"receiver_email": "bob@example.com",
		"content":        "typo hapened",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	messageID := decode(t, w)["id"].(string)

	// Receiver cannot edit or delete.
	w = doJSON(t, router, http.MethodPatch, "/api/v1/chat/messages/"+messageID, bobToken, map[string]any{
		"content": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, router, http.MethodDelete, "/api/v1/chat/messages/"+messageID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Sender can do both.
	w = doJSON(t, router, http.MethodPatch, "/api/v1/chat/messages/"+messageID, aliceToken, map[string]any{
		"content": "typo happened",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "typo happened", decode(t, w)["content"])

	w = doJSON(t, router, http.MethodDelete, "/api/v1/chat/messages/"+messageID, aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/api/v1/chat/messages/"+messageID, aliceToken, map[string]any{
		"content": "gone",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelfMessageRejected(t *testing.T) {
	router := setupApp(t)
	aliceToken, _ := registerUser(t, router, "alice@example.com", "Alice")

	w := doJSON(t, router, http.MethodPost, "/api/v1/chat/messages/send", aliceToken, map[string]any{
		"receiver_email": "alice@example.com",
		"content":        "note to self",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidationErrors(t *testing.T) {
	router := setupApp(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":     "not-an-email",
		"full_name": "X",
		"password":  "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok, fmt.Sprintf("expected field map, got %v", body))
	assert.Contains(t, fields, "email")
}

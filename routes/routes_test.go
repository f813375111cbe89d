package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"deenconnect-api/config"
	"deenconnect-api/models"
	"deenconnect-api/routes"
	"deenconnect-api/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Challenge{},
		&models.Message{},
		&models.Notification{},
	))

	// Test users register without an email address, so nothing ever dials out.
	emailService := services.NewEmailService(&config.Config{
		FromEmail: "noreply@test.local",
		FromName:  "Test",
	})

	router := gin.New()
	routes.SetupRoutes(router, db, testJWTSecret, emailService)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
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

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func registerUser(t *testing.T, router *gin.Engine, username string) authResponse {
	t.Helper()
	w := doJSON(t, router, "POST", "/api/v1/auth/register", gin.H{
		"username":     username,
		"phone":        fmt.Sprintf("+1555%03d%04d", username[0], len(username)),
		"password":     "Str0ng!pass",
		"display_name": username,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp authResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.User.ID)
	return resp
}

func TestFriendAndChallengeFlow(t *testing.T) {
	router := setupRouter(t)

	ahmed := registerUser(t, router, "ahmed")
	fatima := registerUser(t, router, "fatima")

	// Ahmed sends Fatima a friend request
	w := doJSON(t, router, "POST", "/api/v1/friends/request", gin.H{
		"senderId":   ahmed.User.ID,
		"receiverId": fatima.User.ID,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data models.FriendRequest `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.Data.ID)

	// The request shows up in Fatima's inbox
	w = doJSON(t, router, "GET", "/api/v1/friends/requests/"+fatima.User.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var inbox struct {
		Requests []models.FriendRequest `json:"requests"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inbox))
	require.Len(t, inbox.Requests, 1)
	assert.Equal(t, ahmed.User.ID, inbox.Requests[0].SenderID)

	// Fatima accepts
	w = doJSON(t, router, "POST", "/api/v1/friends/respond", gin.H{
		"requestId": created.Data.ID,
		"accept":    true,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Both sides now list each other as friends
	for _, userID := range []string{ahmed.User.ID, fatima.User.ID} {
		w = doJSON(t, router, "GET", "/api/v1/friends/"+userID, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var friends struct {
			Friends []models.User `json:"friends"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &friends))
		require.Len(t, friends.Friends, 1)
	}

	// Ahmed challenges Fatima to a week of Fajr
	w = doJSON(t, router, "POST", "/api/v1/challenges", gin.H{
		"creatorId":   ahmed.User.ID,
		"opponentId":  fatima.User.ID,
		"type":        "prayer_streak",
		"title":       "Fajr week",
		"targetValue": 7,
		"endDate":     "2030-01-01T00:00:00Z",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var challengeCreated struct {
		Data models.Challenge `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &challengeCreated))
	challengeID := challengeCreated.Data.ID
	require.NotZero(t, challengeID)
	assert.Equal(t, models.ChallengeStatusPending, challengeCreated.Data.Status)

	// Progress before acceptance is refused
	w = doJSON(t, router, "POST", "/api/v1/challenges/progress", gin.H{
		"challengeId":   challengeID,
		"participantId": ahmed.User.ID,
		"progress":      3,
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Fatima accepts the challenge
	w = doJSON(t, router, "POST", "/api/v1/challenges/respond", gin.H{
		"challengeId": challengeID,
		"accept":      true,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Ahmed reaches the target; one side alone does not finish it
	w = doJSON(t, router, "POST", "/api/v1/challenges/progress", gin.H{
		"challengeId":   challengeID,
		"participantId": ahmed.User.ID,
		"progress":      7,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, "POST", "/api/v1/challenges/progress", gin.H{
		"challengeId":   challengeID,
		"participantId": fatima.User.ID,
		"progress":      6,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", fmt.Sprintf("/api/v1/challenges/detail/%d", challengeID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Challenge models.Challenge `json:"challenge"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, models.ChallengeStatusAccepted, detail.Challenge.Status)
	assert.Equal(t, 7, detail.Challenge.CreatorProgress)
	assert.Equal(t, 6, detail.Challenge.OpponentProgress)

	// Fatima crosses the threshold via the increment endpoint
	w = doJSON(t, router, "POST", "/api/v1/challenges/progress/increment", gin.H{
		"challengeId":   challengeID,
		"participantId": fatima.User.ID,
		"delta":         1,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated struct {
		Challenge models.Challenge `json:"challenge"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.ChallengeStatusCompleted, updated.Challenge.Status)
}

func TestDuplicatePendingRequestConflict(t *testing.T) {
	router := setupRouter(t)

	ahmed := registerUser(t, router, "ahmed")
	fatima := registerUser(t, router, "fatima")

	w := doJSON(t, router, "POST", "/api/v1/friends/request", gin.H{
		"senderId":   ahmed.User.ID,
		"receiverId": fatima.User.ID,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	// The reverse direction is the same unordered pair
	w = doJSON(t, router, "POST", "/api/v1/friends/request", gin.H{
		"senderId":   fatima.User.ID,
		"receiverId": ahmed.User.ID,
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestSelfFriendRequestRejected(t *testing.T) {
	router := setupRouter(t)
	ahmed := registerUser(t, router, "ahmed")

	w := doJSON(t, router, "POST", "/api/v1/friends/request", gin.H{
		"senderId":   ahmed.User.ID,
		"receiverId": ahmed.User.ID,
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMessagingRequiresAuthAndFriendship(t *testing.T) {
	router := setupRouter(t)

	ahmed := registerUser(t, router, "ahmed")
	fatima := registerUser(t, router, "fatima")

	body := gin.H{
		"receiverId": fatima.User.ID,
		"content":    "Assalamu alaikum!",
	}

	// No token
	w := doJSON(t, router, "POST", "/api/v1/messages", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Authenticated but not friends yet
	w = doJSON(t, router, "POST", "/api/v1/messages", body, ahmed.Token)
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	// Become friends, then messaging works
	w = doJSON(t, router, "POST", "/api/v1/friends/request", gin.H{
		"senderId":   ahmed.User.ID,
		"receiverId": fatima.User.ID,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data models.FriendRequest `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, "POST", "/api/v1/friends/respond", gin.H{
		"requestId": created.Data.ID,
		"accept":    true,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/messages", body, ahmed.Token)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestLoginFlow(t *testing.T) {
	router := setupRouter(t)
	registerUser(t, router, "ahmed")

	w := doJSON(t, router, "POST", "/api/v1/auth/login", gin.H{
		"identifier": "ahmed",
		"password":   "Str0ng!pass",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, "POST", "/api/v1/auth/login", gin.H{
		"identifier": "ahmed",
		"password":   "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

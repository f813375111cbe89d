package services_test

import (
	"testing"

	"deenconnect-api/models"
	"deenconnect-api/repositories"
	"deenconnect-api/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Challenge{},
		&models.Message{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, id, username string) {
	t.Helper()
	err := db.Create(&models.User{
		ID:          id,
		Username:    username,
		Phone:       "+1555" + username,
		Password:    "$2a$10$hash",
		DisplayName: username,
	}).Error
	require.NoError(t, err)
}

func newFriendService(db *gorm.DB) *services.FriendService {
	return services.NewFriendService(
		repositories.NewFriendRepository(db),
		services.NewNotificationService(db),
	)
}

func TestSendRequestCreatesPending(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	createUser(t, db, "a", "aisha")
	createUser(t, db, "b", "bilal")

	request, err := svc.SendRequest("a", "b")
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestStatusPending, request.Status)
	assert.Equal(t, "a", request.SenderID)
	assert.Equal(t, "b", request.ReceiverID)
}

func TestSendRequestValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	createUser(t, db, "a", "aisha")

	_, err := svc.SendRequest("a", "a")
	assert.ErrorIs(t, err, services.ErrSelfRequest)

	_, err = svc.SendRequest("a", "ghost")
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	// Self-request never reaches the store
	var count int64
	db.Model(&models.FriendRequest{}).Count(&count)
	assert.Zero(t, count)
}

func TestSendRequestDuplicatePending(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	createUser(t, db, "a", "aisha")
	createUser(t, db, "b", "bilal")

	_, err := svc.SendRequest("a", "b")
	require.NoError(t, err)

	// Same direction
	_, err = svc.SendRequest("a", "b")
	assert.ErrorIs(t, err, services.ErrRequestPending)

	// Reverse direction is the same unordered pair
	_, err = svc.SendRequest("b", "a")
	assert.ErrorIs(t, err, services.ErrRequestPending)

	var count int64
	db.Model(&models.FriendRequest{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPendingPairUniqueIndexBacksTheCheck(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewFriendRepository(db)
	createUser(t, db, "a", "aisha")
	createUser(t, db, "b", "bilal")

	// Two writers that both passed the application-level check
	pair1 := models.PairKey("a", "b")
	err := repo.CreateRequest(&models.FriendRequest{
		SenderID: "a", ReceiverID: "b",
		Status: models.FriendRequestStatusPending, PendingPair: &pair1,
	})
	require.NoError(t, err)

	pair2 := models.PairKey("b", "a")
	err = repo.CreateRequest(&models.FriendRequest{
		SenderID: "b", ReceiverID: "a",
		Status: models.FriendRequestStatusPending, PendingPair: &pair2,
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestRespondAcceptCreatesSymmetricFriendship(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	createUser(t, db, "a", "aisha")
	createUser(t, db, "b", "bilal")

	request, err := svc.SendRequest("a", "b")
	require.NoError(t, err)

	resolved, err := svc.Respond(request.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestStatusAccepted, resolved.Status)

	// Symmetry holds in both directions the moment Respond returns
	ab, err := svc.AreFriends("a", "b")
	require.NoError(t, err)
	ba, err := svc.AreFriends("b", "a")
	require.NoError(t, err)
	assert.True(t, ab)
	assert.True(t, ba)

	// Resolution is one-shot
	_, err = svc.Respond(request.ID, false)
	assert.ErrorIs(t, err, services.ErrRequestResolved)

	var stored models.FriendRequest
	require.NoError(t, db.First(&stored, request.ID).Error)
	assert.Equal(t, models.FriendRequestStatusAccepted, stored.Status)
}

func TestRespondReject(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	createUser(t, db, "a", "aisha")
	createUser(t, db, "b", "bilal")

	request, err := svc.SendRequest("a", "b")
	require.NoError(t, err)

	_, err = svc.Respond(request.ID, false)
	require.NoError(t, err)

	areFriends, err := svc.AreFriends("a", "b")
	require.NoError(t, err)
	assert.False(t, areFriends)

	// Rejection releases the pending-pair key, so the pair can try again
	_, err = svc.SendRequest("b", "a")
	assert.NoError(t, err)
}

func TestRespondUnknownRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)

	_, err := svc.Respond(12345, true)
	assert.ErrorIs(t, err, services.ErrRequestNotFound)
}

func TestSendRequestAlreadyFriends(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	createUser(t, db, "a", "aisha")
	createUser(t, db, "b", "bilal")

	request, err := svc.SendRequest("a", "b")
	require.NoError(t, err)
	_, err = svc.Respond(request.ID, true)
	require.NoError(t, err)

	_, err = svc.SendRequest("a", "b")
	assert.ErrorIs(t, err, services.ErrAlreadyFriends)
	_, err = svc.SendRequest("b", "a")
	assert.ErrorIs(t, err, services.ErrAlreadyFriends)
}

func TestListIncomingAndOutgoing(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	createUser(t, db, "a", "aisha")
	createUser(t, db, "b", "bilal")
	createUser(t, db, "c", "chadi")

	_, err := svc.SendRequest("a", "c")
	require.NoError(t, err)
	_, err = svc.SendRequest("b", "c")
	require.NoError(t, err)

	incoming, err := svc.ListIncoming("c", 1, 20)
	require.NoError(t, err)
	require.Len(t, incoming, 2)
	// Counterpart profile is joined with the credential hash blanked
	assert.NotEmpty(t, incoming[0].Sender.Username)
	assert.Empty(t, incoming[0].Sender.Password)

	outgoing, err := svc.ListOutgoing("a", 1, 20)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, "c", outgoing[0].ReceiverID)
	assert.Empty(t, outgoing[0].Receiver.Password)
}

func TestRemoveFriendSymmetricAndIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	createUser(t, db, "a", "aisha")
	createUser(t, db, "b", "bilal")

	request, err := svc.SendRequest("a", "b")
	require.NoError(t, err)
	_, err = svc.Respond(request.ID, true)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFriend("a", "b"))

	ab, _ := svc.AreFriends("a", "b")
	ba, _ := svc.AreFriends("b", "a")
	assert.False(t, ab)
	assert.False(t, ba)

	// Removing a friendship that no longer exists is a no-op
	assert.NoError(t, svc.RemoveFriend("a", "b"))
}

func TestListFriends(t *testing.T) {
	db := setupTestDB(t)
	svc := newFriendService(db)
	createUser(t, db, "a", "aisha")
	createUser(t, db, "b", "bilal")
	createUser(t, db, "c", "chadi")

	for _, other := range []string{"b", "c"} {
		request, err := svc.SendRequest("a", other)
		require.NoError(t, err)
		_, err = svc.Respond(request.ID, true)
		require.NoError(t, err)
	}

	friends, err := svc.ListFriends("a")
	require.NoError(t, err)
	assert.Len(t, friends, 2)
	for _, friend := range friends {
		assert.Empty(t, friend.Password)
	}

	// Each counterpart sees exactly one friend
	friendsOfB, err := svc.ListFriends("b")
	require.NoError(t, err)
	require.Len(t, friendsOfB, 1)
	assert.Equal(t, "a", friendsOfB[0].ID)
}

package repositories

import (
	"errors"

	"deenconnect-api/models"

	"gorm.io/gorm"
)

type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// FindUserByID retrieves a user or gorm.ErrRecordNotFound.
func (r *FriendRepository) FindUserByID(userID string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindPendingBetween looks for a pending request between the pair in either
// direction. Returns nil without error when none exists.
func (r *FriendRepository) FindPendingBetween(userID1, userID2 string) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.db.Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND status = ?",
		userID1, userID2, userID2, userID1, models.FriendRequestStatusPending).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *FriendRepository) CreateRequest(request *models.FriendRequest) error {
	return r.db.Create(request).Error
}

func (r *FriendRepository) FindRequestByID(requestID uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	if err := r.db.First(&request, "id = ?", requestID).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ResolveRequest performs the one-shot pending -> accepted/rejected
// transition. The status update, the release of the pending-pair key and, on
// acceptance, both directed friendship rows all commit in one transaction.
func (r *FriendRepository) ResolveRequest(request *models.FriendRequest, status models.FriendRequestStatus) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.FriendRequest{}).
			Where("id = ? AND status = ?", request.ID, models.FriendRequestStatusPending).
			Updates(map[string]interface{}{
				"status":       status,
				"pending_pair": nil,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost the race against a concurrent resolution.
			return gorm.ErrRecordNotFound
		}

		if status == models.FriendRequestStatusAccepted {
			rows := []models.Friendship{
				{UserID: request.SenderID, FriendID: request.ReceiverID},
				{UserID: request.ReceiverID, FriendID: request.SenderID},
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		request.Status = status
		request.PendingPair = nil
		return nil
	})
}

// ListPendingIncoming returns pending requests addressed to the user, newest
// first, with the sender profile preloaded.
func (r *FriendRepository) ListPendingIncoming(userID string, offset, limit int) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.db.Preload("Sender").
		Where("receiver_id = ? AND status = ?", userID, models.FriendRequestStatusPending).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&requests).Error
	return requests, err
}

// ListPendingOutgoing returns pending requests the user has sent, newest
// first, with the receiver profile preloaded.
func (r *FriendRepository) ListPendingOutgoing(userID string, offset, limit int) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.db.Preload("Receiver").
		Where("sender_id = ? AND status = ?", userID, models.FriendRequestStatusPending).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&requests).Error
	return requests, err
}

// ListFriends returns the profiles reachable via a directed friendship row
// from the user.
func (r *FriendRepository) ListFriends(userID string) ([]models.User, error) {
	var friendIDs []string
	if err := r.db.Model(&models.Friendship{}).
		Where("user_id = ?", userID).
		Pluck("friend_id", &friendIDs).Error; err != nil {
		return nil, err
	}

	if len(friendIDs) == 0 {
		return []models.User{}, nil
	}

	var friends []models.User
	if err := r.db.Where("id IN ?", friendIDs).Find(&friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}

// AreFriends checks the directed row (userID -> friendID). The relation is
// symmetric by construction, so one direction answers for both.
func (r *FriendRepository) AreFriends(userID, friendID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	return count > 0, err
}

// RemoveFriendship deletes both directed rows atomically. Deleting a
// friendship that does not exist is a no-op.
func (r *FriendRepository) RemoveFriendship(userID, friendID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID).
			Delete(&models.Friendship{}).Error
	})
}

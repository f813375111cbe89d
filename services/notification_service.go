package services

import (
	"fmt"

	"deenconnect-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationService records social events for later retrieval. Writes are
// best-effort: a failed notification never fails the operation that caused it.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Notify records an event for the target user. Errors are logged and
// swallowed on purpose.
func (s *NotificationService) Notify(notificationType models.NotificationType, actorID, targetID string, challengeID *uint) {
	notification := models.Notification{
		ID:           uuid.New().String(),
		Type:         notificationType,
		ActorUserID:  actorID,
		TargetUserID: targetID,
		ChallengeID:  challengeID,
	}

	if err := s.db.Create(&notification).Error; err != nil {
		fmt.Printf("Failed to create %s notification for %s: %v\n", notificationType, targetID, err)
	}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(userID string, page, limit int) ([]models.NotificationResponse, int64, error) {
	var total int64
	if err := s.db.Model(&models.Notification{}).
		Where("target_user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var notifications []models.Notification
	err := s.db.Preload("ActorUser").
		Where("target_user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	responses := make([]models.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, notifications[i].ToResponse())
	}
	return responses, total, nil
}

// MarkRead flags one of the user's notifications as read. Unknown ids and
// already-read notifications are no-ops.
func (s *NotificationService) MarkRead(notificationID, userID string) error {
	return s.db.Model(&models.Notification{}).
		Where("id = ? AND target_user_id = ?", notificationID, userID).
		Update("is_read", true).Error
}

// UnreadCount returns how many notifications the user has not read yet.
func (s *NotificationService) UnreadCount(userID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("target_user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

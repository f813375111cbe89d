// File: /models/notification.go
package models

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationTypeFriendRequest     NotificationType = "friend_request"
	NotificationTypeFriendAccept      NotificationType = "friend_accept"
	NotificationTypeChallengeInvite   NotificationType = "challenge_invite"
	NotificationTypeChallengeComplete NotificationType = "challenge_complete"
)

type Notification struct {
	ID           string           `json:"id" gorm:"primaryKey;size:191"`
	Type         NotificationType `json:"type" gorm:"not null;size:50"`
	ActorUserID  string           `json:"actor_user_id" gorm:"not null;size:191"`  // Who performed the action
	TargetUserID string           `json:"target_user_id" gorm:"not null;size:191"` // Who receives the notification
	ChallengeID  *uint            `json:"challenge_id,omitempty"`                  // Optional: related challenge
	IsRead       bool             `json:"is_read" gorm:"default:false"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	ActorUser  User `json:"actor_user" gorm:"foreignKey:ActorUserID"`
	TargetUser User `json:"target_user" gorm:"foreignKey:TargetUserID"`
}

// NotificationResponse represents the API response for notifications
type NotificationResponse struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	ActorUser NotificationUser `json:"actor_user"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
	Message   string           `json:"message"`
	TimeAgo   string           `json:"time_ago"`
}

type NotificationUser struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	Avatar      *string `json:"avatar"`
}

// GetNotificationMessage returns a human-readable message for the notification
func (n *Notification) GetNotificationMessage() string {
	switch n.Type {
	case NotificationTypeFriendRequest:
		return "sent you a friend request"
	case NotificationTypeFriendAccept:
		return "accepted your friend request"
	case NotificationTypeChallengeInvite:
		return "challenged you"
	case NotificationTypeChallengeComplete:
		return "completed a challenge with you"
	default:
		return "interacted with you"
	}
}

// GetTimeAgo returns a human-readable time difference
func (n *Notification) GetTimeAgo() string {
	diff := time.Since(n.CreatedAt)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		minutes := int(diff.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		weeks := int(diff.Hours() / (24 * 7))
		if weeks <= 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	}
}

// ToResponse converts Notification to NotificationResponse
func (n *Notification) ToResponse() NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
		Message:   n.GetNotificationMessage(),
		TimeAgo:   n.GetTimeAgo(),
		ActorUser: NotificationUser{
			ID:          n.ActorUser.ID,
			Username:    n.ActorUser.Username,
			DisplayName: n.ActorUser.DisplayName,
			Avatar:      n.ActorUser.Avatar,
		},
	}
}

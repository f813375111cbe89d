package models

import (
	"fmt"
	"time"
)

type FriendRequestStatus string

const (
	FriendRequestStatusPending  FriendRequestStatus = "pending"
	FriendRequestStatusAccepted FriendRequestStatus = "accepted"
	FriendRequestStatusRejected FriendRequestStatus = "rejected"
)

type FriendRequest struct {
	ID         uint                `json:"id" gorm:"primaryKey"`
	SenderID   string              `json:"sender_id" gorm:"not null;size:191;index"`
	ReceiverID string              `json:"receiver_id" gorm:"not null;size:191;index"`
	Status     FriendRequestStatus `json:"status" gorm:"not null;default:'pending';size:20"`
	// PendingPair holds the canonical unordered pair key while the request is
	// pending and is cleared on resolution. The unique index on it makes
	// "at most one pending request per pair" hold under concurrent sends;
	// NULL values are exempt from the uniqueness check.
	PendingPair *string   `json:"-" gorm:"uniqueIndex;size:191"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Sender   User `json:"sender" gorm:"foreignKey:SenderID"`
	Receiver User `json:"receiver" gorm:"foreignKey:ReceiverID"`
}

// IsResolved reports whether the request has left the pending state.
// Resolution is one-shot: a resolved request is never rewritten.
func (fr *FriendRequest) IsResolved() bool {
	return fr.Status != FriendRequestStatusPending
}

// PairKey returns the canonical key for an unordered user pair, used both for
// the pending-request uniqueness constraint and for duplicate checks.
func PairKey(userID1, userID2 string) string {
	if userID1 > userID2 {
		userID1, userID2 = userID2, userID1
	}
	return fmt.Sprintf("%s|%s", userID1, userID2)
}

// Friendship is one direction of the symmetric friend relation. Rows come in
// mirrored pairs: (A,B) never exists without (B,A). Both are written in the
// same transaction when a request is accepted and deleted in the same
// transaction on removal.
type Friendship struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_friendships_user_friend"`
	FriendID  string    `json:"friend_id" gorm:"not null;size:191;uniqueIndex:uk_friendships_user_friend"`
	CreatedAt time.Time `json:"created_at"`

	User   User `json:"user" gorm:"foreignKey:UserID"`
	Friend User `json:"friend" gorm:"foreignKey:FriendID"`
}

package models

import "time"

// Message is a direct message between two friends. Messaging consumes the
// friendship relation: a message may only be sent when the pair is friends.
type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SenderID   string    `json:"sender_id" gorm:"not null;size:191;index"`
	ReceiverID string    `json:"receiver_id" gorm:"not null;size:191;index"`
	Content    string    `json:"content" gorm:"not null;size:2000"`
	IsRead     bool      `json:"is_read" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`

	Sender   User `json:"sender" gorm:"foreignKey:SenderID"`
	Receiver User `json:"receiver" gorm:"foreignKey:ReceiverID"`
}

// File: /models/user.go
package models

import "time"

type User struct {
	ID          string    `json:"id" gorm:"primaryKey;size:191"`
	Username    string    `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Phone       string    `json:"phone" gorm:"uniqueIndex;not null;size:20"`
	Email       *string   `json:"email" gorm:"size:255"`
	Password    string    `json:"-" gorm:"not null;size:255"`
	DisplayName string    `json:"display_name" gorm:"not null;size:255"`
	Avatar      *string   `json:"avatar" gorm:"size:500"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Sanitize blanks credential fields before the user object leaves the API.
// The json:"-" tag already hides the hash; this covers preloaded copies that
// get embedded into other payloads.
func (u *User) Sanitize() {
	u.Password = ""
}

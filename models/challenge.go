package models

import "time"

type ChallengeStatus string

const (
	ChallengeStatusPending   ChallengeStatus = "pending"
	ChallengeStatusAccepted  ChallengeStatus = "accepted"
	ChallengeStatusCompleted ChallengeStatus = "completed"
	ChallengeStatusExpired   ChallengeStatus = "expired"
)

type ChallengeType string

const (
	ChallengeTypePrayerStreak ChallengeType = "prayer_streak"
	ChallengeTypeQuranPages   ChallengeType = "quran_pages"
	ChallengeTypeDhikrCount   ChallengeType = "dhikr_count"
	ChallengeTypeFastingDays  ChallengeType = "fasting_days"
)

// IsValidChallengeType reports whether t is one of the known activity kinds.
func IsValidChallengeType(t ChallengeType) bool {
	switch t {
	case ChallengeTypePrayerStreak, ChallengeTypeQuranPages, ChallengeTypeDhikrCount, ChallengeTypeFastingDays:
		return true
	default:
		return false
	}
}

// Challenge is a bounded two-party competition over a numeric target. Status
// moves forward only: pending -> accepted -> completed, with expired as the
// terminal state for declined or timed-out challenges.
type Challenge struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	CreatorID        string          `json:"creator_id" gorm:"not null;size:191;index"`
	OpponentID       string          `json:"opponent_id" gorm:"not null;size:191;index"`
	Type             ChallengeType   `json:"type" gorm:"not null;size:30"`
	Title            string          `json:"title" gorm:"not null;size:255"`
	Description      *string         `json:"description" gorm:"size:1000"`
	TargetValue      int             `json:"target_value" gorm:"not null"`
	CreatorProgress  int             `json:"creator_progress" gorm:"not null;default:0"`
	OpponentProgress int             `json:"opponent_progress" gorm:"not null;default:0"`
	Status           ChallengeStatus `json:"status" gorm:"not null;default:'pending';size:20;index"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Creator  User `json:"creator" gorm:"foreignKey:CreatorID"`
	Opponent User `json:"opponent" gorm:"foreignKey:OpponentID"`
}

// IsParticipant reports whether userID plays either role in the challenge.
func (c *Challenge) IsParticipant(userID string) bool {
	return c.CreatorID == userID || c.OpponentID == userID
}

// IsTerminal reports whether the state machine defines no further transition.
func (c *Challenge) IsTerminal() bool {
	return c.Status == ChallengeStatusCompleted || c.Status == ChallengeStatusExpired
}

// BothReachedTarget is the completion condition: both participants must meet
// the target, one side alone is not enough.
func (c *Challenge) BothReachedTarget() bool {
	return c.CreatorProgress >= c.TargetValue && c.OpponentProgress >= c.TargetValue
}

// ShouldExpire is the pure time-expiry predicate. Pending and accepted
// challenges past their end date expire; terminal states never change.
func (c *Challenge) ShouldExpire(now time.Time) bool {
	if c.IsTerminal() {
		return false
	}
	return now.After(c.EndDate)
}

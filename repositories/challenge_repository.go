package repositories

import (
	"time"

	"deenconnect-api/models"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func (r *ChallengeRepository) Create(challenge *models.Challenge) error {
	return r.db.Create(challenge).Error
}

// FindUserByID retrieves a participant or gorm.ErrRecordNotFound.
func (r *ChallengeRepository) FindUserByID(userID string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *ChallengeRepository) FindByID(challengeID uint) (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.db.Preload("Creator").Preload("Opponent").
		First(&challenge, "id = ?", challengeID).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// ListForUser returns challenges where the user plays either role, newest
// first, with both participant profiles preloaded.
func (r *ChallengeRepository) ListForUser(userID string, offset, limit int) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := r.db.Preload("Creator").Preload("Opponent").
		Where("creator_id = ? OR opponent_id = ?", userID, userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&challenges).Error
	return challenges, err
}

// ResolvePending moves a pending challenge to the given status. Returns the
// number of rows changed; zero means the challenge was no longer pending.
func (r *ChallengeRepository) ResolvePending(challengeID uint, status models.ChallengeStatus) (int64, error) {
	result := r.db.Model(&models.Challenge{}).
		Where("id = ? AND status = ?", challengeID, models.ChallengeStatusPending).
		Update("status", status)
	return result.RowsAffected, result.Error
}

// SetProgress writes an absolute progress value for one participant column.
// The status guard makes the write a no-op once the challenge has left the
// accepted state, so a racing completion or expiry cannot be overwritten.
func (r *ChallengeRepository) SetProgress(challengeID uint, column string, value int) (int64, error) {
	result := r.db.Model(&models.Challenge{}).
		Where("id = ? AND status = ?", challengeID, models.ChallengeStatusAccepted).
		Update(column, value)
	return result.RowsAffected, result.Error
}

// AddProgress applies a delta as a single in-database expression, closing the
// read-modify-write gap two near-simultaneous updates would otherwise race on.
func (r *ChallengeRepository) AddProgress(challengeID uint, column string, delta int) (int64, error) {
	result := r.db.Model(&models.Challenge{}).
		Where("id = ? AND status = ?", challengeID, models.ChallengeStatusAccepted).
		Update(column, gorm.Expr(column+" + ?", delta))
	return result.RowsAffected, result.Error
}

// MarkCompleted transitions accepted -> completed. Conditional on the current
// status, so repeated calls after completion change nothing.
func (r *ChallengeRepository) MarkCompleted(challengeID uint) error {
	return r.db.Model(&models.Challenge{}).
		Where("id = ? AND status = ?", challengeID, models.ChallengeStatusAccepted).
		Update("status", models.ChallengeStatusCompleted).Error
}

// ExpireIfPast lazily applies the time-expiry rule to a single challenge.
// Reports whether the row actually transitioned.
func (r *ChallengeRepository) ExpireIfPast(challenge *models.Challenge, now time.Time) (bool, error) {
	if !challenge.ShouldExpire(now) {
		return false, nil
	}
	result := r.db.Model(&models.Challenge{}).
		Where("id = ? AND status IN ?", challenge.ID,
			[]models.ChallengeStatus{models.ChallengeStatusPending, models.ChallengeStatusAccepted}).
		Update("status", models.ChallengeStatusExpired)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		challenge.Status = models.ChallengeStatusExpired
		return true, nil
	}
	return false, nil
}

// ExpireOverdue sweeps all open challenges past their end date in one
// conditional update. Returns the number of challenges expired.
func (r *ChallengeRepository) ExpireOverdue(now time.Time) (int64, error) {
	result := r.db.Model(&models.Challenge{}).
		Where("status IN ? AND end_date < ?",
			[]models.ChallengeStatus{models.ChallengeStatusPending, models.ChallengeStatusAccepted}, now).
		Update("status", models.ChallengeStatusExpired)
	return result.RowsAffected, result.Error
}

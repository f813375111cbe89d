package services

import (
	"errors"
	"fmt"
	"time"

	"deenconnect-api/models"
	"deenconnect-api/repositories"

	"gorm.io/gorm"
)

var (
	ErrSelfChallenge        = errors.New("cannot challenge yourself")
	ErrInvalidChallengeType = errors.New("unknown challenge type")
	ErrInvalidTarget        = errors.New("target value must be a positive integer")
	ErrInvalidEndDate       = errors.New("end date must be in the future")
	ErrNegativeProgress     = errors.New("progress cannot be negative")
	ErrChallengeNotFound    = errors.New("challenge not found")
	ErrNotParticipant       = errors.New("user is not a participant of this challenge")
	ErrChallengeNotAccepted = errors.New("challenge is not in the accepted state")
	ErrChallengeResolved    = errors.New("challenge has already been responded to")
)

// CreateChallengeInput carries the validated fields for a new challenge.
type CreateChallengeInput struct {
	CreatorID   string
	OpponentID  string
	Type        models.ChallengeType
	Title       string
	Description *string
	TargetValue int
	EndDate     time.Time
}

// ChallengeService runs the two-party challenge state machine:
// pending -> accepted -> completed, with expired as the terminal state for
// declined or timed-out challenges. Completion requires both participants to
// reach the target.
type ChallengeService struct {
	repo          *repositories.ChallengeRepository
	notifications *NotificationService
	email         *EmailService
}

func NewChallengeService(repo *repositories.ChallengeRepository, notifications *NotificationService, email *EmailService) *ChallengeService {
	return &ChallengeService{
		repo:          repo,
		notifications: notifications,
		email:         email,
	}
}

// Create opens a challenge in the pending state with both counters at zero.
func (s *ChallengeService) Create(input CreateChallengeInput) (*models.Challenge, error) {
	if input.CreatorID == input.OpponentID {
		return nil, ErrSelfChallenge
	}
	if !models.IsValidChallengeType(input.Type) {
		return nil, ErrInvalidChallengeType
	}
	if input.TargetValue <= 0 {
		return nil, ErrInvalidTarget
	}

	now := time.Now()
	if !input.EndDate.After(now) {
		return nil, ErrInvalidEndDate
	}

	for _, id := range []string{input.CreatorID, input.OpponentID} {
		if _, err := s.repo.FindUserByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
	}

	challenge := &models.Challenge{
		CreatorID:   input.CreatorID,
		OpponentID:  input.OpponentID,
		Type:        input.Type,
		Title:       input.Title,
		Description: input.Description,
		TargetValue: input.TargetValue,
		Status:      models.ChallengeStatusPending,
		StartDate:   now,
		EndDate:     input.EndDate,
	}

	if err := s.repo.Create(challenge); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	s.notifications.Notify(models.NotificationTypeChallengeInvite, input.CreatorID, input.OpponentID, &challenge.ID)

	return s.Get(challenge.ID)
}

// ListForUser returns every challenge the user participates in, newest first.
// The time-expiry rule is applied lazily on read so stale accepted challenges
// never reach the client.
func (s *ChallengeService) ListForUser(userID string, page, limit int) ([]models.Challenge, error) {
	challenges, err := s.repo.ListForUser(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch challenges: %w", err)
	}

	now := time.Now()
	for i := range challenges {
		if _, err := s.repo.ExpireIfPast(&challenges[i], now); err != nil {
			return nil, fmt.Errorf("failed to expire challenge %d: %w", challenges[i].ID, err)
		}
		challenges[i].Creator.Sanitize()
		challenges[i].Opponent.Sanitize()
	}
	return challenges, nil
}

// Get returns a single challenge with both participant profiles.
func (s *ChallengeService) Get(challengeID uint) (*models.Challenge, error) {
	challenge, err := s.repo.FindByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to look up challenge: %w", err)
	}

	if _, err := s.repo.ExpireIfPast(challenge, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to expire challenge: %w", err)
	}

	challenge.Creator.Sanitize()
	challenge.Opponent.Sanitize()
	return challenge, nil
}

// Respond resolves the opponent's answer to a pending challenge: accept moves
// it forward, decline parks it in the expired terminal state. Responding to a
// challenge that is no longer pending is an error, never a second transition.
func (s *ChallengeService) Respond(challengeID uint, accept bool) error {
	challenge, err := s.repo.FindByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChallengeNotFound
		}
		return fmt.Errorf("failed to look up challenge: %w", err)
	}

	if _, err := s.repo.ExpireIfPast(challenge, time.Now()); err != nil {
		return fmt.Errorf("failed to expire challenge: %w", err)
	}
	if challenge.Status != models.ChallengeStatusPending {
		return ErrChallengeResolved
	}

	status := models.ChallengeStatusExpired
	if accept {
		status = models.ChallengeStatusAccepted
	}

	rows, err := s.repo.ResolvePending(challengeID, status)
	if err != nil {
		return fmt.Errorf("failed to resolve challenge: %w", err)
	}
	if rows == 0 {
		return ErrChallengeResolved
	}
	return nil
}

// UpdateProgress sets a participant's counter to an absolute value, the
// contract the mobile client was built against. The write is a single
// conditional update guarded by the accepted state; afterwards both counters
// are re-read and the challenge completes once both have reached the target.
func (s *ChallengeService) UpdateProgress(challengeID uint, participantID string, progress int) (*models.Challenge, error) {
	if progress < 0 {
		return nil, ErrNegativeProgress
	}

	column, err := s.progressColumn(challengeID, participantID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.SetProgress(challengeID, column, progress)
	if err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}
	if rows == 0 {
		return nil, ErrChallengeNotAccepted
	}

	return s.finishIfComplete(challengeID)
}

// IncrementProgress applies a delta in a single in-database expression. This
// is the race-safe alternative to absolute updates: two near-simultaneous
// increments from the same participant both land.
func (s *ChallengeService) IncrementProgress(challengeID uint, participantID string, delta int) (*models.Challenge, error) {
	if delta < 0 {
		return nil, ErrNegativeProgress
	}

	column, err := s.progressColumn(challengeID, participantID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.AddProgress(challengeID, column, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to increment progress: %w", err)
	}
	if rows == 0 {
		return nil, ErrChallengeNotAccepted
	}

	return s.finishIfComplete(challengeID)
}

// ExpireOverdue is the sweep entry point used by the background job.
func (s *ChallengeService) ExpireOverdue() (int64, error) {
	return s.repo.ExpireOverdue(time.Now())
}

// progressColumn resolves which counter belongs to the participant and runs
// the shared pre-update checks.
func (s *ChallengeService) progressColumn(challengeID uint, participantID string) (string, error) {
	challenge, err := s.repo.FindByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrChallengeNotFound
		}
		return "", fmt.Errorf("failed to look up challenge: %w", err)
	}

	if !challenge.IsParticipant(participantID) {
		return "", ErrNotParticipant
	}

	if _, err := s.repo.ExpireIfPast(challenge, time.Now()); err != nil {
		return "", fmt.Errorf("failed to expire challenge: %w", err)
	}
	if challenge.Status != models.ChallengeStatusAccepted {
		return "", ErrChallengeNotAccepted
	}

	if challenge.CreatorID == participantID {
		return "creator_progress", nil
	}
	return "opponent_progress", nil
}

// finishIfComplete re-reads the challenge and performs the
// accepted -> completed transition once both counters have reached the
// target. The conditional update keeps the transition idempotent when two
// final progress posts race.
func (s *ChallengeService) finishIfComplete(challengeID uint) (*models.Challenge, error) {
	challenge, err := s.repo.FindByID(challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload challenge: %w", err)
	}

	if challenge.Status == models.ChallengeStatusAccepted && challenge.BothReachedTarget() {
		if err := s.repo.MarkCompleted(challengeID); err != nil {
			return nil, fmt.Errorf("failed to complete challenge: %w", err)
		}
		challenge.Status = models.ChallengeStatusCompleted

		s.notifications.Notify(models.NotificationTypeChallengeComplete, challenge.CreatorID, challenge.OpponentID, &challenge.ID)
		s.notifications.Notify(models.NotificationTypeChallengeComplete, challenge.OpponentID, challenge.CreatorID, &challenge.ID)

		if s.email != nil {
			go s.email.SendChallengeCompletedEmails(challenge)
		}
	}

	challenge.Creator.Sanitize()
	challenge.Opponent.Sanitize()
	return challenge, nil
}

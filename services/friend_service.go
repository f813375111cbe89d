package services

import (
	"errors"
	"fmt"

	"deenconnect-api/models"
	"deenconnect-api/repositories"

	"gorm.io/gorm"
)

var (
	ErrSelfRequest     = errors.New("cannot send a friend request to yourself")
	ErrUserNotFound    = errors.New("user not found")
	ErrAlreadyFriends  = errors.New("already friends with this user")
	ErrRequestPending  = errors.New("a friend request between these users is already pending")
	ErrRequestNotFound = errors.New("friend request not found")
	ErrRequestResolved = errors.New("friend request has already been resolved")
)

// FriendService owns the friend-request lifecycle and the symmetric
// friendship relation derived from it. It holds no state between calls;
// every operation is a read-check-write against the store.
type FriendService struct {
	repo          *repositories.FriendRepository
	notifications *NotificationService
}

func NewFriendService(repo *repositories.FriendRepository, notifications *NotificationService) *FriendService {
	return &FriendService{
		repo:          repo,
		notifications: notifications,
	}
}

// SendRequest proposes a friendship. The application-level duplicate checks
// give actionable errors; the unique index on the canonical pending pair is
// what actually holds the invariant when two sends race.
func (s *FriendService) SendRequest(senderID, receiverID string) (*models.FriendRequest, error) {
	if senderID == receiverID {
		return nil, ErrSelfRequest
	}

	for _, id := range []string{senderID, receiverID} {
		if _, err := s.repo.FindUserByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
	}

	areFriends, err := s.repo.AreFriends(senderID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}
	if areFriends {
		return nil, ErrAlreadyFriends
	}

	existing, err := s.repo.FindPendingBetween(senderID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if existing != nil {
		return nil, ErrRequestPending
	}

	pairKey := models.PairKey(senderID, receiverID)
	request := &models.FriendRequest{
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Status:      models.FriendRequestStatusPending,
		PendingPair: &pairKey,
	}

	if err := s.repo.CreateRequest(request); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Another request for the pair slipped in between the check and
			// the insert.
			return nil, ErrRequestPending
		}
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	s.notifications.Notify(models.NotificationTypeFriendRequest, senderID, receiverID, nil)

	return request, nil
}

// ListIncoming returns pending requests addressed to the user, newest first.
func (s *FriendService) ListIncoming(userID string, page, limit int) ([]models.FriendRequest, error) {
	requests, err := s.repo.ListPendingIncoming(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch incoming requests: %w", err)
	}
	for i := range requests {
		requests[i].Sender.Sanitize()
	}
	return requests, nil
}

// ListOutgoing returns pending requests the user has sent, newest first.
func (s *FriendService) ListOutgoing(userID string, page, limit int) ([]models.FriendRequest, error) {
	requests, err := s.repo.ListPendingOutgoing(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outgoing requests: %w", err)
	}
	for i := range requests {
		requests[i].Receiver.Sanitize()
	}
	return requests, nil
}

// Respond resolves a pending request exactly once. On acceptance both
// directed friendship rows are written in the same transaction as the status
// change, so AreFriends holds in both directions the moment this returns.
func (s *FriendService) Respond(requestID uint, accept bool) (*models.FriendRequest, error) {
	request, err := s.repo.FindRequestByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to look up friend request: %w", err)
	}

	if request.IsResolved() {
		return nil, ErrRequestResolved
	}

	status := models.FriendRequestStatusRejected
	if accept {
		status = models.FriendRequestStatusAccepted
	}

	if err := s.repo.ResolveRequest(request, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A concurrent respond resolved it first.
			return nil, ErrRequestResolved
		}
		return nil, fmt.Errorf("failed to resolve friend request: %w", err)
	}

	if accept {
		s.notifications.Notify(models.NotificationTypeFriendAccept, request.ReceiverID, request.SenderID, nil)
	}

	return request, nil
}

// ListFriends returns the profiles of everyone the user is friends with.
func (s *FriendService) ListFriends(userID string) ([]models.User, error) {
	friends, err := s.repo.ListFriends(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch friends: %w", err)
	}
	for i := range friends {
		friends[i].Sanitize()
	}
	return friends, nil
}

// RemoveFriend deletes both directions of the friendship. Removing a
// friendship that does not exist is a no-op, not an error.
func (s *FriendService) RemoveFriend(userID, friendID string) error {
	if userID == friendID {
		return nil
	}
	if err := s.repo.RemoveFriendship(userID, friendID); err != nil {
		return fmt.Errorf("failed to remove friendship: %w", err)
	}
	return nil
}

// AreFriends is the reachability check collaborators use as a precondition.
func (s *FriendService) AreFriends(userID, friendID string) (bool, error) {
	return s.repo.AreFriends(userID, friendID)
}

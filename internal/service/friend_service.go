package service

import (
	"errors"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/circlehub/circlehub-backend/internal/repository"
	"github.com/google/uuid"
)

// FriendOutcome is what a social-graph transition resolved to
type FriendOutcome string

const (
	OutcomePending  FriendOutcome = "pending"
	OutcomeAccepted FriendOutcome = "accepted"
	OutcomeDeclined FriendOutcome = "declined"
)

// FriendService friend-request lifecycle. A pair never holds pending
// requests in both directions: a request answering an existing reverse
// request resolves straight to acceptance.
type FriendService interface {
	SendRequest(senderID, targetID string) (FriendOutcome, error)
	Respond(receiverID, senderID string, accept bool) (FriendOutcome, error)
	Friends(userID string) ([]*domain.UserResponse, error)
	ListRequests(userID string) (*domain.FriendRequestsResponse, error)
}

type friendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

// NewFriendService creates a new FriendService
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository) FriendService {
	return &friendService{friendRepo: friendRepo, userRepo: userRepo}
}

// SendRequest creates a pending edge from sender to target. If the target
// already has a pending request toward the sender, reciprocal intent is
// treated as mutual consent and the pair becomes friends immediately.
func (s *friendService) SendRequest(senderID, targetID string) (FriendOutcome, error) {
	if senderID == targetID {
		return "", common.ErrSelfReference
	}
	if _, err := s.userRepo.FindByID(targetID); err != nil {
		return "", err
	}

	friends, err := s.friendRepo.AreFriends(senderID, targetID)
	if err != nil {
		return "", err
	}
	if friends {
		return "", common.ErrAlreadyFriends
	}

	if _, err := s.friendRepo.FindPending(senderID, targetID); err == nil {
		return "", common.ErrAlreadyPending
	} else if !errors.Is(err, common.ErrNotFound) {
		return "", err
	}

	// Reverse direction pending? Auto-resolve to acceptance.
	if reverse, err := s.friendRepo.FindPending(targetID, senderID); err == nil {
		if err := s.accept(reverse); err != nil {
			return "", err
		}
		return OutcomeAccepted, nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return "", err
	}

	req := &domain.FriendRequest{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: targetID,
		Status:     domain.FriendPending,
	}
	if err := s.friendRepo.CreatePending(req); err != nil {
		return "", err
	}
	return OutcomePending, nil
}

// Respond resolves the pending request from senderID to receiverID
func (s *friendService) Respond(receiverID, senderID string, accept bool) (FriendOutcome, error) {
	req, err := s.friendRepo.FindPending(senderID, receiverID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrNotFound
		}
		return "", err
	}

	if !accept {
		if err := s.friendRepo.ResolvePending(req.ID, domain.FriendDeclined); err != nil {
			return "", err
		}
		return OutcomeDeclined, nil
	}

	if err := s.accept(req); err != nil {
		return "", err
	}
	return OutcomeAccepted, nil
}

// Friends returns the user's accepted friends
func (s *friendService) Friends(userID string) ([]*domain.UserResponse, error) {
	ids, err := s.friendRepo.FriendIDs(userID)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return responses, nil
}

// ListRequests returns the user's pending edges in both directions
func (s *friendService) ListRequests(userID string) (*domain.FriendRequestsResponse, error) {
	incoming, err := s.friendRepo.ListIncoming(userID)
	if err != nil {
		return nil, err
	}
	outgoing, err := s.friendRepo.ListOutgoing(userID)
	if err != nil {
		return nil, err
	}
	return &domain.FriendRequestsResponse{Incoming: incoming, Outgoing: outgoing}, nil
}

// accept resolves a pending request and writes the undirected edge
func (s *friendService) accept(req *domain.FriendRequest) error {
	if err := s.friendRepo.ResolvePending(req.ID, domain.FriendAccepted); err != nil {
		return err
	}
	return s.friendRepo.CreateFriendship(req.SenderID, req.ReceiverID)
}

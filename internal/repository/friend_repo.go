package repository

import (
	"errors"
	"time"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendRepository social graph data access interface
type FriendRepository interface {
	FindPending(senderID, receiverID string) (*domain.FriendRequest, error)
	CreatePending(req *domain.FriendRequest) error
	ResolvePending(id string, status domain.FriendRequestStatus) error
	AreFriends(userA, userB string) (bool, error)
	CreateFriendship(userA, userB string) error
	FriendIDs(userID string) ([]string, error)
	ListIncoming(userID string) ([]*domain.FriendRequest, error)
	ListOutgoing(userID string) ([]*domain.FriendRequest, error)
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new FriendRepository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

// FindPending finds the pending request from sender to receiver, if any
func (r *friendRepository) FindPending(senderID, receiverID string) (*domain.FriendRequest, error) {
	var req domain.FriendRequest
	err := r.db.Where("sender_id = ? AND receiver_id = ? AND status = ?",
		senderID, receiverID, domain.FriendPending).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// CreatePending inserts a new pending request. The pair-direction unique
// index keeps one row per (sender, receiver); a previously declined row is
// revived as a fresh pending request.
func (r *friendRepository) CreatePending(req *domain.FriendRequest) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sender_id"}, {Name: "receiver_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"id":         req.ID,
			"status":     domain.FriendPending,
			"created_at": time.Now(),
		}),
	}).Create(req).Error
}

// ResolvePending moves a request out of pending
func (r *friendRepository) ResolvePending(id string, status domain.FriendRequestStatus) error {
	result := r.db.Model(&domain.FriendRequest{}).
		Where("id = ? AND status = ?", id, domain.FriendPending).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrRequestResolved
	}
	return nil
}

// AreFriends reports whether an accepted edge exists for the pair
func (r *friendRepository) AreFriends(userA, userB string) (bool, error) {
	a, b := domain.SortedPair(userA, userB)
	var count int64
	err := r.db.Model(&domain.Friendship{}).
		Where("user_a = ? AND user_b = ?", a, b).
		Count(&count).Error
	return count > 0, err
}

// CreateFriendship inserts the undirected edge; duplicate pairs are ignored
func (r *friendRepository) CreateFriendship(userA, userB string) error {
	a, b := domain.SortedPair(userA, userB)
	edge := &domain.Friendship{UserA: a, UserB: b}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(edge).Error
}

// FriendIDs returns all accepted friends of a user
func (r *friendRepository) FriendIDs(userID string) ([]string, error) {
	var edges []domain.Friendship
	err := r.db.Where("user_a = ? OR user_b = ?", userID, userID).Find(&edges).Error
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		if e.UserA == userID {
			ids = append(ids, e.UserB)
		} else {
			ids = append(ids, e.UserA)
		}
	}
	return ids, nil
}

// ListIncoming returns pending requests addressed to the user
func (r *friendRepository) ListIncoming(userID string) ([]*domain.FriendRequest, error) {
	var reqs []*domain.FriendRequest
	err := r.db.Where("receiver_id = ? AND status = ?", userID, domain.FriendPending).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// ListOutgoing returns pending requests sent by the user
func (r *friendRepository) ListOutgoing(userID string) ([]*domain.FriendRequest, error) {
	var reqs []*domain.FriendRequest
	err := r.db.Where("sender_id = ? AND status = ?", userID, domain.FriendPending).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

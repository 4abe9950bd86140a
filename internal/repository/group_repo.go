package repository

import (
	"errors"
	"time"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupRepository group and membership data access interface
type GroupRepository interface {
	Create(group *domain.Group, creator *domain.GroupMember) error
	FindByID(id string) (*domain.Group, error)
	List(page, limit int) ([]*domain.Group, int64, error)
	Delete(id string) error

	AddMember(member *domain.GroupMember) error
	AddAdminMember(member *domain.GroupMember) error
	RemoveMember(groupID, userID string) error
	IsMember(groupID, userID string) (bool, error)
	IsGroupAdmin(groupID, userID string) (bool, error)
	MemberIDs(groupID string) ([]string, error)
	CountMembers(groupID string) (int64, error)
	GroupIDsForUser(userID string) ([]string, error)

	UpsertJoinRequest(req *domain.JoinRequest) error
	FindJoinRequest(id string) (*domain.JoinRequest, error)
	ListJoinRequests(groupID string) ([]*domain.JoinRequest, error)
	UpdateJoinRequest(req *domain.JoinRequest) error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// Create creates a group and its creator membership in one transaction
func (r *groupRepository) Create(group *domain.Group, creator *domain.GroupMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		return tx.Create(creator).Error
	})
}

// FindByID finds a group by ID
func (r *groupRepository) FindByID(id string) (*domain.Group, error) {
	var group domain.Group
	err := r.db.Where("id = ?", id).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

// List returns groups ordered by creation time
func (r *groupRepository) List(page, limit int) ([]*domain.Group, int64, error) {
	var groups []*domain.Group
	var total int64

	r.db.Model(&domain.Group{}).Count(&total)

	offset := (page - 1) * limit
	err := r.db.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&groups).Error
	return groups, total, err
}

// Delete removes the group with its memberships, join requests and messages
func (r *groupRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&domain.GroupMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&domain.JoinRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_kind = ? AND room_id = ?", domain.RoomGroup, id).
			Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Group{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrGroupNotFound
		}
		return nil
	})
}

// AddMember inserts a membership; re-adding an existing member is a no-op
func (r *groupRepository) AddMember(member *domain.GroupMember) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(member).Error
}

// AddAdminMember inserts or promotes a membership to group admin
func (r *groupRepository) AddAdminMember(member *domain.GroupMember) error {
	member.IsAdmin = true
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_admin": true}),
	}).Create(member).Error
}

// RemoveMember deletes a membership
func (r *groupRepository) RemoveMember(groupID, userID string) error {
	return r.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&domain.GroupMember{}).Error
}

// IsMember reports whether userID belongs to the group
func (r *groupRepository) IsMember(groupID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

// IsGroupAdmin reports whether userID is an admin member of the group
func (r *groupRepository) IsGroupAdmin(groupID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.GroupMember{}).
		Where("group_id = ? AND user_id = ? AND is_admin = ?", groupID, userID, true).
		Count(&count).Error
	return count > 0, err
}

// MemberIDs returns all member user IDs of the group
func (r *groupRepository) MemberIDs(groupID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&domain.GroupMember{}).
		Where("group_id = ?", groupID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// CountMembers returns the member count
func (r *groupRepository) CountMembers(groupID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.GroupMember{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

// GroupIDsForUser returns the IDs of all groups the user belongs to
func (r *groupRepository) GroupIDsForUser(userID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&domain.GroupMember{}).
		Where("user_id = ?", userID).
		Pluck("group_id", &ids).Error
	return ids, err
}

// UpsertJoinRequest creates or refreshes the single request row per
// (group, requester)
func (r *groupRepository) UpsertJoinRequest(req *domain.JoinRequest) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"answers", "level", "status", "decided_by", "decided_at", "updated_at",
		}),
	}).Create(req).Error
}

// FindJoinRequest finds a join request by ID
func (r *groupRepository) FindJoinRequest(id string) (*domain.JoinRequest, error) {
	var req domain.JoinRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// ListJoinRequests returns a group's join requests, newest first
func (r *groupRepository) ListJoinRequests(groupID string) ([]*domain.JoinRequest, error) {
	var reqs []*domain.JoinRequest
	err := r.db.Where("group_id = ?", groupID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// UpdateJoinRequest saves decision fields on an existing request
func (r *groupRepository) UpdateJoinRequest(req *domain.JoinRequest) error {
	now := time.Now()
	req.UpdatedAt = now
	return r.db.Model(&domain.JoinRequest{}).Where("id = ?", req.ID).
		Updates(map[string]interface{}{
			"status":     req.Status,
			"decided_by": req.DecidedBy,
			"decided_at": req.DecidedAt,
			"updated_at": req.UpdatedAt,
		}).Error
}

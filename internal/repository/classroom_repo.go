package repository

import (
	"errors"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"gorm.io/gorm"
)

// ClassroomRepository classroom request data access interface
type ClassroomRepository interface {
	Create(req *domain.ClassroomRequest) error
	FindByID(id string) (*domain.ClassroomRequest, error)
	CountPendingByRequester(requesterID string) (int64, error)
	ListByRequester(requesterID string) ([]*domain.ClassroomRequest, error)
	ListAll(page, limit int) ([]*domain.ClassroomRequest, int64, error)
	Resolve(req *domain.ClassroomRequest) error
	LinkGroup(requestID, groupID string) error
}

type classroomRepository struct {
	db *gorm.DB
}

// NewClassroomRepository creates a new ClassroomRepository
func NewClassroomRepository(db *gorm.DB) ClassroomRepository {
	return &classroomRepository{db: db}
}

// Create inserts a new pending request
func (r *classroomRepository) Create(req *domain.ClassroomRequest) error {
	return r.db.Create(req).Error
}

// FindByID finds a classroom request by ID
func (r *classroomRepository) FindByID(id string) (*domain.ClassroomRequest, error) {
	var req domain.ClassroomRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// CountPendingByRequester counts a member's open requests
func (r *classroomRepository) CountPendingByRequester(requesterID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ClassroomRequest{}).
		Where("requester_id = ? AND status = ?", requesterID, domain.ClassroomPending).
		Count(&count).Error
	return count, err
}

// ListByRequester returns a member's own requests, newest first
func (r *classroomRepository) ListByRequester(requesterID string) ([]*domain.ClassroomRequest, error) {
	var reqs []*domain.ClassroomRequest
	err := r.db.Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// ListAll returns all requests for admin review, newest first
func (r *classroomRepository) ListAll(page, limit int) ([]*domain.ClassroomRequest, int64, error) {
	var reqs []*domain.ClassroomRequest
	var total int64

	r.db.Model(&domain.ClassroomRequest{}).Count(&total)

	offset := (page - 1) * limit
	err := r.db.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reqs).Error
	return reqs, total, err
}

// Resolve writes the decision onto a still-pending request. The status
// guard enforces the single pending→terminal transition.
func (r *classroomRepository) Resolve(req *domain.ClassroomRequest) error {
	result := r.db.Model(&domain.ClassroomRequest{}).
		Where("id = ? AND status = ?", req.ID, domain.ClassroomPending).
		Updates(map[string]interface{}{
			"status":      req.Status,
			"decided_by":  req.DecidedBy,
			"decided_at":  req.DecidedAt,
			"admin_notes": req.AdminNotes,
			"group_id":    req.GroupID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrRequestResolved
	}
	return nil
}

// LinkGroup records the provisioned room on an already-approved request
func (r *classroomRepository) LinkGroup(requestID, groupID string) error {
	return r.db.Model(&domain.ClassroomRequest{}).
		Where("id = ?", requestID).
		Update("group_id", groupID).Error
}

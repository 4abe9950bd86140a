package repository

import (
	"github.com/circlehub/circlehub-backend/internal/domain"
	"gorm.io/gorm"
)

// ViolationRepository violation ledger access interface. Append-only:
// there is deliberately no update or delete.
type ViolationRepository interface {
	Create(v *domain.Violation) error
	List(page, limit int) ([]*domain.Violation, int64, error)
	ListByUser(userID string) ([]*domain.Violation, error)
}

type violationRepository struct {
	db *gorm.DB
}

// NewViolationRepository creates a new ViolationRepository
func NewViolationRepository(db *gorm.DB) ViolationRepository {
	return &violationRepository{db: db}
}

// Create appends a violation record
func (r *violationRepository) Create(v *domain.Violation) error {
	return r.db.Create(v).Error
}

// List returns violations, newest first
func (r *violationRepository) List(page, limit int) ([]*domain.Violation, int64, error) {
	var violations []*domain.Violation
	var total int64

	r.db.Model(&domain.Violation{}).Count(&total)

	offset := (page - 1) * limit
	err := r.db.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&violations).Error
	return violations, total, err
}

// ListByUser returns a user's violations, newest first
func (r *violationRepository) ListByUser(userID string) ([]*domain.Violation, error) {
	var violations []*domain.Violation
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&violations).Error
	return violations, err
}

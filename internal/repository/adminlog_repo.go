package repository

import (
	"github.com/circlehub/circlehub-backend/internal/domain"
	"gorm.io/gorm"
)

// AdminLogRepository audit log access interface. Append-only.
type AdminLogRepository interface {
	Create(entry *domain.AdminLogEntry) error
	List(page, limit int) ([]*domain.AdminLogEntry, int64, error)
}

type adminLogRepository struct {
	db *gorm.DB
}

// NewAdminLogRepository creates a new AdminLogRepository
func NewAdminLogRepository(db *gorm.DB) AdminLogRepository {
	return &adminLogRepository{db: db}
}

// Create appends an audit entry
func (r *adminLogRepository) Create(entry *domain.AdminLogEntry) error {
	return r.db.Create(entry).Error
}

// List returns audit entries, newest first
func (r *adminLogRepository) List(page, limit int) ([]*domain.AdminLogEntry, int64, error) {
	var entries []*domain.AdminLogEntry
	var total int64

	r.db.Model(&domain.AdminLogEntry{}).Count(&total)

	offset := (page - 1) * limit
	err := r.db.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	return entries, total, err
}

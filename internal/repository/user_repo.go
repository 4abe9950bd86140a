package repository

import (
	"errors"
	"time"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access interface
type UserRepository interface {
	Create(user *domain.User) error
	FindByID(id string) (*domain.User, error)
	FindByIDs(ids []string) ([]*domain.User, error)
	List(page, limit int) ([]*domain.User, int64, error)
	UpdateStatus(id string, status domain.UserStatus, suspendedAt *time.Time) error
	UpdateRole(id string, role domain.Role) error
	SetPresence(id string, online bool, lastSeen time.Time) error
	IncrementViolationCount(id string) (int, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *userRepository) FindByID(id string) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByIDs loads a batch of users
func (r *userRepository) FindByIDs(ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*domain.User
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// List returns users ordered by creation time
func (r *userRepository) List(page, limit int) ([]*domain.User, int64, error) {
	var users []*domain.User
	var total int64

	r.db.Model(&domain.User{}).Count(&total)

	offset := (page - 1) * limit
	err := r.db.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, total, err
}

// UpdateStatus transitions the account status
func (r *userRepository) UpdateStatus(id string, status domain.UserStatus, suspendedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if suspendedAt != nil {
		updates["suspended_at"] = suspendedAt
	}
	result := r.db.Model(&domain.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

// UpdateRole changes the account role
func (r *userRepository) UpdateRole(id string, role domain.Role) error {
	result := r.db.Model(&domain.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

// SetPresence persists the online flag and last-seen so REST reads stay
// consistent with live connection state
func (r *userRepository) SetPresence(id string, online bool, lastSeen time.Time) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_online":    online,
			"last_seen_at": lastSeen,
		}).Error
}

// IncrementViolationCount bumps the counter atomically and returns the new
// value, so two concurrent violations can't both observe a pre-threshold
// count.
func (r *userRepository) IncrementViolationCount(id string) (int, error) {
	err := r.db.Model(&domain.User{}).Where("id = ?", id).
		UpdateColumn("violation_count", gorm.Expr("violation_count + 1")).Error
	if err != nil {
		return 0, err
	}

	var user domain.User
	if err := r.db.Select("violation_count").Where("id = ?", id).First(&user).Error; err != nil {
		return 0, err
	}
	return user.ViolationCount, nil
}

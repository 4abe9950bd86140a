package migration

import (
	"os"

	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for every table and seeds the bootstrap
// superadmin when the users table is empty.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Group{},
		&domain.GroupMember{},
		&domain.JoinRequest{},
		&domain.Conversation{},
		&domain.Message{},
		&domain.MessageReaction{},
		&domain.MessageRead{},
		&domain.FriendRequest{},
		&domain.Friendship{},
		&domain.Violation{},
		&domain.ClassroomRequest{},
		&domain.AdminLogEntry{},
	); err != nil {
		return err
	}

	var count int64
	db.Model(&domain.User{}).Count(&count)
	if count == 0 {
		return seedSuperadmin(db)
	}
	return nil
}

// seedSuperadmin creates the first account so a fresh deployment has
// someone who can approve classrooms and manage roles.
func seedSuperadmin(db *gorm.DB) error {
	name := os.Getenv("BOOTSTRAP_ADMIN_NAME")
	if name == "" {
		name = "admin"
	}
	return db.Create(&domain.User{
		ID:          uuid.New().String(),
		DisplayName: name,
		Role:        domain.RoleSuperadmin,
		Status:      domain.UserActive,
	}).Error
}

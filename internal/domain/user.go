package domain

import "time"

// Role levels. Escalation to superadmin requires a superadmin actor.
type Role string

const (
	RoleMember     Role = "member"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// UserStatus account states. Suspended/deleted users cannot open
// connections or send messages; delete is terminal, suspend is not.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
	UserDeleted   UserStatus = "deleted"
)

// User represents a platform account
type User struct {
	ID             string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	DisplayName    string     `gorm:"column:display_name;type:varchar(100)" json:"display_name"`
	CredentialRef  string     `gorm:"column:credential_ref;type:varchar(191)" json:"-"`
	Role           Role       `gorm:"column:role;type:varchar(20);default:'member'" json:"role"`
	Status         UserStatus `gorm:"column:status;type:varchar(20);default:'active';index" json:"status"`
	ViolationCount int        `gorm:"column:violation_count;default:0" json:"violation_count"`
	IsOnline       bool       `gorm:"column:is_online;default:false" json:"is_online"`
	LastSeenAt     *time.Time `gorm:"column:last_seen_at" json:"last_seen_at,omitempty"`
	SuspendedAt    *time.Time `gorm:"column:suspended_at" json:"suspended_at,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name
func (User) TableName() string { return "users" }

// CanConnect reports whether the account may open new live connections
func (u *User) CanConnect() bool {
	return u.Status == UserActive
}

// IsAdmin reports whether the account holds admin or superadmin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperadmin
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Role        Role       `json:"role"`
	Status      UserStatus `json:"status"`
	IsOnline    bool       `json:"is_online"`
	LastSeenAt  *time.Time `json:"last_seen_at,omitempty"`
}

// ToResponse converts User to its public view
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Status:      u.Status,
		IsOnline:    u.IsOnline,
		LastSeenAt:  u.LastSeenAt,
	}
}

package domain

import "time"

// AdminAction kinds of privileged operations recorded in the audit log
type AdminAction string

const (
	ActionSuspend    AdminAction = "suspend"
	ActionReinstate  AdminAction = "reinstate"
	ActionDelete     AdminAction = "delete"
	ActionRoleUpdate AdminAction = "role_update"
)

// SystemActor is the actor recorded on automatic moderation suspensions
const SystemActor = "system"

// AdminLogEntry is one append-only audit record
type AdminLogEntry struct {
	ID        string      `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	ActorID   string      `gorm:"column:actor_id;type:varchar(36);index" json:"actor_id"`
	Action    AdminAction `gorm:"column:action;type:varchar(20);index" json:"action"`
	TargetID  string      `gorm:"column:target_id;type:varchar(36);index" json:"target_id"`
	Details   string      `gorm:"column:details;type:text" json:"details,omitempty"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (AdminLogEntry) TableName() string { return "admin_logs" }

// UpdateRoleRequest is the payload for changing a user's role
type UpdateRoleRequest struct {
	Role Role `json:"role" binding:"required"`
}

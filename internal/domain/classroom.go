package domain

import "time"

// ClassroomRequestStatus lifecycle; pending transitions out exactly once
type ClassroomRequestStatus string

const (
	ClassroomPending  ClassroomRequestStatus = "pending"
	ClassroomApproved ClassroomRequestStatus = "approved"
	ClassroomDeclined ClassroomRequestStatus = "declined"
)

// ClassroomRequest is a member's proposal for a classroom room. Approval
// provisions exactly one classroom-kind group and links it here.
type ClassroomRequest struct {
	ID          string                 `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Name        string                 `gorm:"column:name;type:varchar(100)" json:"name"`
	Description string                 `gorm:"column:description;type:text" json:"description"`
	RequesterID string                 `gorm:"column:requester_id;type:varchar(36);index" json:"requester_id"`
	Status      ClassroomRequestStatus `gorm:"column:status;type:varchar(20);default:'pending';index" json:"status"`
	DecidedBy   string                 `gorm:"column:decided_by;type:varchar(36)" json:"decided_by,omitempty"`
	DecidedAt   *time.Time             `gorm:"column:decided_at" json:"decided_at,omitempty"`
	AdminNotes  string                 `gorm:"column:admin_notes;type:text" json:"admin_notes,omitempty"`
	GroupID     string                 `gorm:"column:group_id;type:varchar(36)" json:"group_id,omitempty"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (ClassroomRequest) TableName() string { return "classroom_requests" }

// SubmitClassroomRequest is the payload for proposing a classroom
type SubmitClassroomRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// DeclineClassroomRequest carries the admin's notes on a decline
type DeclineClassroomRequest struct {
	Notes string `json:"notes"`
}

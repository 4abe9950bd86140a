package domain

import "time"

// ViolationStatus records what the violation resulted in
type ViolationStatus string

const (
	ViolationWarning       ViolationStatus = "warning"
	ViolationAutoSuspended ViolationStatus = "auto_suspended"
)

// Violation is one recorded moderation hit. Append-only; rows are never
// mutated after creation.
type Violation struct {
	ID              string          `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID          string          `gorm:"column:user_id;type:varchar(36);index" json:"user_id"`
	MessageID       string          `gorm:"column:message_id;type:varchar(36)" json:"message_id,omitempty"`
	RoomKind        RoomKind        `gorm:"column:room_kind;type:varchar(10)" json:"room_kind"`
	RoomID          string          `gorm:"column:room_id;type:varchar(80)" json:"room_id"`
	MatchedTerm     string          `gorm:"column:matched_term;type:varchar(100)" json:"matched_term"`
	Snippet         string          `gorm:"column:snippet;type:varchar(255)" json:"snippet"`
	ResultingStatus ViolationStatus `gorm:"column:resulting_status;type:varchar(20)" json:"resulting_status"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (Violation) TableName() string { return "violations" }

package domain

import "time"

// GroupKind distinguishes self-created rooms from classroom-provisioned ones.
// A classroom group is only ever created by workflow approval.
type GroupKind string

const (
	GroupCommunity GroupKind = "community"
	GroupClassroom GroupKind = "classroom"
)

// Group represents a multi-member chat room ("circle")
type Group struct {
	ID          string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Name        string     `gorm:"column:name;type:varchar(100)" json:"name"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Kind        GroupKind  `gorm:"column:kind;type:varchar(20);default:'community';index" json:"kind"`
	CreatorID   string     `gorm:"column:creator_id;type:varchar(36);index" json:"creator_id"`
	Topics      StringList `gorm:"column:topics;type:json" json:"topics,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (Group) TableName() string { return "groups" }

// GroupMember links a user to a group. Admins are always members.
type GroupMember struct {
	ID       uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	GroupID  string    `gorm:"column:group_id;type:varchar(36);uniqueIndex:uq_group_member" json:"group_id"`
	UserID   string    `gorm:"column:user_id;type:varchar(36);uniqueIndex:uq_group_member;index" json:"user_id"`
	IsAdmin  bool      `gorm:"column:is_admin;default:false" json:"is_admin"`
	JoinedAt time.Time `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`
}

// TableName returns the table name
func (GroupMember) TableName() string { return "group_members" }

// JoinRequestStatus lifecycle of a join request
type JoinRequestStatus string

const (
	JoinPending  JoinRequestStatus = "pending"
	JoinApproved JoinRequestStatus = "approved"
	JoinDeclined JoinRequestStatus = "declined"
)

// JoinRequest records a user's intent to join a group. Requests carrying
// assessment answers are approved on submit; the rest wait for an admin.
// One row per (group, user); resubmitting updates the existing row.
type JoinRequest struct {
	ID        string            `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	GroupID   string            `gorm:"column:group_id;type:varchar(36);uniqueIndex:uq_join_request" json:"group_id"`
	UserID    string            `gorm:"column:user_id;type:varchar(36);uniqueIndex:uq_join_request" json:"user_id"`
	Answers   StringList        `gorm:"column:answers;type:json" json:"answers,omitempty"`
	Level     string            `gorm:"column:level;type:varchar(50)" json:"level,omitempty"`
	Status    JoinRequestStatus `gorm:"column:status;type:varchar(20);default:'pending'" json:"status"`
	DecidedBy string            `gorm:"column:decided_by;type:varchar(36)" json:"decided_by,omitempty"`
	DecidedAt *time.Time        `gorm:"column:decided_at" json:"decided_at,omitempty"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name
func (JoinRequest) TableName() string { return "join_requests" }

// CreateGroupRequest is the payload for creating a group
type CreateGroupRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Topics      []string `json:"topics"`
}

// SubmitJoinRequest is the payload for requesting group membership
type SubmitJoinRequest struct {
	Answers []string `json:"answers"`
	Level   string   `json:"level"`
}

// JoinDecisionRequest is the payload for approving/declining a join request
type JoinDecisionRequest struct {
	Approve bool `json:"approve"`
}

// GroupResponse is the public view of a group
type GroupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Kind        GroupKind `json:"kind"`
	CreatorID   string    `json:"creator_id"`
	Topics      []string  `json:"topics,omitempty"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToResponse converts Group to its public view
func (g *Group) ToResponse(memberCount int) *GroupResponse {
	return &GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Kind:        g.Kind,
		CreatorID:   g.CreatorID,
		Topics:      g.Topics,
		MemberCount: memberCount,
		CreatedAt:   g.CreatedAt,
	}
}

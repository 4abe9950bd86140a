package domain

import "time"

// FriendRequestStatus lifecycle of a friend request
type FriendRequestStatus string

const (
	FriendPending  FriendRequestStatus = "pending"
	FriendAccepted FriendRequestStatus = "accepted"
	FriendDeclined FriendRequestStatus = "declined"
)

// FriendRequest is a directed pending edge. A pair never holds pending
// edges in both directions: the reverse request auto-resolves to
// acceptance instead.
type FriendRequest struct {
	ID         string              `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	SenderID   string              `gorm:"column:sender_id;type:varchar(36);uniqueIndex:uq_friend_request;index" json:"sender_id"`
	ReceiverID string              `gorm:"column:receiver_id;type:varchar(36);uniqueIndex:uq_friend_request;index" json:"receiver_id"`
	Status     FriendRequestStatus `gorm:"column:status;type:varchar(20);default:'pending'" json:"status"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name
func (FriendRequest) TableName() string { return "friend_requests" }

// Friendship is an accepted, undirected edge stored as a sorted pair
type Friendship struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserA     string    `gorm:"column:user_a;type:varchar(36);uniqueIndex:uq_friendship;index" json:"user_a"`
	UserB     string    `gorm:"column:user_b;type:varchar(36);uniqueIndex:uq_friendship;index" json:"user_b"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (Friendship) TableName() string { return "friendships" }

// SortedPair normalizes an undirected edge
func SortedPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// SendFriendRequest is the payload for sending a friend request
type SendFriendRequest struct {
	TargetID string `json:"target_id" binding:"required"`
}

// RespondFriendRequest is the payload for accepting/declining
type RespondFriendRequest struct {
	Accept bool `json:"accept"`
}

// FriendRequestsResponse lists both directions of pending edges for a user
type FriendRequestsResponse struct {
	Incoming []*FriendRequest `json:"incoming"`
	Outgoing []*FriendRequest `json:"outgoing"`
}

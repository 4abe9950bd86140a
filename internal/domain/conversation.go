package domain

import "time"

// Conversation is a two-party private chat. Its ID is the canonical pair
// key so both participants resolve to the same record regardless of who
// initiated.
type Conversation struct {
	ID        string    `gorm:"column:id;type:varchar(80);primaryKey" json:"id"`
	UserA     string    `gorm:"column:user_a;type:varchar(36);index" json:"user_a"`
	UserB     string    `gorm:"column:user_b;type:varchar(36);index" json:"user_b"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (Conversation) TableName() string { return "conversations" }

// ConversationID derives the canonical pair key: sorted pair join.
// ConversationID(a, b) == ConversationID(b, a) always.
func ConversationID(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}

// Participants returns the sorted pair for a canonical key
func (c *Conversation) Participants() (string, string) {
	return c.UserA, c.UserB
}

// Other returns the participant that is not userID
func (c *Conversation) Other(userID string) string {
	if c.UserA == userID {
		return c.UserB
	}
	return c.UserA
}

package domain

import "time"

// RoomKind identifies which engine owns a message
type RoomKind string

const (
	RoomGroup   RoomKind = "group"
	RoomPrivate RoomKind = "private"
)

// Message is the shared message shape for group rooms and private
// conversations. Messages are rows keyed by (room_kind, room_id), not
// documents embedded in the room, so concurrent appends never rewrite
// each other.
type Message struct {
	ID          string         `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	RoomKind    RoomKind       `gorm:"column:room_kind;type:varchar(10);uniqueIndex:uq_room_msg" json:"room_kind"`
	RoomID      string         `gorm:"column:room_id;type:varchar(80);uniqueIndex:uq_room_msg;index:idx_room_created,priority:1" json:"room_id"`
	SenderID    string         `gorm:"column:sender_id;type:varchar(36);index" json:"sender_id"`
	SenderName  string         `gorm:"column:sender_name;type:varchar(100)" json:"sender_name"`
	Body        string         `gorm:"column:body;type:text" json:"body"`
	Attachments AttachmentList `gorm:"column:attachments;type:json" json:"attachments,omitempty"`
	VoiceNote   *VoiceNote     `gorm:"column:voice_note;type:json" json:"voice_note,omitempty"`
	System      bool           `gorm:"column:is_system;default:false" json:"system,omitempty"`
	Archived    bool           `gorm:"column:archived;default:false;index" json:"archived"`
	ArchivedAt  *time.Time     `gorm:"column:archived_at" json:"archived_at,omitempty"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime;index:idx_room_created,priority:2" json:"created_at"`
}

// TableName returns the table name
func (Message) TableName() string { return "messages" }

// MessageReaction is one user's emoji reaction to a message. The unique
// index makes re-adding the same reaction an idempotent no-op insert.
type MessageReaction struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	MessageID string    `gorm:"column:message_id;type:varchar(36);uniqueIndex:uq_reaction" json:"message_id"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);uniqueIndex:uq_reaction" json:"user_id"`
	Emoji     string    `gorm:"column:emoji;type:varchar(32);uniqueIndex:uq_reaction" json:"emoji"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (MessageReaction) TableName() string { return "message_reactions" }

// MessageRead is a read receipt; unique per (message, user)
type MessageRead struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	MessageID string    `gorm:"column:message_id;type:varchar(36);uniqueIndex:uq_read" json:"message_id"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);uniqueIndex:uq_read" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (MessageRead) TableName() string { return "message_reads" }

// ReactionGroup is the grouped view of one emoji on a message:
// count plus who reacted, so clients can mark their own reactions.
type ReactionGroup struct {
	Emoji string   `json:"emoji"`
	Count int      `json:"count"`
	Users []string `json:"users"`
}

// MessageResponse is the wire view of a message, reactions and reads folded in
type MessageResponse struct {
	ID          string          `json:"id"`
	RoomKind    RoomKind        `json:"room_kind"`
	RoomID      string          `json:"room_id"`
	SenderID    string          `json:"sender_id"`
	SenderName  string          `json:"sender_name"`
	Body        string          `json:"body"`
	Attachments []Attachment    `json:"attachments,omitempty"`
	VoiceNote   *VoiceNote      `json:"voice_note,omitempty"`
	System      bool            `json:"system,omitempty"`
	Reactions   []ReactionGroup `json:"reactions,omitempty"`
	ReadBy      []string        `json:"read_by,omitempty"`
	Archived    bool            `json:"archived"`
	ArchivedAt  *time.Time      `json:"archived_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToResponse converts a Message plus its reaction/read rows to the wire view
func (m *Message) ToResponse(reactions []MessageReaction, reads []MessageRead) *MessageResponse {
	resp := &MessageResponse{
		ID:          m.ID,
		RoomKind:    m.RoomKind,
		RoomID:      m.RoomID,
		SenderID:    m.SenderID,
		SenderName:  m.SenderName,
		Body:        m.Body,
		Attachments: m.Attachments,
		VoiceNote:   m.VoiceNote,
		System:      m.System,
		Archived:    m.Archived,
		ArchivedAt:  m.ArchivedAt,
		CreatedAt:   m.CreatedAt,
	}

	groups := make(map[string]*ReactionGroup)
	var order []string
	for _, r := range reactions {
		g, ok := groups[r.Emoji]
		if !ok {
			g = &ReactionGroup{Emoji: r.Emoji}
			groups[r.Emoji] = g
			order = append(order, r.Emoji)
		}
		g.Count++
		g.Users = append(g.Users, r.UserID)
	}
	for _, emoji := range order {
		resp.Reactions = append(resp.Reactions, *groups[emoji])
	}

	for _, r := range reads {
		resp.ReadBy = append(resp.ReadBy, r.UserID)
	}
	return resp
}

// SendMessageRequest is the inbound payload for posting a message
type SendMessageRequest struct {
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments,omitempty"`
	VoiceNote   *VoiceNote   `json:"voice_note,omitempty"`
}

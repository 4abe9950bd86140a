package ws

import "encoding/json"

// Event is one frame on the live channel, both directions
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// InboundEvent is a client frame before payload decoding
type InboundEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Inbound event types
const (
	EvIdentify       = "identify"
	EvGroupJoin      = "group.join"
	EvGroupMessage   = "group.message"
	EvGroupCreate    = "group.create"
	EvPrivateStart   = "private.start"
	EvPrivateMessage = "private.message"
	EvTypingStart    = "typing.start"
	EvTypingStop     = "typing.stop"
	EvMessageRead    = "message.read"
	EvMessageReact   = "message.react"
)

// Outbound event types
const (
	EvIdentified        = "identified"
	EvGroupHistory      = "group.history"
	EvPrivateHistory    = "private.history"
	EvMessageArchived   = "group.message.archived"
	EvUserStatus        = "user.status"
	EvGroupCreated      = "group.created"
	EvGroupJoined       = "group.joined"
	EvGroupLeft         = "group.left"
	EvFriendRequest     = "friend.request"
	EvFriendAccepted    = "friend.accepted"
	EvFriendDeclined    = "friend.declined"
	EvClassroomApproved = "classroom.approved"
	EvClassroomDeclined = "classroom.declined"
)

// PresencePayload is the body of a user.status event
type PresencePayload struct {
	UserID string `json:"user_id"`
	Online bool   `json:"online"`
}

// TypingPayload relays typing state; never persisted
type TypingPayload struct {
	GroupID  string `json:"group_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`
	UserID   string `json:"user_id"`
}

// ArchivedPayload is the body of a group.message.archived event
type ArchivedPayload struct {
	GroupID   string `json:"group_id"`
	MessageID string `json:"message_id"`
}

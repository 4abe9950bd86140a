package handler

import (
	"encoding/json"
	"errors"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/circlehub/circlehub-backend/internal/service"
	"github.com/circlehub/circlehub-backend/internal/ws"
	"github.com/circlehub/circlehub-backend/pkg/logger"
)

// EventRouter dispatches inbound live-channel frames to the messaging
// engines and fans results out through the registry. Frames from one
// connection are handled in order; delivery misses are never errors:
// offline parties catch up on their next fetch.
type EventRouter struct {
	registry   ws.Registry
	groupSvc   service.GroupService
	privateSvc service.PrivateService
	receiptSvc service.ReceiptService
}

// NewEventRouter creates a new EventRouter
func NewEventRouter(
	registry ws.Registry,
	groupSvc service.GroupService,
	privateSvc service.PrivateService,
	receiptSvc service.ReceiptService,
) *EventRouter {
	return &EventRouter{
		registry:   registry,
		groupSvc:   groupSvc,
		privateSvc: privateSvc,
		receiptSvc: receiptSvc,
	}
}

type identifyPayload struct {
	DisplayName string `json:"display_name"`
}

type groupJoinPayload struct {
	GroupID string `json:"group_id"`
}

type groupMessagePayload struct {
	GroupID     string              `json:"group_id"`
	Body        string              `json:"body"`
	Attachments []domain.Attachment `json:"attachments,omitempty"`
	VoiceNote   *domain.VoiceNote   `json:"voice_note,omitempty"`
}

type groupCreatePayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Topics      []string `json:"topics,omitempty"`
}

type privateStartPayload struct {
	TargetID string `json:"target_id"`
}

type privateMessagePayload struct {
	TargetID    string              `json:"target_id"`
	Body        string              `json:"body"`
	Attachments []domain.Attachment `json:"attachments,omitempty"`
	VoiceNote   *domain.VoiceNote   `json:"voice_note,omitempty"`
}

type messageReadPayload struct {
	MessageID string `json:"message_id"`
}

type messageReactPayload struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
}

// HandleEvent processes one inbound frame
func (r *EventRouter) HandleEvent(client *ws.Client, evt *ws.InboundEvent) {
	switch evt.Type {
	case ws.EvIdentify:
		r.identify(client, evt.Payload)
	case ws.EvGroupJoin:
		r.groupJoin(client, evt.Payload)
	case ws.EvGroupMessage:
		r.groupMessage(client, evt.Payload)
	case ws.EvGroupCreate:
		r.groupCreate(client, evt.Payload)
	case ws.EvPrivateStart:
		r.privateStart(client, evt.Payload)
	case ws.EvPrivateMessage:
		r.privateMessage(client, evt.Payload)
	case ws.EvTypingStart, ws.EvTypingStop:
		r.typing(client, evt.Type, evt.Payload)
	case ws.EvMessageRead:
		r.messageRead(client, evt.Payload)
	case ws.EvMessageReact:
		r.messageReact(client, evt.Payload)
	default:
		logger.Get().Debug().Str("type", evt.Type).Msg("unknown live event")
	}
}

// identify registers the connection with the registry (announcing
// presence) and replies with the rooms the user already belongs to.
func (r *EventRouter) identify(client *ws.Client, raw json.RawMessage) {
	var p identifyPayload
	if err := json.Unmarshal(raw, &p); err == nil && p.DisplayName != "" {
		client.SetDisplayName(p.DisplayName)
	}

	r.registry.Register(client)

	groups, err := r.groupSvc.GroupIDsForUser(client.UserID())
	if err != nil {
		logger.Get().Error().Err(err).Str("user_id", client.UserID()).Msg("identify: load rooms failed")
		groups = nil
	}
	client.Send(ws.EvIdentified, map[string]interface{}{
		"user_id": client.UserID(),
		"groups":  groups,
	})
}

func (r *EventRouter) groupJoin(client *ws.Client, raw json.RawMessage) {
	var p groupJoinPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.GroupID == "" {
		return
	}

	history, err := r.groupSvc.Join(p.GroupID, client.UserID())
	if err != nil {
		logger.Get().Warn().Err(err).Str("group_id", p.GroupID).Msg("group join failed")
		return
	}

	client.Send(ws.EvGroupHistory, map[string]interface{}{
		"group_id": p.GroupID,
		"messages": history,
	})
	r.fanOutToGroup(p.GroupID, ws.EvGroupJoined, map[string]interface{}{
		"group_id":     p.GroupID,
		"user_id":      client.UserID(),
		"display_name": client.DisplayName(),
	})
}

// groupMessage posts a room message. Non-membership and moderation hits
// are dropped without any reply to the sender.
func (r *EventRouter) groupMessage(client *ws.Client, raw json.RawMessage) {
	var p groupMessagePayload
	if err := json.Unmarshal(raw, &p); err != nil || p.GroupID == "" {
		return
	}

	msg, err := r.groupSvc.PostMessage(p.GroupID, client.UserID(), &domain.SendMessageRequest{
		Body:        p.Body,
		Attachments: p.Attachments,
		VoiceNote:   p.VoiceNote,
	})
	if err != nil {
		if !errors.Is(err, common.ErrNotMember) && !errors.Is(err, common.ErrMessageBlocked) {
			logger.Get().Error().Err(err).Str("group_id", p.GroupID).Msg("group message failed")
		}
		return
	}

	r.fanOutToGroup(p.GroupID, ws.EvGroupMessage, msg)
}

func (r *EventRouter) groupCreate(client *ws.Client, raw json.RawMessage) {
	var p groupCreatePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}

	group, err := r.groupSvc.CreateGroup(client.UserID(), &domain.CreateGroupRequest{
		Name:        p.Name,
		Description: p.Description,
		Topics:      p.Topics,
	}, domain.GroupCommunity)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("group create failed")
		return
	}

	r.registry.Broadcast(ws.EvGroupCreated, group)
}

// privateStart returns the conversation history to the requester only
func (r *EventRouter) privateStart(client *ws.Client, raw json.RawMessage) {
	var p privateStartPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.TargetID == "" {
		return
	}

	conv, history, err := r.privateSvc.Start(client.UserID(), p.TargetID)
	if err != nil {
		logger.Get().Warn().Err(err).Str("target_id", p.TargetID).Msg("private start failed")
		return
	}

	client.Send(ws.EvPrivateHistory, map[string]interface{}{
		"conversation_id": conv.ID,
		"target_id":       p.TargetID,
		"messages":        history,
	})
}

// privateMessage delivers to whichever of the two participants is
// connected; the sender gets their own echo.
func (r *EventRouter) privateMessage(client *ws.Client, raw json.RawMessage) {
	var p privateMessagePayload
	if err := json.Unmarshal(raw, &p); err != nil || p.TargetID == "" {
		return
	}

	msg, err := r.privateSvc.PostMessage(client.UserID(), p.TargetID, &domain.SendMessageRequest{
		Body:        p.Body,
		Attachments: p.Attachments,
		VoiceNote:   p.VoiceNote,
	})
	if err != nil {
		if !errors.Is(err, common.ErrMessageBlocked) {
			logger.Get().Warn().Err(err).Str("target_id", p.TargetID).Msg("private message failed")
		}
		return
	}

	r.registry.SendToUsers([]string{client.UserID(), p.TargetID}, ws.EvPrivateMessage, msg)
}

// typing relays ephemeral typing state; nothing is persisted
func (r *EventRouter) typing(client *ws.Client, eventType string, raw json.RawMessage) {
	var p ws.TypingPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	p.UserID = client.UserID()

	if p.TargetID != "" {
		r.registry.SendToUser(p.TargetID, eventType, p)
		return
	}
	if p.GroupID == "" {
		return
	}
	members, err := r.groupSvc.MemberIDs(p.GroupID)
	if err != nil {
		return
	}
	others := members[:0]
	for _, id := range members {
		if id != client.UserID() {
			others = append(others, id)
		}
	}
	r.registry.SendToUsers(others, eventType, p)
}

func (r *EventRouter) messageRead(client *ws.Client, raw json.RawMessage) {
	var p messageReadPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.MessageID == "" {
		return
	}
	if _, err := r.receiptSvc.MarkRead(p.MessageID, client.UserID()); err != nil {
		logger.Get().Debug().Err(err).Str("message_id", p.MessageID).Msg("read receipt failed")
	}
}

func (r *EventRouter) messageReact(client *ws.Client, raw json.RawMessage) {
	var p messageReactPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.MessageID == "" || p.Emoji == "" {
		return
	}
	if _, err := r.receiptSvc.React(p.MessageID, client.UserID(), p.Emoji); err != nil {
		logger.Get().Debug().Err(err).Str("message_id", p.MessageID).Msg("reaction failed")
	}
}

// fanOutToGroup delivers an event to every member's live connection
func (r *EventRouter) fanOutToGroup(groupID, eventType string, payload interface{}) {
	members, err := r.groupSvc.MemberIDs(groupID)
	if err != nil {
		logger.Get().Error().Err(err).Str("group_id", groupID).Msg("member fan-out failed")
		return
	}
	r.registry.SendToUsers(members, eventType, payload)
}

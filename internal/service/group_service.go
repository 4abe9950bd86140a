package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/circlehub/circlehub-backend/internal/repository"
	"github.com/circlehub/circlehub-backend/pkg/logger"
	"github.com/google/uuid"
)

// GroupService business logic for multi-member rooms
type GroupService interface {
	CreateGroup(creatorID string, req *domain.CreateGroupRequest, kind domain.GroupKind) (*domain.GroupResponse, error)
	GetGroup(groupID string) (*domain.GroupResponse, error)
	ListGroups(page, limit int) ([]*domain.GroupResponse, *common.Meta, error)
	DeleteGroup(groupID, actorID string) error

	Join(groupID, userID string) ([]*domain.MessageResponse, error)
	AddAdmin(groupID, userID string) error
	Leave(groupID, userID string) error
	PostSystemMessage(groupID, body string) error
	MemberIDs(groupID string) ([]string, error)
	IsMember(groupID, userID string) (bool, error)
	GroupIDsForUser(userID string) ([]string, error)

	SubmitJoinRequest(groupID, userID string, req *domain.SubmitJoinRequest) (*domain.JoinRequest, error)
	ListJoinRequests(groupID, actorID string) ([]*domain.JoinRequest, error)
	DecideJoinRequest(groupID, requestID string, approve bool, deciderID string) (*domain.JoinRequest, error)

	PostMessage(groupID, senderID string, req *domain.SendMessageRequest) (*domain.MessageResponse, error)
	ArchiveMessage(groupID, messageID string) (bool, error)
	ListActive(groupID string) ([]*domain.MessageResponse, error)
	ListArchived(groupID string) ([]*domain.MessageResponse, error)
}

type groupService struct {
	groupRepo   repository.GroupRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	moderation  ModerationService
	retention   time.Duration
}

// NewGroupService creates a new GroupService
func NewGroupService(
	groupRepo repository.GroupRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	moderation ModerationService,
	retention time.Duration,
) GroupService {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	return &groupService{
		groupRepo:   groupRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		moderation:  moderation,
		retention:   retention,
	}
}

// CreateGroup creates a room with the creator as sole member and admin.
// Classroom-kind groups are only created through workflow approval.
func (s *groupService) CreateGroup(creatorID string, req *domain.CreateGroupRequest, kind domain.GroupKind) (*domain.GroupResponse, error) {
	name := strings.TrimSpace(req.Name)
	if len([]rune(name)) < 2 {
		return nil, fmt.Errorf("%w: group name must be at least 2 characters", common.ErrValidation)
	}

	group := &domain.Group{
		ID:          uuid.New().String(),
		Name:        name,
		Description: req.Description,
		Kind:        kind,
		CreatorID:   creatorID,
		Topics:      req.Topics,
	}
	creator := &domain.GroupMember{
		GroupID: group.ID,
		UserID:  creatorID,
		IsAdmin: true,
	}
	if err := s.groupRepo.Create(group, creator); err != nil {
		return nil, err
	}
	return group.ToResponse(1), nil
}

// GetGroup returns a group's public view
func (s *groupService) GetGroup(groupID string) (*domain.GroupResponse, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	count, err := s.groupRepo.CountMembers(groupID)
	if err != nil {
		return nil, err
	}
	return group.ToResponse(int(count)), nil
}

// ListGroups returns groups with pagination
func (s *groupService) ListGroups(page, limit int) ([]*domain.GroupResponse, *common.Meta, error) {
	page, limit = normalizePage(page, limit)

	groups, total, err := s.groupRepo.List(page, limit)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]*domain.GroupResponse, len(groups))
	for i, g := range groups {
		count, err := s.groupRepo.CountMembers(g.ID)
		if err != nil {
			return nil, nil, err
		}
		responses[i] = g.ToResponse(int(count))
	}
	return responses, &common.Meta{Page: page, Limit: limit, Total: total}, nil
}

// DeleteGroup removes a room; only the creator or a superadmin may do so
func (s *groupService) DeleteGroup(groupID, actorID string) error {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != actorID {
		actor, err := s.userRepo.FindByID(actorID)
		if err != nil {
			return err
		}
		if actor.Role != domain.RoleSuperadmin {
			return common.ErrForbidden
		}
	}
	return s.groupRepo.Delete(groupID)
}

// Join adds the user to the room (no-op for existing members), appends a
// welcome system message, and returns the active message list. Fetching
// messages sweeps the room's retention window first.
func (s *groupService) Join(groupID, userID string) ([]*domain.MessageResponse, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return nil, err
	}

	already, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return nil, err
	}

	if !already {
		member := &domain.GroupMember{GroupID: groupID, UserID: userID}
		if err := s.groupRepo.AddMember(member); err != nil {
			return nil, err
		}
		user, err := s.userRepo.FindByID(userID)
		if err != nil {
			return nil, err
		}
		if err := s.appendSystemMessage(groupID, fmt.Sprintf("%s joined %s. Welcome!", user.DisplayName, group.Name)); err != nil {
			logger.Get().Error().Err(err).Str("group_id", groupID).Msg("welcome message failed")
		}
	}

	return s.ListActive(groupID)
}

// AddAdmin inserts or promotes a membership to group admin
func (s *groupService) AddAdmin(groupID, userID string) error {
	if _, err := s.groupRepo.FindByID(groupID); err != nil {
		return err
	}
	member := &domain.GroupMember{GroupID: groupID, UserID: userID}
	return s.groupRepo.AddAdminMember(member)
}

// PostSystemMessage appends a server-generated message to the room
func (s *groupService) PostSystemMessage(groupID, body string) error {
	if _, err := s.groupRepo.FindByID(groupID); err != nil {
		return err
	}
	return s.appendSystemMessage(groupID, body)
}

// Leave removes the user's membership
func (s *groupService) Leave(groupID, userID string) error {
	if _, err := s.groupRepo.FindByID(groupID); err != nil {
		return err
	}
	return s.groupRepo.RemoveMember(groupID, userID)
}

// MemberIDs returns the room's member identities for fan-out
func (s *groupService) MemberIDs(groupID string) ([]string, error) {
	return s.groupRepo.MemberIDs(groupID)
}

// IsMember reports whether the user belongs to the room
func (s *groupService) IsMember(groupID, userID string) (bool, error) {
	return s.groupRepo.IsMember(groupID, userID)
}

// GroupIDsForUser returns the rooms the user belongs to
func (s *groupService) GroupIDsForUser(userID string) ([]string, error) {
	return s.groupRepo.GroupIDsForUser(userID)
}

// SubmitJoinRequest upserts the requester's join request. Requests carrying
// assessment answers are approved immediately and the member added;
// everything else stays pending for an admin decision.
func (s *groupService) SubmitJoinRequest(groupID, userID string, req *domain.SubmitJoinRequest) (*domain.JoinRequest, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return nil, err
	}

	record := &domain.JoinRequest{
		ID:      uuid.New().String(),
		GroupID: groupID,
		UserID:  userID,
		Answers: req.Answers,
		Level:   req.Level,
		Status:  domain.JoinPending,
	}

	selfServe := len(req.Answers) > 0
	if selfServe {
		now := time.Now()
		record.Status = domain.JoinApproved
		record.DecidedAt = &now
	}

	if err := s.groupRepo.UpsertJoinRequest(record); err != nil {
		return nil, err
	}

	if selfServe {
		if err := s.addApprovedMember(group, userID); err != nil {
			return nil, err
		}
	}
	return record, nil
}

// ListJoinRequests returns a room's join requests; the caller must be a
// group admin or superadmin
func (s *groupService) ListJoinRequests(groupID, actorID string) ([]*domain.JoinRequest, error) {
	if _, err := s.groupRepo.FindByID(groupID); err != nil {
		return nil, err
	}
	if err := s.requireGroupAdmin(groupID, actorID); err != nil {
		return nil, err
	}
	return s.groupRepo.ListJoinRequests(groupID)
}

// DecideJoinRequest approves or declines a pending request. Approval adds
// the member and a welcome message; a decline only updates the record and
// nothing is posted to the room.
func (s *groupService) DecideJoinRequest(groupID, requestID string, approve bool, deciderID string) (*domain.JoinRequest, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	if err := s.requireGroupAdmin(groupID, deciderID); err != nil {
		return nil, err
	}

	req, err := s.groupRepo.FindJoinRequest(requestID)
	if err != nil {
		return nil, err
	}
	if req.GroupID != groupID {
		return nil, common.ErrNotFound
	}
	if req.Status != domain.JoinPending {
		return nil, common.ErrRequestResolved
	}

	now := time.Now()
	req.DecidedBy = deciderID
	req.DecidedAt = &now
	if approve {
		req.Status = domain.JoinApproved
	} else {
		req.Status = domain.JoinDeclined
	}
	if err := s.groupRepo.UpdateJoinRequest(req); err != nil {
		return nil, err
	}

	if approve {
		if err := s.addApprovedMember(group, req.UserID); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// PostMessage appends a member's message after moderation. Non-members are
// dropped without an error reply so room existence is not leaked; the
// delivery layer swallows ErrNotMember.
func (s *groupService) PostMessage(groupID, senderID string, req *domain.SendMessageRequest) (*domain.MessageResponse, error) {
	sender, err := s.userRepo.FindByID(senderID)
	if err != nil {
		return nil, err
	}
	if sender.Status == domain.UserSuspended {
		return nil, common.ErrAccountSuspended
	}
	if sender.Status == domain.UserDeleted {
		return nil, common.ErrAccountDeleted
	}

	member, err := s.groupRepo.IsMember(groupID, senderID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, common.ErrNotMember
	}

	if err := s.moderation.CheckMessage(senderID, domain.RoomGroup, groupID, req.Body); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:          uuid.New().String(),
		RoomKind:    domain.RoomGroup,
		RoomID:      groupID,
		SenderID:    senderID,
		SenderName:  sender.DisplayName,
		Body:        req.Body,
		Attachments: req.Attachments,
		VoiceNote:   req.VoiceNote,
	}
	if err := s.messageRepo.Create(msg, senderID); err != nil {
		return nil, err
	}
	return msg.ToResponse(nil, []domain.MessageRead{{MessageID: msg.ID, UserID: senderID}}), nil
}

// ArchiveMessage flags a message exactly once; re-archiving is a no-op.
// Returns whether this call performed the transition.
func (s *groupService) ArchiveMessage(groupID, messageID string) (bool, error) {
	msg, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return false, err
	}
	if msg.RoomKind != domain.RoomGroup || msg.RoomID != groupID {
		return false, common.ErrNotFound
	}
	return s.messageRepo.Archive(messageID, time.Now())
}

// ListActive returns the room's active view after the lazy retention sweep
func (s *groupService) ListActive(groupID string) ([]*domain.MessageResponse, error) {
	s.sweep(groupID)
	msgs, err := s.messageRepo.ListActive(domain.RoomGroup, groupID)
	if err != nil {
		return nil, err
	}
	return s.decorate(msgs)
}

// ListArchived returns the room's archived view after the lazy sweep
func (s *groupService) ListArchived(groupID string) ([]*domain.MessageResponse, error) {
	s.sweep(groupID)
	msgs, err := s.messageRepo.ListArchived(domain.RoomGroup, groupID)
	if err != nil {
		return nil, err
	}
	return s.decorate(msgs)
}

// sweep archives messages older than the retention window. Triggered on
// fetch rather than a timer; a failed sweep only means a slightly stale
// archival boundary, so it is logged and ignored.
func (s *groupService) sweep(groupID string) {
	cutoff := time.Now().Add(-s.retention)
	if _, err := s.messageRepo.ArchiveOlderThan(domain.RoomGroup, groupID, cutoff); err != nil {
		logger.Get().Warn().Err(err).Str("group_id", groupID).Msg("retention sweep failed")
	}
}

// decorate folds reactions and read receipts into message views
func (s *groupService) decorate(msgs []*domain.Message) ([]*domain.MessageResponse, error) {
	ids := make([]string, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	reactions, err := s.messageRepo.ReactionsFor(ids)
	if err != nil {
		return nil, err
	}
	reads, err := s.messageRepo.ReadsFor(ids)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.MessageResponse, len(msgs))
	for i, m := range msgs {
		responses[i] = m.ToResponse(reactions[m.ID], reads[m.ID])
	}
	return responses, nil
}

// requireGroupAdmin allows group admins and superadmins
func (s *groupService) requireGroupAdmin(groupID, userID string) error {
	isAdmin, err := s.groupRepo.IsGroupAdmin(groupID, userID)
	if err != nil {
		return err
	}
	if isAdmin {
		return nil
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user.Role == domain.RoleSuperadmin {
		return nil
	}
	return common.ErrForbidden
}

// addApprovedMember adds the user and posts the welcome message
func (s *groupService) addApprovedMember(group *domain.Group, userID string) error {
	member := &domain.GroupMember{GroupID: group.ID, UserID: userID}
	if err := s.groupRepo.AddMember(member); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if err := s.appendSystemMessage(group.ID, fmt.Sprintf("%s joined %s. Welcome!", user.DisplayName, group.Name)); err != nil {
		logger.Get().Error().Err(err).Str("group_id", group.ID).Msg("welcome message failed")
	}
	return nil
}

// appendSystemMessage posts a server-generated message to the room
func (s *groupService) appendSystemMessage(groupID, body string) error {
	msg := &domain.Message{
		ID:         uuid.New().String(),
		RoomKind:   domain.RoomGroup,
		RoomID:     groupID,
		SenderID:   domain.SystemActor,
		SenderName: "System",
		Body:       body,
		System:     true,
	}
	return s.messageRepo.Create(msg, "")
}

// normalizePage clamps pagination inputs
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

package service

import (
	"time"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/circlehub/circlehub-backend/internal/repository"
	"github.com/circlehub/circlehub-backend/pkg/logger"
	"github.com/google/uuid"
)

// PrivateService business logic for two-party conversations. The
// conversation key is the sorted pair of participant identities, so both
// parties always address the same record.
type PrivateService interface {
	Start(userID, targetID string) (*domain.Conversation, []*domain.MessageResponse, error)
	PostMessage(senderID, targetID string, req *domain.SendMessageRequest) (*domain.MessageResponse, error)
}

type privateService struct {
	convRepo    repository.ConversationRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	moderation  ModerationService
	retention   time.Duration
}

// NewPrivateService creates a new PrivateService
func NewPrivateService(
	convRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	moderation ModerationService,
	retention time.Duration,
) PrivateService {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	return &privateService{
		convRepo:    convRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		moderation:  moderation,
		retention:   retention,
	}
}

// Start lazily creates the conversation on first contact, sweeps the
// retention window, and returns the active message list to the requester
// only; nothing is broadcast.
func (s *privateService) Start(userID, targetID string) (*domain.Conversation, []*domain.MessageResponse, error) {
	if userID == targetID {
		return nil, nil, common.ErrSelfReference
	}
	if _, err := s.userRepo.FindByID(targetID); err != nil {
		return nil, nil, err
	}

	conv, err := s.convRepo.FindOrCreate(userID, targetID)
	if err != nil {
		return nil, nil, err
	}

	s.sweep(conv.ID)
	msgs, err := s.messageRepo.ListActive(domain.RoomPrivate, conv.ID)
	if err != nil {
		return nil, nil, err
	}
	responses, err := s.decorate(msgs)
	if err != nil {
		return nil, nil, err
	}
	return conv, responses, nil
}

// PostMessage moderates, persists with the sender pre-marked as reader,
// and returns the message for delivery to both participants' connections.
func (s *privateService) PostMessage(senderID, targetID string, req *domain.SendMessageRequest) (*domain.MessageResponse, error) {
	if senderID == targetID {
		return nil, common.ErrSelfReference
	}

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
	if _, err := s.userRepo.FindByID(targetID); err != nil {
		return nil, err
	}

	conv, err := s.convRepo.FindOrCreate(senderID, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.moderation.CheckMessage(senderID, domain.RoomPrivate, conv.ID, req.Body); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:          uuid.New().String(),
		RoomKind:    domain.RoomPrivate,
		RoomID:      conv.ID,
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

func (s *privateService) sweep(convID string) {
	cutoff := time.Now().Add(-s.retention)
	if _, err := s.messageRepo.ArchiveOlderThan(domain.RoomPrivate, convID, cutoff); err != nil {
		logger.Get().Warn().Err(err).Str("conversation_id", convID).Msg("retention sweep failed")
	}
}

func (s *privateService) decorate(msgs []*domain.Message) ([]*domain.MessageResponse, error) {
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

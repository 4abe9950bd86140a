package service

import (
	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/circlehub/circlehub-backend/internal/repository"
)

// ReceiptService handles read receipts and reactions. Both are addressed
// by message identity alone and both are idempotent: re-adding an existing
// reader or reactor changes nothing.
type ReceiptService interface {
	MarkRead(messageID, userID string) (*domain.Message, error)
	React(messageID, userID, emoji string) (*domain.Message, error)
}

type receiptService struct {
	messageRepo repository.MessageRepository
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(messageRepo repository.MessageRepository) ReceiptService {
	return &receiptService{messageRepo: messageRepo}
}

// MarkRead records that userID has read the message. Returns the message
// so callers know which room to notify.
func (s *receiptService) MarkRead(messageID, userID string) (*domain.Message, error) {
	msg, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.AddRead(messageID, userID); err != nil {
		return nil, err
	}
	return msg, nil
}

// React adds an emoji reaction from userID to the message
func (s *receiptService) React(messageID, userID, emoji string) (*domain.Message, error) {
	msg, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.AddReaction(messageID, userID, emoji); err != nil {
		return nil, err
	}
	return msg, nil
}

package repository

import (
	"errors"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository private conversation data access interface
type ConversationRepository interface {
	FindOrCreate(userA, userB string) (*domain.Conversation, error)
	FindByID(id string) (*domain.Conversation, error)
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// FindOrCreate resolves the canonical conversation for a pair, creating it
// lazily on first contact. Concurrent first contacts race to the same
// primary key; the loser's insert is a no-op.
func (r *conversationRepository) FindOrCreate(userA, userB string) (*domain.Conversation, error) {
	a, b := domain.SortedPair(userA, userB)
	conv := &domain.Conversation{
		ID:    domain.ConversationID(a, b),
		UserA: a,
		UserB: b,
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(conv).Error; err != nil {
		return nil, err
	}
	return r.FindByID(conv.ID)
}

// FindByID finds a conversation by its canonical pair key
func (r *conversationRepository) FindByID(id string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.Where("id = ?", id).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

package repository

import (
	"errors"
	"time"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository message data access interface
type MessageRepository interface {
	Create(msg *domain.Message, readerID string) error
	FindByID(id string) (*domain.Message, error)
	ListActive(roomKind domain.RoomKind, roomID string) ([]*domain.Message, error)
	ListArchived(roomKind domain.RoomKind, roomID string) ([]*domain.Message, error)
	Archive(id string, at time.Time) (bool, error)
	ArchiveOlderThan(roomKind domain.RoomKind, roomID string, cutoff time.Time) (int64, error)

	AddReaction(messageID, userID, emoji string) error
	AddRead(messageID, userID string) error
	ReactionsFor(messageIDs []string) (map[string][]domain.MessageReaction, error)
	ReadsFor(messageIDs []string) (map[string][]domain.MessageRead, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create appends a message with the sender pre-marked as having read it
func (r *messageRepository) Create(msg *domain.Message, readerID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if readerID == "" {
			return nil
		}
		read := &domain.MessageRead{MessageID: msg.ID, UserID: readerID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(read).Error
	})
}

// FindByID finds a message by ID
func (r *messageRepository) FindByID(id string) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.Where("id = ?", id).First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// ListActive returns a room's non-archived messages in send order
func (r *messageRepository) ListActive(roomKind domain.RoomKind, roomID string) ([]*domain.Message, error) {
	var msgs []*domain.Message
	err := r.db.Where("room_kind = ? AND room_id = ? AND archived = ?", roomKind, roomID, false).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

// ListArchived returns a room's archived messages in send order
func (r *messageRepository) ListArchived(roomKind domain.RoomKind, roomID string) ([]*domain.Message, error) {
	var msgs []*domain.Message
	err := r.db.Where("room_kind = ? AND room_id = ? AND archived = ?", roomKind, roomID, true).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

// Archive flags a message exactly once; returns false when it was already
// archived so re-archiving never rewrites the timestamp.
func (r *messageRepository) Archive(id string, at time.Time) (bool, error) {
	result := r.db.Model(&domain.Message{}).
		Where("id = ? AND archived = ?", id, false).
		Updates(map[string]interface{}{"archived": true, "archived_at": at})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ArchiveOlderThan sweeps a room's active messages past the retention cutoff
func (r *messageRepository) ArchiveOlderThan(roomKind domain.RoomKind, roomID string, cutoff time.Time) (int64, error) {
	now := time.Now()
	result := r.db.Model(&domain.Message{}).
		Where("room_kind = ? AND room_id = ? AND archived = ? AND created_at < ?",
			roomKind, roomID, false, cutoff).
		Updates(map[string]interface{}{"archived": true, "archived_at": now})
	return result.RowsAffected, result.Error
}

// AddReaction inserts a reaction row; duplicates are ignored by the unique
// index, making re-reaction a no-op
func (r *messageRepository) AddReaction(messageID, userID, emoji string) error {
	reaction := &domain.MessageReaction{MessageID: messageID, UserID: userID, Emoji: emoji}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(reaction).Error
}

// AddRead inserts a read receipt; duplicates are ignored
func (r *messageRepository) AddRead(messageID, userID string) error {
	read := &domain.MessageRead{MessageID: messageID, UserID: userID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(read).Error
}

// ReactionsFor loads reactions for a batch of messages, grouped by message ID
func (r *messageRepository) ReactionsFor(messageIDs []string) (map[string][]domain.MessageReaction, error) {
	result := make(map[string][]domain.MessageReaction)
	if len(messageIDs) == 0 {
		return result, nil
	}

	var rows []domain.MessageReaction
	err := r.db.Where("message_id IN ?", messageIDs).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.MessageID] = append(result[row.MessageID], row)
	}
	return result, nil
}

// ReadsFor loads read receipts for a batch of messages, grouped by message ID
func (r *messageRepository) ReadsFor(messageIDs []string) (map[string][]domain.MessageRead, error) {
	result := make(map[string][]domain.MessageRead)
	if len(messageIDs) == 0 {
		return result, nil
	}

	var rows []domain.MessageRead
	err := r.db.Where("message_id IN ?", messageIDs).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.MessageID] = append(result[row.MessageID], row)
	}
	return result, nil
}

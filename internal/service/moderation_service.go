package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/circlehub/circlehub-backend/internal/repository"
	"github.com/circlehub/circlehub-backend/pkg/logger"
	"github.com/google/uuid"
)

const snippetMaxLen = 200

// ModerationService inspects outbound message text and keeps the violation
// ledger. A blocked message is never persisted and never delivered; the
// sender receives no rejection event and the matched term stays server-side.
type ModerationService interface {
	Scan(text string) (string, bool)
	CheckMessage(userID string, roomKind domain.RoomKind, roomID, body string) error
}

type moderationService struct {
	userRepo      repository.UserRepository
	violationRepo repository.ViolationRepository
	adminLogRepo  repository.AdminLogRepository
	bannedTerms   []string
	threshold     int
}

// NewModerationService creates a new ModerationService
func NewModerationService(
	userRepo repository.UserRepository,
	violationRepo repository.ViolationRepository,
	adminLogRepo repository.AdminLogRepository,
	bannedTerms []string,
	threshold int,
) ModerationService {
	terms := make([]string, 0, len(bannedTerms))
	for _, t := range bannedTerms {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, strings.ToLower(t))
		}
	}
	if threshold <= 0 {
		threshold = 3
	}
	return &moderationService{
		userRepo:      userRepo,
		violationRepo: violationRepo,
		adminLogRepo:  adminLogRepo,
		bannedTerms:   terms,
		threshold:     threshold,
	}
}

// Scan returns the first banned term contained in text, case-insensitively
func (s *moderationService) Scan(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, term := range s.bannedTerms {
		if strings.Contains(lowered, term) {
			return term, true
		}
	}
	return "", false
}

// CheckMessage scans a message about to be sent. On a hit it records the
// violation, bumps the sender's counter, auto-suspends at the threshold,
// and short-circuits the send with ErrMessageBlocked.
func (s *moderationService) CheckMessage(userID string, roomKind domain.RoomKind, roomID, body string) error {
	term, matched := s.Scan(body)
	if !matched {
		return nil
	}

	count, err := s.userRepo.IncrementViolationCount(userID)
	if err != nil {
		return err
	}

	resulting := domain.ViolationWarning
	if count >= s.threshold {
		suspended, err := s.suspendIfActive(userID)
		if err != nil {
			logger.Get().Error().Err(err).Str("user_id", userID).Msg("auto-suspend failed")
		} else if suspended {
			resulting = domain.ViolationAutoSuspended
		}
	}

	snippet := truncateSnippet(body)

	violation := &domain.Violation{
		ID:              uuid.New().String(),
		UserID:          userID,
		RoomKind:        roomKind,
		RoomID:          roomID,
		MatchedTerm:     term,
		Snippet:         snippet,
		ResultingStatus: resulting,
	}
	if err := s.violationRepo.Create(violation); err != nil {
		return err
	}

	logger.Get().Warn().
		Str("user_id", userID).
		Str("room_id", roomID).
		Int("violation_count", count).
		Msg("message blocked by moderation")

	return common.ErrMessageBlocked
}

// suspendIfActive transitions an active user to suspended and writes the
// system-actor audit entry. Returns false when the user was already
// suspended or deleted, so a fourth violation does not re-suspend.
func (s *moderationService) suspendIfActive(userID string) (bool, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return false, err
	}
	if user.Status != domain.UserActive {
		return false, nil
	}

	now := time.Now()
	if err := s.userRepo.UpdateStatus(userID, domain.UserSuspended, &now); err != nil {
		return false, err
	}

	entry := &domain.AdminLogEntry{
		ID:       uuid.New().String(),
		ActorID:  domain.SystemActor,
		Action:   domain.ActionSuspend,
		TargetID: userID,
		Details:  "automatic suspension after repeated moderation violations",
	}
	if err := s.adminLogRepo.Create(entry); err != nil {
		return true, err
	}
	return true, nil
}

// truncateSnippet caps the stored excerpt without splitting a rune; the
// column is strict utf8mb4.
func truncateSnippet(body string) string {
	if len(body) <= snippetMaxLen {
		return body
	}
	cut := snippetMaxLen
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut]
}

package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
)

func newFriendRepoForTest(t *testing.T) FriendRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps the in-memory database alive for the test.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.FriendRequest{}, &domain.Friendship{}))
	return NewFriendRepository(db)
}

func newPendingRequest(senderID, receiverID string) *domain.FriendRequest {
	return &domain.FriendRequest{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     domain.FriendPending,
	}
}

func TestFriendRepository_DeclinedRequestCanBeResent(t *testing.T) {
	repo := newFriendRepoForTest(t)

	first := newPendingRequest("alice", "bob")
	require.NoError(t, repo.CreatePending(first))
	require.NoError(t, repo.ResolvePending(first.ID, domain.FriendDeclined))

	_, err := repo.FindPending("alice", "bob")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// The declined row is revived, not duplicated.
	second := newPendingRequest("alice", "bob")
	require.NoError(t, repo.CreatePending(second))

	got, err := repo.FindPending("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, domain.FriendPending, got.Status)
}

func TestFriendRepository_ResolvePendingOnlyOnce(t *testing.T) {
	repo := newFriendRepoForTest(t)

	req := newPendingRequest("alice", "bob")
	require.NoError(t, repo.CreatePending(req))

	require.NoError(t, repo.ResolvePending(req.ID, domain.FriendAccepted))
	err := repo.ResolvePending(req.ID, domain.FriendDeclined)
	assert.ErrorIs(t, err, common.ErrRequestResolved)
}

func TestFriendRepository_CreateFriendshipIdempotent(t *testing.T) {
	repo := newFriendRepoForTest(t)

	require.NoError(t, repo.CreateFriendship("bob", "alice"))
	require.NoError(t, repo.CreateFriendship("alice", "bob"))

	friends, err := repo.FriendIDs("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, friends)

	ok, err := repo.AreFriends("bob", "alice")
	require.NoError(t, err)
	assert.True(t, ok)
}

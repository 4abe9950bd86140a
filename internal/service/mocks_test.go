package service

import (
	"time"

	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock UserRepository ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(user *domain.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserRepo) FindByID(id string) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByIDs(ids []string) ([]*domain.User, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *mockUserRepo) List(page, limit int) ([]*domain.User, int64, error) {
	args := m.Called(page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepo) UpdateStatus(id string, status domain.UserStatus, suspendedAt *time.Time) error {
	return m.Called(id, status, suspendedAt).Error(0)
}

func (m *mockUserRepo) UpdateRole(id string, role domain.Role) error {
	return m.Called(id, role).Error(0)
}

func (m *mockUserRepo) SetPresence(id string, online bool, lastSeen time.Time) error {
	return m.Called(id, online, lastSeen).Error(0)
}

func (m *mockUserRepo) IncrementViolationCount(id string) (int, error) {
	args := m.Called(id)
	return args.Int(0), args.Error(1)
}

// --- Mock GroupRepository ---

type mockGroupRepo struct {
	mock.Mock
}

func (m *mockGroupRepo) Create(group *domain.Group, creator *domain.GroupMember) error {
	return m.Called(group, creator).Error(0)
}

func (m *mockGroupRepo) FindByID(id string) (*domain.Group, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *mockGroupRepo) List(page, limit int) ([]*domain.Group, int64, error) {
	args := m.Called(page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Group), args.Get(1).(int64), args.Error(2)
}

func (m *mockGroupRepo) Delete(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockGroupRepo) AddMember(member *domain.GroupMember) error {
	return m.Called(member).Error(0)
}

func (m *mockGroupRepo) AddAdminMember(member *domain.GroupMember) error {
	return m.Called(member).Error(0)
}

func (m *mockGroupRepo) RemoveMember(groupID, userID string) error {
	return m.Called(groupID, userID).Error(0)
}

func (m *mockGroupRepo) IsMember(groupID, userID string) (bool, error) {
	args := m.Called(groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockGroupRepo) IsGroupAdmin(groupID, userID string) (bool, error) {
	args := m.Called(groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockGroupRepo) MemberIDs(groupID string) ([]string, error) {
	args := m.Called(groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockGroupRepo) CountMembers(groupID string) (int64, error) {
	args := m.Called(groupID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGroupRepo) GroupIDsForUser(userID string) ([]string, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockGroupRepo) UpsertJoinRequest(req *domain.JoinRequest) error {
	return m.Called(req).Error(0)
}

func (m *mockGroupRepo) FindJoinRequest(id string) (*domain.JoinRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}

func (m *mockGroupRepo) ListJoinRequests(groupID string) ([]*domain.JoinRequest, error) {
	args := m.Called(groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.JoinRequest), args.Error(1)
}

func (m *mockGroupRepo) UpdateJoinRequest(req *domain.JoinRequest) error {
	return m.Called(req).Error(0)
}

// --- Mock MessageRepository ---

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(msg *domain.Message, readerID string) error {
	return m.Called(msg, readerID).Error(0)
}

func (m *mockMessageRepo) FindByID(id string) (*domain.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *mockMessageRepo) ListActive(roomKind domain.RoomKind, roomID string) ([]*domain.Message, error) {
	args := m.Called(roomKind, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *mockMessageRepo) ListArchived(roomKind domain.RoomKind, roomID string) ([]*domain.Message, error) {
	args := m.Called(roomKind, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *mockMessageRepo) Archive(id string, at time.Time) (bool, error) {
	args := m.Called(id, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockMessageRepo) ArchiveOlderThan(roomKind domain.RoomKind, roomID string, cutoff time.Time) (int64, error) {
	args := m.Called(roomKind, roomID, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageRepo) AddReaction(messageID, userID, emoji string) error {
	return m.Called(messageID, userID, emoji).Error(0)
}

func (m *mockMessageRepo) AddRead(messageID, userID string) error {
	return m.Called(messageID, userID).Error(0)
}

func (m *mockMessageRepo) ReactionsFor(messageIDs []string) (map[string][]domain.MessageReaction, error) {
	args := m.Called(messageIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.MessageReaction), args.Error(1)
}

func (m *mockMessageRepo) ReadsFor(messageIDs []string) (map[string][]domain.MessageRead, error) {
	args := m.Called(messageIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.MessageRead), args.Error(1)
}

// --- Mock ConversationRepository ---

type mockConversationRepo struct {
	mock.Mock
}

func (m *mockConversationRepo) FindOrCreate(userA, userB string) (*domain.Conversation, error) {
	args := m.Called(userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *mockConversationRepo) FindByID(id string) (*domain.Conversation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

// --- Mock FriendRepository ---

type mockFriendRepo struct {
	mock.Mock
}

func (m *mockFriendRepo) FindPending(senderID, receiverID string) (*domain.FriendRequest, error) {
	args := m.Called(senderID, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FriendRequest), args.Error(1)
}

func (m *mockFriendRepo) CreatePending(req *domain.FriendRequest) error {
	return m.Called(req).Error(0)
}

func (m *mockFriendRepo) ResolvePending(id string, status domain.FriendRequestStatus) error {
	return m.Called(id, status).Error(0)
}

func (m *mockFriendRepo) AreFriends(userA, userB string) (bool, error) {
	args := m.Called(userA, userB)
	return args.Bool(0), args.Error(1)
}

func (m *mockFriendRepo) CreateFriendship(userA, userB string) error {
	return m.Called(userA, userB).Error(0)
}

func (m *mockFriendRepo) FriendIDs(userID string) ([]string, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFriendRepo) ListIncoming(userID string) ([]*domain.FriendRequest, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FriendRequest), args.Error(1)
}

func (m *mockFriendRepo) ListOutgoing(userID string) ([]*domain.FriendRequest, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FriendRequest), args.Error(1)
}

// --- Mock ModerationService ---

type mockModeration struct {
	mock.Mock
}

func (m *mockModeration) Scan(text string) (string, bool) {
	args := m.Called(text)
	return args.String(0), args.Bool(1)
}

func (m *mockModeration) CheckMessage(userID string, roomKind domain.RoomKind, roomID, body string) error {
	return m.Called(userID, roomKind, roomID, body).Error(0)
}

// --- Mock ViolationRepository ---

type mockViolationRepo struct {
	mock.Mock
}

func (m *mockViolationRepo) Create(v *domain.Violation) error {
	return m.Called(v).Error(0)
}

func (m *mockViolationRepo) List(page, limit int) ([]*domain.Violation, int64, error) {
	args := m.Called(page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Violation), args.Get(1).(int64), args.Error(2)
}

func (m *mockViolationRepo) ListByUser(userID string) ([]*domain.Violation, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Violation), args.Error(1)
}

// --- Mock ClassroomRepository ---

type mockClassroomRepo struct {
	mock.Mock
}

func (m *mockClassroomRepo) Create(req *domain.ClassroomRequest) error {
	return m.Called(req).Error(0)
}

func (m *mockClassroomRepo) FindByID(id string) (*domain.ClassroomRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassroomRequest), args.Error(1)
}

func (m *mockClassroomRepo) CountPendingByRequester(requesterID string) (int64, error) {
	args := m.Called(requesterID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockClassroomRepo) ListByRequester(requesterID string) ([]*domain.ClassroomRequest, error) {
	args := m.Called(requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ClassroomRequest), args.Error(1)
}

func (m *mockClassroomRepo) ListAll(page, limit int) ([]*domain.ClassroomRequest, int64, error) {
	args := m.Called(page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.ClassroomRequest), args.Get(1).(int64), args.Error(2)
}

func (m *mockClassroomRepo) Resolve(req *domain.ClassroomRequest) error {
	return m.Called(req).Error(0)
}

func (m *mockClassroomRepo) LinkGroup(requestID, groupID string) error {
	return m.Called(requestID, groupID).Error(0)
}

// --- Mock AdminLogRepository ---

type mockAdminLogRepo struct {
	mock.Mock
}

func (m *mockAdminLogRepo) Create(entry *domain.AdminLogEntry) error {
	return m.Called(entry).Error(0)
}

func (m *mockAdminLogRepo) List(page, limit int) ([]*domain.AdminLogEntry, int64, error) {
	args := m.Called(page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.AdminLogEntry), args.Get(1).(int64), args.Error(2)
}

package service

import (
	"testing"
	"time"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSubmit_PendingCapEnforced(t *testing.T) {
	classroomRepo := new(mockClassroomRepo)
	classroomRepo.On("CountPendingByRequester", "u1").Return(int64(3), nil)

	svc := NewClassroomService(classroomRepo, nil, new(mockUserRepo))

	_, err := svc.Submit("u1", &domain.SubmitClassroomRequest{Name: "Go 101"})
	assert.ErrorIs(t, err, common.ErrTooManyPending)
	classroomRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSubmit_CreatesPendingRequest(t *testing.T) {
	classroomRepo := new(mockClassroomRepo)
	classroomRepo.On("CountPendingByRequester", "u1").Return(int64(0), nil)
	classroomRepo.On("Create", mock.MatchedBy(func(r *domain.ClassroomRequest) bool {
		return r.Name == "Go 101" && r.RequesterID == "u1" && r.Status == domain.ClassroomPending
	})).Return(nil)

	svc := NewClassroomService(classroomRepo, nil, new(mockUserRepo))

	record, err := svc.Submit("u1", &domain.SubmitClassroomRequest{Name: "  Go 101  "})
	require.NoError(t, err)
	assert.Equal(t, domain.ClassroomPending, record.Status)
	classroomRepo.AssertExpectations(t)
}

func TestApprove_ProvisionsClassroomGroup(t *testing.T) {
	classroomRepo := new(mockClassroomRepo)
	groupRepo := new(mockGroupRepo)
	messageRepo := new(mockMessageRepo)
	userRepo := new(mockUserRepo)

	classroomRepo.On("FindByID", "req1").Return(&domain.ClassroomRequest{
		ID: "req1", Name: "Go 101", RequesterID: "student", Status: domain.ClassroomPending,
	}, nil)

	var createdGroupID string
	groupRepo.On("Create",
		mock.MatchedBy(func(g *domain.Group) bool {
			createdGroupID = g.ID
			return g.Kind == domain.GroupClassroom && g.Name == "Go 101" && g.CreatorID == "student"
		}),
		mock.MatchedBy(func(m *domain.GroupMember) bool {
			return m.UserID == "student" && m.IsAdmin
		}),
	).Return(nil)
	groupRepo.On("FindByID", mock.Anything).Return(&domain.Group{ID: "g", Name: "Go 101"}, nil)
	groupRepo.On("AddAdminMember", mock.MatchedBy(func(m *domain.GroupMember) bool {
		return m.UserID == "student" || m.UserID == "teacher"
	})).Return(nil).Twice()
	messageRepo.On("Create", mock.MatchedBy(func(m *domain.Message) bool {
		return m.System && m.Body == "Classroom Go 101 was approved and is now open."
	}), "").Return(nil)
	classroomRepo.On("Resolve", mock.MatchedBy(func(r *domain.ClassroomRequest) bool {
		return r.Status == domain.ClassroomApproved &&
			r.DecidedBy == "teacher" &&
			r.DecidedAt != nil
	})).Return(nil)
	classroomRepo.On("LinkGroup", "req1", mock.MatchedBy(func(id string) bool {
		return id == createdGroupID
	})).Return(nil)

	groupSvc := NewGroupService(groupRepo, messageRepo, userRepo, new(mockModeration), 30*24*time.Hour)
	svc := NewClassroomService(classroomRepo, groupSvc, userRepo)

	record, err := svc.Approve("req1", "teacher")
	require.NoError(t, err)
	assert.Equal(t, domain.ClassroomApproved, record.Status)
	assert.NotEmpty(t, record.GroupID)
	classroomRepo.AssertExpectations(t)
	groupRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
}

func TestApprove_ConcurrentLoserProvisionsNothing(t *testing.T) {
	classroomRepo := new(mockClassroomRepo)
	groupRepo := new(mockGroupRepo)

	// Another admin resolved the request between the read and the claim.
	classroomRepo.On("FindByID", "req1").Return(&domain.ClassroomRequest{
		ID: "req1", Name: "Go 101", RequesterID: "student", Status: domain.ClassroomPending,
	}, nil)
	classroomRepo.On("Resolve", mock.Anything).Return(common.ErrRequestResolved)

	groupSvc := NewGroupService(groupRepo, new(mockMessageRepo), new(mockUserRepo), new(mockModeration), 0)
	svc := NewClassroomService(classroomRepo, groupSvc, new(mockUserRepo))

	_, err := svc.Approve("req1", "teacher")
	assert.ErrorIs(t, err, common.ErrRequestResolved)
	groupRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	classroomRepo.AssertNotCalled(t, "LinkGroup", mock.Anything, mock.Anything)
}

func TestApprove_ResolvedRequestConflicts(t *testing.T) {
	classroomRepo := new(mockClassroomRepo)
	classroomRepo.On("FindByID", "req1").Return(&domain.ClassroomRequest{
		ID: "req1", Status: domain.ClassroomApproved,
	}, nil)

	svc := NewClassroomService(classroomRepo, nil, new(mockUserRepo))

	_, err := svc.Approve("req1", "teacher")
	assert.ErrorIs(t, err, common.ErrRequestResolved)
}

func TestDecline_RecordsNotesNoGroup(t *testing.T) {
	classroomRepo := new(mockClassroomRepo)
	groupRepo := new(mockGroupRepo)

	classroomRepo.On("FindByID", "req1").Return(&domain.ClassroomRequest{
		ID: "req1", Name: "Go 101", RequesterID: "student", Status: domain.ClassroomPending,
	}, nil)
	classroomRepo.On("Resolve", mock.MatchedBy(func(r *domain.ClassroomRequest) bool {
		return r.Status == domain.ClassroomDeclined &&
			r.AdminNotes == "needs a syllabus" &&
			r.GroupID == ""
	})).Return(nil)

	groupSvc := NewGroupService(groupRepo, new(mockMessageRepo), new(mockUserRepo), new(mockModeration), 0)
	svc := NewClassroomService(classroomRepo, groupSvc, new(mockUserRepo))

	record, err := svc.Decline("req1", "teacher", "needs a syllabus")
	require.NoError(t, err)
	assert.Equal(t, domain.ClassroomDeclined, record.Status)
	groupRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/circlehub/circlehub-backend/internal/repository"
	"github.com/google/uuid"
)

// maxPendingClassroomRequests caps open proposals per member as
// backpressure against spam
const maxPendingClassroomRequests = 3

// ClassroomService request/approval workflow that provisions classroom
// rooms. A request leaves pending exactly once.
type ClassroomService interface {
	Submit(requesterID string, req *domain.SubmitClassroomRequest) (*domain.ClassroomRequest, error)
	Approve(requestID, adminID string) (*domain.ClassroomRequest, error)
	Decline(requestID, adminID, notes string) (*domain.ClassroomRequest, error)
	ListOwn(requesterID string) ([]*domain.ClassroomRequest, error)
	ListAll(page, limit int) ([]*domain.ClassroomRequest, *common.Meta, error)
}

type classroomService struct {
	classroomRepo repository.ClassroomRepository
	groupSvc      GroupService
	userRepo      repository.UserRepository
}

// NewClassroomService creates a new ClassroomService
func NewClassroomService(
	classroomRepo repository.ClassroomRepository,
	groupSvc GroupService,
	userRepo repository.UserRepository,
) ClassroomService {
	return &classroomService{
		classroomRepo: classroomRepo,
		groupSvc:      groupSvc,
		userRepo:      userRepo,
	}
}

// Submit creates a pending classroom proposal
func (s *classroomService) Submit(requesterID string, req *domain.SubmitClassroomRequest) (*domain.ClassroomRequest, error) {
	name := strings.TrimSpace(req.Name)
	if len([]rune(name)) < 2 {
		return nil, fmt.Errorf("%w: classroom name must be at least 2 characters", common.ErrValidation)
	}

	pending, err := s.classroomRepo.CountPendingByRequester(requesterID)
	if err != nil {
		return nil, err
	}
	if pending >= maxPendingClassroomRequests {
		return nil, common.ErrTooManyPending
	}

	record := &domain.ClassroomRequest{
		ID:          uuid.New().String(),
		Name:        name,
		Description: req.Description,
		RequesterID: requesterID,
		Status:      domain.ClassroomPending,
	}
	if err := s.classroomRepo.Create(record); err != nil {
		return nil, err
	}
	return record, nil
}

// Approve marks the request approved, then provisions (or reuses, if
// already linked) a classroom-kind group with the requester and the
// deciding admin as members and admins, and posts the approval message.
func (s *classroomService) Approve(requestID, adminID string) (*domain.ClassroomRequest, error) {
	req, err := s.classroomRepo.FindByID(requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.ClassroomPending {
		return nil, common.ErrRequestResolved
	}

	// Claim the request before provisioning anything, so a concurrent
	// approval loses here instead of leaving an orphan room behind.
	now := time.Now()
	req.Status = domain.ClassroomApproved
	req.DecidedBy = adminID
	req.DecidedAt = &now
	if err := s.classroomRepo.Resolve(req); err != nil {
		return nil, err
	}

	groupID := req.GroupID
	if groupID == "" {
		group, err := s.groupSvc.CreateGroup(req.RequesterID, &domain.CreateGroupRequest{
			Name:        req.Name,
			Description: req.Description,
		}, domain.GroupClassroom)
		if err != nil {
			return nil, err
		}
		groupID = group.ID
		if err := s.classroomRepo.LinkGroup(req.ID, groupID); err != nil {
			return nil, err
		}
		req.GroupID = groupID
	}

	// Requester and deciding admin both end up as member-admins of the room.
	if err := s.groupSvc.AddAdmin(groupID, req.RequesterID); err != nil {
		return nil, err
	}
	if err := s.groupSvc.AddAdmin(groupID, adminID); err != nil {
		return nil, err
	}
	if err := s.groupSvc.PostSystemMessage(groupID,
		fmt.Sprintf("Classroom %s was approved and is now open.", req.Name)); err != nil {
		return nil, err
	}
	return req, nil
}

// Decline marks the request declined with the admin's notes; no group is
// provisioned
func (s *classroomService) Decline(requestID, adminID, notes string) (*domain.ClassroomRequest, error) {
	req, err := s.classroomRepo.FindByID(requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.ClassroomPending {
		return nil, common.ErrRequestResolved
	}

	now := time.Now()
	req.Status = domain.ClassroomDeclined
	req.DecidedBy = adminID
	req.DecidedAt = &now
	req.AdminNotes = notes
	if err := s.classroomRepo.Resolve(req); err != nil {
		return nil, err
	}
	return req, nil
}

// ListOwn returns a member's own requests
func (s *classroomService) ListOwn(requesterID string) ([]*domain.ClassroomRequest, error) {
	return s.classroomRepo.ListByRequester(requesterID)
}

// ListAll returns every request for admin review
func (s *classroomService) ListAll(page, limit int) ([]*domain.ClassroomRequest, *common.Meta, error) {
	page, limit = normalizePage(page, limit)
	reqs, total, err := s.classroomRepo.ListAll(page, limit)
	if err != nil {
		return nil, nil, err
	}
	return reqs, &common.Meta{Page: page, Limit: limit, Total: total}, nil
}

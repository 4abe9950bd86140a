package service

import (
	"time"

	"github.com/circlehub/circlehub-backend/internal/common"
	"github.com/circlehub/circlehub-backend/internal/domain"
	"github.com/circlehub/circlehub-backend/internal/repository"
	"github.com/google/uuid"
)

// AdminService privileged user management. Every mutation appends an
// audit entry; acting on a superadmin, or escalating anyone to
// superadmin, requires a superadmin actor.
type AdminService interface {
	ListUsers(page, limit int) ([]*domain.UserResponse, *common.Meta, error)
	Suspend(actorID, targetID, details string) error
	Reinstate(actorID, targetID, details string) error
	Delete(actorID, targetID, details string) error
	UpdateRole(actorID, targetID string, role domain.Role) error
	ListAuditLog(page, limit int) ([]*domain.AdminLogEntry, *common.Meta, error)
	ListViolations(page, limit int) ([]*domain.Violation, *common.Meta, error)
}

type adminService struct {
	userRepo      repository.UserRepository
	adminLogRepo  repository.AdminLogRepository
	violationRepo repository.ViolationRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo repository.UserRepository,
	adminLogRepo repository.AdminLogRepository,
	violationRepo repository.ViolationRepository,
) AdminService {
	return &adminService{
		userRepo:      userRepo,
		adminLogRepo:  adminLogRepo,
		violationRepo: violationRepo,
	}
}

// ListUsers returns users with pagination
func (s *adminService) ListUsers(page, limit int) ([]*domain.UserResponse, *common.Meta, error) {
	page, limit = normalizePage(page, limit)
	users, total, err := s.userRepo.List(page, limit)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]*domain.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return responses, &common.Meta{Page: page, Limit: limit, Total: total}, nil
}

// Suspend transitions the target to suspended
func (s *adminService) Suspend(actorID, targetID, details string) error {
	if err := s.authorize(actorID, targetID, false); err != nil {
		return err
	}
	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return err
	}
	if target.Status == domain.UserSuspended {
		return common.ErrConflict
	}
	if target.Status == domain.UserDeleted {
		return common.ErrAccountDeleted
	}

	now := time.Now()
	if err := s.userRepo.UpdateStatus(targetID, domain.UserSuspended, &now); err != nil {
		return err
	}
	return s.audit(actorID, domain.ActionSuspend, targetID, details)
}

// Reinstate returns a suspended target to active
func (s *adminService) Reinstate(actorID, targetID, details string) error {
	if err := s.authorize(actorID, targetID, false); err != nil {
		return err
	}
	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return err
	}
	if target.Status != domain.UserSuspended {
		return common.ErrConflict
	}

	if err := s.userRepo.UpdateStatus(targetID, domain.UserActive, nil); err != nil {
		return err
	}
	return s.audit(actorID, domain.ActionReinstate, targetID, details)
}

// Delete marks the target deleted. Terminal: there is no reinstate path.
func (s *adminService) Delete(actorID, targetID, details string) error {
	if err := s.authorize(actorID, targetID, false); err != nil {
		return err
	}
	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return err
	}
	if target.Status == domain.UserDeleted {
		return common.ErrConflict
	}

	if err := s.userRepo.UpdateStatus(targetID, domain.UserDeleted, nil); err != nil {
		return err
	}
	return s.audit(actorID, domain.ActionDelete, targetID, details)
}

// UpdateRole changes the target's role
func (s *adminService) UpdateRole(actorID, targetID string, role domain.Role) error {
	switch role {
	case domain.RoleMember, domain.RoleAdmin, domain.RoleSuperadmin:
	default:
		return common.ErrValidation
	}

	escalating := role == domain.RoleSuperadmin
	if err := s.authorize(actorID, targetID, escalating); err != nil {
		return err
	}

	if err := s.userRepo.UpdateRole(targetID, role); err != nil {
		return err
	}
	return s.audit(actorID, domain.ActionRoleUpdate, targetID, "role set to "+string(role))
}

// ListAuditLog returns audit entries with pagination
func (s *adminService) ListAuditLog(page, limit int) ([]*domain.AdminLogEntry, *common.Meta, error) {
	page, limit = normalizePage(page, limit)
	entries, total, err := s.adminLogRepo.List(page, limit)
	if err != nil {
		return nil, nil, err
	}
	return entries, &common.Meta{Page: page, Limit: limit, Total: total}, nil
}

// ListViolations returns the violation ledger with pagination
func (s *adminService) ListViolations(page, limit int) ([]*domain.Violation, *common.Meta, error) {
	page, limit = normalizePage(page, limit)
	violations, total, err := s.violationRepo.List(page, limit)
	if err != nil {
		return nil, nil, err
	}
	return violations, &common.Meta{Page: page, Limit: limit, Total: total}, nil
}

// authorize checks the actor's role against the target. Admins act on
// members; only superadmins act on superadmins or perform escalation.
func (s *adminService) authorize(actorID, targetID string, escalating bool) error {
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return common.ErrForbidden
	}
	if actor.Role == domain.RoleSuperadmin {
		return nil
	}
	if escalating {
		return common.ErrForbidden
	}

	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return err
	}
	if target.Role == domain.RoleSuperadmin {
		return common.ErrForbidden
	}
	return nil
}

func (s *adminService) audit(actorID string, action domain.AdminAction, targetID, details string) error {
	return s.adminLogRepo.Create(&domain.AdminLogEntry{
		ID:       uuid.New().String(),
		ActorID:  actorID,
		Action:   action,
		TargetID: targetID,
		Details:  details,
	})
}

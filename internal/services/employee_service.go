package services

import (
	"context"
	"errors"
	"strings"

	"refstaff/internal/models"
	"refstaff/internal/repositories"
)

type EmployeeService interface {
	List(ctx context.Context, p *models.Principal) ([]*models.EmployeeCard, error)
	UpdateProfile(ctx context.Context, p *models.Principal, userID int64, upd models.ProfileUpdate) (*models.User, error)
	UpdateRole(ctx context.Context, p *models.Principal, req *UpdateRoleRequest) error
	Delete(ctx context.Context, p *models.Principal, userID int64) error
}

type employeeService struct {
	userRepo repositories.UserRepository
}

func NewEmployeeService(userRepo repositories.UserRepository) EmployeeService {
	return &employeeService{userRepo: userRepo}
}

type UpdateRoleRequest struct {
	UserID      int64 `json:"user_id"`
	IsHRManager bool  `json:"is_hr_manager"`
	IsAdmin     bool  `json:"is_admin"`
}

func userNotFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFoundError("User not found")
	}
	return err
}

func (s *employeeService) List(ctx context.Context, p *models.Principal) ([]*models.EmployeeCard, error) {
	return s.userRepo.ListEmployees(ctx, p.CompanyID)
}

// UpdateProfile edits the caller's own profile. Admins may pass userID to edit a
// colleague in the same company; zero means the caller.
func (s *employeeService) UpdateProfile(ctx context.Context, p *models.Principal, userID int64, upd models.ProfileUpdate) (*models.User, error) {
	if userID == 0 {
		userID = p.UserID
	}
	if userID != p.UserID {
		if _, err := requireAdmin(ctx, s.userRepo, p); err != nil {
			return nil, err
		}
	}
	if (upd.FirstName != nil && strings.TrimSpace(*upd.FirstName) == "") ||
		(upd.LastName != nil && strings.TrimSpace(*upd.LastName) == "") {
		return nil, validationError("Name cannot be empty")
	}
	u, err := s.userRepo.UpdateProfile(ctx, p.CompanyID, userID, upd)
	if err != nil {
		return nil, userNotFound(err)
	}
	return u, nil
}

func (s *employeeService) UpdateRole(ctx context.Context, p *models.Principal, req *UpdateRoleRequest) error {
	if req.UserID <= 0 {
		return validationError("user_id is required")
	}
	if _, err := requireAdmin(ctx, s.userRepo, p); err != nil {
		return err
	}
	if req.UserID == p.UserID && !req.IsAdmin {
		return validationError("Cannot remove your own admin rights")
	}
	return userNotFound(s.userRepo.UpdateRole(ctx, p.CompanyID, req.UserID, req.IsHRManager, req.IsAdmin))
}

func (s *employeeService) Delete(ctx context.Context, p *models.Principal, userID int64) error {
	if userID <= 0 {
		return validationError("user_id is required")
	}
	if _, err := requireAdmin(ctx, s.userRepo, p); err != nil {
		return err
	}
	if userID == p.UserID {
		return validationError("Cannot delete yourself")
	}
	return userNotFound(s.userRepo.Delete(ctx, p.CompanyID, userID))
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"refstaff/internal/models"
	"refstaff/internal/repositories"
)

type CompanyService interface {
	Get(ctx context.Context, p *models.Principal) (*models.Company, error)
	Update(ctx context.Context, p *models.Principal, upd models.CompanyUpdate) (*models.Company, error)
	Stats(ctx context.Context, p *models.Principal) (*models.CompanyStats, error)
	GetByInviteToken(ctx context.Context, token string) (*models.CompanyRef, error)
	ExpireTrials(ctx context.Context) (int64, error)
}

type companyService struct {
	companyRepo repositories.CompanyRepository
	userRepo    repositories.UserRepository
	now         func() time.Time
}

func NewCompanyService(companyRepo repositories.CompanyRepository, userRepo repositories.UserRepository, now func() time.Time) CompanyService {
	if now == nil {
		now = time.Now
	}
	return &companyService{companyRepo: companyRepo, userRepo: userRepo, now: now}
}

func companyNotFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFoundError("Company not found")
	}
	return err
}

func (s *companyService) Get(ctx context.Context, p *models.Principal) (*models.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, p.CompanyID)
	if err != nil {
		return nil, companyNotFound(err)
	}
	return company, nil
}

func (s *companyService) Update(ctx context.Context, p *models.Principal, upd models.CompanyUpdate) (*models.Company, error) {
	if _, err := requireAdmin(ctx, s.userRepo, p); err != nil {
		return nil, err
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, validationError("Company name cannot be empty")
	}
	if upd.EmployeeCount != nil && *upd.EmployeeCount <= 0 {
		return nil, validationError("employee_count must be positive")
	}
	company, err := s.companyRepo.Update(ctx, p.CompanyID, upd)
	if err != nil {
		return nil, companyNotFound(err)
	}
	return company, nil
}

func (s *companyService) Stats(ctx context.Context, p *models.Principal) (*models.CompanyStats, error) {
	return s.companyRepo.Stats(ctx, p.CompanyID)
}

func (s *companyService) GetByInviteToken(ctx context.Context, token string) (*models.CompanyRef, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, validationError("invite_token is required")
	}
	ref, err := s.companyRepo.GetByInviteToken(ctx, token)
	if err != nil {
		return nil, companyNotFound(err)
	}
	return ref, nil
}

// ExpireTrials moves trial companies past their expiry date to the expired tier.
func (s *companyService) ExpireTrials(ctx context.Context) (int64, error) {
	return s.companyRepo.ExpireTrials(ctx, s.now())
}

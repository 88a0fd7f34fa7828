package services

import (
	"context"
	"errors"
	"strings"

	"refstaff/internal/common"
	"refstaff/internal/models"
	"refstaff/internal/repositories"
)

const referralTokenBytes = 12

type VacancyService interface {
	List(ctx context.Context, p *models.Principal, status string) ([]*models.Vacancy, error)
	GetPublic(ctx context.Context, vacancyID int64, referralToken string) (*models.Vacancy, error)
	Create(ctx context.Context, p *models.Principal, req *CreateVacancyRequest) (*models.Vacancy, error)
	Update(ctx context.Context, p *models.Principal, id int64, upd models.VacancyUpdate) (*models.Vacancy, error)
}

type vacancyService struct {
	vacancyRepo repositories.VacancyRepository
	userRepo    repositories.UserRepository
}

func NewVacancyService(vacancyRepo repositories.VacancyRepository, userRepo repositories.UserRepository) VacancyService {
	return &vacancyService{vacancyRepo: vacancyRepo, userRepo: userRepo}
}

type CreateVacancyRequest struct {
	Title           string   `json:"title"`
	Department      string   `json:"department"`
	SalaryDisplay   string   `json:"salary_display"`
	Requirements    string   `json:"requirements"`
	Description     string   `json:"description"`
	RewardAmount    *float64 `json:"reward_amount"`
	PayoutDelayDays *int     `json:"payout_delay_days"`
}

func validVacancyStatus(status string) bool {
	return status == models.VacancyActive || status == models.VacancyClosed
}

func vacancyNotFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFoundError("Vacancy not found")
	}
	return err
}

func (s *vacancyService) List(ctx context.Context, p *models.Principal, status string) ([]*models.Vacancy, error) {
	if status == "" {
		status = models.VacancyActive
	}
	if status != "all" && !validVacancyStatus(status) {
		return nil, validationError("Invalid status")
	}
	return s.vacancyRepo.List(ctx, p.CompanyID, status)
}

// GetPublic resolves a vacancy for the public share page, by id or by referral token.
func (s *vacancyService) GetPublic(ctx context.Context, vacancyID int64, referralToken string) (*models.Vacancy, error) {
	var (
		v   *models.Vacancy
		err error
	)
	switch {
	case referralToken != "":
		v, err = s.vacancyRepo.GetByReferralToken(ctx, referralToken)
	case vacancyID > 0:
		v, err = s.vacancyRepo.GetByID(ctx, vacancyID)
	default:
		return nil, validationError("vacancy_id or referral_token required")
	}
	if err != nil {
		return nil, vacancyNotFound(err)
	}
	return v, nil
}

func (s *vacancyService) Create(ctx context.Context, p *models.Principal, req *CreateVacancyRequest) (*models.Vacancy, error) {
	caller, err := requireStaff(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, validationError("Title is required")
	}

	reward := float64(models.DefaultRewardAmount)
	if req.RewardAmount != nil {
		reward = *req.RewardAmount
	}
	delay := models.DefaultPayoutDelayDays
	if req.PayoutDelayDays != nil {
		delay = *req.PayoutDelayDays
	}
	if reward < 0 || delay < 0 {
		return nil, validationError("reward_amount and payout_delay_days must not be negative")
	}

	token, err := randomURLToken(referralTokenBytes)
	if err != nil {
		return nil, err
	}

	v := &models.Vacancy{
		CompanyID:       p.CompanyID,
		Title:           title,
		Department:      common.OptionalString(req.Department),
		SalaryDisplay:   common.OptionalString(req.SalaryDisplay),
		Requirements:    common.OptionalString(req.Requirements),
		Description:     common.OptionalString(req.Description),
		Status:          models.VacancyActive,
		RewardAmount:    reward,
		PayoutDelayDays: delay,
		ReferralToken:   token,
		CreatedBy:       &caller.ID,
	}
	if err := s.vacancyRepo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *vacancyService) Update(ctx context.Context, p *models.Principal, id int64, upd models.VacancyUpdate) (*models.Vacancy, error) {
	if _, err := requireStaff(ctx, s.userRepo, p); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, validationError("id is required")
	}
	if upd.Status != nil && !validVacancyStatus(*upd.Status) {
		return nil, validationError("Invalid status")
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, validationError("Title is required")
	}
	if (upd.RewardAmount != nil && *upd.RewardAmount < 0) || (upd.PayoutDelayDays != nil && *upd.PayoutDelayDays < 0) {
		return nil, validationError("reward_amount and payout_delay_days must not be negative")
	}
	v, err := s.vacancyRepo.Update(ctx, p.CompanyID, id, upd)
	if err != nil {
		return nil, vacancyNotFound(err)
	}
	return v, nil
}

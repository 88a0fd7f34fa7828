package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"refstaff/internal/common"
	"refstaff/internal/models"
	"refstaff/internal/repositories"
)

type RecommendationService interface {
	List(ctx context.Context, p *models.Principal, filter models.RecommendationFilter) ([]*models.Recommendation, error)
	Create(ctx context.Context, p *models.Principal, req *CreateRecommendationRequest) (*models.Recommendation, error)
	UpdateStatus(ctx context.Context, p *models.Principal, req *RecommendationStatusRequest) (*models.AcceptOutcome, error)
}

type recommendationService struct {
	recommendationRepo repositories.RecommendationRepository
	vacancyRepo        repositories.VacancyRepository
	userRepo           repositories.UserRepository
	notifications      NotificationService
	now                func() time.Time
}

func NewRecommendationService(recommendationRepo repositories.RecommendationRepository, vacancyRepo repositories.VacancyRepository,
	userRepo repositories.UserRepository, notifications NotificationService, now func() time.Time) RecommendationService {
	if now == nil {
		now = time.Now
	}
	return &recommendationService{
		recommendationRepo: recommendationRepo,
		vacancyRepo:        vacancyRepo,
		userRepo:           userRepo,
		notifications:      notifications,
		now:                now,
	}
}

type CreateRecommendationRequest struct {
	VacancyID      int64  `json:"vacancy_id"`
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email"`
	CandidatePhone string `json:"candidate_phone"`
	Comment        string `json:"comment"`
}

type RecommendationStatusRequest struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

func validRecommendationStatus(status string) bool {
	switch status {
	case models.RecommendationPending, models.RecommendationAccepted, models.RecommendationRejected:
		return true
	}
	return false
}

func (s *recommendationService) List(ctx context.Context, p *models.Principal, filter models.RecommendationFilter) ([]*models.Recommendation, error) {
	if filter.Status != "" && !validRecommendationStatus(filter.Status) {
		return nil, validationError("Invalid status")
	}
	return s.recommendationRepo.List(ctx, p.CompanyID, filter)
}

// Create records a referral by the caller for a vacancy of the caller's company.
func (s *recommendationService) Create(ctx context.Context, p *models.Principal, req *CreateRecommendationRequest) (*models.Recommendation, error) {
	name := strings.TrimSpace(req.CandidateName)
	email := common.NormalizeEmail(req.CandidateEmail)
	if req.VacancyID <= 0 || name == "" || email == "" {
		return nil, validationError("Missing required fields")
	}
	if !common.ValidEmail(email) {
		return nil, validationError("Invalid email")
	}

	recommender, err := loadCaller(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}
	vacancy, err := s.vacancyRepo.GetInCompany(ctx, p.CompanyID, req.VacancyID)
	if err != nil {
		return nil, vacancyNotFound(err)
	}
	if vacancy.Status != models.VacancyActive {
		return nil, validationError("Vacancy is closed")
	}

	rec := &models.Recommendation{
		VacancyID:      vacancy.ID,
		RecommendedBy:  recommender.ID,
		CandidateName:  name,
		CandidateEmail: email,
		CandidatePhone: common.OptionalString(req.CandidatePhone),
		Comment:        common.OptionalString(req.Comment),
		Status:         models.RecommendationPending,
		RewardAmount:   vacancy.RewardAmount,
	}
	if err := s.recommendationRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	title := vacancy.Title
	rec.VacancyTitle = &title

	s.notifications.NotifyCompanyAsync(p.CompanyID, models.Notification{
		Event: models.EventNewRecommendation,
		Data: map[string]interface{}{
			"candidate_name":  rec.CandidateName,
			"candidate_email": rec.CandidateEmail,
			"vacancy_title":   vacancy.Title,
			"recommended_by":  recommender.FullName(),
			"reward_amount":   rec.RewardAmount,
		},
	})
	return rec, nil
}

// UpdateStatus moves a recommendation through the review pipeline. Accepting
// books the reward; an accepted recommendation cannot change again.
func (s *recommendationService) UpdateStatus(ctx context.Context, p *models.Principal, req *RecommendationStatusRequest) (*models.AcceptOutcome, error) {
	if req.ID <= 0 || req.Status == "" {
		return nil, validationError("id and status required")
	}
	if !validRecommendationStatus(req.Status) {
		return nil, validationError("Invalid status")
	}
	if _, err := requireStaff(ctx, s.userRepo, p); err != nil {
		return nil, err
	}

	if req.Status == models.RecommendationAccepted {
		out, err := s.recommendationRepo.Accept(ctx, p.CompanyID, req.ID, s.now())
		if err != nil {
			return nil, recommendationError(err)
		}
		return out, nil
	}

	rec, err := s.recommendationRepo.SetStatus(ctx, p.CompanyID, req.ID, req.Status, s.now())
	if err != nil {
		return nil, recommendationError(err)
	}
	return &models.AcceptOutcome{Recommendation: rec}, nil
}

func recommendationError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return notFoundError("Recommendation not found")
	case errors.Is(err, repositories.ErrAlreadyAccepted):
		return conflictError("Recommendation already accepted")
	}
	return err
}

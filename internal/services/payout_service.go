package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"refstaff/internal/models"
	"refstaff/internal/repositories"
)

type PayoutService interface {
	List(ctx context.Context, p *models.Principal, status string) ([]*models.PayoutRequest, error)
	Create(ctx context.Context, p *models.Principal, req *CreatePayoutRequest) (*models.PayoutRequest, error)
	Review(ctx context.Context, p *models.Principal, req *ReviewPayoutRequest) (*models.PayoutRequest, error)
}

type payoutService struct {
	payoutRepo    repositories.PayoutRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
	now           func() time.Time
}

func NewPayoutService(payoutRepo repositories.PayoutRepository, userRepo repositories.UserRepository,
	notifications NotificationService, now func() time.Time) PayoutService {
	if now == nil {
		now = time.Now
	}
	return &payoutService{payoutRepo: payoutRepo, userRepo: userRepo, notifications: notifications, now: now}
}

type CreatePayoutRequest struct {
	Amount         float64         `json:"amount"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentDetails json.RawMessage `json:"payment_details"`
}

type ReviewPayoutRequest struct {
	RequestID    int64   `json:"request_id"`
	Status       string  `json:"status"`
	AdminComment *string `json:"admin_comment"`
}

func validPayoutStatus(status string) bool {
	switch status {
	case models.PayoutRequestPending, models.PayoutRequestApproved, models.PayoutRequestRejected, models.PayoutRequestPaid:
		return true
	}
	return false
}

// List returns every request of the company to admins and only their own
// requests to everybody else.
func (s *payoutService) List(ctx context.Context, p *models.Principal, status string) ([]*models.PayoutRequest, error) {
	if status != "" && !validPayoutStatus(status) {
		return nil, validationError("Invalid status")
	}
	caller, err := loadCaller(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}
	if caller.IsAdmin || caller.Role == models.RoleAdmin {
		return s.payoutRepo.ListByCompany(ctx, p.CompanyID, status)
	}
	return s.payoutRepo.ListByUser(ctx, caller.ID)
}

func (s *payoutService) Create(ctx context.Context, p *models.Principal, req *CreatePayoutRequest) (*models.PayoutRequest, error) {
	if req.Amount <= 0 {
		return nil, validationError("Amount must be positive")
	}
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		return nil, validationError("payment_method is required")
	}

	caller, err := loadCaller(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}
	if req.Amount > caller.WalletBalance {
		return nil, validationError("Insufficient balance")
	}

	details := req.PaymentDetails
	if len(details) == 0 || string(details) == "null" {
		details = json.RawMessage(`{}`)
	}
	pr := &models.PayoutRequest{
		UserID:         caller.ID,
		Amount:         req.Amount,
		PaymentMethod:  method,
		PaymentDetails: details,
		Status:         models.PayoutRequestPending,
	}
	if err := s.payoutRepo.Create(ctx, pr); err != nil {
		return nil, err
	}

	s.notifications.NotifyCompanyAsync(p.CompanyID, models.Notification{
		Event: models.EventNewPayoutRequest,
		Data: map[string]interface{}{
			"employee_name":  caller.FullName(),
			"amount":         pr.Amount,
			"payment_method": pr.PaymentMethod,
		},
	})
	return pr, nil
}

// Review sets the admin decision. Marking a request paid debits the wallet in
// the same transaction.
func (s *payoutService) Review(ctx context.Context, p *models.Principal, req *ReviewPayoutRequest) (*models.PayoutRequest, error) {
	if req.RequestID <= 0 || req.Status == "" {
		return nil, validationError("Missing request_id or status")
	}
	if req.Status == models.PayoutRequestPending || !validPayoutStatus(req.Status) {
		return nil, validationError("Invalid status")
	}
	admin, err := requireAdmin(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}

	pr, err := s.payoutRepo.Review(ctx, p.CompanyID, req.RequestID, admin.ID, req.Status, req.AdminComment, s.now())
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil, notFoundError("Payout request not found")
	case errors.Is(err, repositories.ErrInsufficientBalance):
		return nil, validationError("Insufficient balance")
	case errors.Is(err, repositories.ErrAlreadyPaid):
		return nil, conflictError("Payout request already paid")
	case err != nil:
		return nil, err
	}
	return pr, nil
}

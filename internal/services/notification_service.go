package services

import (
	"context"
	"errors"
	"time"

	"refstaff/internal/models"
	"refstaff/internal/repositories"

	"go.uber.org/zap"
)

// asyncNotifyTimeout bounds a fire-and-forget notification run.
const asyncNotifyTimeout = 30 * time.Second

// NotifyResult reports how many admins were addressed and reached.
type NotifyResult struct {
	Recipients int `json:"-"`
	Sent       int `json:"sent"`
}

// NotificationService renders and sends transactional email.
type NotificationService interface {
	NotifyCompany(ctx context.Context, companyID int64, n models.Notification) (*NotifyResult, error)
	NotifyCompanyAsync(companyID int64, n models.Notification)
	SendVerification(ctx context.Context, req *VerificationEmailRequest) error
	SendPasswordReset(ctx context.Context, to, link string) error
}

type notificationService struct {
	companyRepo repositories.CompanyRepository
	userRepo    repositories.UserRepository
	mailer      Mailer
	appURL      string
}

func NewNotificationService(companyRepo repositories.CompanyRepository, userRepo repositories.UserRepository, mailer Mailer, appURL string) NotificationService {
	return &notificationService{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		mailer:      mailer,
		appURL:      appURL,
	}
}

// VerificationEmailRequest is the body of POST /send-email.
type VerificationEmailRequest struct {
	ToEmail           string `json:"to_email"`
	UserName          string `json:"user_name"`
	VerificationToken string `json:"verification_token"`
	BaseURL           string `json:"base_url"`
	UserType          string `json:"user_type"`
}

// NotifyCompany emails every verified admin of the company about an event. A
// company without verified admins is not an error; Recipients is then zero.
func (s *notificationService) NotifyCompany(ctx context.Context, companyID int64, n models.Notification) (*NotifyResult, error) {
	if companyID <= 0 || n.Event == "" {
		return nil, validationError("company_id and event_type required")
	}
	if !n.Event.Valid() {
		return nil, validationError("Unknown event type")
	}

	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundError("Company not found")
		}
		return nil, err
	}

	admins, err := s.userRepo.ListVerifiedAdmins(ctx, companyID)
	if err != nil {
		return nil, err
	}
	result := &NotifyResult{Recipients: len(admins)}
	if len(admins) == 0 {
		return result, nil
	}
	if !s.mailer.Configured() {
		return nil, notConfiguredError("Email not configured")
	}

	subject, html, err := renderNotification(company.Name, s.appURL, n)
	if err != nil {
		return nil, err
	}

	for _, admin := range admins {
		if err := s.mailer.Send(ctx, models.Email{To: admin.Email, Subject: subject, HTML: html}); err != nil {
			zap.L().Warn("Company notification not delivered",
				zap.Int64("company_id", companyID),
				zap.String("event", string(n.Event)),
				zap.String("to", admin.Email),
				zap.Error(err))
			continue
		}
		result.Sent++
	}
	if result.Sent == 0 {
		return nil, upstreamError("Failed to send email")
	}
	return result, nil
}

// NotifyCompanyAsync sends the notification in the background. Failures are logged only.
func (s *notificationService) NotifyCompanyAsync(companyID int64, n models.Notification) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncNotifyTimeout)
		defer cancel()

		res, err := s.NotifyCompany(ctx, companyID, n)
		if err != nil {
			zap.L().Warn("Company notification failed",
				zap.Int64("company_id", companyID),
				zap.String("event", string(n.Event)),
				zap.Error(err))
			return
		}
		zap.L().Debug("Company notification sent",
			zap.Int64("company_id", companyID),
			zap.String("event", string(n.Event)),
			zap.Int("sent", res.Sent))
	}()
}

func (s *notificationService) SendVerification(ctx context.Context, req *VerificationEmailRequest) error {
	if req.ToEmail == "" || req.VerificationToken == "" {
		return validationError("Missing required fields")
	}
	if !s.mailer.Configured() {
		return notConfiguredError("SMTP not configured")
	}
	base := req.BaseURL
	if base == "" {
		base = s.appURL
	}
	link := base + "/verify-email?token=" + req.VerificationToken

	html, err := renderVerification(req.UserName, link, req.UserType)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, models.Email{To: req.ToEmail, Subject: subjectVerification, HTML: html}); err != nil {
		return upstreamError("Failed to send email")
	}
	return nil
}

func (s *notificationService) SendPasswordReset(ctx context.Context, to, link string) error {
	if !s.mailer.Configured() {
		return notConfiguredError("SMTP not configured")
	}
	html, err := renderPasswordReset(link)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, models.Email{To: to, Subject: subjectPasswordReset, HTML: html}); err != nil {
		return upstreamError("Failed to send email")
	}
	return nil
}

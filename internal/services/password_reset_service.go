package services

import (
	"context"
	"errors"
	"net/url"
	"time"
	"unicode/utf8"

	"refstaff/internal/common"
	"refstaff/internal/models"
	"refstaff/internal/repositories"

	"go.uber.org/zap"
)

const (
	resetTokenBytes = 32
	resetTokenTTL   = time.Hour
	// resetTokenRetention is how long spent or expired tokens are kept before purging.
	resetTokenRetention = 24 * time.Hour
)

type PasswordResetService interface {
	Request(ctx context.Context, email string) error
	Reset(ctx context.Context, req *ResetPasswordRequest) error
	Purge(ctx context.Context) (int64, error)
}

type passwordResetService struct {
	resetRepo     repositories.PasswordResetRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
	siteURL       string
	now           func() time.Time
}

func NewPasswordResetService(resetRepo repositories.PasswordResetRepository, userRepo repositories.UserRepository,
	notifications NotificationService, siteURL string, now func() time.Time) PasswordResetService {
	if now == nil {
		now = time.Now
	}
	return &passwordResetService{
		resetRepo:     resetRepo,
		userRepo:      userRepo,
		notifications: notifications,
		siteURL:       siteURL,
		now:           now,
	}
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Request issues a one-hour reset token and mails the link. Unknown addresses
// succeed silently.
func (s *passwordResetService) Request(ctx context.Context, email string) error {
	email = common.NormalizeEmail(email)
	if email == "" {
		return validationError("Email is required")
	}
	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if !exists {
		zap.L().Debug("Password reset requested for unknown email")
		return nil
	}

	token, err := randomURLToken(resetTokenBytes)
	if err != nil {
		return err
	}
	t := &models.PasswordResetToken{
		Email:     email,
		Token:     token,
		ExpiresAt: s.now().Add(resetTokenTTL),
	}
	if err := s.resetRepo.Create(ctx, t); err != nil {
		return err
	}

	link := s.siteURL + "/?token=" + url.QueryEscape(token)
	return s.notifications.SendPasswordReset(ctx, email, link)
}

func (s *passwordResetService) Reset(ctx context.Context, req *ResetPasswordRequest) error {
	if req.Token == "" || req.Password == "" {
		return validationError("Token and password required")
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return validationError("Password must be at least 8 characters")
	}

	cred, err := NewCredential(req.Password)
	if err != nil {
		return err
	}
	err = s.resetRepo.Redeem(ctx, req.Token, cred, s.now())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return validationError("Invalid token")
	case errors.Is(err, repositories.ErrTokenUsed):
		return validationError("Token already used")
	case errors.Is(err, repositories.ErrTokenExpired):
		return validationError("Token expired")
	default:
		return err
	}
}

// Purge deletes tokens that were used or expired more than a day ago.
func (s *passwordResetService) Purge(ctx context.Context) (int64, error) {
	return s.resetRepo.Purge(ctx, s.now().Add(-resetTokenRetention))
}

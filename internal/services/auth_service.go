package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"refstaff/internal/common"
	"refstaff/internal/models"
	"refstaff/internal/repositories"

	"go.uber.org/zap"
)

const (
	trialPeriod          = 14 * 24 * time.Hour
	defaultEmployeeCount = 50
	inviteTokenBytes     = 16
	verifyTokenBytes     = 32
)

// AuthService covers registration, login and email verification.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)
	InviteEmployee(ctx context.Context, p *models.Principal, req *InviteEmployeeRequest) (int64, error)
	RegisterEmployee(ctx context.Context, req *RegisterEmployeeRequest) (*AuthResult, error)
	VerifyEmail(ctx context.Context, token string) (*AuthResult, error)
	ResendVerification(ctx context.Context, req *VerificationEmailRequest) error
	WhoAmI(ctx context.Context, p *models.Principal) (*models.User, error)
}

type authService struct {
	userRepo         repositories.UserRepository
	companyRepo      repositories.CompanyRepository
	tokens           TokenService
	notifications    NotificationService
	defaultCompanyID int64
	appURL           string
	now              func() time.Time
}

type AuthServiceConfig struct {
	DefaultCompanyID int64
	AppURL           string
	Now              func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, companyRepo repositories.CompanyRepository, tokens TokenService, notifications NotificationService, cfg AuthServiceConfig) AuthService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.DefaultCompanyID <= 0 {
		cfg.DefaultCompanyID = 1
	}
	return &authService{
		userRepo:         userRepo,
		companyRepo:      companyRepo,
		tokens:           tokens,
		notifications:    notifications,
		defaultCompanyID: cfg.DefaultCompanyID,
		appURL:           cfg.AppURL,
		now:              cfg.Now,
	}
}

type RegisterRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	CompanyName   string `json:"company_name"`
	CompanyINN    string `json:"company_inn"`
	EmployeeCount int    `json:"employee_count"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type InviteEmployeeRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

type RegisterEmployeeRequest struct {
	InviteToken string `json:"invite_token"`
	InviteEmployeeRequest
}

// AuthResult is a signed session together with the user it was issued for.
type AuthResult struct {
	Token string
	User  *models.User
}

func validateNewAccount(email, password string, required ...string) error {
	if email == "" || password == "" {
		return validationError("Missing required fields")
	}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return validationError("Missing required fields")
		}
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return validationError("Password must be at least 8 characters")
	}
	return nil
}

// ensureEmailFree is a check-then-insert; the unique index on users.email is
// the final arbiter and its violation is mapped to the same conflict.
func (s *authService) ensureEmailFree(ctx context.Context, email string) error {
	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return conflictError("Email already registered")
	}
	return nil
}

// prepareUser hashes the password and sets the defaults of a new account.
func (s *authService) prepareUser(u *models.User, password string) error {
	cred, err := NewCredential(password)
	if err != nil {
		return err
	}
	verify, err := randomURLToken(verifyTokenBytes)
	if err != nil {
		return err
	}
	u.PasswordHash = cred
	u.Level = 1
	u.VerificationToken = &verify
	return nil
}

func (s *authService) createUser(ctx context.Context, u *models.User, password string) error {
	if err := s.prepareUser(u, password); err != nil {
		return err
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return registrationError(err)
	}
	return nil
}

func registrationError(err error) error {
	if repositories.IsUniqueViolation(err) {
		return conflictError("Email already registered")
	}
	return err
}

func (s *authService) issue(u *models.User) (*AuthResult, error) {
	token, err := s.tokens.Create(u.ID, u.Email, u.CompanyID, u.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	email := common.NormalizeEmail(req.Email)
	if err := validateNewAccount(email, req.Password, req.FirstName, req.LastName); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CompanyID: s.defaultCompanyID,
		Role:      models.RoleEmployee,
	}

	if name := strings.TrimSpace(req.CompanyName); name != "" {
		invite, err := randomHex(inviteTokenBytes)
		if err != nil {
			return nil, err
		}
		count := req.EmployeeCount
		if count <= 0 {
			count = defaultEmployeeCount
		}
		expires := s.now().Add(trialPeriod)
		company := &models.Company{
			Name:                  name,
			EmployeeCount:         count,
			InviteToken:           invite,
			SubscriptionTier:      models.SubscriptionTrial,
			SubscriptionExpiresAt: &expires,
			INN:                   common.OptionalString(req.CompanyINN),
		}
		user.Role = models.RoleAdmin
		user.IsAdmin = true
		if err := s.prepareUser(user, req.Password); err != nil {
			return nil, err
		}
		if err := s.companyRepo.CreateWithAdmin(ctx, company, user); err != nil {
			return nil, registrationError(err)
		}
		s.sendVerificationAsync(user, "company")
		return s.issue(user)
	}

	if err := s.createUser(ctx, user, req.Password); err != nil {
		return nil, err
	}
	s.sendVerificationAsync(user, "employee")
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	email := common.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, validationError("Email and password required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, unauthorizedError("Invalid credentials")
		}
		return nil, err
	}

	ok, err := CheckCredential(req.Password, user.PasswordHash)
	if err != nil {
		zap.L().Error("Stored credential is corrupted", zap.Int64("user_id", user.ID))
		return nil, newError(ErrCorruptCredential, "Invalid password format")
	}
	if !ok {
		return nil, unauthorizedError("Invalid credentials")
	}
	return s.issue(user)
}

// InviteEmployee creates an employee in the caller's company. Only admins may invite.
func (s *authService) InviteEmployee(ctx context.Context, p *models.Principal, req *InviteEmployeeRequest) (int64, error) {
	caller, err := s.userRepo.GetInCompany(ctx, p.CompanyID, p.UserID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return 0, err
	}
	if caller == nil || !(caller.IsAdmin || caller.Role == models.RoleAdmin) {
		return 0, forbiddenError("Only admins can invite employees")
	}

	email := common.NormalizeEmail(req.Email)
	if err := validateNewAccount(email, req.Password, req.FirstName, req.LastName, req.Position, req.Department); err != nil {
		return 0, err
	}
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return 0, err
	}

	user := &models.User{
		CompanyID:  caller.CompanyID,
		Email:      email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       models.RoleEmployee,
		Position:   common.OptionalString(req.Position),
		Department: common.OptionalString(req.Department),
	}
	if err := s.createUser(ctx, user, req.Password); err != nil {
		return 0, err
	}
	s.sendVerificationAsync(user, "employee")
	return user.ID, nil
}

// RegisterEmployee self-registers an employee through a company invite link.
func (s *authService) RegisterEmployee(ctx context.Context, req *RegisterEmployeeRequest) (*AuthResult, error) {
	if strings.TrimSpace(req.InviteToken) == "" {
		return nil, validationError("Missing required fields")
	}
	email := common.NormalizeEmail(req.Email)
	if err := validateNewAccount(email, req.Password, req.FirstName, req.LastName); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.GetByInviteToken(ctx, req.InviteToken)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundError("Invalid invite link")
		}
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	user := &models.User{
		CompanyID:  company.ID,
		Email:      email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       models.RoleEmployee,
		Position:   common.OptionalString(req.Position),
		Department: common.OptionalString(req.Department),
	}
	if err := s.createUser(ctx, user, req.Password); err != nil {
		return nil, err
	}

	s.sendVerificationAsync(user, "employee")
	s.notifications.NotifyCompanyAsync(company.ID, models.Notification{
		Event: models.EventNewEmployee,
		Data: map[string]interface{}{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"position":   req.Position,
		},
	})
	return s.issue(user)
}

func (s *authService) VerifyEmail(ctx context.Context, token string) (*AuthResult, error) {
	if strings.TrimSpace(token) == "" {
		return nil, validationError("Token is required")
	}
	user, err := s.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, validationError("Invalid verification token")
		}
		return nil, err
	}
	if err := s.userRepo.MarkEmailVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	user.EmailVerified = true
	user.VerificationToken = nil
	return s.issue(user)
}

// ResendVerification mails a verification link, but only to the unverified
// address that owns the token.
func (s *authService) ResendVerification(ctx context.Context, req *VerificationEmailRequest) error {
	req.ToEmail = common.NormalizeEmail(req.ToEmail)
	if req.ToEmail == "" || req.VerificationToken == "" {
		return validationError("Missing required fields")
	}
	ok, err := s.userRepo.HasPendingVerification(ctx, req.ToEmail, req.VerificationToken)
	if err != nil {
		return err
	}
	if !ok {
		return validationError("Invalid verification token")
	}
	return s.notifications.SendVerification(ctx, req)
}

func (s *authService) WhoAmI(ctx context.Context, p *models.Principal) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundError("User not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) sendVerificationAsync(u *models.User, userType string) {
	if u.VerificationToken == nil {
		return
	}
	req := &VerificationEmailRequest{
		ToEmail:           u.Email,
		UserName:          u.FirstName,
		VerificationToken: *u.VerificationToken,
		BaseURL:           s.appURL,
		UserType:          userType,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncNotifyTimeout)
		defer cancel()
		if err := s.notifications.SendVerification(ctx, req); err != nil {
			zap.L().Warn("Verification email not sent", zap.String("to", req.ToEmail), zap.Error(err))
		}
	}()
}

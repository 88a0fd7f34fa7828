package services

import (
	"context"
	"time"

	"refstaff/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock repositories and collaborators
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetInCompany(ctx context.Context, companyID, id int64) (*models.User, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) HasPendingVerification(ctx context.Context, email, token string) (bool, error) {
	args := m.Called(ctx, email, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) ListEmployees(ctx context.Context, companyID int64) ([]*models.EmployeeCard, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]*models.EmployeeCard), args.Error(1)
}

func (m *MockUserRepository) ListVerifiedAdmins(ctx context.Context, companyID int64) ([]models.Recipient, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipient), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, companyID, id int64, upd models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, companyID, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, companyID, id int64, isHRManager, isAdmin bool) error {
	args := m.Called(ctx, companyID, id, isHRManager, isAdmin)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, companyID, id int64) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) CreateWithAdmin(ctx context.Context, company *models.Company, admin *models.User) error {
	args := m.Called(ctx, company, admin)
	return args.Error(0)
}

func (m *MockCompanyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) GetByInviteToken(ctx context.Context, token string) (*models.CompanyRef, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompanyRef), args.Error(1)
}

func (m *MockCompanyRepository) Update(ctx context.Context, id int64, upd models.CompanyUpdate) (*models.Company, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) Stats(ctx context.Context, id int64) (*models.CompanyStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompanyStats), args.Error(1)
}

func (m *MockCompanyRepository) ExpireTrials(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockVacancyRepository struct {
	mock.Mock
}

func (m *MockVacancyRepository) Create(ctx context.Context, vacancy *models.Vacancy) error {
	args := m.Called(ctx, vacancy)
	return args.Error(0)
}

func (m *MockVacancyRepository) List(ctx context.Context, companyID int64, status string) ([]*models.Vacancy, error) {
	args := m.Called(ctx, companyID, status)
	return args.Get(0).([]*models.Vacancy), args.Error(1)
}

func (m *MockVacancyRepository) GetByID(ctx context.Context, id int64) (*models.Vacancy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vacancy), args.Error(1)
}

func (m *MockVacancyRepository) GetInCompany(ctx context.Context, companyID, id int64) (*models.Vacancy, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vacancy), args.Error(1)
}

func (m *MockVacancyRepository) GetByReferralToken(ctx context.Context, token string) (*models.Vacancy, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vacancy), args.Error(1)
}

func (m *MockVacancyRepository) Update(ctx context.Context, companyID, id int64, upd models.VacancyUpdate) (*models.Vacancy, error) {
	args := m.Called(ctx, companyID, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vacancy), args.Error(1)
}

type MockRecommendationRepository struct {
	mock.Mock
}

func (m *MockRecommendationRepository) Create(ctx context.Context, rec *models.Recommendation) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecommendationRepository) List(ctx context.Context, companyID int64, filter models.RecommendationFilter) ([]*models.Recommendation, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]*models.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) GetInCompany(ctx context.Context, companyID, id int64) (*models.Recommendation, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) SetStatus(ctx context.Context, companyID, id int64, status string, now time.Time) (*models.Recommendation, error) {
	args := m.Called(ctx, companyID, id, status, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) Accept(ctx context.Context, companyID, id int64, now time.Time) (*models.AcceptOutcome, error) {
	args := m.Called(ctx, companyID, id, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AcceptOutcome), args.Error(1)
}

type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) Create(ctx context.Context, req *models.PayoutRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockPayoutRepository) ListByCompany(ctx context.Context, companyID int64, status string) ([]*models.PayoutRequest, error) {
	args := m.Called(ctx, companyID, status)
	return args.Get(0).([]*models.PayoutRequest), args.Error(1)
}

func (m *MockPayoutRepository) ListByUser(ctx context.Context, userID int64) ([]*models.PayoutRequest, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.PayoutRequest), args.Error(1)
}

func (m *MockPayoutRepository) Review(ctx context.Context, companyID, id, reviewerID int64, status string, comment *string, now time.Time) (*models.PayoutRequest, error) {
	args := m.Called(ctx, companyID, id, reviewerID, status, comment, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PayoutRequest), args.Error(1)
}

type MockGameScoreRepository struct {
	mock.Mock
}

func (m *MockGameScoreRepository) Leaderboard(ctx context.Context, companyID int64, game string, limit int) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, companyID, game, limit)
	return args.Get(0).([]models.LeaderboardEntry), args.Error(1)
}

func (m *MockGameScoreRepository) SaveBest(ctx context.Context, userID int64, game string, score int) (bool, error) {
	args := m.Called(ctx, userID, game, score)
	return args.Bool(0), args.Error(1)
}

type MockPasswordResetRepository struct {
	mock.Mock
}

func (m *MockPasswordResetRepository) Create(ctx context.Context, t *models.PasswordResetToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockPasswordResetRepository) Redeem(ctx context.Context, token, passwordHash string, now time.Time) error {
	args := m.Called(ctx, token, passwordHash, now)
	return args.Error(0)
}

func (m *MockPasswordResetRepository) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) NotifyCompany(ctx context.Context, companyID int64, n models.Notification) (*NotifyResult, error) {
	args := m.Called(ctx, companyID, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*NotifyResult), args.Error(1)
}

func (m *MockNotificationService) NotifyCompanyAsync(companyID int64, n models.Notification) {
	m.Called(companyID, n)
}

func (m *MockNotificationService) SendVerification(ctx context.Context, req *VerificationEmailRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockNotificationService) SendPasswordReset(ctx context.Context, to, link string) error {
	args := m.Called(ctx, to, link)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, email models.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockMailer) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetParty(ctx context.Context, inn string) (*models.Party, error) {
	args := m.Called(ctx, inn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Party), args.Error(1)
}

func (m *MockCacheService) SetParty(ctx context.Context, party *models.Party, ttl time.Duration) error {
	args := m.Called(ctx, party, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetLeaderboard(ctx context.Context, companyID int64, game string) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, companyID, game)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Error(1)
}

func (m *MockCacheService) SetLeaderboard(ctx context.Context, companyID int64, game string, leaders []models.LeaderboardEntry, ttl time.Duration) error {
	args := m.Called(ctx, companyID, game, leaders, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteLeaderboard(ctx context.Context, companyID int64, game string) error {
	args := m.Called(ctx, companyID, game)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockDadataClient struct {
	mock.Mock
}

func (m *MockDadataClient) FindPartyByINN(ctx context.Context, inn string) (*models.Party, error) {
	args := m.Called(ctx, inn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Party), args.Error(1)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) PutObject(ctx context.Context, objectName string, data []byte, contentType string) error {
	args := m.Called(ctx, objectName, data, contentType)
	return args.Error(0)
}

func (m *MockMinioService) GetObject(ctx context.Context, objectName string) ([]byte, error) {
	args := m.Called(ctx, objectName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMinioService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) ListForCompany(ctx context.Context, companyID int64) ([]*models.Chat, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]*models.Chat), args.Error(1)
}

func (m *MockChatRepository) ListForEmployee(ctx context.Context, companyID, employeeID int64) ([]*models.Chat, error) {
	args := m.Called(ctx, companyID, employeeID)
	return args.Get(0).([]*models.Chat), args.Error(1)
}

func (m *MockChatRepository) GetOrCreate(ctx context.Context, companyID, employeeID int64) (*models.Chat, error) {
	args := m.Called(ctx, companyID, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockChatRepository) GetInCompany(ctx context.Context, companyID, id int64) (*models.Chat, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockChatRepository) ListMessages(ctx context.Context, chatID int64) ([]*models.ChatMessage, error) {
	args := m.Called(ctx, chatID)
	return args.Get(0).([]*models.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) AddMessage(ctx context.Context, msg *models.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChatRepository) MarkRead(ctx context.Context, chatID, readerID int64) (int64, error) {
	args := m.Called(ctx, chatID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

type MockEmployeeChatRepository struct {
	mock.Mock
}

func (m *MockEmployeeChatRepository) List(ctx context.Context, companyID, userID int64) ([]*models.EmployeeChat, error) {
	args := m.Called(ctx, companyID, userID)
	return args.Get(0).([]*models.EmployeeChat), args.Error(1)
}

func (m *MockEmployeeChatRepository) GetOrCreate(ctx context.Context, companyID, userID, peerID int64) (*models.EmployeeChat, error) {
	args := m.Called(ctx, companyID, userID, peerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmployeeChat), args.Error(1)
}

func (m *MockEmployeeChatRepository) Get(ctx context.Context, companyID, id int64) (*models.EmployeeChat, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmployeeChat), args.Error(1)
}

func (m *MockEmployeeChatRepository) ListMessages(ctx context.Context, chatID int64) ([]*models.ChatMessage, error) {
	args := m.Called(ctx, chatID)
	return args.Get(0).([]*models.ChatMessage), args.Error(1)
}

func (m *MockEmployeeChatRepository) AddMessage(ctx context.Context, msg *models.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockEmployeeChatRepository) MarkRead(ctx context.Context, chatID, readerID int64) (int64, error) {
	args := m.Called(ctx, chatID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

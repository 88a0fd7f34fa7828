package repositories

import (
	"context"
	"testing"
	"time"

	"refstaff/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CompanyRepoTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo CompanyRepository
	ctx  context.Context
	now  time.Time
}

func (suite *CompanyRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewCompanyRepo(mock)
	suite.ctx = context.Background()
	suite.now = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
}

func (suite *CompanyRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestCompanyRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyRepoTestSuite))
}

func (suite *CompanyRepoTestSuite) newCompany() (*models.Company, *models.User) {
	expires := suite.now.Add(14 * 24 * time.Hour)
	company := &models.Company{
		Name:                  "Acme",
		EmployeeCount:         50,
		InviteToken:           "abc123",
		SubscriptionTier:      models.SubscriptionTrial,
		SubscriptionExpiresAt: &expires,
	}
	admin := &models.User{
		Email:     "boss@example.com",
		FirstName: "Ivan",
		LastName:  "Petrov",
		Role:      models.RoleAdmin,
		IsAdmin:   true,
		Level:     1,
	}
	return company, admin
}

func (suite *CompanyRepoTestSuite) TestCreateWithAdmin() {
	company, admin := suite.newCompany()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery("INSERT INTO companies").
		WithArgs("Acme", 50, "abc123", models.SubscriptionTrial, company.SubscriptionExpiresAt, (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), suite.now))
	suite.mock.ExpectQuery("INSERT INTO users").
		WithArgs(int64(42), "boss@example.com", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			models.RoleAdmin, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), true, pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), suite.now, suite.now))
	suite.mock.ExpectCommit()

	require.NoError(suite.T(), suite.repo.CreateWithAdmin(suite.ctx, company, admin))

	assert.Equal(suite.T(), int64(42), company.ID)
	assert.Equal(suite.T(), int64(42), admin.CompanyID)
	assert.Equal(suite.T(), int64(7), admin.ID)
}

func (suite *CompanyRepoTestSuite) TestCreateWithAdmin_DuplicateEmailRollsBackCompany() {
	company, admin := suite.newCompany()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery("INSERT INTO companies").
		WithArgs("Acme", 50, "abc123", models.SubscriptionTrial, company.SubscriptionExpiresAt, (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), suite.now))
	suite.mock.ExpectQuery("INSERT INTO users").
		WithArgs(int64(42), "boss@example.com", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			models.RoleAdmin, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), true, pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	suite.mock.ExpectRollback()

	err := suite.repo.CreateWithAdmin(suite.ctx, company, admin)

	assert.True(suite.T(), IsUniqueViolation(err))
}

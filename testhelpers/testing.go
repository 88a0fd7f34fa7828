package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"refstaff/internal/models"
	"refstaff/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the migrations and empties
// every table. The test is skipped when the variable is unset.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, connString, "public")
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE contact_messages, password_reset_tokens, game_scores, employee_messages, employee_chats,
			messages, chats, payout_requests, pending_payouts, wallet_transactions, recommendations,
			vacancies, users
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		pool.Close()
		t.Fatalf("Failed to reset test database: %v", err)
	}

	return &TestDB{Pool: pool, Cleanup: pool.Close}
}

// SetupTestCompany creates a company with a fresh invite token.
func SetupTestCompany(t *testing.T, db *TestDB, name string) int64 {
	t.Helper()

	var id int64
	query := `
		INSERT INTO companies (name, invite_token, subscription_tier)
		VALUES ($1, $2, 'trial')
		RETURNING id
	`
	if err := db.Pool.QueryRow(context.Background(), query, name, uuid.NewString()).Scan(&id); err != nil {
		t.Fatalf("Failed to create test company: %v", err)
	}
	return id
}

// SetupTestUser inserts a verified user. Admins are also HR managers.
func SetupTestUser(t *testing.T, db *TestDB, companyID int64, email string, admin bool) *models.User {
	t.Helper()

	role := models.RoleEmployee
	if admin {
		role = models.RoleAdmin
	}
	user := &models.User{
		CompanyID:     companyID,
		Email:         email,
		PasswordHash:  "unused",
		FirstName:     "Test",
		LastName:      "User",
		Role:          role,
		Level:         1,
		IsAdmin:       admin,
		IsHRManager:   admin,
		EmailVerified: true,
	}

	query := `
		INSERT INTO users (company_id, email, password_hash, first_name, last_name, role, level,
			is_admin, is_hr_manager, email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := db.Pool.QueryRow(context.Background(), query, user.CompanyID, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.Role, user.Level, user.IsAdmin, user.IsHRManager, user.EmailVerified).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// SetupTestVacancy creates an active vacancy with the given reward and payout delay.
func SetupTestVacancy(t *testing.T, db *TestDB, companyID, createdBy int64, reward float64, delayDays int) *models.Vacancy {
	t.Helper()

	vacancy := &models.Vacancy{
		CompanyID:       companyID,
		Title:           "Test Vacancy",
		Status:          models.VacancyActive,
		RewardAmount:    reward,
		PayoutDelayDays: delayDays,
		ReferralToken:   uuid.NewString(),
		CreatedBy:       &createdBy,
	}

	query := `
		INSERT INTO vacancies (company_id, title, status, reward_amount, payout_delay_days, referral_token, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := db.Pool.QueryRow(context.Background(), query, vacancy.CompanyID, vacancy.Title, vacancy.Status,
		vacancy.RewardAmount, vacancy.PayoutDelayDays, vacancy.ReferralToken, vacancy.CreatedBy).
		Scan(&vacancy.ID, &vacancy.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test vacancy: %v", err)
	}
	return vacancy
}

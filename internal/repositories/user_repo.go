package repositories

import (
	"context"
	"fmt"

	"refstaff/internal/models"

	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	EmailExists(ctx context.Context, email string) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetInCompany(ctx context.Context, companyID, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)
	HasPendingVerification(ctx context.Context, email, token string) (bool, error)
	MarkEmailVerified(ctx context.Context, id int64) error
	ListEmployees(ctx context.Context, companyID int64) ([]*models.EmployeeCard, error)
	ListVerifiedAdmins(ctx context.Context, companyID int64) ([]models.Recipient, error)
	UpdateProfile(ctx context.Context, companyID, id int64, upd models.ProfileUpdate) (*models.User, error)
	UpdateRole(ctx context.Context, companyID, id int64, isHRManager, isAdmin bool) error
	Delete(ctx context.Context, companyID, id int64) error
}

type userRepo struct {
	db DB
}

func NewUserRepo(db DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, company_id, email, password_hash, first_name, last_name, role, position,
	department, avatar_url, level, experience_points, total_recommendations, successful_hires,
	total_earnings, wallet_balance, wallet_pending, is_admin, is_hr_manager, email_verified,
	verification_token, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.CompanyID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role,
		&u.Position, &u.Department, &u.AvatarURL, &u.Level, &u.ExperiencePoints, &u.TotalRecommendations,
		&u.SuccessfulHires, &u.TotalEarnings, &u.WalletBalance, &u.WalletPending, &u.IsAdmin, &u.IsHRManager,
		&u.EmailVerified, &u.VerificationToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return insertUser(ctx, r.db, user)
}

func insertUser(ctx context.Context, q rowQuerier, user *models.User) error {
	query := `
		INSERT INTO users (company_id, email, password_hash, first_name, last_name, role, position,
			department, level, is_admin, is_hr_manager, email_verified, verification_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query, user.CompanyID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Role, user.Position, user.Department, user.Level, user.IsAdmin, user.IsHRManager, user.EmailVerified,
		user.VerificationToken).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetInCompany(ctx context.Context, companyID, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE company_id = $1 AND id = $2`
	return scanUser(r.db.QueryRow(ctx, query, companyID, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE verification_token = $1`
	return scanUser(r.db.QueryRow(ctx, query, token))
}

func (r *userRepo) HasPendingVerification(ctx context.Context, email, token string) (bool, error) {
	var ok bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM users
			WHERE email = $1 AND verification_token = $2 AND email_verified = false
		)
	`
	if err := r.db.QueryRow(ctx, query, email, token).Scan(&ok); err != nil {
		return false, fmt.Errorf("check verification token: %w", err)
	}
	return ok, nil
}

func (r *userRepo) MarkEmailVerified(ctx context.Context, id int64) error {
	query := `
		UPDATE users
		SET email_verified = true, verification_token = NULL, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) ListEmployees(ctx context.Context, companyID int64) ([]*models.EmployeeCard, error) {
	query := `
		SELECT id, first_name, last_name, email, position, department, level, experience_points,
			total_recommendations, successful_hires, total_earnings, avatar_url, is_admin, is_hr_manager
		FROM users
		WHERE company_id = $1 AND role = 'employee'
		ORDER BY successful_hires DESC, total_recommendations DESC
	`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	employees := []*models.EmployeeCard{}
	for rows.Next() {
		e := &models.EmployeeCard{}
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Position, &e.Department, &e.Level,
			&e.ExperiencePoints, &e.TotalRecommendations, &e.SuccessfulHires, &e.TotalEarnings, &e.AvatarURL,
			&e.IsAdmin, &e.IsHRManager); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *userRepo) ListVerifiedAdmins(ctx context.Context, companyID int64) ([]models.Recipient, error) {
	query := `
		SELECT email, first_name, last_name
		FROM users
		WHERE company_id = $1 AND is_admin = true AND email_verified = true
	`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var recipients []models.Recipient
	for rows.Next() {
		var rc models.Recipient
		if err := rows.Scan(&rc.Email, &rc.FirstName, &rc.LastName); err != nil {
			return nil, err
		}
		recipients = append(recipients, rc)
	}
	return recipients, rows.Err()
}

func (r *userRepo) UpdateProfile(ctx context.Context, companyID, id int64, upd models.ProfileUpdate) (*models.User, error) {
	query := `
		UPDATE users
		SET first_name = COALESCE($3, first_name),
			last_name = COALESCE($4, last_name),
			position = COALESCE($5, position),
			department = COALESCE($6, department),
			avatar_url = COALESCE($7, avatar_url),
			updated_at = NOW()
		WHERE company_id = $1 AND id = $2
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, companyID, id, upd.FirstName, upd.LastName, upd.Position,
		upd.Department, upd.AvatarURL))
}

func (r *userRepo) UpdateRole(ctx context.Context, companyID, id int64, isHRManager, isAdmin bool) error {
	query := `
		UPDATE users
		SET is_hr_manager = $3,
			is_admin = $4,
			role = CASE WHEN $4 THEN 'admin' ELSE 'employee' END,
			updated_at = NOW()
		WHERE company_id = $1 AND id = $2
	`
	tag, err := r.db.Exec(ctx, query, companyID, id, isHRManager, isAdmin)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, companyID, id int64) error {
	query := `DELETE FROM users WHERE company_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, companyID, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

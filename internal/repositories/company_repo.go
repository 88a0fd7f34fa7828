package repositories

import (
	"context"
	"fmt"
	"time"

	"refstaff/internal/models"

	"github.com/jackc/pgx/v5"
)

type CompanyRepository interface {
	CreateWithAdmin(ctx context.Context, company *models.Company, admin *models.User) error
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	GetByInviteToken(ctx context.Context, token string) (*models.CompanyRef, error)
	Update(ctx context.Context, id int64, upd models.CompanyUpdate) (*models.Company, error)
	Stats(ctx context.Context, id int64) (*models.CompanyStats, error)
	ExpireTrials(ctx context.Context, now time.Time) (int64, error)
}

type companyRepo struct {
	db DB
}

func NewCompanyRepo(db DB) CompanyRepository {
	return &companyRepo{db: db}
}

const companyColumns = `id, name, employee_count, invite_token, subscription_tier, subscription_expires_at,
	inn, logo_url, description, website, industry, created_at`

func scanCompany(row pgx.Row) (*models.Company, error) {
	c := &models.Company{}
	err := row.Scan(&c.ID, &c.Name, &c.EmployeeCount, &c.InviteToken, &c.SubscriptionTier,
		&c.SubscriptionExpiresAt, &c.INN, &c.LogoURL, &c.Description, &c.Website, &c.Industry, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// CreateWithAdmin inserts a company and its first admin in one transaction.
// admin.CompanyID is set to the new company's id.
func (r *companyRepo) CreateWithAdmin(ctx context.Context, company *models.Company, admin *models.User) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO companies (name, employee_count, invite_token, subscription_tier, subscription_expires_at, inn, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
			RETURNING id, created_at
		`
		err := tx.QueryRow(ctx, query, company.Name, company.EmployeeCount, company.InviteToken,
			company.SubscriptionTier, company.SubscriptionExpiresAt, company.INN).Scan(&company.ID, &company.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert company: %w", err)
		}
		admin.CompanyID = company.ID
		return insertUser(ctx, tx, admin)
	})
}

func (r *companyRepo) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return scanCompany(r.db.QueryRow(ctx, query, id))
}

func (r *companyRepo) GetByInviteToken(ctx context.Context, token string) (*models.CompanyRef, error) {
	ref := &models.CompanyRef{}
	query := `SELECT id, name, invite_token FROM companies WHERE invite_token = $1`
	if err := r.db.QueryRow(ctx, query, token).Scan(&ref.ID, &ref.Name, &ref.InviteToken); err != nil {
		return nil, notFound(err)
	}
	return ref, nil
}

func (r *companyRepo) Update(ctx context.Context, id int64, upd models.CompanyUpdate) (*models.Company, error) {
	query := `
		UPDATE companies
		SET name = COALESCE($2, name),
			description = COALESCE($3, description),
			website = COALESCE($4, website),
			industry = COALESCE($5, industry),
			logo_url = COALESCE($6, logo_url),
			employee_count = COALESCE($7, employee_count)
		WHERE id = $1
		RETURNING ` + companyColumns
	return scanCompany(r.db.QueryRow(ctx, query, id, upd.Name, upd.Description, upd.Website, upd.Industry,
		upd.LogoURL, upd.EmployeeCount))
}

// Stats aggregates the dashboard counters of one company.
func (r *companyRepo) Stats(ctx context.Context, id int64) (*models.CompanyStats, error) {
	s := &models.CompanyStats{}
	query := `
		SELECT
			(SELECT COUNT(*) FROM recommendations r JOIN vacancies v ON r.vacancy_id = v.id
				WHERE v.company_id = $1),
			(SELECT COUNT(*) FROM recommendations r JOIN vacancies v ON r.vacancy_id = v.id
				WHERE v.company_id = $1 AND r.status = 'accepted'),
			(SELECT COALESCE(SUM(r.reward_amount), 0) FROM recommendations r JOIN vacancies v ON r.vacancy_id = v.id
				WHERE v.company_id = $1 AND r.status = 'accepted'),
			(SELECT COUNT(*) FROM vacancies WHERE company_id = $1 AND status = 'active'),
			(SELECT COUNT(*) FROM users WHERE company_id = $1 AND role = 'employee')
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&s.TotalRecommendations, &s.AcceptedCandidates, &s.TotalBonuses,
		&s.ActiveVacancies, &s.TotalEmployees)
	if err != nil {
		return nil, fmt.Errorf("company stats: %w", err)
	}
	return s, nil
}

// ExpireTrials flips trial companies whose subscription ran out to expired.
func (r *companyRepo) ExpireTrials(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE companies
		SET subscription_tier = 'expired'
		WHERE subscription_tier = 'trial' AND subscription_expires_at < $1
	`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("expire trials: %w", err)
	}
	return tag.RowsAffected(), nil
}

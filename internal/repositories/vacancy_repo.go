package repositories

import (
	"context"
	"fmt"

	"refstaff/internal/models"

	"github.com/jackc/pgx/v5"
)

type VacancyRepository interface {
	Create(ctx context.Context, vacancy *models.Vacancy) error
	List(ctx context.Context, companyID int64, status string) ([]*models.Vacancy, error)
	GetByID(ctx context.Context, id int64) (*models.Vacancy, error)
	GetInCompany(ctx context.Context, companyID, id int64) (*models.Vacancy, error)
	GetByReferralToken(ctx context.Context, token string) (*models.Vacancy, error)
	Update(ctx context.Context, companyID, id int64, upd models.VacancyUpdate) (*models.Vacancy, error)
}

type vacancyRepo struct {
	db DB
}

func NewVacancyRepo(db DB) VacancyRepository {
	return &vacancyRepo{db: db}
}

const vacancyColumns = `id, company_id, title, department, salary_display, requirements, description, status,
	reward_amount, payout_delay_days, referral_token, created_by, created_at`

func scanVacancy(row pgx.Row) (*models.Vacancy, error) {
	v := &models.Vacancy{}
	err := row.Scan(&v.ID, &v.CompanyID, &v.Title, &v.Department, &v.SalaryDisplay, &v.Requirements,
		&v.Description, &v.Status, &v.RewardAmount, &v.PayoutDelayDays, &v.ReferralToken, &v.CreatedBy, &v.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

func (r *vacancyRepo) Create(ctx context.Context, v *models.Vacancy) error {
	query := `
		INSERT INTO vacancies (company_id, title, department, salary_display, requirements, description, status,
			reward_amount, payout_delay_days, referral_token, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, v.CompanyID, v.Title, v.Department, v.SalaryDisplay, v.Requirements,
		v.Description, v.Status, v.RewardAmount, v.PayoutDelayDays, v.ReferralToken, v.CreatedBy).
		Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert vacancy: %w", err)
	}
	return nil
}

// List returns company vacancies with their recommendation counts. The status
// "all" disables the status filter.
func (r *vacancyRepo) List(ctx context.Context, companyID int64, status string) ([]*models.Vacancy, error) {
	query := `
		SELECT v.id, v.company_id, v.title, v.department, v.salary_display, v.requirements, v.description,
			v.status, v.reward_amount, v.payout_delay_days, v.referral_token, v.created_by, v.created_at,
			COUNT(r.id) AS recommendations_count,
			u.first_name || ' ' || u.last_name AS created_by_name
		FROM vacancies v
		LEFT JOIN recommendations r ON v.id = r.vacancy_id
		LEFT JOIN users u ON v.created_by = u.id
		WHERE v.company_id = $1 AND ($2 = 'all' OR v.status = $2)
		GROUP BY v.id, u.first_name, u.last_name
		ORDER BY v.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, companyID, status)
	if err != nil {
		return nil, fmt.Errorf("list vacancies: %w", err)
	}
	defer rows.Close()

	vacancies := []*models.Vacancy{}
	for rows.Next() {
		v := &models.Vacancy{}
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Title, &v.Department, &v.SalaryDisplay, &v.Requirements,
			&v.Description, &v.Status, &v.RewardAmount, &v.PayoutDelayDays, &v.ReferralToken, &v.CreatedBy,
			&v.CreatedAt, &v.RecommendationsCount, &v.CreatedByName); err != nil {
			return nil, err
		}
		vacancies = append(vacancies, v)
	}
	return vacancies, rows.Err()
}

func (r *vacancyRepo) GetByID(ctx context.Context, id int64) (*models.Vacancy, error) {
	query := `SELECT ` + vacancyColumns + ` FROM vacancies WHERE id = $1`
	return scanVacancy(r.db.QueryRow(ctx, query, id))
}

func (r *vacancyRepo) GetInCompany(ctx context.Context, companyID, id int64) (*models.Vacancy, error) {
	query := `SELECT ` + vacancyColumns + ` FROM vacancies WHERE company_id = $1 AND id = $2`
	return scanVacancy(r.db.QueryRow(ctx, query, companyID, id))
}

func (r *vacancyRepo) GetByReferralToken(ctx context.Context, token string) (*models.Vacancy, error) {
	query := `SELECT ` + vacancyColumns + ` FROM vacancies WHERE referral_token = $1`
	return scanVacancy(r.db.QueryRow(ctx, query, token))
}

func (r *vacancyRepo) Update(ctx context.Context, companyID, id int64, upd models.VacancyUpdate) (*models.Vacancy, error) {
	query := `
		UPDATE vacancies
		SET title = COALESCE($3, title),
			department = COALESCE($4, department),
			salary_display = COALESCE($5, salary_display),
			requirements = COALESCE($6, requirements),
			description = COALESCE($7, description),
			status = COALESCE($8, status),
			reward_amount = COALESCE($9, reward_amount),
			payout_delay_days = COALESCE($10, payout_delay_days)
		WHERE company_id = $1 AND id = $2
		RETURNING ` + vacancyColumns
	return scanVacancy(r.db.QueryRow(ctx, query, companyID, id, upd.Title, upd.Department, upd.SalaryDisplay,
		upd.Requirements, upd.Description, upd.Status, upd.RewardAmount, upd.PayoutDelayDays))
}

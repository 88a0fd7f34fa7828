package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"refstaff/internal/models"

	"github.com/jackc/pgx/v5"
)

type RecommendationRepository interface {
	Create(ctx context.Context, rec *models.Recommendation) error
	List(ctx context.Context, companyID int64, filter models.RecommendationFilter) ([]*models.Recommendation, error)
	GetInCompany(ctx context.Context, companyID, id int64) (*models.Recommendation, error)
	SetStatus(ctx context.Context, companyID, id int64, status string, now time.Time) (*models.Recommendation, error)
	Accept(ctx context.Context, companyID, id int64, now time.Time) (*models.AcceptOutcome, error)
}

type recommendationRepo struct {
	db DB
}

func NewRecommendationRepo(db DB) RecommendationRepository {
	return &recommendationRepo{db: db}
}

const recommendationColumns = `r.id, r.vacancy_id, r.recommended_by, r.candidate_name, r.candidate_email,
	r.candidate_phone, r.comment, r.status, r.reward_amount, r.created_at, r.reviewed_at`

func scanRecommendation(row pgx.Row) (*models.Recommendation, error) {
	rec := &models.Recommendation{}
	err := row.Scan(&rec.ID, &rec.VacancyID, &rec.RecommendedBy, &rec.CandidateName, &rec.CandidateEmail,
		&rec.CandidatePhone, &rec.Comment, &rec.Status, &rec.RewardAmount, &rec.CreatedAt, &rec.ReviewedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return rec, nil
}

// Create stores the recommendation and bumps the recommender's counter together.
func (r *recommendationRepo) Create(ctx context.Context, rec *models.Recommendation) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO recommendations (vacancy_id, recommended_by, candidate_name, candidate_email,
				candidate_phone, comment, status, reward_amount, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
			RETURNING id, created_at
		`
		err := tx.QueryRow(ctx, query, rec.VacancyID, rec.RecommendedBy, rec.CandidateName, rec.CandidateEmail,
			rec.CandidatePhone, rec.Comment, rec.Status, rec.RewardAmount).Scan(&rec.ID, &rec.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert recommendation: %w", err)
		}

		query = `UPDATE users SET total_recommendations = total_recommendations + 1 WHERE id = $1`
		if _, err := tx.Exec(ctx, query, rec.RecommendedBy); err != nil {
			return fmt.Errorf("count recommendation: %w", err)
		}
		return nil
	})
}

func (r *recommendationRepo) List(ctx context.Context, companyID int64, filter models.RecommendationFilter) ([]*models.Recommendation, error) {
	query := `
		SELECT ` + recommendationColumns + `,
			v.title AS vacancy_title,
			u.first_name || ' ' || u.last_name AS recommended_by_name
		FROM recommendations r
		JOIN vacancies v ON r.vacancy_id = v.id
		JOIN users u ON r.recommended_by = u.id
		WHERE v.company_id = $1
			AND ($2 = '' OR r.status = $2)
			AND ($3 = 0 OR r.recommended_by = $3)
		ORDER BY r.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, companyID, filter.Status, filter.RecommendedBy)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	recs := []*models.Recommendation{}
	for rows.Next() {
		rec := &models.Recommendation{}
		if err := rows.Scan(&rec.ID, &rec.VacancyID, &rec.RecommendedBy, &rec.CandidateName, &rec.CandidateEmail,
			&rec.CandidatePhone, &rec.Comment, &rec.Status, &rec.RewardAmount, &rec.CreatedAt, &rec.ReviewedAt,
			&rec.VacancyTitle, &rec.RecommendedByName); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *recommendationRepo) GetInCompany(ctx context.Context, companyID, id int64) (*models.Recommendation, error) {
	query := `
		SELECT ` + recommendationColumns + `
		FROM recommendations r
		JOIN vacancies v ON r.vacancy_id = v.id
		WHERE v.company_id = $1 AND r.id = $2
	`
	return scanRecommendation(r.db.QueryRow(ctx, query, companyID, id))
}

// SetStatus changes the status of a recommendation that has not been accepted.
// Accepted recommendations carry a booked reward and are final.
func (r *recommendationRepo) SetStatus(ctx context.Context, companyID, id int64, status string, now time.Time) (*models.Recommendation, error) {
	query := `
		UPDATE recommendations r
		SET status = $3, reviewed_at = $4
		FROM vacancies v
		WHERE r.vacancy_id = v.id AND v.company_id = $1 AND r.id = $2 AND r.status <> 'accepted'
		RETURNING ` + recommendationColumns
	rec, err := scanRecommendation(r.db.QueryRow(ctx, query, companyID, id, status, now))
	if errors.Is(err, ErrNotFound) {
		if _, getErr := r.GetInCompany(ctx, companyID, id); getErr == nil {
			return nil, ErrAlreadyAccepted
		}
	}
	return rec, err
}

// Accept books the reward for a hired candidate: the status change, the
// recommender's counters, the pending payout and the wallet ledger entry commit
// or roll back together.
func (r *recommendationRepo) Accept(ctx context.Context, companyID, id int64, now time.Time) (*models.AcceptOutcome, error) {
	out := &models.AcceptOutcome{}
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var (
			status     string
			delayDays  int
			vacancyRef string
		)
		query := `
			SELECT r.status, v.payout_delay_days, v.title
			FROM recommendations r
			JOIN vacancies v ON r.vacancy_id = v.id
			WHERE v.company_id = $1 AND r.id = $2
			FOR UPDATE OF r
		`
		if err := tx.QueryRow(ctx, query, companyID, id).Scan(&status, &delayDays, &vacancyRef); err != nil {
			return notFound(err)
		}
		if status == models.RecommendationAccepted {
			return ErrAlreadyAccepted
		}

		query = `
			UPDATE recommendations r
			SET status = 'accepted', reviewed_at = $2
			WHERE r.id = $1
			RETURNING ` + recommendationColumns
		rec, err := scanRecommendation(tx.QueryRow(ctx, query, id, now))
		if err != nil {
			return fmt.Errorf("accept recommendation: %w", err)
		}
		out.Recommendation = rec

		query = `
			UPDATE users
			SET successful_hires = successful_hires + 1,
				total_earnings = total_earnings + $2,
				experience_points = experience_points + $3,
				wallet_pending = wallet_pending + $2,
				updated_at = NOW()
			WHERE id = $1
		`
		if _, err := tx.Exec(ctx, query, rec.RecommendedBy, rec.RewardAmount, models.HireExperiencePoints); err != nil {
			return fmt.Errorf("credit recommender: %w", err)
		}

		out.UnlockDate = now.AddDate(0, 0, delayDays)
		query = `
			INSERT INTO pending_payouts (user_id, recommendation_id, amount, unlock_date, status)
			VALUES ($1, $2, $3, $4, 'pending')
			RETURNING id
		`
		if err := tx.QueryRow(ctx, query, rec.RecommendedBy, rec.ID, rec.RewardAmount, out.UnlockDate).
			Scan(&out.PayoutID); err != nil {
			return fmt.Errorf("schedule payout: %w", err)
		}

		query = `
			INSERT INTO wallet_transactions (user_id, amount, type, description, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		description := fmt.Sprintf("Reward for hired candidate %s (%s)", rec.CandidateName, vacancyRef)
		if _, err := tx.Exec(ctx, query, rec.RecommendedBy, rec.RewardAmount, models.TransactionRewardPending,
			description, now); err != nil {
			return fmt.Errorf("record wallet transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

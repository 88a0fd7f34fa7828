package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"refstaff/internal/models"

	"github.com/jackc/pgx/v5"
)

// ErrInsufficientBalance is returned when a wallet cannot cover a withdrawal.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrAlreadyPaid is returned when a paid payout request is reviewed again with another status.
var ErrAlreadyPaid = errors.New("payout request already paid")

type PayoutRepository interface {
	Create(ctx context.Context, req *models.PayoutRequest) error
	ListByCompany(ctx context.Context, companyID int64, status string) ([]*models.PayoutRequest, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.PayoutRequest, error)
	Review(ctx context.Context, companyID, id, reviewerID int64, status string, comment *string, now time.Time) (*models.PayoutRequest, error)
}

type payoutRepo struct {
	db DB
}

func NewPayoutRepo(db DB) PayoutRepository {
	return &payoutRepo{db: db}
}

const payoutColumns = `pr.id, pr.user_id, pr.amount, pr.payment_method, pr.payment_details, pr.status,
	pr.admin_comment, pr.reviewed_by, pr.reviewed_at, pr.created_at`

func scanPayout(row pgx.Row, withUser bool) (*models.PayoutRequest, error) {
	p := &models.PayoutRequest{}
	dest := []any{&p.ID, &p.UserID, &p.Amount, &p.PaymentMethod, &p.PaymentDetails, &p.Status,
		&p.AdminComment, &p.ReviewedBy, &p.ReviewedAt, &p.CreatedAt}
	if withUser {
		dest = append(dest, &p.UserName, &p.UserEmail)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *payoutRepo) Create(ctx context.Context, req *models.PayoutRequest) error {
	query := `
		INSERT INTO payout_requests (user_id, amount, payment_method, payment_details, status, created_at)
		VALUES ($1, $2, $3, $4, 'pending', NOW())
		RETURNING id, status, created_at
	`
	err := r.db.QueryRow(ctx, query, req.UserID, req.Amount, req.PaymentMethod, req.PaymentDetails).
		Scan(&req.ID, &req.Status, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payout request: %w", err)
	}
	return nil
}

func (r *payoutRepo) ListByCompany(ctx context.Context, companyID int64, status string) ([]*models.PayoutRequest, error) {
	query := `
		SELECT ` + payoutColumns + `,
			u.first_name || ' ' || u.last_name AS user_name,
			u.email AS user_email
		FROM payout_requests pr
		JOIN users u ON pr.user_id = u.id
		WHERE u.company_id = $1 AND ($2 = '' OR pr.status = $2)
		ORDER BY pr.created_at DESC
	`
	return r.list(ctx, true, query, companyID, status)
}

func (r *payoutRepo) ListByUser(ctx context.Context, userID int64) ([]*models.PayoutRequest, error) {
	query := `
		SELECT ` + payoutColumns + `
		FROM payout_requests pr
		WHERE pr.user_id = $1
		ORDER BY pr.created_at DESC
	`
	return r.list(ctx, false, query, userID)
}

func (r *payoutRepo) list(ctx context.Context, withUser bool, query string, args ...any) ([]*models.PayoutRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payout requests: %w", err)
	}
	defer rows.Close()

	requests := []*models.PayoutRequest{}
	for rows.Next() {
		p, err := scanPayout(rows, withUser)
		if err != nil {
			return nil, err
		}
		requests = append(requests, p)
	}
	return requests, rows.Err()
}

// Review records an admin decision. Marking a request paid withdraws the amount
// from the employee's wallet in the same transaction. Paid requests are final.
func (r *payoutRepo) Review(ctx context.Context, companyID, id, reviewerID int64, status string, comment *string, now time.Time) (*models.PayoutRequest, error) {
	var result *models.PayoutRequest
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var (
			userID  int64
			amount  float64
			current string
		)
		query := `
			SELECT pr.user_id, pr.amount, pr.status
			FROM payout_requests pr
			JOIN users u ON pr.user_id = u.id
			WHERE u.company_id = $1 AND pr.id = $2
			FOR UPDATE OF pr
		`
		if err := tx.QueryRow(ctx, query, companyID, id).Scan(&userID, &amount, &current); err != nil {
			return notFound(err)
		}
		if current == models.PayoutRequestPaid && status != models.PayoutRequestPaid {
			return ErrAlreadyPaid
		}

		if status == models.PayoutRequestPaid && current != models.PayoutRequestPaid {
			query = `
				UPDATE users
				SET wallet_balance = wallet_balance - $2, updated_at = NOW()
				WHERE id = $1 AND wallet_balance >= $2
			`
			tag, err := tx.Exec(ctx, query, userID, amount)
			if err != nil {
				return fmt.Errorf("withdraw from wallet: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return ErrInsufficientBalance
			}
			query = `
				INSERT INTO wallet_transactions (user_id, amount, type, description, created_at)
				VALUES ($1, $2, $3, $4, $5)
			`
			if _, err := tx.Exec(ctx, query, userID, -amount, models.TransactionWithdrawal,
				fmt.Sprintf("Payout request #%d paid", id), now); err != nil {
				return fmt.Errorf("record withdrawal: %w", err)
			}
		}

		query = `
			UPDATE payout_requests pr
			SET status = $2, admin_comment = $3, reviewed_by = $4, reviewed_at = $5
			WHERE pr.id = $1
			RETURNING ` + payoutColumns
		p, err := scanPayout(tx.QueryRow(ctx, query, id, status, comment, reviewerID, now), false)
		if err != nil {
			return fmt.Errorf("update payout request: %w", err)
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

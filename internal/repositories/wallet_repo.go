package repositories

import (
	"context"
	"fmt"
	"time"

	"refstaff/internal/models"

	"github.com/jackc/pgx/v5"
)

// recentTransactionsLimit caps the ledger returned with the wallet view.
const recentTransactionsLimit = 50

type WalletRepository interface {
	Get(ctx context.Context, userID int64) (*models.WalletData, error)
	UnlockMatured(ctx context.Context, now time.Time) (int, error)
}

type walletRepo struct {
	db DB
}

func NewWalletRepo(db DB) WalletRepository {
	return &walletRepo{db: db}
}

func (r *walletRepo) Get(ctx context.Context, userID int64) (*models.WalletData, error) {
	data := &models.WalletData{
		Transactions:   []*models.WalletTransaction{},
		PendingPayouts: []*models.PendingPayout{},
	}

	query := `SELECT wallet_balance, wallet_pending FROM users WHERE id = $1`
	if err := r.db.QueryRow(ctx, query, userID).Scan(&data.Wallet.WalletBalance, &data.Wallet.WalletPending); err != nil {
		return nil, notFound(err)
	}

	query = `
		SELECT id, user_id, amount, type, description, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, recentTransactionsLimit)
	if err != nil {
		return nil, fmt.Errorf("list wallet transactions: %w", err)
	}
	for rows.Next() {
		t := &models.WalletTransaction{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Description, &t.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		data.Transactions = append(data.Transactions, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query = `
		SELECT id, user_id, recommendation_id, amount, unlock_date, status
		FROM pending_payouts
		WHERE user_id = $1 AND status = 'pending'
		ORDER BY unlock_date ASC
	`
	rows, err = r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending payouts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p := &models.PendingPayout{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.RecommendationID, &p.Amount, &p.UnlockDate, &p.Status); err != nil {
			return nil, err
		}
		data.PendingPayouts = append(data.PendingPayouts, p)
	}
	return data, rows.Err()
}

// UnlockMatured moves every matured pending payout from wallet_pending to
// wallet_balance and returns how many were released.
func (r *walletRepo) UnlockMatured(ctx context.Context, now time.Time) (int, error) {
	var released int
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			SELECT id, user_id, amount
			FROM pending_payouts
			WHERE status = 'pending' AND unlock_date <= $1
			ORDER BY id
			FOR UPDATE SKIP LOCKED
		`
		rows, err := tx.Query(ctx, query, now)
		if err != nil {
			return fmt.Errorf("select matured payouts: %w", err)
		}
		var due []models.PendingPayout
		for rows.Next() {
			var p models.PendingPayout
			if err := rows.Scan(&p.ID, &p.UserID, &p.Amount); err != nil {
				rows.Close()
				return err
			}
			due = append(due, p)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, p := range due {
			if _, err := tx.Exec(ctx, `UPDATE pending_payouts SET status = 'unlocked' WHERE id = $1`, p.ID); err != nil {
				return fmt.Errorf("unlock payout %d: %w", p.ID, err)
			}
			query = `
				UPDATE users
				SET wallet_pending = wallet_pending - $2,
					wallet_balance = wallet_balance + $2,
					updated_at = NOW()
				WHERE id = $1
			`
			if _, err := tx.Exec(ctx, query, p.UserID, p.Amount); err != nil {
				return fmt.Errorf("move payout %d to balance: %w", p.ID, err)
			}
			query = `
				INSERT INTO wallet_transactions (user_id, amount, type, description, created_at)
				VALUES ($1, $2, $3, $4, $5)
			`
			if _, err := tx.Exec(ctx, query, p.UserID, p.Amount, models.TransactionRewardUnlocked,
				"Reward unlocked", now); err != nil {
				return fmt.Errorf("record unlock %d: %w", p.ID, err)
			}
		}
		released = len(due)
		return nil
	})
	return released, err
}

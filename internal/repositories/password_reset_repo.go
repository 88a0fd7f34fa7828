package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"refstaff/internal/models"

	"github.com/jackc/pgx/v5"
)

var (
	ErrTokenUsed    = errors.New("reset token already used")
	ErrTokenExpired = errors.New("reset token expired")
)

type PasswordResetRepository interface {
	Create(ctx context.Context, t *models.PasswordResetToken) error
	Redeem(ctx context.Context, token, passwordHash string, now time.Time) error
	Purge(ctx context.Context, olderThan time.Time) (int64, error)
}

type passwordResetRepo struct {
	db DB
}

func NewPasswordResetRepo(db DB) PasswordResetRepository {
	return &passwordResetRepo{db: db}
}

func (r *passwordResetRepo) Create(ctx context.Context, t *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (email, token, expires_at, used, created_at)
		VALUES ($1, $2, $3, false, NOW())
		RETURNING id, created_at
	`
	if err := r.db.QueryRow(ctx, query, t.Email, t.Token, t.ExpiresAt).Scan(&t.ID, &t.CreatedAt); err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

// Redeem consumes the token and sets the owner's password in one transaction.
// The token row stays locked until commit, so a token changes one password at most.
func (r *passwordResetRepo) Redeem(ctx context.Context, token, passwordHash string, now time.Time) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		t := &models.PasswordResetToken{}
		query := `
			SELECT id, email, expires_at, used
			FROM password_reset_tokens
			WHERE token = $1
			FOR UPDATE
		`
		if err := tx.QueryRow(ctx, query, token).Scan(&t.ID, &t.Email, &t.ExpiresAt, &t.Used); err != nil {
			return notFound(err)
		}
		if t.Used {
			return ErrTokenUsed
		}
		if t.Expired(now) {
			return ErrTokenExpired
		}

		tag, err := tx.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE email = $1`,
			t.Email, passwordHash)
		if err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		if _, err := tx.Exec(ctx, `UPDATE password_reset_tokens SET used = true WHERE id = $1`, t.ID); err != nil {
			return fmt.Errorf("mark reset token used: %w", err)
		}
		return nil
	})
}

// Purge removes tokens that were used or expired before olderThan.
func (r *passwordResetRepo) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `DELETE FROM password_reset_tokens WHERE expires_at < $1 OR (used = true AND created_at < $1)`
	tag, err := r.db.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("purge reset tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

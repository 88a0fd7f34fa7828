package repositories

import (
	"context"
	"fmt"

	"refstaff/internal/models"
)

type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
}

type contactRepo struct {
	db DB
}

func NewContactRepo(db DB) ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(ctx context.Context, msg *models.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (name, email, message, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	if err := r.db.QueryRow(ctx, query, msg.Name, msg.Email, msg.Message).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

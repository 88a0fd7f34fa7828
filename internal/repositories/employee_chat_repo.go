package repositories

import (
	"context"
	"fmt"

	"refstaff/internal/models"
)

type EmployeeChatRepository interface {
	List(ctx context.Context, companyID, userID int64) ([]*models.EmployeeChat, error)
	GetOrCreate(ctx context.Context, companyID, userID, peerID int64) (*models.EmployeeChat, error)
	Get(ctx context.Context, companyID, id int64) (*models.EmployeeChat, error)
	ListMessages(ctx context.Context, chatID int64) ([]*models.ChatMessage, error)
	AddMessage(ctx context.Context, msg *models.ChatMessage) error
	MarkRead(ctx context.Context, chatID, readerID int64) (int64, error)
}

type employeeChatRepo struct {
	db       DB
	messages messageStore
}

func NewEmployeeChatRepo(db DB) EmployeeChatRepository {
	return &employeeChatRepo{
		db:       db,
		messages: messageStore{db: db, chatTable: "employee_chats", msgTable: "employee_messages"},
	}
}

// List returns the user's peer chats seen from the user's side.
func (r *employeeChatRepo) List(ctx context.Context, companyID, userID int64) ([]*models.EmployeeChat, error) {
	query := `
		SELECT ec.id, ec.company_id, ec.user1_id, ec.user2_id, ec.last_message_at, ec.created_at,
			p.id, p.first_name || ' ' || p.last_name, p.avatar_url,
			(SELECT COUNT(*) FROM employee_messages m
				WHERE m.chat_id = ec.id AND m.sender_id <> $2 AND m.is_read = false)
		FROM employee_chats ec
		JOIN users p ON p.id = CASE WHEN ec.user1_id = $2 THEN ec.user2_id ELSE ec.user1_id END
		WHERE ec.company_id = $1 AND (ec.user1_id = $2 OR ec.user2_id = $2)
		ORDER BY ec.last_message_at DESC NULLS LAST, ec.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, companyID, userID)
	if err != nil {
		return nil, fmt.Errorf("list employee chats: %w", err)
	}
	defer rows.Close()

	chats := []*models.EmployeeChat{}
	for rows.Next() {
		c := &models.EmployeeChat{}
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.User1ID, &c.User2ID, &c.LastMessageAt, &c.CreatedAt,
			&c.PeerID, &c.PeerName, &c.PeerAvatar, &c.UnreadCount); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// GetOrCreate returns the single chat between two colleagues. Participants are
// stored ordered so the pair is unique regardless of who opens the chat.
func (r *employeeChatRepo) GetOrCreate(ctx context.Context, companyID, userID, peerID int64) (*models.EmployeeChat, error) {
	a, b := userID, peerID
	if a > b {
		a, b = b, a
	}
	c := &models.EmployeeChat{}
	query := `
		INSERT INTO employee_chats (company_id, user1_id, user2_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user1_id, user2_id) DO UPDATE SET company_id = EXCLUDED.company_id
		RETURNING id, company_id, user1_id, user2_id, last_message_at, created_at
	`
	err := r.db.QueryRow(ctx, query, companyID, a, b).
		Scan(&c.ID, &c.CompanyID, &c.User1ID, &c.User2ID, &c.LastMessageAt, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create employee chat: %w", err)
	}
	c.PeerID = peerID
	return c, nil
}

func (r *employeeChatRepo) Get(ctx context.Context, companyID, id int64) (*models.EmployeeChat, error) {
	c := &models.EmployeeChat{}
	query := `
		SELECT id, company_id, user1_id, user2_id, last_message_at, created_at
		FROM employee_chats
		WHERE company_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, companyID, id).
		Scan(&c.ID, &c.CompanyID, &c.User1ID, &c.User2ID, &c.LastMessageAt, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *employeeChatRepo) ListMessages(ctx context.Context, chatID int64) ([]*models.ChatMessage, error) {
	return r.messages.list(ctx, chatID)
}

func (r *employeeChatRepo) AddMessage(ctx context.Context, msg *models.ChatMessage) error {
	return r.messages.add(ctx, msg)
}

func (r *employeeChatRepo) MarkRead(ctx context.Context, chatID, readerID int64) (int64, error) {
	return r.messages.markRead(ctx, chatID, readerID)
}

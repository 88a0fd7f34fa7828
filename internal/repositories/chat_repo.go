package repositories

import (
	"context"
	"fmt"

	"refstaff/internal/models"

	"github.com/jackc/pgx/v5"
)

// messageStore implements message storage for one chat/message table pair.
// HR chats and peer chats share the same message layout.
type messageStore struct {
	db        DB
	chatTable string
	msgTable  string
}

func (s messageStore) list(ctx context.Context, chatID int64) ([]*models.ChatMessage, error) {
	query := `
		SELECT m.id, m.chat_id, m.sender_id, m.message, m.is_read, m.created_at,
			u.first_name || ' ' || u.last_name AS sender_name,
			u.avatar_url AS sender_avatar
		FROM ` + s.msgTable + ` m
		JOIN users u ON m.sender_id = u.id
		WHERE m.chat_id = $1
		ORDER BY m.created_at ASC
	`
	rows, err := s.db.Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.ChatMessage{}
	for rows.Next() {
		m := &models.ChatMessage{}
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Message, &m.IsRead, &m.CreatedAt,
			&m.SenderName, &m.SenderAvatar); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s messageStore) add(ctx context.Context, msg *models.ChatMessage) error {
	return withTx(ctx, s.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO ` + s.msgTable + ` (chat_id, sender_id, message, is_read, created_at)
			VALUES ($1, $2, $3, false, NOW())
			RETURNING id, is_read, created_at
		`
		if err := tx.QueryRow(ctx, query, msg.ChatID, msg.SenderID, msg.Message).
			Scan(&msg.ID, &msg.IsRead, &msg.CreatedAt); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		query = `UPDATE ` + s.chatTable + ` SET last_message_at = $2 WHERE id = $1`
		if _, err := tx.Exec(ctx, query, msg.ChatID, msg.CreatedAt); err != nil {
			return fmt.Errorf("touch chat: %w", err)
		}
		return nil
	})
}

func (s messageStore) markRead(ctx context.Context, chatID, readerID int64) (int64, error) {
	query := `
		UPDATE ` + s.msgTable + `
		SET is_read = true
		WHERE chat_id = $1 AND sender_id <> $2 AND is_read = false
	`
	tag, err := s.db.Exec(ctx, query, chatID, readerID)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	return tag.RowsAffected(), nil
}

type ChatRepository interface {
	ListForCompany(ctx context.Context, companyID int64) ([]*models.Chat, error)
	ListForEmployee(ctx context.Context, companyID, employeeID int64) ([]*models.Chat, error)
	GetOrCreate(ctx context.Context, companyID, employeeID int64) (*models.Chat, error)
	GetInCompany(ctx context.Context, companyID, id int64) (*models.Chat, error)
	ListMessages(ctx context.Context, chatID int64) ([]*models.ChatMessage, error)
	AddMessage(ctx context.Context, msg *models.ChatMessage) error
	MarkRead(ctx context.Context, chatID, readerID int64) (int64, error)
}

type chatRepo struct {
	db       DB
	messages messageStore
}

func NewChatRepo(db DB) ChatRepository {
	return &chatRepo{db: db, messages: messageStore{db: db, chatTable: "chats", msgTable: "messages"}}
}

func (r *chatRepo) listChats(ctx context.Context, query string, args ...any) ([]*models.Chat, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	chats := []*models.Chat{}
	for rows.Next() {
		c := &models.Chat{}
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.EmployeeID, &c.LastMessageAt, &c.CreatedAt,
			&c.EmployeeName, &c.CompanyName, &c.Position, &c.AvatarURL, &c.UnreadCount); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// ListForCompany lists every HR chat of the company; unread counts messages
// written by the employee.
func (r *chatRepo) ListForCompany(ctx context.Context, companyID int64) ([]*models.Chat, error) {
	query := `
		SELECT c.id, c.company_id, c.employee_id, c.last_message_at, c.created_at,
			u.first_name || ' ' || u.last_name, co.name, u.position, u.avatar_url,
			(SELECT COUNT(*) FROM messages m WHERE m.chat_id = c.id AND m.sender_id = c.employee_id AND m.is_read = false)
		FROM chats c
		JOIN users u ON c.employee_id = u.id
		JOIN companies co ON c.company_id = co.id
		WHERE c.company_id = $1
		ORDER BY c.last_message_at DESC NULLS LAST, c.created_at DESC
	`
	return r.listChats(ctx, query, companyID)
}

// ListForEmployee lists the employee's HR chats; unread counts messages from HR.
func (r *chatRepo) ListForEmployee(ctx context.Context, companyID, employeeID int64) ([]*models.Chat, error) {
	query := `
		SELECT c.id, c.company_id, c.employee_id, c.last_message_at, c.created_at,
			u.first_name || ' ' || u.last_name, co.name, u.position, u.avatar_url,
			(SELECT COUNT(*) FROM messages m WHERE m.chat_id = c.id AND m.sender_id <> c.employee_id AND m.is_read = false)
		FROM chats c
		JOIN users u ON c.employee_id = u.id
		JOIN companies co ON c.company_id = co.id
		WHERE c.company_id = $1 AND c.employee_id = $2
		ORDER BY c.last_message_at DESC NULLS LAST
	`
	return r.listChats(ctx, query, companyID, employeeID)
}

func (r *chatRepo) GetOrCreate(ctx context.Context, companyID, employeeID int64) (*models.Chat, error) {
	c := &models.Chat{}
	query := `
		INSERT INTO chats (company_id, employee_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (company_id, employee_id) DO UPDATE SET company_id = EXCLUDED.company_id
		RETURNING id, company_id, employee_id, last_message_at, created_at
	`
	err := r.db.QueryRow(ctx, query, companyID, employeeID).
		Scan(&c.ID, &c.CompanyID, &c.EmployeeID, &c.LastMessageAt, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create chat: %w", err)
	}
	return c, nil
}

func (r *chatRepo) GetInCompany(ctx context.Context, companyID, id int64) (*models.Chat, error) {
	c := &models.Chat{}
	query := `
		SELECT id, company_id, employee_id, last_message_at, created_at
		FROM chats
		WHERE company_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, companyID, id).
		Scan(&c.ID, &c.CompanyID, &c.EmployeeID, &c.LastMessageAt, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *chatRepo) ListMessages(ctx context.Context, chatID int64) ([]*models.ChatMessage, error) {
	return r.messages.list(ctx, chatID)
}

func (r *chatRepo) AddMessage(ctx context.Context, msg *models.ChatMessage) error {
	return r.messages.add(ctx, msg)
}

func (r *chatRepo) MarkRead(ctx context.Context, chatID, readerID int64) (int64, error) {
	return r.messages.markRead(ctx, chatID, readerID)
}

package models

import "time"

// Chat is a conversation between a company (HR) and one of its employees.
type Chat struct {
	ID            int64      `json:"id" db:"id"`
	CompanyID     int64      `json:"company_id" db:"company_id"`
	EmployeeID    int64      `json:"employee_id" db:"employee_id"`
	LastMessageAt *time.Time `json:"last_message_at" db:"last_message_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	EmployeeName  *string    `json:"employee_name,omitempty" db:"-"`
	CompanyName   *string    `json:"company_name,omitempty" db:"-"`
	Position      *string    `json:"position,omitempty" db:"-"`
	AvatarURL     *string    `json:"avatar_url,omitempty" db:"-"`
	UnreadCount   int        `json:"unread_count" db:"-"`
}

// EmployeeChat is a peer conversation between two employees of one company.
type EmployeeChat struct {
	ID            int64      `json:"id" db:"id"`
	CompanyID     int64      `json:"company_id" db:"company_id"`
	User1ID       int64      `json:"user1_id" db:"user1_id"`
	User2ID       int64      `json:"user2_id" db:"user2_id"`
	LastMessageAt *time.Time `json:"last_message_at" db:"last_message_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	PeerID        int64      `json:"peer_id" db:"-"`
	PeerName      *string    `json:"peer_name,omitempty" db:"-"`
	PeerAvatar    *string    `json:"peer_avatar,omitempty" db:"-"`
	UnreadCount   int        `json:"unread_count" db:"-"`
}

// ChatMessage is shared by HR chats and peer chats.
type ChatMessage struct {
	ID           int64     `json:"id" db:"id"`
	ChatID       int64     `json:"chat_id" db:"chat_id"`
	SenderID     int64     `json:"sender_id" db:"sender_id"`
	Message      string    `json:"message" db:"message"`
	IsRead       bool      `json:"is_read" db:"is_read"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	SenderName   *string   `json:"sender_name,omitempty" db:"-"`
	SenderAvatar *string   `json:"sender_avatar,omitempty" db:"-"`
}

// HasMember reports whether the user takes part in the peer chat.
func (c *EmployeeChat) HasMember(userID int64) bool {
	return c.User1ID == userID || c.User2ID == userID
}

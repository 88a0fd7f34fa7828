package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"refstaff/internal/models"
	"refstaff/internal/repositories"
)

const maxMessageLength = 4000

// ChatService serves both HR chats (company staff with one employee) and peer
// chats between two employees of the same company.
type ChatService interface {
	ListChats(ctx context.Context, p *models.Principal) ([]*models.Chat, error)
	OpenChat(ctx context.Context, p *models.Principal, employeeID int64) (*models.Chat, error)
	ListMessages(ctx context.Context, p *models.Principal, chatID int64) ([]*models.ChatMessage, error)
	SendMessage(ctx context.Context, p *models.Principal, req *SendMessageRequest) (*models.ChatMessage, error)
	MarkRead(ctx context.Context, p *models.Principal, chatID int64) (int64, error)

	ListPeerChats(ctx context.Context, p *models.Principal) ([]*models.EmployeeChat, error)
	OpenPeerChat(ctx context.Context, p *models.Principal, peerID int64) (*models.EmployeeChat, error)
	ListPeerMessages(ctx context.Context, p *models.Principal, chatID int64) ([]*models.ChatMessage, error)
	SendPeerMessage(ctx context.Context, p *models.Principal, req *SendMessageRequest) (*models.ChatMessage, error)
	MarkPeerRead(ctx context.Context, p *models.Principal, chatID int64) (int64, error)
}

type chatService struct {
	chatRepo     repositories.ChatRepository
	peerChatRepo repositories.EmployeeChatRepository
	userRepo     repositories.UserRepository
}

func NewChatService(chatRepo repositories.ChatRepository, peerChatRepo repositories.EmployeeChatRepository, userRepo repositories.UserRepository) ChatService {
	return &chatService{chatRepo: chatRepo, peerChatRepo: peerChatRepo, userRepo: userRepo}
}

type SendMessageRequest struct {
	ChatID  int64  `json:"chat_id"`
	Message string `json:"message"`
}

func chatNotFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFoundError("Chat not found")
	}
	return err
}

func validateMessage(req *SendMessageRequest) (string, error) {
	text := strings.TrimSpace(req.Message)
	if req.ChatID <= 0 || text == "" {
		return "", validationError("chat_id and message required")
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		return "", validationError("Message is too long")
	}
	return text, nil
}

func (s *chatService) ListChats(ctx context.Context, p *models.Principal) ([]*models.Chat, error) {
	caller, err := loadCaller(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}
	if caller.IsStaff() {
		return s.chatRepo.ListForCompany(ctx, p.CompanyID)
	}
	return s.chatRepo.ListForEmployee(ctx, p.CompanyID, caller.ID)
}

// OpenChat returns the HR chat of an employee, creating it on first use. Staff
// name the employee; an employee always opens their own chat.
func (s *chatService) OpenChat(ctx context.Context, p *models.Principal, employeeID int64) (*models.Chat, error) {
	caller, err := loadCaller(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff() {
		employeeID = caller.ID
	}
	if employeeID <= 0 {
		return nil, validationError("employee_id is required")
	}
	if employeeID != caller.ID {
		if _, err := s.userRepo.GetInCompany(ctx, p.CompanyID, employeeID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, notFoundError("Employee not found")
			}
			return nil, err
		}
	}
	return s.chatRepo.GetOrCreate(ctx, p.CompanyID, employeeID)
}

// accessibleChat loads an HR chat the caller may read: staff see every chat of
// the company, employees only their own.
func (s *chatService) accessibleChat(ctx context.Context, p *models.Principal, chatID int64) (*models.Chat, error) {
	if chatID <= 0 {
		return nil, validationError("chat_id is required")
	}
	caller, err := loadCaller(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}
	chat, err := s.chatRepo.GetInCompany(ctx, p.CompanyID, chatID)
	if err != nil {
		return nil, chatNotFound(err)
	}
	if !caller.IsStaff() && chat.EmployeeID != caller.ID {
		return nil, forbiddenError("Access denied")
	}
	return chat, nil
}

func (s *chatService) ListMessages(ctx context.Context, p *models.Principal, chatID int64) ([]*models.ChatMessage, error) {
	chat, err := s.accessibleChat(ctx, p, chatID)
	if err != nil {
		return nil, err
	}
	return s.chatRepo.ListMessages(ctx, chat.ID)
}

func (s *chatService) SendMessage(ctx context.Context, p *models.Principal, req *SendMessageRequest) (*models.ChatMessage, error) {
	text, err := validateMessage(req)
	if err != nil {
		return nil, err
	}
	chat, err := s.accessibleChat(ctx, p, req.ChatID)
	if err != nil {
		return nil, err
	}
	msg := &models.ChatMessage{ChatID: chat.ID, SenderID: p.UserID, Message: text}
	if err := s.chatRepo.AddMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *chatService) MarkRead(ctx context.Context, p *models.Principal, chatID int64) (int64, error) {
	chat, err := s.accessibleChat(ctx, p, chatID)
	if err != nil {
		return 0, err
	}
	return s.chatRepo.MarkRead(ctx, chat.ID, p.UserID)
}

func (s *chatService) ListPeerChats(ctx context.Context, p *models.Principal) ([]*models.EmployeeChat, error) {
	return s.peerChatRepo.List(ctx, p.CompanyID, p.UserID)
}

func (s *chatService) OpenPeerChat(ctx context.Context, p *models.Principal, peerID int64) (*models.EmployeeChat, error) {
	if peerID <= 0 {
		return nil, validationError("peer_id is required")
	}
	if peerID == p.UserID {
		return nil, validationError("Cannot start a chat with yourself")
	}
	if _, err := s.userRepo.GetInCompany(ctx, p.CompanyID, peerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundError("Employee not found")
		}
		return nil, err
	}
	return s.peerChatRepo.GetOrCreate(ctx, p.CompanyID, p.UserID, peerID)
}

func (s *chatService) memberChat(ctx context.Context, p *models.Principal, chatID int64) (*models.EmployeeChat, error) {
	if chatID <= 0 {
		return nil, validationError("chat_id is required")
	}
	chat, err := s.peerChatRepo.Get(ctx, p.CompanyID, chatID)
	if err != nil {
		return nil, chatNotFound(err)
	}
	if !chat.HasMember(p.UserID) {
		return nil, forbiddenError("Access denied")
	}
	return chat, nil
}

func (s *chatService) ListPeerMessages(ctx context.Context, p *models.Principal, chatID int64) ([]*models.ChatMessage, error) {
	chat, err := s.memberChat(ctx, p, chatID)
	if err != nil {
		return nil, err
	}
	return s.peerChatRepo.ListMessages(ctx, chat.ID)
}

func (s *chatService) SendPeerMessage(ctx context.Context, p *models.Principal, req *SendMessageRequest) (*models.ChatMessage, error) {
	text, err := validateMessage(req)
	if err != nil {
		return nil, err
	}
	chat, err := s.memberChat(ctx, p, req.ChatID)
	if err != nil {
		return nil, err
	}
	msg := &models.ChatMessage{ChatID: chat.ID, SenderID: p.UserID, Message: text}
	if err := s.peerChatRepo.AddMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *chatService) MarkPeerRead(ctx context.Context, p *models.Principal, chatID int64) (int64, error) {
	chat, err := s.memberChat(ctx, p, chatID)
	if err != nil {
		return 0, err
	}
	return s.peerChatRepo.MarkRead(ctx, chat.ID, p.UserID)
}

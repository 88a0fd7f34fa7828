package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"refstaff/internal/common"
	"refstaff/internal/models"
	"refstaff/internal/repositories"
)

const maxContactMessageLength = 5000

type ContactService interface {
	Submit(ctx context.Context, req *ContactRequest) (*models.ContactMessage, error)
}

type contactService struct {
	contactRepo repositories.ContactRepository
}

func NewContactService(contactRepo repositories.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (s *contactService) Submit(ctx context.Context, req *ContactRequest) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return nil, validationError("Missing required fields: name, email, message")
	}
	if !common.ValidEmail(msg.Email) {
		return nil, validationError("Invalid email format")
	}
	if utf8.RuneCountInString(msg.Message) > maxContactMessageLength {
		return nil, validationError("Message is too long")
	}
	if err := s.contactRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

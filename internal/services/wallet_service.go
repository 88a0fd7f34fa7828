package services

import (
	"context"
	"time"

	"refstaff/internal/models"
	"refstaff/internal/repositories"
)

type WalletService interface {
	Get(ctx context.Context, p *models.Principal) (*models.WalletData, error)
	UnlockMatured(ctx context.Context) (int, error)
}

type walletService struct {
	walletRepo repositories.WalletRepository
	now        func() time.Time
}

func NewWalletService(walletRepo repositories.WalletRepository, now func() time.Time) WalletService {
	if now == nil {
		now = time.Now
	}
	return &walletService{walletRepo: walletRepo, now: now}
}

func (s *walletService) Get(ctx context.Context, p *models.Principal) (*models.WalletData, error) {
	return s.walletRepo.Get(ctx, p.UserID)
}

// UnlockMatured releases every pending payout whose unlock date has passed.
func (s *walletService) UnlockMatured(ctx context.Context) (int, error) {
	return s.walletRepo.UnlockMatured(ctx, s.now())
}

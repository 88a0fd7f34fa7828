package services

import (
	"context"
	"testing"
	"time"

	"refstaff/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Get(ctx context.Context, userID int64) (*models.WalletData, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WalletData), args.Error(1)
}

func (m *MockWalletRepository) UnlockMatured(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func TestWallet_Get(t *testing.T) {
	repo := &MockWalletRepository{}
	ctx := context.Background()
	data := &models.WalletData{Wallet: models.Wallet{WalletBalance: 100, WalletPending: 30000}}
	repo.On("Get", ctx, int64(10)).Return(data, nil)

	got, err := NewWalletService(repo, nil).Get(ctx, &models.Principal{UserID: 10, CompanyID: 1})
	require.NoError(t, err)
	assert.Equal(t, 30000.0, got.Wallet.WalletPending)
}

func TestWallet_UnlockMatured(t *testing.T) {
	repo := &MockWalletRepository{}
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	repo.On("UnlockMatured", mock.Anything, now).Return(4, nil)

	n, err := NewWalletService(repo, func() time.Time { return now }).UnlockMatured(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

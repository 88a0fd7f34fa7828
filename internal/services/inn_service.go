package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"refstaff/internal/caching"
	"refstaff/internal/dadata"
	"refstaff/internal/models"

	"go.uber.org/zap"
)

const partyCacheTTL = 24 * time.Hour

var (
	innWeights10  = []int{2, 4, 10, 3, 5, 9, 4, 6, 8}
	innWeights12a = []int{7, 2, 4, 10, 3, 5, 9, 4, 6, 8}
	innWeights12b = []int{3, 7, 2, 4, 10, 3, 5, 9, 4, 6, 8}
)

// ValidINN checks the length and control digits of a Russian taxpayer number:
// 10 digits for organizations, 12 for individuals.
func ValidINN(inn string) bool {
	digits := make([]int, len(inn))
	for i, r := range inn {
		if r < '0' || r > '9' {
			return false
		}
		digits[i] = int(r - '0')
	}
	switch len(digits) {
	case 10:
		return innControl(digits, innWeights10) == digits[9]
	case 12:
		return innControl(digits, innWeights12a) == digits[10] &&
			innControl(digits, innWeights12b) == digits[11]
	}
	return false
}

func innControl(digits, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += digits[i] * w
	}
	return sum % 11 % 10
}

type INNService interface {
	Verify(ctx context.Context, inn string) (*models.Party, error)
}

type innService struct {
	client dadata.Client
	cache  caching.CacheService
}

// NewINNService returns a verifier. A nil client means no DaData key is configured.
func NewINNService(client dadata.Client, cache caching.CacheService) INNService {
	if cache == nil {
		cache = caching.NewNoopCacheService()
	}
	return &innService{client: client, cache: cache}
}

func (s *innService) Verify(ctx context.Context, inn string) (*models.Party, error) {
	if s.client == nil {
		return nil, notConfiguredError("DaData API key not configured")
	}
	inn = strings.TrimSpace(inn)
	if inn == "" {
		return nil, validationError("INN is required")
	}
	if !ValidINN(inn) {
		return nil, validationError("Invalid INN checksum")
	}

	if party, err := s.cache.GetParty(ctx, inn); err != nil {
		zap.L().Warn("Party cache read failed", zap.String("inn", inn), zap.Error(err))
	} else if party != nil {
		return party, nil
	}

	party, err := s.client.FindPartyByINN(ctx, inn)
	if err != nil {
		if errors.Is(err, dadata.ErrNoSuggestions) {
			return nil, notFoundError("Organization not found")
		}
		zap.L().Error("DaData lookup failed", zap.String("inn", inn), zap.Error(err))
		return nil, upstreamError("Failed to verify INN")
	}
	if party.INN == "" {
		party.INN = inn
	}
	if err := s.cache.SetParty(ctx, party, partyCacheTTL); err != nil {
		zap.L().Warn("Party cache write failed", zap.String("inn", inn), zap.Error(err))
	}
	return party, nil
}

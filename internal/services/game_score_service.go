package services

import (
	"context"
	"strings"
	"time"

	"refstaff/internal/caching"
	"refstaff/internal/models"
	"refstaff/internal/repositories"

	"go.uber.org/zap"
)

const leaderboardTTL = 60 * time.Second

type GameScoreService interface {
	Leaderboard(ctx context.Context, p *models.Principal, game string) ([]models.LeaderboardEntry, error)
	Submit(ctx context.Context, p *models.Principal, req *SubmitScoreRequest) (bool, error)
}

type gameScoreService struct {
	scoreRepo repositories.GameScoreRepository
	cache     caching.CacheService
}

func NewGameScoreService(scoreRepo repositories.GameScoreRepository, cache caching.CacheService) GameScoreService {
	if cache == nil {
		cache = caching.NewNoopCacheService()
	}
	return &gameScoreService{scoreRepo: scoreRepo, cache: cache}
}

type SubmitScoreRequest struct {
	Game  string `json:"game"`
	Score *int   `json:"score"`
}

func knownGame(game string) bool {
	switch game {
	case models.GameMemory, models.GameReaction, models.GameGuess, models.GameTicTacToe:
		return true
	}
	return false
}

// Leaderboard returns the company's top scores for a game. An empty game means memory.
func (s *gameScoreService) Leaderboard(ctx context.Context, p *models.Principal, game string) ([]models.LeaderboardEntry, error) {
	game = strings.TrimSpace(game)
	if game == "" {
		game = models.GameMemory
	}
	if !knownGame(game) {
		return nil, validationError("Unknown game")
	}

	cached, err := s.cache.GetLeaderboard(ctx, p.CompanyID, game)
	if err != nil {
		zap.L().Warn("Leaderboard cache read failed", zap.String("game", game), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	leaders, err := s.scoreRepo.Leaderboard(ctx, p.CompanyID, game, models.LeaderboardSize)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetLeaderboard(ctx, p.CompanyID, game, leaders, leaderboardTTL); err != nil {
		zap.L().Warn("Leaderboard cache write failed", zap.String("game", game), zap.Error(err))
	}
	return leaders, nil
}

// Submit keeps the caller's best score per game and reports whether it changed.
func (s *gameScoreService) Submit(ctx context.Context, p *models.Principal, req *SubmitScoreRequest) (bool, error) {
	game := strings.TrimSpace(req.Game)
	if game == "" || req.Score == nil {
		return false, validationError("game and score required")
	}
	if !knownGame(game) {
		return false, validationError("Unknown game")
	}
	score := *req.Score
	if score < 0 {
		return false, validationError("score must not be negative")
	}

	saved, err := s.scoreRepo.SaveBest(ctx, p.UserID, game, score)
	if err != nil || !saved {
		return false, err
	}

	if err := s.cache.DeleteLeaderboard(ctx, p.CompanyID, game); err != nil {
		zap.L().Warn("Leaderboard cache invalidation failed", zap.String("game", game), zap.Error(err))
	}
	return true, nil
}

package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"refstaff/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "refstaff"

type CacheService interface {
	// Registry lookups
	GetParty(ctx context.Context, inn string) (*models.Party, error)
	SetParty(ctx context.Context, party *models.Party, ttl time.Duration) error

	// Game leaderboards
	GetLeaderboard(ctx context.Context, companyID int64, game string) ([]models.LeaderboardEntry, error)
	SetLeaderboard(ctx context.Context, companyID int64, game string, leaders []models.LeaderboardEntry, ttl time.Duration) error
	DeleteLeaderboard(ctx context.Context, companyID int64, game string) error

	Ping(ctx context.Context) error
	Close() error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		zap.L().Warn("Redis ping failed on initialization", zap.String("addr", parsedAddr), zap.Error(pingErr))
	} else {
		zap.L().Debug("Redis connection established", zap.String("addr", parsedAddr))
	}

	return &redisCacheService{client: client}
}

// NewRedisCacheServiceFromClient wraps an existing client.
func NewRedisCacheServiceFromClient(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func partyKey(inn string) string {
	return fmt.Sprintf("%s:party:%s", keyPrefix, inn)
}

func leaderboardKey(companyID int64, game string) string {
	return fmt.Sprintf("%s:leaderboard:%d:%s", keyPrefix, companyID, game)
}

// getJSON decodes the value at key into dst. A miss reports false and no error.
func (r *redisCacheService) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) GetParty(ctx context.Context, inn string) (*models.Party, error) {
	var party models.Party
	ok, err := r.getJSON(ctx, partyKey(inn), &party)
	if err != nil || !ok {
		return nil, err
	}
	return &party, nil
}

func (r *redisCacheService) SetParty(ctx context.Context, party *models.Party, ttl time.Duration) error {
	return r.setJSON(ctx, partyKey(party.INN), party, ttl)
}

func (r *redisCacheService) GetLeaderboard(ctx context.Context, companyID int64, game string) ([]models.LeaderboardEntry, error) {
	var leaders []models.LeaderboardEntry
	ok, err := r.getJSON(ctx, leaderboardKey(companyID, game), &leaders)
	if err != nil || !ok {
		return nil, err
	}
	if leaders == nil {
		leaders = []models.LeaderboardEntry{}
	}
	return leaders, nil
}

func (r *redisCacheService) SetLeaderboard(ctx context.Context, companyID int64, game string, leaders []models.LeaderboardEntry, ttl time.Duration) error {
	return r.setJSON(ctx, leaderboardKey(companyID, game), leaders, ttl)
}

func (r *redisCacheService) DeleteLeaderboard(ctx context.Context, companyID int64, game string) error {
	return r.client.Del(ctx, leaderboardKey(companyID, game)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}

// noopCacheService always misses. It stands in when no Redis address is configured.
type noopCacheService struct{}

func NewNoopCacheService() CacheService { return noopCacheService{} }

func (noopCacheService) GetParty(context.Context, string) (*models.Party, error) { return nil, nil }
func (noopCacheService) SetParty(context.Context, *models.Party, time.Duration) error {
	return nil
}
func (noopCacheService) GetLeaderboard(context.Context, int64, string) ([]models.LeaderboardEntry, error) {
	return nil, nil
}
func (noopCacheService) SetLeaderboard(context.Context, int64, string, []models.LeaderboardEntry, time.Duration) error {
	return nil
}
func (noopCacheService) DeleteLeaderboard(context.Context, int64, string) error { return nil }
func (noopCacheService) Ping(context.Context) error                            { return nil }
func (noopCacheService) Close() error                                          { return nil }

package services

import (
	"context"
	"errors"
	"testing"

	"refstaff/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type GameScoreServiceTestSuite struct {
	suite.Suite
	repo    *MockGameScoreRepository
	cache   *MockCacheService
	service GameScoreService
	ctx     context.Context
	p       *models.Principal
}

func (suite *GameScoreServiceTestSuite) SetupTest() {
	suite.repo = &MockGameScoreRepository{}
	suite.cache = &MockCacheService{}
	suite.service = NewGameScoreService(suite.repo, suite.cache)
	suite.ctx = context.Background()
	suite.p = &models.Principal{UserID: 4, CompanyID: 2}
}

func (suite *GameScoreServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func intPtr(v int) *int { return &v }

func (suite *GameScoreServiceTestSuite) TestLeaderboard_DefaultsToMemory() {
	leaders := []models.LeaderboardEntry{{Name: "Ivan P", Score: 12}}
	suite.cache.On("GetLeaderboard", suite.ctx, int64(2), models.GameMemory).Return(nil, nil)
	suite.repo.On("Leaderboard", suite.ctx, int64(2), models.GameMemory, models.LeaderboardSize).Return(leaders, nil)
	suite.cache.On("SetLeaderboard", suite.ctx, int64(2), models.GameMemory, leaders, leaderboardTTL).Return(nil)

	got, err := suite.service.Leaderboard(suite.ctx, suite.p, "")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), leaders, got)
}

func (suite *GameScoreServiceTestSuite) TestLeaderboard_ServedFromCache() {
	leaders := []models.LeaderboardEntry{{Name: "Anna S", Score: 180}}
	suite.cache.On("GetLeaderboard", suite.ctx, int64(2), models.GameReaction).Return(leaders, nil)

	got, err := suite.service.Leaderboard(suite.ctx, suite.p, models.GameReaction)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), leaders, got)
}

func (suite *GameScoreServiceTestSuite) TestLeaderboard_UnknownGame() {
	_, err := suite.service.Leaderboard(suite.ctx, suite.p, "chess")
	assert.EqualError(suite.T(), err, "Unknown game")
}

func (suite *GameScoreServiceTestSuite) TestSubmit_SavedScoreInvalidatesLeaderboard() {
	suite.repo.On("SaveBest", suite.ctx, int64(4), models.GameMemory, 20).Return(true, nil)
	suite.cache.On("DeleteLeaderboard", suite.ctx, int64(2), models.GameMemory).Return(nil)

	saved, err := suite.service.Submit(suite.ctx, suite.p, &SubmitScoreRequest{Game: models.GameMemory, Score: intPtr(20)})
	require.NoError(suite.T(), err)
	assert.True(suite.T(), saved)
	suite.cache.AssertExpectations(suite.T())
}

func (suite *GameScoreServiceTestSuite) TestSubmit_WorseScoreIsKept() {
	suite.repo.On("SaveBest", suite.ctx, int64(4), models.GameReaction, 250).Return(false, nil)

	saved, err := suite.service.Submit(suite.ctx, suite.p, &SubmitScoreRequest{Game: models.GameReaction, Score: intPtr(250)})
	require.NoError(suite.T(), err)
	assert.False(suite.T(), saved)
	suite.cache.AssertNotCalled(suite.T(), "DeleteLeaderboard", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GameScoreServiceTestSuite) TestSubmit_StoreFailure() {
	suite.repo.On("SaveBest", suite.ctx, int64(4), models.GameGuess, 3).Return(false, errors.New("save score: conn reset"))

	saved, err := suite.service.Submit(suite.ctx, suite.p, &SubmitScoreRequest{Game: models.GameGuess, Score: intPtr(3)})
	assert.EqualError(suite.T(), err, "save score: conn reset")
	assert.False(suite.T(), saved)
}

func (suite *GameScoreServiceTestSuite) TestSubmit_Validation() {
	_, err := suite.service.Submit(suite.ctx, suite.p, &SubmitScoreRequest{Game: models.GameMemory})
	assert.EqualError(suite.T(), err, "game and score required")

	_, err = suite.service.Submit(suite.ctx, suite.p, &SubmitScoreRequest{Game: models.GameMemory, Score: intPtr(-1)})
	assert.EqualError(suite.T(), err, "score must not be negative")

	_, err = suite.service.Submit(suite.ctx, suite.p, &SubmitScoreRequest{Game: "chess", Score: intPtr(1)})
	assert.EqualError(suite.T(), err, "Unknown game")
}

func TestGameScoreServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GameScoreServiceTestSuite))
}

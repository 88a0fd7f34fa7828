package handlers

import (
	"net/http"

	"refstaff/internal/middleware"
	"refstaff/internal/models"
	"refstaff/internal/services"

	"github.com/labstack/echo/v4"
)

type GameScoreHandlers struct {
	gameScoreService services.GameScoreService
}

func NewGameScoreHandlers(gameScoreService services.GameScoreService) *GameScoreHandlers {
	return &GameScoreHandlers{gameScoreService: gameScoreService}
}

type LeaderboardResponse struct {
	Leaders []models.LeaderboardEntry `json:"leaders"`
}

type SaveScoreResponse struct {
	Saved bool `json:"saved"`
}

// Leaderboard returns the company's top scores for a game.
// @Summary Game leaderboard
// @Tags games
// @Produce json
// @Param game query string false "memory, reaction, guess or tictactoe"
// @Param X-Auth-Token header string true "Session token"
// @Success 200 {object} LeaderboardResponse
// @Security AuthToken
// @Router /game-scores [get]
func (h *GameScoreHandlers) Leaderboard(c echo.Context) error {
	p, err := middleware.RequirePrincipal(c)
	if err != nil {
		return err
	}
	leaders, err := h.gameScoreService.Leaderboard(c.Request().Context(), p, c.QueryParam("game"))
	if err != nil {
		return serviceError(c, err)
	}
	if leaders == nil {
		leaders = []models.LeaderboardEntry{}
	}
	return c.JSON(http.StatusOK, LeaderboardResponse{Leaders: leaders})
}

// Submit keeps the caller's best score.
// @Summary Save a game score
// @Tags games
// @Accept json
// @Produce json
// @Param request body services.SubmitScoreRequest true "Game and score"
// @Param X-Auth-Token header string true "Session token"
// @Success 200 {object} SaveScoreResponse
// @Failure 400 {object} ErrorResponse
// @Security AuthToken
// @Router /game-scores [post]
func (h *GameScoreHandlers) Submit(c echo.Context) error {
	p, err := middleware.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req services.SubmitScoreRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	saved, err := h.gameScoreService.Submit(c.Request().Context(), p, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, SaveScoreResponse{Saved: saved})
}

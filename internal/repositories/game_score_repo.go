package repositories

import (
	"context"
	"errors"
	"fmt"

	"refstaff/internal/models"

	"github.com/jackc/pgx/v5"
)

type GameScoreRepository interface {
	Leaderboard(ctx context.Context, companyID int64, game string, limit int) ([]models.LeaderboardEntry, error)
	SaveBest(ctx context.Context, userID int64, game string, score int) (bool, error)
}

type gameScoreRepo struct {
	db DB
}

func NewGameScoreRepo(db DB) GameScoreRepository {
	return &gameScoreRepo{db: db}
}

// Leaderboard ranks the company's best scores for a game; ties go to whoever
// set the score first.
func (r *gameScoreRepo) Leaderboard(ctx context.Context, companyID int64, game string, limit int) ([]models.LeaderboardEntry, error) {
	order := "gs.score ASC"
	if models.HigherScoreWins(game) {
		order = "gs.score DESC"
	}
	query := `
		SELECT u.first_name, u.last_name, u.avatar_url, gs.score, gs.created_at
		FROM game_scores gs
		JOIN users u ON u.id = gs.user_id
		WHERE u.company_id = $1 AND gs.game = $2
		ORDER BY ` + order + `, gs.created_at ASC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, companyID, game, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	leaders := []models.LeaderboardEntry{}
	for rows.Next() {
		var (
			u models.User
			e models.LeaderboardEntry
		)
		if err := rows.Scan(&u.FirstName, &u.LastName, &e.AvatarURL, &e.Score, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Name = u.FullName()
		leaders = append(leaders, e)
	}
	return leaders, rows.Err()
}

// SaveBest stores score as the user's result for game unless the stored one is
// at least as good. It reports whether a row was written. The upsert keeps
// concurrent first submissions from racing on the (user_id, game) key.
func (r *gameScoreRepo) SaveBest(ctx context.Context, userID int64, game string, score int) (bool, error) {
	better := "EXCLUDED.score < game_scores.score"
	if models.HigherScoreWins(game) {
		better = "EXCLUDED.score > game_scores.score"
	}
	query := `
		INSERT INTO game_scores (user_id, game, score, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, game) DO UPDATE
		SET score = EXCLUDED.score, created_at = NOW()
		WHERE ` + better + `
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query, userID, game, score).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("save score: %w", err)
	}
	return true, nil
}

package models

import "time"

const (
	GameMemory    = "memory"
	GameReaction  = "reaction"
	GameGuess     = "guess"
	GameTicTacToe = "tictactoe"

	LeaderboardSize = 10
)

type GameScore struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Game      string    `json:"game" db:"game"`
	Score     int       `json:"score" db:"score"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type LeaderboardEntry struct {
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// HigherScoreWins reports whether bigger scores rank first in the given game.
// Only tictactoe counts wins; the other games measure moves or milliseconds.
func HigherScoreWins(game string) bool {
	return game == GameTicTacToe
}

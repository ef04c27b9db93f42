package domain

import "time"

// GameStatus tracks the lifecycle of a game.
type GameStatus string

const (
	GameStatusScheduled GameStatus = "scheduled"
	GameStatusLive      GameStatus = "live"
	GameStatusFinal     GameStatus = "final"
	GameStatusCancelled GameStatus = "cancelled"
)

// Game is one scheduled sporting event as supplied by the quote feed.
type Game struct {
	ID        string     `json:"id"`
	Sport     string     `json:"sport"`
	League    string     `json:"league"`
	HomeTeam  string     `json:"home_team"`
	AwayTeam  string     `json:"away_team"`
	StartTime time.Time  `json:"start_time"`
	Status    GameStatus `json:"status"`
	UpdatedAt time.Time  `json:"updated_at"`
}

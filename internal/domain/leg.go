package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Leg is one user-selected wager unit held by a bet slip. It denormalizes the
// game fields it needs so the slip never has to look anything up again.
type Leg struct {
	ID        string           `json:"id"`
	GameID    string           `json:"game_id"`
	Sport     string           `json:"sport"`
	HomeTeam  string           `json:"home_team"`
	AwayTeam  string           `json:"away_team"`
	Market    MarketDescriptor `json:"market"`
	Selection string           `json:"selection"` // display label, e.g. "Over 27.5"
	Price     int              `json:"price"`
	Line      *float64         `json:"line,omitempty"`
	Book      string           `json:"book"`
	GameStart time.Time        `json:"game_start"`
}

// LegForSubmission carries the fully denormalized fields the wager-acceptance
// collaborator needs for independent audit. The collaborator must not be
// assumed able to re-derive any of these from an identifier alone.
type LegForSubmission struct {
	GameID     string    `json:"game_id"`
	Sport      string    `json:"sport"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	GameTime   time.Time `json:"game_time"`
	MarketType string    `json:"market_type"`
	Selection  string    `json:"selection"`
	Odds       int       `json:"odds"`
	Line       *float64  `json:"line,omitempty"`
	Desc       string    `json:"description"`
	Book       string    `json:"sportsbook"`
}

// ForSubmission converts a slip leg into its audit-complete submission form.
func (l Leg) ForSubmission() LegForSubmission {
	return LegForSubmission{
		GameID:     l.GameID,
		Sport:      l.Sport,
		HomeTeam:   l.HomeTeam,
		AwayTeam:   l.AwayTeam,
		GameTime:   l.GameStart,
		MarketType: l.Market.Label,
		Selection:  l.Selection,
		Odds:       l.Price,
		Line:       l.Line,
		Desc:       l.HomeTeam + " @ " + l.AwayTeam + " — " + l.Market.Label + ": " + l.Selection,
		Book:       l.Book,
	}
}

// SubmitResult is the outcome of a wager submission. Failures are carried as
// values, never as panics or unhandled errors; Error is a machine-ish reason,
// Message is user-facing.
type SubmitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SlipView is the display state of a bet slip, recomputed after every
// mutating operation.
type SlipView struct {
	Legs          []Leg           `json:"legs"`
	Wager         decimal.Decimal `json:"wager"`
	CombinedPrice *int            `json:"combined_price,omitempty"` // nil below 2 legs
	Payout        decimal.Decimal `json:"payout"`
	Profit        decimal.Decimal `json:"profit"`
	Submitting    bool            `json:"submitting"`
	Expanded      bool            `json:"expanded"`
}

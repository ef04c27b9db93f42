package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wager is the audit record of a slip that was accepted by the submission
// collaborator.
type Wager struct {
	ID            string             `json:"id"`
	SessionID     string             `json:"session_id"`
	Legs          []LegForSubmission `json:"legs"`
	Amount        decimal.Decimal    `json:"amount"`
	CombinedPrice int                `json:"combined_price"`
	Payout        decimal.Decimal    `json:"payout"`
	PlacedAt      time.Time          `json:"placed_at"`
}

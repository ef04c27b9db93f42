package domain

import (
	"context"
	"time"
)

// ListOpts provides pagination and time filtering for list queries.
type ListOpts struct {
	Limit  int
	Offset int
	Since  *time.Time
	Until  *time.Time
}

// GameStore persists game metadata.
type GameStore interface {
	Upsert(ctx context.Context, game Game) error
	UpsertBatch(ctx context.Context, games []Game) error
	GetByID(ctx context.Context, id string) (Game, error)
	ListUpcoming(ctx context.Context, sport string, opts ListOpts) ([]Game, error)
}

// QuoteStore persists raw quote snapshots.
type QuoteStore interface {
	InsertBatch(ctx context.Context, quotes []RawQuote) error

	// ListByEvent returns snapshots for an event ordered by captured_at
	// descending (newest first). Board reduction depends on that ordering
	// for dedup; implementations must preserve it.
	ListByEvent(ctx context.Context, eventID string, since *time.Time) ([]RawQuote, error)

	// ListCapturedBetween returns every snapshot captured inside the window,
	// used for cold-storage archival.
	ListCapturedBetween(ctx context.Context, from, to time.Time) ([]RawQuote, error)

	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// WagerStore persists accepted wagers for audit and history views.
type WagerStore interface {
	Create(ctx context.Context, w Wager) error
	GetByID(ctx context.Context, id string) (Wager, error)
	ListBySession(ctx context.Context, sessionID string, opts ListOpts) ([]Wager, error)
	ListRecent(ctx context.Context, limit int) ([]Wager, error)
}

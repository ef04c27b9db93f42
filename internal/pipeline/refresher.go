// Package pipeline runs the background loops: periodic quote refresh from the
// feed and cold-storage archival of aged snapshots.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/oddslip/oddslip/internal/domain"
)

// boardsChannelPrefix is the pub/sub channel family carrying board refresh
// signals; the event ID is appended per channel.
const boardsChannelPrefix = "boards:"

// EventSource supplies games and quote snapshots from the upstream feed.
type EventSource interface {
	ListEvents(ctx context.Context, sport string) ([]domain.Game, error)
	GetEventQuotes(ctx context.Context, eventID string) ([]domain.RawQuote, error)
}

// BoardRebuilder reduces an event's boards from stored snapshots and rewrites
// the cache entry.
type BoardRebuilder interface {
	RebuildEventBoards(ctx context.Context, eventID string) ([]domain.Board, error)
}

// refreshEvent is the JSON shape published to the boards channel.
type refreshEvent struct {
	EventID     string    `json:"event_id"`
	Boards      int       `json:"boards"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// Refresher polls the feed on an interval, persists what it finds, rebuilds
// the cached boards, and announces each refreshed event on the signal bus.
type Refresher struct {
	source    EventSource
	games     domain.GameStore
	quotes    domain.QuoteStore
	boards    BoardRebuilder
	bus       domain.SignalBus
	sports    []string
	triggerCh chan struct{}
	logger    *slog.Logger
}

// NewRefresher creates a Refresher covering the given sports.
func NewRefresher(
	source EventSource,
	games domain.GameStore,
	quotes domain.QuoteStore,
	boards BoardRebuilder,
	bus domain.SignalBus,
	sports []string,
	logger *slog.Logger,
) *Refresher {
	return &Refresher{
		source:    source,
		games:     games,
		quotes:    quotes,
		boards:    boards,
		bus:       bus,
		sports:    sports,
		triggerCh: make(chan struct{}, 1),
		logger:    logger.With(slog.String("component", "refresher")),
	}
}

// TriggerChan returns the channel a caller sends on to request an immediate
// refresh pass outside the regular interval.
func (r *Refresher) TriggerChan() chan<- struct{} {
	return r.triggerCh
}

// Run executes a single refresh pass over every configured sport. A failure
// on one event does not abort the pass; the error count is logged at the end.
func (r *Refresher) Run(ctx context.Context) error {
	var refreshed, failed int

	for _, sport := range r.sports {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("refresher cancelled: %w", err)
		}

		games, err := r.source.ListEvents(ctx, sport)
		if err != nil {
			r.logger.ErrorContext(ctx, "list events failed",
				slog.String("sport", sport),
				slog.String("error", err.Error()),
			)
			failed++
			continue
		}

		if err := r.games.UpsertBatch(ctx, games); err != nil {
			return fmt.Errorf("upserting %d games for %s: %w", len(games), sport, err)
		}

		for _, g := range games {
			if g.Status == domain.GameStatusFinal || g.Status == domain.GameStatusCancelled {
				continue
			}
			if err := r.refreshEvent(ctx, g.ID); err != nil {
				r.logger.WarnContext(ctx, "event refresh failed",
					slog.String("event_id", g.ID),
					slog.String("error", err.Error()),
				)
				failed++
				continue
			}
			refreshed++
		}
	}

	r.logger.InfoContext(ctx, "refresh pass complete",
		slog.Int("refreshed", refreshed),
		slog.Int("failed", failed),
	)
	return nil
}

// refreshEvent fetches one event's quotes, stores them, rebuilds its boards,
// and publishes the refresh signal.
func (r *Refresher) refreshEvent(ctx context.Context, eventID string) error {
	quotes, err := r.source.GetEventQuotes(ctx, eventID)
	if err != nil {
		return fmt.Errorf("fetching quotes: %w", err)
	}
	if len(quotes) == 0 {
		return nil
	}

	if err := r.quotes.InsertBatch(ctx, quotes); err != nil {
		return fmt.Errorf("storing %d quotes: %w", len(quotes), err)
	}

	boards, err := r.boards.RebuildEventBoards(ctx, eventID)
	if err != nil {
		return fmt.Errorf("rebuilding boards: %w", err)
	}

	payload, err := json.Marshal(refreshEvent{
		EventID:     eventID,
		Boards:      len(boards),
		RefreshedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal refresh event: %w", err)
	}
	if err := r.bus.Publish(ctx, boardsChannelPrefix+eventID, payload); err != nil {
		// Subscribers re-read the cache on the next tick; keep going.
		r.logger.WarnContext(ctx, "publish refresh signal failed",
			slog.String("event_id", eventID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// RunLoop runs refresh passes on a repeating interval until the context is
// cancelled. The first pass starts immediately.
func (r *Refresher) RunLoop(ctx context.Context, interval time.Duration) error {
	if err := r.Run(ctx); err != nil {
		r.logger.ErrorContext(ctx, "refresh pass failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := r.Run(ctx); err != nil {
				r.logger.ErrorContext(ctx, "refresh pass failed", slog.String("error", err.Error()))
			}
		case <-r.triggerCh:
			r.logger.Info("manual refresh triggered")
			if err := r.Run(ctx); err != nil {
				r.logger.ErrorContext(ctx, "refresh pass failed", slog.String("error", err.Error()))
			}
		}
	}
}

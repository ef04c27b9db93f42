package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oddslip/oddslip/internal/domain"
	"github.com/oddslip/oddslip/internal/notify"
	"github.com/oddslip/oddslip/internal/odds"
	"github.com/oddslip/oddslip/internal/slip"
)

// wagersChannel is the pub/sub channel carrying accepted-wager events.
const wagersChannel = "wagers"

// WagerService wraps the sportsbook client with bookkeeping: accepted wagers
// are recorded for audit, announced on the signal bus, and pushed to the
// notifier. Submission failures pass through untouched.
type WagerService struct {
	client   slip.Submitter
	wagers   domain.WagerStore
	bus      domain.SignalBus
	notifier *notify.Notifier
	logger   *slog.Logger
}

// NewWagerService creates a WagerService around the given sportsbook client.
func NewWagerService(
	client slip.Submitter,
	wagers domain.WagerStore,
	bus domain.SignalBus,
	notifier *notify.Notifier,
	logger *slog.Logger,
) *WagerService {
	return &WagerService{
		client:   client,
		wagers:   wagers,
		bus:      bus,
		notifier: notifier,
		logger:   logger,
	}
}

// ForSession returns a slip.Submitter bound to one session, suitable for use
// as the Manager's submitter factory.
func (s *WagerService) ForSession(sessionID string) slip.Submitter {
	return &sessionSubmitter{svc: s, sessionID: sessionID}
}

// History returns a session's wagers, newest first.
func (s *WagerService) History(ctx context.Context, sessionID string, opts domain.ListOpts) ([]domain.Wager, error) {
	wagers, err := s.wagers.ListBySession(ctx, sessionID, opts)
	if err != nil {
		return nil, fmt.Errorf("wager_service: history %q: %w", sessionID, err)
	}
	return wagers, nil
}

// Recent returns the most recently placed wagers across all sessions.
func (s *WagerService) Recent(ctx context.Context, limit int) ([]domain.Wager, error) {
	wagers, err := s.wagers.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("wager_service: recent: %w", err)
	}
	return wagers, nil
}

// sessionSubmitter attributes accepted wagers to the owning session.
type sessionSubmitter struct {
	svc       *WagerService
	sessionID string
}

func (b *sessionSubmitter) SubmitWager(ctx context.Context, legs []domain.LegForSubmission, amount decimal.Decimal) (domain.SubmitResult, error) {
	res, err := b.svc.client.SubmitWager(ctx, legs, amount)
	if err != nil || !res.Success {
		return res, err
	}

	b.svc.recordAccepted(ctx, b.sessionID, legs, amount)
	return res, nil
}

// recordAccepted persists and announces an accepted wager. The wager has
// already been placed; failures here are logged, never surfaced to the user.
func (s *WagerService) recordAccepted(ctx context.Context, sessionID string, legs []domain.LegForSubmission, amount decimal.Decimal) {
	prices := make([]int, len(legs))
	for i, l := range legs {
		prices[i] = l.Odds
	}
	combined, ok := odds.CombineLegs(prices)
	if !ok && len(prices) == 1 {
		combined = odds.Normalize(prices[0])
	}
	payout, _ := odds.Payout(amount, prices)

	w := domain.Wager{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		Legs:          legs,
		Amount:        amount,
		CombinedPrice: combined,
		Payout:        payout,
		PlacedAt:      time.Now().UTC(),
	}

	if err := s.wagers.Create(ctx, w); err != nil {
		s.logger.ErrorContext(ctx, "wager_service: record wager failed",
			slog.String("wager_id", w.ID),
			slog.String("error", err.Error()),
		)
	}

	if payload, err := json.Marshal(w); err == nil {
		if err := s.bus.Publish(ctx, wagersChannel, payload); err != nil {
			s.logger.WarnContext(ctx, "wager_service: publish wager failed",
				slog.String("wager_id", w.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.WagerPlaced(ctx, w); err != nil {
			s.logger.WarnContext(ctx, "wager_service: notify failed",
				slog.String("error", err.Error()),
			)
		}
	}
}

// Package notify pushes operator alerts for the betting companion: accepted
// wagers, feed refresh failures, and unexpected errors. Alerts fan out to
// every configured channel and are filtered by event type so an operator can
// subscribe to wager confirmations without the noise of pipeline errors.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oddslip/oddslip/internal/domain"
)

// Event identifies a class of alert for filtering.
type Event string

const (
	EventWagerPlaced   Event = "wager_placed"
	EventRefreshFailed Event = "refresh_failed"
	EventError         Event = "error"
)

// ParseEvents converts configured event names into typed events, dropping
// empty entries.
func ParseEvents(names []string) []Event {
	events := make([]Event, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			events = append(events, Event(n))
		}
	}
	return events
}

// Sender is one delivery channel (Telegram chat, Discord webhook).
type Sender interface {
	Send(ctx context.Context, title, message string) error
	Name() string
}

// Notifier fans alerts out to its senders. Only events present in the allowed
// set are delivered; an empty set allows everything.
type Notifier struct {
	senders []Sender
	events  map[Event]bool
	logger  *slog.Logger
}

// NewNotifier creates a Notifier delivering to the given senders, filtered to
// the given events (all events when the slice is empty).
func NewNotifier(senders []Sender, events []Event, logger *slog.Logger) *Notifier {
	allowed := make(map[Event]bool, len(events))
	for _, e := range events {
		allowed[e] = true
	}
	return &Notifier{
		senders: senders,
		events:  allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// WagerPlaced announces an accepted wager.
func (n *Notifier) WagerPlaced(ctx context.Context, w domain.Wager) error {
	msg := fmt.Sprintf("%d leg(s) at %+d for %s, potential payout %s",
		len(w.Legs), w.CombinedPrice, w.Amount.StringFixed(2), w.Payout.StringFixed(2))
	return n.Notify(ctx, EventWagerPlaced, "Wager placed", msg)
}

// RefreshFailed reports a failed quote refresh pass.
func (n *Notifier) RefreshFailed(ctx context.Context, err error) error {
	return n.Notify(ctx, EventRefreshFailed, "Quote refresh failed", err.Error())
}

// Notify delivers one alert to every sender if its event is allowed.
func (n *Notifier) Notify(ctx context.Context, event Event, title, message string) error {
	if len(n.events) > 0 && !n.events[event] {
		n.logger.DebugContext(ctx, "event filtered out", slog.String("event", string(event)))
		return nil
	}
	return n.dispatch(ctx, title, message)
}

// dispatch sends to every sender; one channel failing does not stop delivery
// to the rest.
func (n *Notifier) dispatch(ctx context.Context, title, message string) error {
	if len(n.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "alert sent",
			slog.String("sender", s.Name()),
			slog.String("title", title),
		)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}

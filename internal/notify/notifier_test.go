package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/oddslip/oddslip/internal/domain"
)

type captureSender struct {
	titles   []string
	messages []string
	err      error
}

func (c *captureSender) Send(ctx context.Context, title, message string) error {
	if c.err != nil {
		return c.err
	}
	c.titles = append(c.titles, title)
	c.messages = append(c.messages, message)
	return nil
}

func (c *captureSender) Name() string { return "capture" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifierFiltersByEvent(t *testing.T) {
	sender := &captureSender{}
	n := NewNotifier([]Sender{sender}, []Event{EventWagerPlaced}, discardLogger())

	if err := n.RefreshFailed(context.Background(), errors.New("feed down")); err != nil {
		t.Fatalf("RefreshFailed: %v", err)
	}
	if len(sender.titles) != 0 {
		t.Fatal("filtered event must not reach the sender")
	}

	w := domain.Wager{
		Legs:          make([]domain.LegForSubmission, 2),
		CombinedPrice: 264,
		Amount:        decimal.NewFromInt(10),
		Payout:        decimal.NewFromFloat(36.45),
	}
	if err := n.WagerPlaced(context.Background(), w); err != nil {
		t.Fatalf("WagerPlaced: %v", err)
	}
	if len(sender.titles) != 1 || sender.titles[0] != "Wager placed" {
		t.Fatalf("titles = %v, want one wager announcement", sender.titles)
	}
	if !strings.Contains(sender.messages[0], "+264") {
		t.Errorf("message %q should quote the combined price", sender.messages[0])
	}
}

func TestNotifierEmptyEventListAllowsAll(t *testing.T) {
	sender := &captureSender{}
	n := NewNotifier([]Sender{sender}, nil, discardLogger())

	if err := n.Notify(context.Background(), EventError, "oops", "details"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(sender.titles) != 1 {
		t.Fatal("empty filter must allow every event")
	}
}

func TestNotifierCollectsSenderFailures(t *testing.T) {
	bad := &captureSender{err: errors.New("webhook 500")}
	good := &captureSender{}
	n := NewNotifier([]Sender{bad, good}, nil, discardLogger())

	err := n.Notify(context.Background(), EventError, "oops", "details")
	if err == nil {
		t.Fatal("expected a combined error from the failing sender")
	}
	if len(good.titles) != 1 {
		t.Error("one sender failing must not stop delivery to the rest")
	}
}

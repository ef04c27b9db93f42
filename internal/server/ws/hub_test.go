package ws

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/oddslip/oddslip/internal/domain"
)

type fakeBus struct {
	ch chan domain.BusMessage
}

func (f *fakeBus) Publish(ctx context.Context, channel string, payload []byte) error {
	f.ch <- domain.BusMessage{Channel: channel, Payload: payload}
	return nil
}

func (f *fakeBus) Subscribe(ctx context.Context, pattern string) (<-chan domain.BusMessage, error) {
	return f.ch, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPumpExitsWhenBroadcastIsFullAndContextCancelled(t *testing.T) {
	bus := &fakeBus{ch: make(chan domain.BusMessage, 1)}
	h := NewHub(bus, testLogger())

	// Simulate a stopped Run loop with a saturated broadcast buffer.
	for i := 0; i < cap(h.broadcast); i++ {
		h.broadcast <- domain.BusMessage{Channel: "wagers"}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.pump(ctx, "boards:*")
		close(done)
	}()

	bus.ch <- domain.BusMessage{Channel: "boards:evt1", Payload: []byte(`{}`)}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pump did not exit after context cancellation")
	}
}

func TestClientWildcardSubscription(t *testing.T) {
	c := &client{subs: map[string]bool{"boards:*": true, "wagers": true}}

	if !c.isSubscribed("boards:evt123") {
		t.Error("boards:* must match boards:evt123")
	}
	if !c.isSubscribed("wagers") {
		t.Error("exact channel must match")
	}
	if c.isSubscribed("status") {
		t.Error("unrelated channel must not match")
	}
}

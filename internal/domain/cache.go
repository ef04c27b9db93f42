package domain

import (
	"context"
	"time"
)

// BoardCache stores reduced per-event boards so repeated reads do not re-run
// classification and reduction on every request.
type BoardCache interface {
	SetBoards(ctx context.Context, eventID string, boards []Board) error
	GetBoards(ctx context.Context, eventID string) ([]Board, error)
	Invalidate(ctx context.Context, eventID string) error
}

// RateLimiter bounds how often an operation may run. It is an injected
// collaborator with explicit construction so the core stays testable; there
// is deliberately no package-level singleton.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// SignalBus provides publish/subscribe fan-out for board updates and wager
// events.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, pattern string) (<-chan BusMessage, error)
}

// BusMessage is one delivered pub/sub message.
type BusMessage struct {
	Channel string
	Payload []byte
}

// LockManager provides distributed mutual exclusion so periodic jobs run on
// exactly one instance. Acquire returns ErrLockHeld when another party holds
// the lock.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

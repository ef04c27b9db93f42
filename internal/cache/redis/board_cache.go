package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oddslip/oddslip/internal/domain"
)

// boardTTL bounds staleness when invalidation is missed; the refresher
// normally rewrites the entry well before expiry.
const boardTTL = 5 * time.Minute

// BoardCache implements domain.BoardCache using JSON-serialized board lists
// keyed per event.
//
// Key schema:
//
//	boards:{eventID} - string value containing the JSON-encoded board list
type BoardCache struct {
	rdb *redis.Client
}

// NewBoardCache creates a BoardCache backed by the given Client.
func NewBoardCache(c *Client) *BoardCache {
	return &BoardCache{rdb: c.Underlying()}
}

func boardsKey(eventID string) string { return "boards:" + eventID }

// SetBoards stores an event's reduced boards with a 5-minute TTL.
func (bc *BoardCache) SetBoards(ctx context.Context, eventID string, boards []domain.Board) error {
	data, err := json.Marshal(boards)
	if err != nil {
		return fmt.Errorf("redis: marshal boards %s: %w", eventID, err)
	}

	if err := bc.rdb.Set(ctx, boardsKey(eventID), data, boardTTL).Err(); err != nil {
		return fmt.Errorf("redis: set boards %s: %w", eventID, err)
	}
	return nil
}

// GetBoards retrieves an event's boards from the cache.
// It returns domain.ErrNotFound when the key does not exist.
func (bc *BoardCache) GetBoards(ctx context.Context, eventID string) ([]domain.Board, error) {
	data, err := bc.rdb.Get(ctx, boardsKey(eventID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get boards %s: %w", eventID, err)
	}

	var boards []domain.Board
	if err := json.Unmarshal(data, &boards); err != nil {
		return nil, fmt.Errorf("redis: unmarshal boards %s: %w", eventID, err)
	}
	return boards, nil
}

// Invalidate removes an event's cached boards.
func (bc *BoardCache) Invalidate(ctx context.Context, eventID string) error {
	if err := bc.rdb.Del(ctx, boardsKey(eventID)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate boards %s: %w", eventID, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.BoardCache = (*BoardCache)(nil)

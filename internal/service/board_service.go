// Package service wires stores, caches, and the reduction pipeline into the
// operations the server and pipeline expose.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oddslip/oddslip/internal/board"
	"github.com/oddslip/oddslip/internal/domain"
)

// BoardService serves reduced market boards, caching per event so repeated
// reads skip classification and reduction.
type BoardService struct {
	games  domain.GameStore
	quotes domain.QuoteStore
	cache  domain.BoardCache
	logger *slog.Logger
}

// NewBoardService creates a BoardService with all required dependencies.
func NewBoardService(
	games domain.GameStore,
	quotes domain.QuoteStore,
	cache domain.BoardCache,
	logger *slog.Logger,
) *BoardService {
	return &BoardService{
		games:  games,
		quotes: quotes,
		cache:  cache,
		logger: logger,
	}
}

// GetGame retrieves one game by ID.
func (s *BoardService) GetGame(ctx context.Context, id string) (domain.Game, error) {
	g, err := s.games.GetByID(ctx, id)
	if err != nil {
		return domain.Game{}, fmt.Errorf("board_service: get game %q: %w", id, err)
	}
	return g, nil
}

// ListGames returns upcoming games, optionally filtered by sport.
func (s *BoardService) ListGames(ctx context.Context, sport string, opts domain.ListOpts) ([]domain.Game, error) {
	games, err := s.games.ListUpcoming(ctx, sport, opts)
	if err != nil {
		return nil, fmt.Errorf("board_service: list games: %w", err)
	}
	return games, nil
}

// GetEventBoards returns an event's reduced boards, checking the cache first
// and rebuilding from stored snapshots on a miss. An event with no snapshots
// yields an empty slice, not an error.
func (s *BoardService) GetEventBoards(ctx context.Context, eventID string) ([]domain.Board, error) {
	boards, err := s.cache.GetBoards(ctx, eventID)
	if err == nil {
		return boards, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.WarnContext(ctx, "board_service: cache read failed",
			slog.String("event_id", eventID),
			slog.String("error", err.Error()),
		)
		// Fall through to a rebuild; the cache is an optimization only.
	}

	return s.RebuildEventBoards(ctx, eventID)
}

// RebuildEventBoards reduces an event's boards from stored snapshots and
// rewrites the cache entry. The refresher calls this after each quote batch
// so readers see the new generation immediately.
func (s *BoardService) RebuildEventBoards(ctx context.Context, eventID string) ([]domain.Board, error) {
	quotes, err := s.quotes.ListByEvent(ctx, eventID, nil)
	if err != nil {
		return nil, fmt.Errorf("board_service: list quotes %q: %w", eventID, err)
	}

	boards := board.BuildBoards(quotes)

	if cacheErr := s.cache.SetBoards(ctx, eventID, boards); cacheErr != nil {
		s.logger.WarnContext(ctx, "board_service: cache write failed",
			slog.String("event_id", eventID),
			slog.String("error", cacheErr.Error()),
		)
		// Non-fatal: the next read rebuilds again.
	}

	return boards, nil
}

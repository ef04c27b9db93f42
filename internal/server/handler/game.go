package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/oddslip/oddslip/internal/domain"
)

// BoardService defines the methods the game handler requires from the service
// layer. It is declared locally so the handler package does not depend on the
// concrete service implementation.
type BoardService interface {
	GetGame(ctx context.Context, id string) (domain.Game, error)
	ListGames(ctx context.Context, sport string, opts domain.ListOpts) ([]domain.Game, error)
	GetEventBoards(ctx context.Context, eventID string) ([]domain.Board, error)
}

// GameHandler serves game and board HTTP endpoints.
type GameHandler struct {
	boards BoardService
	logger *slog.Logger
}

// NewGameHandler creates a GameHandler with the given service and logger.
func NewGameHandler(boards BoardService, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		boards: boards,
		logger: logger,
	}
}

// listGamesResponse wraps the list endpoint output with metadata.
type listGamesResponse struct {
	Games  []domain.Game `json:"games"`
	Sport  string        `json:"sport,omitempty"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// ListGames returns upcoming games with pagination, optionally filtered by
// sport key.
// GET /api/games?sport=basketball_nba&limit=50&offset=0
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	opts := parseListOpts(r)
	sport := r.URL.Query().Get("sport")

	games, err := h.boards.ListGames(r.Context(), sport, opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list games failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list games")
		return
	}

	writeJSON(w, http.StatusOK, listGamesResponse{
		Games:  games,
		Sport:  sport,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

// GetGame returns a single game by its ID.
// GET /api/games/{id}
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing game id")
		return
	}

	game, err := h.boards.GetGame(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get game failed",
			slog.String("game_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get game")
		return
	}

	writeJSON(w, http.StatusOK, game)
}

// boardResponse pairs a game with its reduced market boards.
type boardResponse struct {
	Game   domain.Game    `json:"game"`
	Boards []domain.Board `json:"boards"`
}

// GetBoard returns the reduced market boards for one game. A known game with
// no captured quotes yields an empty board list, not an error.
// GET /api/games/{id}/board
func (h *GameHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing game id")
		return
	}

	game, err := h.boards.GetGame(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get game failed",
			slog.String("game_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get game")
		return
	}

	boards, err := h.boards.GetEventBoards(r.Context(), id)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: get boards failed",
			slog.String("game_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to build boards")
		return
	}

	if boards == nil {
		boards = []domain.Board{}
	}
	writeJSON(w, http.StatusOK, boardResponse{
		Game:   game,
		Boards: boards,
	})
}

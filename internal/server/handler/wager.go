package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/oddslip/oddslip/internal/domain"
)

// WagerService defines the methods the wager handler requires from the
// service layer.
type WagerService interface {
	History(ctx context.Context, sessionID string, opts domain.ListOpts) ([]domain.Wager, error)
	Recent(ctx context.Context, limit int) ([]domain.Wager, error)
}

// WagerHandler serves the accepted-wager history endpoints.
type WagerHandler struct {
	wagers WagerService
	logger *slog.Logger
}

// NewWagerHandler creates a WagerHandler with the given service and logger.
func NewWagerHandler(wagers WagerService, logger *slog.Logger) *WagerHandler {
	return &WagerHandler{
		wagers: wagers,
		logger: logger,
	}
}

// listWagersResponse wraps the wager list with pagination metadata.
type listWagersResponse struct {
	Wagers []domain.Wager `json:"wagers"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ListWagers returns accepted wagers, newest first. With a session header the
// list is scoped to that session's history; without one it returns the most
// recent wagers across all sessions.
// GET /api/wagers?limit=50&offset=0
func (h *WagerHandler) ListWagers(w http.ResponseWriter, r *http.Request) {
	opts := parseListOpts(r)

	var (
		wagers []domain.Wager
		err    error
	)
	if sid := strings.TrimSpace(r.Header.Get(sessionHeader)); sid != "" {
		wagers, err = h.wagers.History(r.Context(), sid, opts)
	} else {
		wagers, err = h.wagers.Recent(r.Context(), opts.Limit)
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list wagers failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list wagers")
		return
	}

	if wagers == nil {
		wagers = []domain.Wager{}
	}
	writeJSON(w, http.StatusOK, listWagersResponse{
		Wagers: wagers,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

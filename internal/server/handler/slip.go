package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/oddslip/oddslip/internal/domain"
	"github.com/oddslip/oddslip/internal/slip"
)

// sessionHeader identifies the caller's slip. Clients without one share the
// default session, which is the normal single-user companion setup.
const (
	sessionHeader  = "X-Session-ID"
	defaultSession = "default"
)

// SlipHandler serves the per-session bet-slip endpoints.
type SlipHandler struct {
	slips  *slip.Manager
	logger *slog.Logger
}

// NewSlipHandler creates a SlipHandler backed by the given slip manager.
func NewSlipHandler(slips *slip.Manager, logger *slog.Logger) *SlipHandler {
	return &SlipHandler{
		slips:  slips,
		logger: logger,
	}
}

// slipFor resolves the request's session slip.
func (h *SlipHandler) slipFor(r *http.Request) *slip.Slip {
	sid := strings.TrimSpace(r.Header.Get(sessionHeader))
	if sid == "" {
		sid = defaultSession
	}
	return h.slips.Get(sid)
}

// GetSlip returns the current slip view for the caller's session.
// GET /api/slip
func (h *SlipHandler) GetSlip(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.slipFor(r).View())
}

// AddLeg adds a selection to the slip and returns the updated view.
// POST /api/slip/legs
func (h *SlipHandler) AddLeg(w http.ResponseWriter, r *http.Request) {
	var leg domain.Leg
	if err := json.NewDecoder(r.Body).Decode(&leg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if leg.GameID == "" || leg.Selection == "" || leg.Price == 0 {
		writeError(w, http.StatusBadRequest, "game_id, selection, and price are required")
		return
	}

	s := h.slipFor(r)
	if err := s.AddLeg(leg); err != nil {
		writeError(w, slipErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.View())
}

// RemoveLeg removes one leg by ID and returns the updated view.
// DELETE /api/slip/legs/{id}
func (h *SlipHandler) RemoveLeg(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing leg id")
		return
	}

	s := h.slipFor(r)
	if err := s.RemoveLeg(id); err != nil {
		writeError(w, slipErrorStatus(err), "leg not on slip")
		return
	}

	writeJSON(w, http.StatusOK, s.View())
}

// ClearSlip empties the slip and resets the wager to its default.
// DELETE /api/slip
func (h *SlipHandler) ClearSlip(w http.ResponseWriter, r *http.Request) {
	s := h.slipFor(r)
	s.Clear()
	writeJSON(w, http.StatusOK, s.View())
}

// setWagerRequest carries the desired wager amount. Decimal strings are
// accepted so clients never round through float64.
type setWagerRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// SetWager updates the wager amount, clamped to the configured range, and
// returns the updated view.
// PUT /api/slip/wager
func (h *SlipHandler) SetWager(w http.ResponseWriter, r *http.Request) {
	var req setWagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s := h.slipFor(r)
	s.SetWager(req.Amount)
	writeJSON(w, http.StatusOK, s.View())
}

// submitResponse pairs the submission outcome with the post-submit view so
// clients render both without a second round trip.
type submitResponse struct {
	Result domain.SubmitResult `json:"result"`
	Slip   domain.SlipView     `json:"slip"`
}

// Submit sends the slip to the sportsbook. Failures come back as structured
// results with the legs retained; only duplicate submits and an empty slip
// are client errors.
// POST /api/slip/submit
func (h *SlipHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s := h.slipFor(r)
	result := s.Submit(r.Context())

	status := http.StatusOK
	if !result.Success {
		switch result.Error {
		case domain.ErrSubmitInFlight.Error():
			status = http.StatusConflict
		case domain.ErrSlipEmpty.Error():
			status = http.StatusBadRequest
		default:
			status = http.StatusBadGateway
		}
		h.logger.WarnContext(r.Context(), "handler: slip submit rejected",
			slog.String("reason", result.Error),
		)
	}

	writeJSON(w, status, submitResponse{
		Result: result,
		Slip:   s.View(),
	})
}

// slipErrorStatus maps slip sentinel errors to HTTP status codes.
func slipErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrGameStarted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrDuplicateGame),
		errors.Is(err, domain.ErrDuplicateLeg),
		errors.Is(err, domain.ErrSlipFull):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

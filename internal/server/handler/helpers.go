package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/oddslip/oddslip/internal/domain"
)

// listLimitDefault and listLimitMax bound game and wager list responses.
const (
	listLimitDefault = 50
	listLimitMax     = 500
)

// writeJSON marshals v and writes it with the given status. A marshal failure
// degrades to a plain 500 body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseListOpts reads limit and offset from the query string, clamped to the
// list bounds.
func parseListOpts(r *http.Request) domain.ListOpts {
	q := r.URL.Query()

	limit := listLimitDefault
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > listLimitMax {
		limit = listLimitMax
	}

	offset := 0
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return domain.ListOpts{Limit: limit, Offset: offset}
}

// pathParam reads a named path parameter from Go 1.22 pattern routing.
func pathParam(r *http.Request, name string) string {
	return r.PathValue(name)
}

// logHandler tags a logger with the handler name.
func logHandler(logger *slog.Logger, handler string) *slog.Logger {
	return logger.With(slog.String("handler", handler))
}

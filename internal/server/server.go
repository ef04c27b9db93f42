// Package server is the HTTP + WebSocket API surface: game boards, the
// per-session bet slip, wager history, and the live update hub.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/oddslip/oddslip/internal/domain"
	"github.com/oddslip/oddslip/internal/server/handler"
	"github.com/oddslip/oddslip/internal/server/middleware"
	"github.com/oddslip/oddslip/internal/server/ws"
)

// apiRateLimit bounds requests per client IP per minute. Applied only when a
// rate limiter is wired in.
const apiRateLimit = 120

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIToken    string // if empty, authentication is disabled
}

// Handlers aggregates all HTTP handlers that the server needs to register.
// Refresh is optional; nil leaves the trigger endpoint unregistered.
type Handlers struct {
	Health  *handler.HealthHandler
	Games   *handler.GameHandler
	Slip    *handler.SlipHandler
	Wagers  *handler.WagerHandler
	Refresh *handler.RefreshHandler
}

// Server is the headless HTTP + WebSocket API server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a Server with all routes registered on the ServeMux and
// the middleware chain (auth, logging, rate limit, CORS) wired up. limiter
// may be nil, in which case per-IP rate limiting is skipped.
func NewServer(
	cfg Config,
	handlers Handlers,
	wsHub *ws.Hub,
	limiter domain.RateLimiter,
	logger *slog.Logger,
) *Server {
	mux := http.NewServeMux()

	// Health check (no auth required).
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Games and boards.
	mux.HandleFunc("GET /api/games", handlers.Games.ListGames)
	mux.HandleFunc("GET /api/games/{id}", handlers.Games.GetGame)
	mux.HandleFunc("GET /api/games/{id}/board", handlers.Games.GetBoard)

	// Bet slip.
	mux.HandleFunc("GET /api/slip", handlers.Slip.GetSlip)
	mux.HandleFunc("DELETE /api/slip", handlers.Slip.ClearSlip)
	mux.HandleFunc("POST /api/slip/legs", handlers.Slip.AddLeg)
	mux.HandleFunc("DELETE /api/slip/legs/{id}", handlers.Slip.RemoveLeg)
	mux.HandleFunc("PUT /api/slip/wager", handlers.Slip.SetWager)
	mux.HandleFunc("POST /api/slip/submit", handlers.Slip.Submit)

	// Wager history.
	mux.HandleFunc("GET /api/wagers", handlers.Wagers.ListWagers)

	// Manual refresh trigger (only in modes running the pipeline).
	if handlers.Refresh != nil {
		mux.HandleFunc("POST /api/refresh", handlers.Refresh.TriggerRefresh)
	}

	// WebSocket endpoint.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	// Build the middleware chain, innermost first.
	var h http.Handler = mux
	h = middleware.Auth(cfg.APIToken)(h)
	h = middleware.Logging(logger)(h)
	if limiter != nil {
		h = middleware.RateLimit(limiter, apiRateLimit, time.Minute)(h)
	}
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

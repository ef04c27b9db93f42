package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/oddslip/oddslip/internal/pipeline"
	"github.com/oddslip/oddslip/internal/server"
	"github.com/oddslip/oddslip/internal/server/handler"
	"github.com/oddslip/oddslip/internal/server/ws"
	"github.com/oddslip/oddslip/internal/service"
	"github.com/oddslip/oddslip/internal/slip"
	"github.com/oddslip/oddslip/internal/submit"
)

// ServeMode runs the API surface only: boards served from the cache and
// store, the per-session slips, and the WebSocket hub. Nothing polls the
// feed; an external refresh process keeps the data current.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startServer(ctx, g, deps, nil, nil)
	return g.Wait()
}

// RefreshMode runs the quote refresh loop only, for deployments that split
// polling from serving.
func (a *App) RefreshMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting refresh mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startRefresher(ctx, g, deps)
	return g.Wait()
}

// ArchiveMode runs the cold-storage archival loop only.
func (a *App) ArchiveMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting archive mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startArchiver(ctx, g, deps)
	return g.Wait()
}

// FullMode runs everything in one process: refresh loop, archival loop, and
// the API server with a manual refresh trigger.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)

	var triggerCh chan<- struct{}
	if a.cfg.Pipeline.Enabled {
		triggerCh = a.startRefresher(ctx, g, deps)
		a.startArchiver(ctx, g, deps)
	} else {
		a.logger.WarnContext(ctx, "pipeline.enabled is false, running API only")
	}

	boardSvc := a.newBoardService(deps)
	if a.cfg.Server.Enabled {
		a.startServer(ctx, g, deps, boardSvc, triggerCh)
	}

	return g.Wait()
}

// newBoardService builds the board service shared by the server and the
// refresher.
func (a *App) newBoardService(deps *Dependencies) *service.BoardService {
	return service.NewBoardService(deps.Games, deps.Quotes, deps.Boards, a.logger)
}

// slipConfig maps the configured slip limits onto the slip package config,
// falling back to package defaults for zero values.
func (a *App) slipConfig() slip.Config {
	cfg := slip.DefaultConfig()
	if a.cfg.Slip.MaxLegs > 0 {
		cfg.MaxLegs = a.cfg.Slip.MaxLegs
	}
	if a.cfg.Slip.MinStartBuffer.Duration > 0 {
		cfg.MinStartBuffer = a.cfg.Slip.MinStartBuffer.Duration
	}
	if a.cfg.Slip.MaxWager > 0 {
		cfg.MaxWager = decimal.NewFromFloat(a.cfg.Slip.MaxWager)
	}
	if a.cfg.Slip.DefaultWager > 0 {
		cfg.DefaultWager = decimal.NewFromFloat(a.cfg.Slip.DefaultWager)
	}
	return cfg
}

// startRefresher adds the quote refresh loop to the errgroup and returns its
// manual trigger channel.
func (a *App) startRefresher(ctx context.Context, g *errgroup.Group, deps *Dependencies) chan<- struct{} {
	interval := a.cfg.Pipeline.RefreshInterval.Duration
	if interval <= 0 {
		interval = time.Minute
	}

	refresher := pipeline.NewRefresher(
		deps.Feed,
		deps.Games,
		deps.Quotes,
		a.newBoardService(deps),
		deps.SignalBus,
		a.cfg.Feed.Sports,
		a.logger,
	)
	g.Go(func() error {
		err := refresher.RunLoop(ctx, interval)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil && deps.Notifier != nil {
			_ = deps.Notifier.RefreshFailed(context.Background(), err)
		}
		return err
	})
	return refresher.TriggerChan()
}

// startArchiver adds the quote archival loop to the errgroup.
func (a *App) startArchiver(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	interval := a.cfg.Pipeline.ArchiveInterval.Duration
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	archiver := pipeline.NewArchiver(
		deps.Archiver,
		deps.Quotes,
		deps.Locks,
		a.cfg.Pipeline.ArchiveRetentionDays,
		a.logger,
	)
	g.Go(func() error {
		err := archiver.RunLoop(ctx, interval)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})
}

// startServer wires the services and handlers and adds the HTTP server and
// WebSocket hub to the errgroup. boardSvc may be nil, in which case a fresh
// one is built. refreshTrigger is optional; when non-nil, POST /api/refresh
// sends on it to request one refresh pass.
func (a *App) startServer(
	ctx context.Context,
	g *errgroup.Group,
	deps *Dependencies,
	boardSvc *service.BoardService,
	refreshTrigger chan<- struct{},
) {
	if boardSvc == nil {
		boardSvc = a.newBoardService(deps)
	}

	submitClient := submit.NewClient(submit.ClientConfig{
		BaseURL:      a.cfg.Sportsbook.BaseURL,
		APIKey:       a.cfg.Sportsbook.APIKey,
		Timeout:      a.cfg.Sportsbook.Timeout.Duration,
		MaxPerMinute: a.cfg.Sportsbook.MaxPerMinute,
	}, deps.RateLimiter, a.logger)

	wagerSvc := service.NewWagerService(submitClient, deps.Wagers, deps.SignalBus, deps.Notifier, a.logger)
	slips := slip.NewManager(wagerSvc.ForSession, a.slipConfig(), a.logger)

	hub := ws.NewHub(deps.SignalBus, a.logger)
	g.Go(func() error {
		if err := hub.Run(ctx); ctx.Err() == nil {
			return err
		}
		return nil
	})

	handlers := server.Handlers{
		Health: handler.NewHealthHandler(a.logger),
		Games:  handler.NewGameHandler(boardSvc, a.logger),
		Slip:   handler.NewSlipHandler(slips, a.logger),
		Wagers: handler.NewWagerHandler(wagerSvc, a.logger),
	}
	if refreshTrigger != nil {
		handlers.Refresh = handler.NewRefreshHandler(a.logger).WithTriggerChannel(refreshTrigger)
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIToken:    a.cfg.Server.APIToken,
	}, handlers, hub, deps.RateLimiter, a.logger)

	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
}

package server

import (
	"context"
	"time"

	"BuyBio/internal/scheduler"
	"BuyBio/pkg/config"
	xhttp "BuyBio/pkg/http"
	applogger "BuyBio/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	scheduler  *scheduler.Scheduler
}

// New creates a new App. sched may be nil when scheduled ranking is disabled.
func New(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, sched *scheduler.Scheduler) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{cfg: cfg, log: l, httpServer: srv, scheduler: sched}
}

// Run starts the HTTP server and the scheduler and blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	if a.scheduler != nil {
		a.scheduler.Start()
		a.log.Info("scheduled ranking enabled",
			applogger.String("spec", a.cfg.Scheduler.Spec),
			applogger.Int("limit", a.cfg.Scheduler.Limit),
		)
	}

	a.log.Info("service started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("market_source", a.cfg.Market.Source),
		applogger.String("indicator_library", a.cfg.Analysis.IndicatorLibrary),
	)

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if a.scheduler != nil {
		a.scheduler.Stop(ctx)
	}

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		return err
	}

	a.log.Info("shutdown complete")
	return nil
}

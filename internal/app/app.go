// Package app assembles the store, classifier, gate engine, badge countdown,
// audit log and transports from a config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/intentgate/internal/audit"
	"github.com/ppiankov/intentgate/internal/badge"
	"github.com/ppiankov/intentgate/internal/classifier"
	"github.com/ppiankov/intentgate/internal/config"
	"github.com/ppiankov/intentgate/internal/gate"
	"github.com/ppiankov/intentgate/internal/message"
	"github.com/ppiankov/intentgate/internal/server"
	"github.com/ppiankov/intentgate/internal/settings"
	"github.com/ppiankov/intentgate/internal/store"
)

// App owns every long-lived component of the daemon.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Store     store.Store
	Engine    *gate.Engine
	Badge     *badge.StatePainter
	Countdown *badge.Countdown
	Server    *server.Server

	auditLog *audit.Log
}

// Open wires the components described by cfg. A classifier that fails to
// load is logged and the engine runs without one, which ungates everything.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	a := &App{Config: cfg, Logger: logger, Store: st}

	opts := []gate.Option{
		gate.WithLogger(logger),
		gate.WithInstallDefaults(cfg.InstallDefaults()),
	}

	if cfg.AuditLog != "" {
		a.auditLog, err = audit.Open(cfg.AuditLog)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to open audit log: %w", err)
		}
		opts = append(opts, gate.WithAudit(a.auditLog))
	}

	var predictor gate.Predictor
	c, err := classifier.Load(cfg.Model.Name, cfg.Model.Dir)
	if err != nil {
		logger.Error("classifier unavailable, gating disabled", "model", cfg.Model.Name, "error", err)
	} else {
		predictor = c
	}

	tabs := &engineTabs{}
	a.Badge = badge.NewStatePainter(&badge.LogPainter{Logger: logger})
	a.Countdown = badge.NewCountdown(tabs, tabs, a.Badge,
		badge.WithInterval(cfg.Badge.Interval),
		badge.WithLogger(logger))
	opts = append(opts, gate.WithCountdown(a.Countdown))

	a.Engine = gate.New(st, predictor, opts...)
	tabs.engine = a.Engine

	a.Server = server.New(a.Engine, server.Config{
		Addr:      cfg.Server.Addr,
		ModelName: cfg.Model.Name,
		ModelDir:  cfg.Model.Dir,
	}, server.WithLogger(logger), server.WithBadge(a.Badge.Text))

	return a, nil
}

// EnsureInstalled runs first-install seeding when the store has never been
// initialized.
func (a *App) EnsureInstalled(ctx context.Context) (bool, error) {
	doc, err := a.Store.Get(ctx, settings.KeyBlockedSites)
	if err != nil {
		return false, err
	}
	if _, ok := doc[settings.KeyBlockedSites]; ok {
		return false, nil
	}
	a.Logger.Info("first run, installing defaults", "sites", len(a.Config.DefaultSites))
	return true, a.Engine.Install(ctx)
}

// Start binds the engine to ctx and resumes the badge countdown.
func (a *App) Start(ctx context.Context) error {
	return a.Engine.Start(ctx)
}

// Router returns a message router over the engine.
func (a *App) Router() *message.Router {
	return message.NewRouter(a.Engine)
}

// Serve runs the gRPC server and, when enabled, the model reloader until
// ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	if a.Config.Model.Watch {
		reloader, err := server.NewReloader(a.Server, []string{a.Config.Model.Dir})
		if err != nil {
			a.Logger.Warn("hot-reload disabled", "error", err)
		} else if len(reloader.Paths()) > 0 {
			go reloader.Run(ctx)
			a.Logger.Info("watching model snapshots", "paths", reloader.Paths())
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- a.Server.Serve() }()

	select {
	case <-ctx.Done():
		a.Server.GracefulStop()
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

// Close stops the countdown and releases the audit log and store.
func (a *App) Close() error {
	a.Engine.Stop()
	var errs []error
	if a.auditLog != nil {
		errs = append(errs, a.auditLog.Close())
	}
	errs = append(errs, a.Store.Close())
	return errors.Join(errs...)
}

// engineTabs feeds the badge countdown from the engine, which is created
// after the countdown.
type engineTabs struct {
	engine *gate.Engine
}

func (t *engineTabs) ActiveURL() string {
	if t.engine == nil {
		return ""
	}
	return t.engine.ActiveURL()
}

func (t *engineTabs) Remaining(ctx context.Context, domain string, now time.Time) (time.Duration, error) {
	if t.engine == nil {
		return 0, nil
	}
	return t.engine.Whitelist().Remaining(ctx, domain, now)
}

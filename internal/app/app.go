package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/authstack/userauth/internal/config"
	"github.com/authstack/userauth/internal/observability"
	"github.com/authstack/userauth/internal/service"
)

// App bundles the assembled service with the handles needed to run and
// tear it down.
type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime
	Sessions      *service.SessionMaintenanceService

	db    *gorm.DB
	redis redis.UniversalClient
}

func newApp(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	sessions *service.SessionMaintenanceService,
	db *gorm.DB,
	client redis.UniversalClient,
) *App {
	return &App{
		Config:        cfg,
		Logger:        logger,
		Server:        server,
		Observability: runtime,
		Sessions:      sessions,
		db:            db,
		redis:         client,
	}
}

func provideObservability(ctx context.Context, cfg *config.Config) (*observability.Runtime, error) {
	return observability.InitRuntime(ctx, cfg)
}

func provideLogger(rt *observability.Runtime) *slog.Logger {
	return rt.Logger
}

// Run serves HTTP until the context is cancelled or a termination
// signal arrives, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("http server starting", "addr", a.Server.Addr, "profile", a.Config.Profile)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("shutdown requested")
		drainCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
		defer cancel()
		return a.Server.Shutdown(drainCtx)
	})

	return g.Wait()
}

// Close releases backing resources after the server has stopped.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := a.Observability.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

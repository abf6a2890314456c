// Package server wires configuration, storage, services and the HTTP layer
// into a runnable application with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/falconusers/internal/logging"
	"github.com/dmitrijs2005/falconusers/internal/server/assets"
	"github.com/dmitrijs2005/falconusers/internal/server/auth"
	"github.com/dmitrijs2005/falconusers/internal/server/config"
	"github.com/dmitrijs2005/falconusers/internal/server/metrics"
	"github.com/dmitrijs2005/falconusers/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/falconusers/internal/server/services"
	"github.com/dmitrijs2005/falconusers/internal/server/web"
)

// logOutput is a seam for tests.
var logOutput io.Writer = os.Stdout

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	server      *web.HTTPServer
}

// NewApp validates the configuration, opens and migrates the user store
// and builds the HTTP server.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(logOutput, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if c.UsesDefaultSecret() {
		logger.Warn(ctx, "token secret is not configured, falling back to the built-in default key; set JWT_SECRET_KEY")
	}

	rm, err := repomanager.New(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	uploader, err := assets.NewS3Uploader(ctx, c)
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("asset storage init error: %w", err)
	}

	handler := web.NewHandler(web.Deps{
		Users:         services.NewUserService(rm, c, logger),
		Admin:         services.NewAdminService(rm, c, logger),
		Uploader:      uploader,
		Resolver:      auth.NewResolver([]byte(c.SecretKey)),
		Routes:        auth.DefaultRouteTable(),
		Metrics:       metrics.New(),
		Logger:        logger,
		SecureCookies: c.IsProduction(),
	})

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		server:      web.NewHTTPServer(c.EndpointAddrHTTP, logger, handler),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is canceled or a termination signal arrives, then
// closes the user store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment, "database_driver", app.config.DatabaseDriver)

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "closing user store", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}

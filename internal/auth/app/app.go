package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/wayfarerhq/wayfarer/internal/auth/http"
	"github.com/wayfarerhq/wayfarer/internal/auth/mail"
	"github.com/wayfarerhq/wayfarer/internal/auth/service"
	"github.com/wayfarerhq/wayfarer/internal/auth/store"
	"github.com/wayfarerhq/wayfarer/internal/auth/store/drivers/sqlite"
	"github.com/wayfarerhq/wayfarer/pkg/clockx"
	"github.com/wayfarerhq/wayfarer/pkg/jwtx"
	"github.com/wayfarerhq/wayfarer/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger
	clock  clockx.Clock

	db    store.Store
	codec *jwtx.Codec

	// Email delivery: the queue is what services enqueue to; worker and
	// asyncQueue are only set when Redis is configured.
	mailQueue  mail.Queue
	asyncQueue *mail.AsyncQueue
	mailWorker *mail.Worker

	tokenService        *service.TokenService
	userService         *service.UserService
	resetService        *service.PasswordResetService
	authorizer          *service.Authorizer
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:   cfg,
		clock: clockx.SystemClock{},
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	codec, err := jwtx.NewCodec(cfg.SigningSecret, app.clock)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initMail()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	if app.mailWorker != nil {
		if err := app.mailWorker.Start(); err != nil {
			return fmt.Errorf("failed to start email worker: %w", err)
		}
	}

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.mailWorker != nil {
		app.mailWorker.Shutdown()
	}
	if app.asyncQueue != nil {
		if err := app.asyncQueue.Close(); err != nil {
			app.logger.Error("error closing email queue", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initMail wires email delivery. With Redis configured, emails flow through
// the asynq queue and worker; without it, they are delivered inline.
func (app *Application) initMail() {
	sender := mail.LogSender{}

	if app.cfg.RedisAddr == "" {
		app.mailQueue = mail.SyncQueue{Sender: sender}
		app.logger.Info("email delivery configured inline (no Redis)")
		return
	}

	app.asyncQueue = mail.NewAsyncQueue(app.cfg.RedisAddr)
	app.mailQueue = app.asyncQueue
	app.mailWorker = mail.NewWorker(app.cfg.RedisAddr, sender, app.logger)
	app.logger.Info("email delivery configured via queue", "redis_addr", app.cfg.RedisAddr)
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Codec:      app.codec,
		Store:      app.db,
		Clock:      app.clock,
		AccessTTL:  app.cfg.AccessTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
	}

	app.userService = &service.UserService{
		Store: app.db,
		Queue: app.mailQueue,
		Clock: app.clock,
	}

	app.resetService = &service.PasswordResetService{
		Store:    app.db,
		Queue:    app.mailQueue,
		Clock:    app.clock,
		ResetTTL: app.cfg.ResetCodeTTL,
	}

	app.authorizer = &service.Authorizer{Codec: app.codec}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.clock,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.Authorizer = app.authorizer
	router.TokenService = app.tokenService
	router.UserService = app.userService
	router.ResetService = app.resetService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

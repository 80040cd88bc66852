package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/accounts-api/internal/config"
	"github.com/phrazzld/accounts-api/internal/metrics"
	"github.com/phrazzld/accounts-api/internal/notify"
	"github.com/phrazzld/accounts-api/internal/platform/postgres"
	"github.com/phrazzld/accounts-api/internal/service"
	"github.com/phrazzld/accounts-api/internal/service/auth"
	"github.com/phrazzld/accounts-api/internal/store"
)

// dispatcherStopTimeout bounds how long shutdown waits for queued mail.
const dispatcherStopTimeout = 15 * time.Second

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService auth.JWTService
	accounts   service.AccountService
	dispatcher *notify.AsyncDispatcher
	metrics    *metrics.Metrics
}

// appDeps are the infrastructure pieces the application is assembled from.
// Production wiring backs them with Postgres and the configured mail driver.
type appDeps struct {
	accounts      store.AccountStore
	pendingEmails store.PendingEmailStore
	tx            store.TxRunner
	sender        notify.Sender
}

// newApplication creates a new application instance backed by db.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	sender, err := notify.NewSender(cfg.Mail, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mail sender: %w", err)
	}

	app, err := buildApplication(cfg, logger, appDeps{
		accounts:      postgres.NewPostgresAccountStore(db, logger),
		pendingEmails: postgres.NewPostgresPendingEmailStore(db, logger),
		tx:            store.NewSQLTxRunner(db),
		sender:        sender,
	})
	if err != nil {
		return nil, err
	}
	app.db = db
	return app, nil
}

// buildApplication wires services and starts the notification workers.
func buildApplication(cfg *config.Config, logger *slog.Logger, deps appDeps) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: metrics.New(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	hasher, err := auth.NewPasswordHasher(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	renderer, err := notify.NewRenderer(cfg.Server.PublicURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mail templates: %w", err)
	}

	dispatcherCfg := notify.DefaultAsyncDispatcherConfig()
	dispatcherCfg.QueueSize = cfg.Mail.QueueSize
	dispatcherCfg.WorkerCount = cfg.Mail.WorkerCount
	app.dispatcher = notify.NewAsyncDispatcher(renderer, deps.sender, dispatcherCfg, logger)

	app.accounts, err = service.NewAccountService(service.AccountServiceDeps{
		Accounts:      deps.accounts,
		PendingEmails: deps.pendingEmails,
		Tx:            deps.tx,
		Hasher:        hasher,
		Policy:        auth.NewStrengthPolicy(cfg.Auth.PasswordMinLength),
		Tokens:        app.jwtService,
		Notifier:      app.dispatcher,
		Observer:      app.metrics,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}

	app.dispatcher.Start()

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.dispatcher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), dispatcherStopTimeout)
		if err := app.dispatcher.Stop(ctx); err != nil {
			app.logger.Error("Notification dispatcher did not drain", "error", err)
		}
		cancel()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}

// Package server initializes and runs the airtime server: storage backend,
// engine, HTTP surface and graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airtimehq/airtime/internal/common"
	"github.com/airtimehq/airtime/internal/logging"
	"github.com/airtimehq/airtime/internal/server/auth"
	"github.com/airtimehq/airtime/internal/server/config"
	"github.com/airtimehq/airtime/internal/server/events"
	"github.com/airtimehq/airtime/internal/server/httpapi"
	"github.com/airtimehq/airtime/internal/server/payment"
	"github.com/airtimehq/airtime/internal/server/repositories/repomanager"
	"github.com/airtimehq/airtime/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	service *services.Service
	router  *httpapi.Router
}

// NewApp wires the full server from config. An empty DatabaseDSN selects the
// in-memory store; otherwise a PostgreSQL pool is opened and migrations run.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var (
		db    *sql.DB
		repos repomanager.RepositoryManager
		pay   payment.Processor
		err   error
	)
	if cfg.DatabaseDSN == "" {
		logger.Warn(ctx, "no database DSN configured, using in-memory store")
		repos = repomanager.NewMemoryRepositoryManager()
		pay = payment.NewMemoryProcessor()
	} else {
		db, err = sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		repos, err = repomanager.NewPostgresRepositoryManager(db)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := repos.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("migration error: %w", err)
		}
		pay = payment.NewPostgresProcessor(db)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	publisher := events.Multi{
		events.NewLogPublisher(logger),
		events.NewMetricsPublisher(registry),
	}

	svc := services.NewService(db, repos, auth.NewContextAuthenticator(), pay, publisher, logger)

	if err := svc.Init(ctx, cfg.AdminID, cfg.PaymentAssetID); err != nil {
		if !errors.Is(err, common.ErrAlreadyInitialized) {
			return nil, fmt.Errorf("store init error: %w", err)
		}
	} else {
		logger.Info(ctx, "store initialized", "admin", cfg.AdminID, "payment_asset", cfg.PaymentAssetID)
	}

	router := httpapi.NewRouter(svc, cfg.SecretKey, cfg.TokenValidity, registry, logger)

	return &App{config: cfg, logger: logger, db: db, service: svc, router: router}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives,
// then drains in-flight requests within shutdownTimeout.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.router.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err.Error())
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(shutdownCtx, "db close error", "error", err.Error())
		}
	}

	app.logger.Info(shutdownCtx, "server stopped")
	return nil
}

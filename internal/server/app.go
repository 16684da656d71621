// Package server wires the jobscreen components together and runs the HTTP
// API and the gRPC health endpoint until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/jobscreen/internal/cryptox"
	"github.com/dmitrijs2005/jobscreen/internal/logging"
	"github.com/dmitrijs2005/jobscreen/internal/server/auth"
	"github.com/dmitrijs2005/jobscreen/internal/server/classifier"
	"github.com/dmitrijs2005/jobscreen/internal/server/config"
	"github.com/dmitrijs2005/jobscreen/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jobscreen/internal/server/services"
	"github.com/dmitrijs2005/jobscreen/internal/server/shared/db"

	gs "github.com/dmitrijs2005/jobscreen/internal/server/grpc"
	hs "github.com/dmitrijs2005/jobscreen/internal/server/http"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *hs.HTTPServer
	grpcServer *gs.GRPCServer
}

// NewApp opens the store, applies migrations and builds every service. The
// returned App owns the store handle; Run closes it on exit.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
	}

	conn, err := db.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, conn *sql.DB) (*App, error) {
	rm := repomanager.NewSQLiteRepositoryManager()
	if err := rm.RunMigrations(ctx, conn); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	keywords, err := classifier.LoadKeywords(c.KeywordsFile)
	if err != nil {
		return nil, err
	}
	scorers := classifier.LoadScorers(ctx, logger, c.ModelPaths)
	cls := classifier.New(logger, keywords, classifier.WithScorers(scorers...))

	tokens, err := auth.NewTokenService(c.SecretKey, c.SigningAlgorithm, c.AccessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	analytics := services.NewAnalyticsService(conn, rm)
	svc := hs.Services{
		Users:       services.NewUserService(conn, rm, cryptox.NewPasswordHasher(c.PasswordHashCost), tokens, logger),
		Predictions: services.NewPredictionService(conn, rm, cls, logger),
		Flags:       services.NewFlagService(conn, rm, logger),
		Analytics:   analytics,
		Archive:     services.NewArchiveService(analytics, c, logger),
		Tokens:      tokens,
		ModelInfo:   cls.Info,
	}

	app := &App{
		config:     c,
		logger:     logger,
		db:         conn,
		httpServer: hs.NewHTTPServer(c.EndpointAddrHTTP, logger, svc),
	}
	if c.EndpointAddrGRPC != "" {
		app.grpcServer = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, conn.PingContext)
	}

	info := cls.Info()
	logger.Info(ctx, "classifier ready",
		"keywords_version", info.KeywordsVersion, "scorers", len(scorers), "policy", info.Policy)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or a server fails,
// then waits for both servers and closes the store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.grpcServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(context.Background(), "close store", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}

// Close releases the store handle.
func (app *App) Close() error {
	return app.db.Close()
}

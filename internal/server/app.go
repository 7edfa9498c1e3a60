// Package server initializes and runs the StickerFind application: it opens
// the database, applies migrations, ensures the bootstrap admin account and
// starts the HTTP endpoint with graceful shutdown.
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

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/qqtag/stickerfind/internal/logging"
	"github.com/qqtag/stickerfind/internal/server/config"
	"github.com/qqtag/stickerfind/internal/server/httpapi"
	"github.com/qqtag/stickerfind/internal/server/repositories/repomanager"
	"github.com/qqtag/stickerfind/internal/server/services"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	repos        repomanager.RepositoryManager
	userService  *services.UserService
	qrService    *services.QRService
	batchService *services.BatchService
	printService *services.PrintService
}

func NewApp(cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	return &App{
		config:       cfg,
		logger:       logger,
		db:           db,
		repos:        rm,
		userService:  services.NewUserService(db, rm, cfg),
		qrService:    services.NewQRService(db, rm),
		batchService: services.NewBatchService(db, rm),
		printService: services.NewPrintService(db, rm, cfg.ScanBaseURL),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewHTTPServer(app.config.EndpointAddr, app.logger,
		app.userService, app.qrService, app.batchService, app.printService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	if err := app.userService.EnsureAdmin(ctx, app.config.AdminEmail, app.config.AdminPassword); err != nil {
		return fmt.Errorf("admin bootstrap error: %w", err)
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	return nil
}

// Package server wires the timetable server: database, repositories,
// archive, notifications, the gRPC endpoint and the recompile schedule.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/titansafe/timetable/internal/logging"
	"github.com/titansafe/timetable/internal/server/archive"
	"github.com/titansafe/timetable/internal/server/config"
	"github.com/titansafe/timetable/internal/server/notify"
	"github.com/titansafe/timetable/internal/server/repositories/repomanager"
	"github.com/titansafe/timetable/internal/server/scheduler"
	"github.com/titansafe/timetable/internal/server/services"
	"github.com/titansafe/timetable/internal/timex"

	gs "github.com/titansafe/timetable/internal/server/grpc"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	notifier  notify.Notifier
	service   *services.TimetableService
	scheduler *scheduler.Scheduler
}

// openDB and newArchive are seams for tests.
var (
	openDB     = repomanager.OpenPostgres
	newArchive = func(ctx context.Context, c *config.Config) (archive.Archiver, error) {
		return archive.NewS3Archive(ctx, c)
	}
)

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel)

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	app, err := newApp(ctx, c, logger, db, rm)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	var archiver archive.Archiver = archive.Nop{}
	if c.ArchiveEnabled {
		a, err := newArchive(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("archive init error: %w", err)
		}
		archiver = a
	}

	var notifier notify.Notifier = notify.Nop{}
	if len(c.KafkaBrokers) > 0 {
		notifier = notify.NewKafkaNotifier(c.KafkaBrokers, c.KafkaTopic)
	}

	svc, err := services.NewTimetableService(db, rm, c, archiver, notifier, logger)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger, db: db, notifier: notifier, service: svc}

	if c.Schedule != "" {
		loc, err := timex.LoadLocation(c.Timezone)
		if err != nil {
			return nil, err
		}
		app.scheduler, err = scheduler.New(c.Schedule, c.ScheduledKeys, loc, svc, logger)
		if err != nil {
			return nil, err
		}
	}
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.service)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a signal arrives or ctx is done, then releases the
// database and the notifier.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.scheduler != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = app.scheduler.Run(ctx)
		}()
	}

	wg.Wait()
	app.close(context.Background())
}

func (app *App) close(ctx context.Context) {
	if err := app.notifier.Close(); err != nil {
		app.logger.Warn(ctx, "closing notifier", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}

// Package server initializes and runs the lanternhack application: storage
// backends, the HTTP endpoint, and the decay scheduler, with graceful
// shutdown on OS signals.
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

	"github.com/redis/go-redis/v9"

	"github.com/lanternhq/lanternhack/internal/logging"
	"github.com/lanternhq/lanternhack/internal/server/archive"
	"github.com/lanternhq/lanternhack/internal/server/config"
	"github.com/lanternhq/lanternhack/internal/server/decay"
	"github.com/lanternhq/lanternhack/internal/server/hack"
	"github.com/lanternhq/lanternhack/internal/server/httpapi"
	"github.com/lanternhq/lanternhack/internal/server/repositories/repomanager"
	"github.com/lanternhq/lanternhack/internal/server/rounds"
	"github.com/lanternhq/lanternhack/internal/server/sessions"
	signalengine "github.com/lanternhq/lanternhack/internal/server/signal"
	"github.com/lanternhq/lanternhack/internal/server/telemetry"
)

type App struct {
	config *config.Config
	logger logging.Logger

	db    *sql.DB
	redis *redis.Client
	repos repomanager.RepositoryManager

	httpServer *httpapi.Server
	scheduler  *decay.Scheduler
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	store := sessions.NewRedisStore(redisClient)

	repos := repomanager.NewPostgresRepositoryManager()

	hub := telemetry.NewHub(logger)
	notifier := telemetry.Multi{hub}
	if cfg.TelemetryEndpoint != "" {
		notifier = append(notifier, telemetry.NewHTTPNotifier(cfg.TelemetryEndpoint))
	}

	engine := signalengine.NewEngine(db, repos, notifier, logger, signalengine.Params{
		Baseline:         cfg.SignalBaseline,
		Threshold:        cfg.SignalThreshold,
		ChangePercentage: cfg.ChangePercentage,
		MaxStepChange:    cfg.MaxStepChange,
	})

	hackSvc := hack.NewService(db, repos, store, engine, hack.NewGenerator(), logger, cfg)
	roundsSvc := rounds.NewService(db, repos, store, archive.NewWriter(cfg), logger, cfg)

	httpServer := httpapi.NewServer(cfg.EndpointAddrHTTP, hackSvc, roundsSvc,
		repos.Stations(db), hub, logger, cfg.SecretKey)

	scheduler := decay.NewScheduler(db, repos, notifier, logger, cfg)

	return &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		redis:      redisClient,
		repos:      repos,
		httpServer: httpServer,
		scheduler:  scheduler,
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

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migrations failed", "error", err)
		return
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, "HTTP server failed", "error", err)
			cancelFunc()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.scheduler.Run(ctx); err != nil {
			app.logger.Error(ctx, "decay scheduler failed", "error", err)
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.redis.Close(); err != nil {
		app.logger.Warn(ctx, "closing redis client", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "closing db", "error", err)
	}

	app.logger.Info(ctx, "app stopped")
}

// Package main is the entry point for the fxdesk currency service.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fxdesk/internal/config"
	"fxdesk/internal/currency"
	"fxdesk/internal/provider"
	"fxdesk/internal/repository"
	"fxdesk/internal/service"
	"fxdesk/internal/store"
	"fxdesk/internal/worker"
)

type mode int

const (
	modeServe mode = iota
	modeUpdate
)

// App holds all application dependencies and manages their lifecycle.
type App struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
	mode   mode

	db       *sql.DB
	rdbCache *redis.Client
	rdbAsynq *redis.Client
	store    store.Store

	updater *service.Updater
	rates   *service.RateService
	convert *service.ConvertService
	market  *service.MarketService

	asynqClient *asynq.Client
	asynqServer *asynq.Server
	asynqMux    *asynq.ServeMux
	scheduler   *asynq.Scheduler
	enqueuer    *worker.AsynqEnqueuer
	monitor     *asynqmon.HTTPHandler
	httpServer  *http.Server
}

// NewApp initializes all dependencies and returns a ready-to-run App.
// modeUpdate only wires what a single refresh cycle needs.
func NewApp(cfg *config.Config, logger *zap.SugaredLogger, m mode) (*App, error) {
	app := &App{
		cfg:    cfg,
		logger: logger,
		mode:   m,
	}

	if err := app.initStorage(); err != nil {
		_ = app.close()
		return nil, err
	}

	app.initServices()

	if m == modeServe {
		if err := app.initWorker(); err != nil {
			_ = app.close()
			return nil, err
		}
		app.initHTTP()
	}

	return app, nil
}

// close releases database and Redis connections
func (app *App) close() error {
	var errs []error
	if app.monitor != nil {
		if err := app.monitor.Close(); err != nil {
			errs = append(errs, fmt.Errorf("asynqmon close: %w", err))
		}
	}
	if app.asynqClient != nil {
		if err := app.asynqClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("asynq client close: %w", err))
		}
	}
	if app.rdbAsynq != nil {
		if err := app.rdbAsynq.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis asynq close: %w", err))
		}
	}
	if app.rdbCache != nil {
		if err := app.rdbCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis cache close: %w", err))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("db close: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (app *App) initStorage() error {
	backend := app.cfg.Store.Backend

	// the rate cache is only needed by the server; the redis store needs it always
	if backend == config.BackendRedis || (app.mode == modeServe && app.cfg.Redis.CacheAddr != "") {
		app.rdbCache = redis.NewClient(&redis.Options{
			Addr: app.cfg.Redis.CacheAddr,
		})
		if err := app.rdbCache.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("connect to Redis (cache, %s): %w", app.cfg.Redis.CacheAddr, err)
		}
		app.logger.Infow("Connected to Redis cache", "addr", app.cfg.Redis.CacheAddr)
	}

	switch backend {
	case config.BackendFile:
		app.store = store.NewFileStore(app.cfg.Store.Dir)
		app.logger.Infow("Using file store", "dir", app.cfg.Store.Dir)
	case config.BackendRedis:
		app.store = store.NewRedisStore(app.rdbCache, app.cfg.Store.KeyPrefix)
		app.logger.Infow("Using Redis store", "prefix", app.cfg.Store.KeyPrefix)
	case config.BackendPostgres:
		db, pg, err := repository.NewPostgresDB(context.Background(), &app.cfg.Database, app.logger)
		if err != nil {
			return fmt.Errorf("connect to Postgres: %w", err)
		}
		app.db = db
		app.store = pg
		app.logger.Infow("Using Postgres store", "host", app.cfg.Database.Host)
	default:
		return fmt.Errorf("unknown store backend %q", backend)
	}
	return nil
}

func (app *App) initServices() {
	cfg := app.cfg
	erapi := provider.NewERAPIProvider(cfg.ERAPI.BaseURL, cfg.ERAPI.Timeout)
	meta := currency.MetadataFile(cfg.Static.MetaPath)

	gate := service.NewFreshnessGate(app.store, cfg.Updater.Sentinel, time.Now, app.logger)
	fetcher := service.NewFetcher(erapi, app.store, currency.Codes, cfg.Updater.FetchConcurrency, app.logger)
	comparator := service.NewComparator(app.store, currency.Codes, app.logger)
	app.updater = service.NewUpdater(gate, app.store, fetcher, comparator, cfg.Updater.Sentinel, app.logger)

	if app.mode != modeServe {
		return
	}

	app.rates = service.NewRateService(app.store, meta, app.logger)
	live := newLiveRates(cfg, erapi, app.rdbCache)
	app.convert = service.NewConvertService(live, live, currency.NewValidator(), meta, app.logger)
	app.market = service.NewMarketService(
		provider.NewNewsClient(cfg.News.BaseURL, cfg.News.APIKey, cfg.News.PageSize, cfg.News.Timeout),
		provider.NewHistoryClient(cfg.History.BaseURL, cfg.History.APIKey, cfg.History.Timeout),
		app.logger)
}

// newLiveRates chains er-api and Frankfurter, each behind the Redis rate cache.
// The chain serves both live rates and the supported currency list.
func newLiveRates(cfg *config.Config, erapi *provider.ERAPIProvider, cache *redis.Client) *provider.ExchangeProviderFacade {
	ttl := time.Duration(cfg.Cache.RateTTLSec) * time.Second

	providers := []provider.RatesProvider{
		provider.NewCachedRatesProvider(erapi, cache, ttl, "erapi"),
	}
	if cfg.Frankfurter.BaseURL != "" {
		p := provider.NewFrankfurterProvider(cfg.Frankfurter.BaseURL, cfg.Frankfurter.Timeout)
		providers = append(providers, provider.NewCachedRatesProvider(p, cache, ttl, "frankfurter"))
	}
	return provider.NewExchangeProviderFacade(providers...)
}

func (app *App) initWorker() error {
	redisOpt := asynq.RedisClientOpt{Addr: app.cfg.Redis.AsynqAddr}
	timeout := time.Duration(app.cfg.Worker.TimeoutSec) * time.Second

	app.rdbAsynq = redis.NewClient(&redis.Options{Addr: app.cfg.Redis.AsynqAddr})
	app.asynqClient = asynq.NewClient(redisOpt)
	app.asynqServer = asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:              app.cfg.Worker.Concurrency,
			DelayedTaskCheckInterval: time.Duration(app.cfg.Worker.CheckIntervalSec) * time.Second,
			TaskCheckInterval:        time.Duration(app.cfg.Worker.CheckIntervalSec) * time.Second,
			Logger:                   app.logger,
		},
	)
	app.logger.Infow("Asynq configured", "addr", app.cfg.Redis.AsynqAddr)

	app.enqueuer = worker.NewAsynqEnqueuer(app.asynqClient, timeout)

	scheduler, err := worker.NewScheduler(redisOpt, app.cfg.Updater.Cron, app.enqueuer, app.logger)
	if err != nil {
		return err
	}
	app.scheduler = scheduler

	app.asynqMux = asynq.NewServeMux()
	app.asynqMux.HandleFunc(worker.TaskTypeRefreshRates, worker.NewRefreshHandler(app.updater, app.logger))

	if app.cfg.Server.ServeAsynqmon {
		app.monitor = asynqmon.New(asynqmon.Options{
			RootPath:     "/monitoring",
			RedisConnOpt: redisOpt,
		})
	}
	return nil
}

// Run starts the HTTP server, Asynq worker and scheduler, blocking until the context is canceled.
func (app *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Infow("Starting Asynq worker server")
		if err := app.asynqServer.Start(app.asynqMux); err != nil {
			return fmt.Errorf("asynq worker failed to start: %w", err)
		}

		<-ctx.Done()
		return nil
	})

	g.Go(func() error {
		app.logger.Infow("Starting refresh scheduler", "cron", app.cfg.Updater.Cron)
		if err := app.scheduler.Start(); err != nil {
			return fmt.Errorf("scheduler failed to start: %w", err)
		}

		<-ctx.Done()
		return nil
	})

	g.Go(func() error {
		app.logger.Infow("HTTP server listening", "port", app.cfg.Server.Port)
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown: triggered by context cancellation (signal or component failure).
	g.Go(func() error {
		<-ctx.Done()
		return app.shutdown()
	})

	return g.Wait()
}

// shutdown performs ordered teardown: HTTP server -> scheduler -> Asynq worker -> connections.
func (app *App) shutdown() error {
	app.logger.Infow("Shutting down server...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 1. Stop accepting new HTTP requests, drain in-flight
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Errorw("HTTP server shutdown error", "error", err)
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	// 2. Stop enqueuing scheduled cycles, then drain the running one
	app.scheduler.Shutdown()
	app.asynqServer.Shutdown()

	// 3. Close connections (asynq client, Redis, database)
	if err := app.close(); err != nil {
		app.logger.Errorw("Connection cleanup errors", "error", err)
		errs = append(errs, err)
	}

	app.logger.Infow("Shutdown complete")
	return errors.Join(errs...)
}

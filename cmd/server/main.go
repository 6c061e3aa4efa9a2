package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/gobank/internal/adapter/http"
	"github.com/iho/gobank/internal/adapter/http/handler"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	memoryRepo "github.com/iho/gobank/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gobank/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gobank/internal/adapter/repository/redis"
	"github.com/iho/gobank/internal/infrastructure/auth"
	"github.com/iho/gobank/internal/infrastructure/config"
	"github.com/iho/gobank/internal/infrastructure/eventpublisher"
	"github.com/iho/gobank/internal/infrastructure/logger"
	"github.com/iho/gobank/internal/infrastructure/metrics"
	"github.com/iho/gobank/internal/infrastructure/postgres"
	"github.com/iho/gobank/internal/infrastructure/redis"
	"github.com/iho/gobank/internal/infrastructure/scheduler"
	"github.com/iho/gobank/internal/usecase"
)

const (
	jobTimeout        = 5 * time.Minute
	streamMaxLen      = 100000
	limiterIdleWindow = 30 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// storage groups the repositories of one storage driver.
type storage struct {
	txManager usecase.TransactionManager
	accounts  usecase.AccountRepository
	txns      usecase.TransactionRepository
	outbox    usecase.OutboxRepository
	customers usecase.CustomerRepository
	branches  usecase.BranchRepository
	cards     usecase.CardRepository
	loans     usecase.LoanRepository
	ping      handler.Pinger
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		store := memoryRepo.NewStore()
		return &storage{
			txManager: memoryRepo.NewTxManager(store),
			accounts:  memoryRepo.NewAccountRepository(store),
			txns:      memoryRepo.NewTransactionRepository(store),
			outbox:    memoryRepo.NewOutboxRepository(store),
			customers: memoryRepo.NewCustomerRepository(store),
			branches:  memoryRepo.NewBranchRepository(store),
			cards:     memoryRepo.NewCardRepository(store),
			loans:     memoryRepo.NewLoanRepository(store),
			close:     func() {},
		}, nil
	}

	if cfg.AutoMigrate {
		if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log).Up(); err != nil {
			return nil, err
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectRetries: cfg.DatabaseConnectRetries,
		Logger:         log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	return &storage{
		txManager: postgresRepo.NewTxManager(pool),
		accounts:  postgresRepo.NewAccountRepository(pool),
		txns:      postgresRepo.NewTransactionRepository(pool),
		outbox:    postgresRepo.NewOutboxRepository(pool),
		customers: postgresRepo.NewCustomerRepository(pool, postgresRepo.NewRetrier(log)),
		branches:  postgresRepo.NewBranchRepository(pool),
		cards:     postgresRepo.NewCardRepository(pool),
		loans:     postgresRepo.NewLoanRepository(pool),
		ping:      pool,
		close:     pool.Close,
	}, nil
}

// app is the assembled server.
type app struct {
	router    http.Handler
	publisher *eventpublisher.EventPublisher
	scheduler *scheduler.Scheduler
	closers   []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	a := &app{}

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, st.close)

	m := metrics.New(reg)

	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
		eventSink        eventpublisher.Publisher
		redisPing        handler.Pinger
	)

	if cfg.RedisEnabled {
		client, err := redis.NewClientWithRetry(ctx, cfg.RedisURL, cfg.DatabaseConnectRetries)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { client.Close() })
		log.Info().Msg("connected to redis")

		cache = redisRepo.NewCache(client)
		idempotencyStore = redisRepo.NewIdempotencyStore(client)
		eventSink = redisRepo.NewStreamPublisher(client, cfg.EventStream, streamMaxLen)
		redisPing = redisPinger(client)
	} else {
		log.Warn().Msg("redis disabled, idempotency keys are not honoured")
		cache = memoryRepo.NewCache()
		eventSink = eventpublisher.NewLogPublisher(log)
	}

	idGen := postgresRepo.NewULIDGenerator()

	ledgerUC := usecase.NewLedgerUseCase(st.txManager, st.accounts, st.txns, st.outbox, idGen, m, log)
	accountUC := usecase.NewAccountUseCase(st.txManager, st.accounts, st.outbox, idGen)
	reconUC := usecase.NewReconciliationUseCase(st.accounts, st.txns, cache)
	registryUC := usecase.NewRegistryUseCase(st.customers, st.branches, st.cards, st.loans, idGen)

	a.publisher = eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: st.outbox,
		Publisher:  eventSink,
		Logger:     log,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
		OnBatch:    m.ObservePublished,
	})

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m.RateLimitHits)

	a.scheduler = scheduler.New(log, jobTimeout)
	jobs := []struct {
		name string
		spec string
		job  scheduler.Job
	}{
		{"reconcile", cfg.ReconcileSchedule, reconcileJob(reconUC, m, log)},
		{"outbox-cleanup", cfg.OutboxCleanupSchedule, func(ctx context.Context) error {
			return a.publisher.Cleanup(ctx, cfg.OutboxRetention)
		}},
		{"rate-limiter-cleanup", "@every 10m", func(context.Context) error {
			rateLimiter.CleanupLimiters(limiterIdleWindow)
			return nil
		}},
	}
	for _, j := range jobs {
		if err := a.scheduler.Add(j.name, j.spec, j.job); err != nil {
			a.close()
			return nil, err
		}
	}

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	a.router = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(ledgerUC),
		AccountHandler:     handler.NewAccountHandler(accountUC, reconUC),
		RegistryHandler:    handler.NewRegistryHandler(registryUC),
		HealthHandler: handler.NewHealthHandler(map[string]handler.Pinger{
			"postgres": st.ping,
			"redis":    redisPing,
		}),
		Logger:           log,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		JWTManager:       jwtManager,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	return a, nil
}

func redisPinger(client *goredis.Client) handler.Pinger {
	return handler.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}

func reconcileJob(reconUC *usecase.ReconciliationUseCase, m *metrics.Metrics, log zerolog.Logger) scheduler.Job {
	return func(ctx context.Context) error {
		report, err := reconUC.ReconcileAllAccounts(ctx)
		if err != nil {
			return err
		}

		m.ObserveReconciliation(len(report.Discrepancies))
		if len(report.Discrepancies) > 0 {
			log.Warn().
				Int("discrepancies", len(report.Discrepancies)).
				Int("total_accounts", report.TotalAccounts).
				Msg("reconciliation found discrepancies")
		}

		return nil
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := buildApp(ctx, cfg, log, reg)
	if err != nil {
		return err
	}
	defer a.close()

	publisherCtx, stopPublisher := context.WithCancel(context.Background())
	publisherDone := make(chan struct{})
	go func() {
		defer close(publisherDone)
		if err := a.publisher.Start(publisherCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	a.scheduler.Start()

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      a.router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			stopPublisher()
			<-publisherDone
			return err
		}
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("scheduler did not stop in time")
	}

	stopPublisher()
	<-publisherDone

	log.Info().Msg("server stopped")
	return nil
}

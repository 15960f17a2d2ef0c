// Package main - точка входа для фонового воркера BIT College Records Hub.
//
// Воркер периодически проходит по всем студентам с вычисленным средним
// баллом и выверяет их академический статус. Обычно статус сходится
// сразу после ввода оценки, но ручные правки в базе и сбои между
// шагами сходимости оставляют запись в промежуточном состоянии -
// обход устраняет такой дрейф.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/bit-college/records-hub/config"
	"github.com/bit-college/records-hub/internal/application/command"
	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/standing"
	"github.com/bit-college/records-hub/internal/infrastructure/messaging"
	"github.com/bit-college/records-hub/internal/infrastructure/persistence/postgres"
	"github.com/bit-college/records-hub/internal/infrastructure/persistence/redis"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg)

	if !cfg.Worker.Enabled {
		log.Info("worker is disabled, exiting")
		return nil
	}

	log.Info("starting BIT College Records Hub worker",
		"env", cfg.App.Environment,
		"sweep_interval", cfg.Worker.StandingSweepInterval.String(),
		"batch_size", cfg.Worker.SweepBatchSize,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 2. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	if cfg.Database.AutoMigrate {
		log.Info("running database migrations...")
		if err := postgres.NewMigrator(dbConn).Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCache, err = redis.NewCache(redisConfigFrom(cfg.Redis))
		if err != nil {
			log.Warn("failed to connect to Redis, events stay local", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	// Через Redis шину API-инстансы узнают о смене статуса и сбрасывают
	// свои кеши карточек; без неё события остаются внутри воркера.
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.Logger = log
	busConfig.AsyncMode = true

	var eventBus shared.EventBus
	var closeBus func() error

	if redisCache != nil && cfg.Features.IsEnabled(config.FeatureEventsRedisBus, nil) {
		redisBus, err := messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
			Client:         redisCache.Client(),
			InstanceID:     instanceID(),
			LocalBusConfig: busConfig,
			Logger:         log,
		})
		if err != nil {
			return fmt.Errorf("failed to start redis event bus: %w", err)
		}
		eventBus = redisBus
		closeBus = redisBus.Close
	} else {
		localBus := messaging.NewInMemoryEventBus(busConfig)
		eventBus = localBus
		closeBus = localBus.Close
	}
	defer func() {
		_ = closeBus()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 5. РЕПОЗИТОРИИ И ОБРАБОТЧИК ВЫВЕРКИ
	// ─────────────────────────────────────────────────────────────────────────
	studentRepo := postgres.NewStudentRepository(dbConn)

	var standingRepo standing.Repository = postgres.NewStandingRepository(dbConn)
	if redisCache != nil && cfg.Features.IsEnabled(config.FeatureCacheStandingStates, nil) {
		standingRepo = redis.NewCachedStandingRepository(standingRepo, redisCache)
	}

	catalog := standing.NewCatalog(standingRepo)
	if err := catalog.EnsureAll(ctx); err != nil {
		return fmt.Errorf("failed to seed standing states: %w", err)
	}

	reconciler := command.NewReconcileStandingHandler(
		studentRepo, catalog, eventBus, command.ReconcileStandingHandlerConfig{})

	sweeper := &standingSweeper{
		studentRepo:   studentRepo,
		reconciler:    reconciler,
		batchSize:     cfg.Worker.SweepBatchSize,
		maxConcurrent: cfg.Worker.MaxConcurrentJobs,
		jobTimeout:    cfg.Worker.JobTimeout,
		logger:        log,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ЦИКЛ ОБХОДА И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sweepCtx, stopSweeps := context.WithCancel(ctx)
	defer stopSweeps()

	done := make(chan struct{})
	go func() {
		defer close(done)

		ticker := time.NewTicker(cfg.Worker.StandingSweepInterval)
		defer ticker.Stop()

		// Первый обход сразу при старте, не дожидаясь интервала.
		sweeper.runOnce(sweepCtx, cfg.Features)

		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				sweeper.runOnce(sweepCtx, cfg.Features)
			}
		}
	}()

	log.Info("worker is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigCh
	log.Info("received shutdown signal", "signal", sig.String())

	stopSweeps()

	select {
	case <-done:
		log.Info("shutdown completed successfully")
	case <-time.After(cfg.App.ShutdownTimeout):
		log.Warn("shutdown timed out, in-flight sweep abandoned")
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STANDING SWEEP
// ══════════════════════════════════════════════════════════════════════════════

// standingSweeper обходит студентов с GPA и выверяет их статус.
type standingSweeper struct {
	studentRepo   *postgres.StudentRepository
	reconciler    *command.ReconcileStandingHandler
	batchSize     int
	maxConcurrent int
	jobTimeout    time.Duration
	logger        *slog.Logger
}

// runOnce выполняет один полный обход. Ошибки отдельных студентов
// логируются и не прерывают обход.
func (s *standingSweeper) runOnce(ctx context.Context, features *config.FeatureFlags) {
	if !features.IsEnabled(config.FeatureStandingSweep, nil) {
		s.logger.Debug("standing sweep is disabled by feature flag")
		return
	}

	started := time.Now()
	correlationID := uuid.New().String()

	ids, err := s.studentRepo.ListGradedIDs(ctx)
	if err != nil {
		s.logger.Error("failed to list graded students", "error", err)
		return
	}
	if len(ids) == 0 {
		s.logger.Debug("no graded students, nothing to sweep")
		return
	}

	s.logger.Info("standing sweep started",
		"students", len(ids),
		"correlation_id", correlationID,
	)

	var reconciled, idle, failed int64
	var mu sync.Mutex

	for start := 0; start < len(ids); start += s.batchSize {
		if ctx.Err() != nil {
			s.logger.Info("standing sweep interrupted", "processed", start)
			return
		}

		end := start + s.batchSize
		if end > len(ids) {
			end = len(ids)
		}

		var wg sync.WaitGroup
		sem := make(chan struct{}, s.maxConcurrent)

		for _, id := range ids[start:end] {
			wg.Add(1)
			sem <- struct{}{}

			go func(studentID shared.RecordID) {
				defer wg.Done()
				defer func() { <-sem }()

				jobCtx, cancel := context.WithTimeout(ctx, s.jobTimeout)
				defer cancel()

				result, err := s.reconciler.Handle(jobCtx, command.ReconcileStandingCommand{
					StudentID:     studentID,
					CorrelationID: correlationID,
				})

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err != nil:
					failed++
					s.logger.Warn("standing reconciliation failed",
						"student_id", string(studentID),
						"error", err,
					)
				case result.StepsPersisted > 0:
					reconciled++
				default:
					idle++
				}
			}(id)
		}

		wg.Wait()
	}

	s.logger.Info("standing sweep completed",
		"students", len(ids),
		"reconciled", reconciled,
		"already_consistent", idle,
		"failed", failed,
		"duration", time.Since(started).String(),
		"correlation_id", correlationID,
	)
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Observability.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" || cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

// redisConfigFrom переводит конфигурацию приложения в настройки клиента.
func redisConfigFrom(cfg config.RedisConfig) redis.Config {
	rc := redis.DefaultConfig()
	rc.Host = cfg.Host
	rc.Port = cfg.Port
	rc.Password = cfg.Password
	rc.DB = cfg.DB
	if cfg.PoolSize > 0 {
		rc.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		rc.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		rc.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		rc.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		rc.WriteTimeout = cfg.WriteTimeout
	}
	return rc
}

// instanceID возвращает уникальный идентификатор инстанса для фильтрации
// собственных событий в Redis pub/sub.
func instanceID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "records-hub-worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}

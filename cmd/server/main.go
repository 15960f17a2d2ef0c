// Package main - точка входа для API сервера BIT College Records Hub.
//
// Сервер обслуживает REST API учёта студентов: зачисление, регистрация
// на курсы, выставление оценок и выверка академического статуса.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: реализация репозиториев, кеши, шина событий
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bit-college/records-hub/config"

	// Application layer
	"github.com/bit-college/records-hub/internal/application/command"
	"github.com/bit-college/records-hub/internal/application/eventhandler"
	"github.com/bit-college/records-hub/internal/application/query"

	// Domain layer
	"github.com/bit-college/records-hub/internal/domain/sequence"
	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/standing"
	"github.com/bit-college/records-hub/internal/domain/student"

	// Infrastructure layer
	"github.com/bit-college/records-hub/internal/infrastructure/messaging"
	"github.com/bit-college/records-hub/internal/infrastructure/persistence/postgres"
	"github.com/bit-college/records-hub/internal/infrastructure/persistence/redis"

	// Interface layer
	httpserver "github.com/bit-college/records-hub/internal/interface/http"
	"github.com/bit-college/records-hub/internal/interface/http/handlers"

	// Packages
	"github.com/bit-college/records-hub/pkg/logger"
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

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting BIT College Records Hub API",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
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

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.AutoMigrate {
		log.Info("running database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		status, err := migrator.Status(ctx)
		if err != nil {
			log.Warn("failed to get migration status", "error", err)
		} else {
			appliedCount := 0
			for _, m := range status {
				if m.IsApplied {
					appliedCount++
				}
			}
			log.Info("migrations completed", "applied", appliedCount, "total", len(status))
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCache, err = redis.NewCache(redisConfigFrom(cfg.Redis))
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	studentRepo := postgres.NewStudentRepository(dbConn)
	courseRepo := postgres.NewCourseRepository(dbConn)
	registrationRepo := postgres.NewRegistrationRepository(dbConn)
	sequenceRepo := postgres.NewSequenceRepository(dbConn)

	var standingRepo standing.Repository = postgres.NewStandingRepository(dbConn)
	if redisCache != nil && cfg.Features.IsEnabled(config.FeatureCacheStandingStates, nil) {
		standingRepo = redis.NewCachedStandingRepository(standingRepo, redisCache)
	}

	var studentCache student.Cache
	if redisCache != nil && cfg.Features.IsEnabled(config.FeatureCacheStudentCards, nil) {
		studentCache = redis.NewStudentCache(redisCache)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
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
		log.Info("cross-instance event bus enabled", "channel", messaging.DefaultEventChannel)
	} else {
		localBus := messaging.NewInMemoryEventBus(busConfig)
		eventBus = localBus
		closeBus = localBus.Close
	}
	defer func() {
		log.Info("closing event bus...")
		_ = closeBus()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. СПРАВОЧНИК СТАТУСОВ И ГЕНЕРАТОР НОМЕРОВ
	// ─────────────────────────────────────────────────────────────────────────
	catalog := standing.NewCatalog(standingRepo)
	if err := catalog.EnsureAll(ctx); err != nil {
		return fmt.Errorf("failed to seed standing states: %w", err)
	}
	log.Info("standing states verified")

	generator := sequence.NewGenerator(sequenceRepo,
		sequence.WithRetryBudget(cfg.Sequence.RetryBudget))

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	reconciler := command.NewReconcileStandingHandler(
		studentRepo, catalog, eventBus, command.ReconcileStandingHandlerConfig{})

	enrollStudent := command.NewEnrollStudentHandler(studentRepo, generator, catalog, eventBus)
	updateStudent := command.NewUpdateStudentHandler(studentRepo, eventBus)
	archiveStudent := command.NewArchiveStudentHandler(studentRepo, eventBus)
	createCourse := command.NewCreateCourseHandler(courseRepo, generator, eventBus)
	updateCourse := command.NewUpdateCourseHandler(courseRepo, eventBus)
	deleteCourse := command.NewDeleteCourseHandler(courseRepo, registrationRepo, eventBus)
	registerCourse := command.NewRegisterCourseHandler(
		registrationRepo, studentRepo, courseRepo, generator, reconciler, eventBus)
	recordGrade := command.NewRecordGradeHandler(
		registrationRepo, studentRepo, courseRepo, reconciler, eventBus)
	dropRegistration := command.NewDropRegistrationHandler(
		registrationRepo, studentRepo, courseRepo, reconciler, eventBus)

	getStudent := query.NewGetStudentHandler(studentRepo, studentCache, catalog)
	getTranscript := query.NewGetTranscriptHandler(studentRepo, registrationRepo, courseRepo)
	listStudents := query.NewListStudentsHandler(studentRepo)
	listCourses := query.NewListCoursesHandler(courseRepo)
	getCourse := query.NewGetCourseHandler(courseRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. РЕГИСТРАЦИЯ EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	if studentCache != nil {
		log.Info("registering cache invalidation handlers...")

		standingChanged := eventhandler.NewOnStandingChangedHandler(studentCache, log)
		if err := eventBus.Subscribe(shared.EventStandingChanged, standingChanged.Handle); err != nil {
			return fmt.Errorf("failed to subscribe standing handler: %w", err)
		}

		gradeRecorded := eventhandler.NewOnGradeRecordedHandler(studentCache, log)
		if err := eventBus.Subscribe(shared.EventGradeRecorded, gradeRecorded.Handle); err != nil {
			return fmt.Errorf("failed to subscribe grade handler: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. HEALTH CHECKS
	// ─────────────────────────────────────────────────────────────────────────
	healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	healthChecker.AddCheck("database", handlers.NewDatabaseCheck(dbConn))
	if redisCache != nil {
		healthChecker.AddCheck("cache", handlers.NewCacheCheck(redisCache))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 12. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpConfig.RegistrarCredentials = cfg.HTTP.RegistrarCredentials

	httpDeps := httpserver.Dependencies{
		EnrollStudentHandler:     enrollStudent,
		UpdateStudentHandler:     updateStudent,
		ArchiveStudentHandler:    archiveStudent,
		CreateCourseHandler:      createCourse,
		UpdateCourseHandler:      updateCourse,
		DeleteCourseHandler:      deleteCourse,
		RegisterCourseHandler:    registerCourse,
		RecordGradeHandler:       recordGrade,
		DropRegistrationHandler:  dropRegistration,
		ReconcileStandingHandler: reconciler,
		GetStudentHandler:        getStudent,
		GetTranscriptHandler:     getTranscript,
		ListStudentsHandler:      listStudents,
		ListCoursesHandler:       listCourses,
		GetCourseHandler:         getCourse,
		Logger:                   logger.Default(),
		HealthChecker:            healthChecker,
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 13. ЗАПУСК И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)

	go func() {
		log.Info("starting HTTP server", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	log.Info("BIT College Records Hub API is running",
		"http_address", httpServer.Address(),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
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
		host = "records-hub"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}

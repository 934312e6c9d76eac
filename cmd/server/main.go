// Package main - точка входа для HTTP-сервера портала стипендий.
//
// Портал считает merit score студентов по правилам начисления, проводит
// заявки через проверку кураторами и показывает место студента в его
// когорте (колледж + год поступления).
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: репозитории, сессии, шина событий, планировщик
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

	"github.com/joho/godotenv"

	// Application layer
	"github.com/gradpath/merit-portal/internal/application/command"
	"github.com/gradpath/merit-portal/internal/application/eventhandler"
	"github.com/gradpath/merit-portal/internal/application/query"

	// Domain layer
	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/student"

	// Infrastructure layer
	"github.com/gradpath/merit-portal/internal/infrastructure/messaging"
	"github.com/gradpath/merit-portal/internal/infrastructure/persistence/postgres"
	"github.com/gradpath/merit-portal/internal/infrastructure/persistence/redis"
	"github.com/gradpath/merit-portal/internal/infrastructure/scheduler"
	"github.com/gradpath/merit-portal/internal/infrastructure/scheduler/jobs"
	"github.com/gradpath/merit-portal/internal/infrastructure/service"

	// Interface layer
	httpserver "github.com/gradpath/merit-portal/internal/interface/http"
	"github.com/gradpath/merit-portal/internal/interface/http/handlers"

	// Packages
	"github.com/gradpath/merit-portal/config"
	"github.com/gradpath/merit-portal/pkg/logger"
	"github.com/gradpath/merit-portal/pkg/retry"
)

const appVersion = "1.0.0"

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
	// .env отсутствует в production: конфигурация приходит из окружения.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting merit portal",
		"version", appVersion,
		"env", string(cfg.App.Environment),
		"timezone", cfg.App.Timezone,
	)

	appLogger := logger.New(logger.Options{
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.Observability.LogCaller,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")

	var dbConn *postgres.Connection
	err = retry.StartupRetrier().Do(ctx, func(ctx context.Context) error {
		var connErr error
		dbConn, connErr = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		return connErr
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()
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
	// 5. ПОДКЛЮЧЕНИЕ К REDIS (сессии + pub/sub)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to Redis...")

	redisCfg := redis.DefaultConfig()
	redisCfg.Host = cfg.Redis.Host
	redisCfg.Port = cfg.Redis.Port
	redisCfg.Password = cfg.Redis.Password
	redisCfg.DB = cfg.Redis.DB
	redisCfg.PoolSize = cfg.Redis.PoolSize
	redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
	redisCfg.DialTimeout = cfg.Redis.DialTimeout
	redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
	redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

	var redisCache *redis.Cache
	err = retry.StartupRetrier().Do(ctx, func(ctx context.Context) error {
		var cacheErr error
		redisCache, cacheErr = redis.NewCache(redisCfg)
		return cacheErr
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer func() {
		log.Info("closing Redis connection...")
		_ = redisCache.Close()
	}()
	log.Info("Redis connection established")

	sessionStore := redis.NewSessionStore(redisCache)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ EVENT BUS + DISPATCHER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")

	localBusConfig := messaging.DefaultInMemoryEventBusConfig()
	localBusConfig.Logger = log

	var eventBus shared.EventBus
	var closeBus func() error
	if cfg.Redis.SharedEventBus {
		redisBus, err := messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
			Client:         messaging.NewGoRedisClient(redisCache.Client()),
			LocalBusConfig: localBusConfig,
			Logger:         log,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis event bus: %w", err)
		}
		eventBus = redisBus
		closeBus = redisBus.Close
		log.Info("using shared Redis event bus")
	} else {
		localBus := messaging.NewInMemoryEventBus(localBusConfig)
		eventBus = localBus
		closeBus = localBus.Close
	}
	defer func() {
		log.Info("closing event bus...")
		_ = closeBus()
	}()

	dispatcherConfig := messaging.DefaultDispatcherConfig(eventBus)
	dispatcherConfig.Logger = log
	dispatcher := messaging.NewDispatcher(dispatcherConfig)
	dispatcher.Use(messaging.RecoveryMiddleware(log))
	dispatcher.Use(messaging.LoggingMiddleware(log))

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ И СЕРВИСОВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")

	studentRepo := postgres.NewStudentRepository(dbConn)
	counselorRepo := postgres.NewCounselorRepository(dbConn)
	submissionRepo := postgres.NewSubmissionRepository(dbConn)
	ruleRepo := postgres.NewRuleRepository(dbConn)
	notificationRepo := postgres.NewNotificationRepository(dbConn)
	accountRepo := postgres.NewAccountRepository(dbConn)

	uowFactory := postgres.NewUnitOfWorkFactory(dbConn)
	idGenerator := service.NewUUIDGenerator()
	passwordHasher := service.NewBcryptHasher(cfg.Scoring.BcryptCost)

	weights, err := student.NewScoreWeights(
		cfg.Scoring.AcademicComprehensiveWeight,
		cfg.Scoring.AcademicExpertiseWeight,
		cfg.Scoring.ComprehensivePerformanceWeight,
	)
	if err != nil {
		return fmt.Errorf("invalid score weights: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	loginCmd := command.NewLoginHandler(accountRepo, passwordHasher, sessionStore, idGenerator, cfg.Session.TTL)
	logoutCmd := command.NewLogoutHandler(sessionStore)
	registerStudentCmd := command.NewRegisterStudentHandler(uowFactory, idGenerator, passwordHasher, eventBus)
	registerCounselorCmd := command.NewRegisterCounselorHandler(uowFactory, idGenerator, passwordHasher)
	createSubmissionCmd := command.NewCreateSubmissionHandler(submissionRepo, idGenerator, eventBus)
	deleteSubmissionCmd := command.NewDeleteSubmissionHandler(submissionRepo)
	reviewSubmissionCmd := command.NewReviewSubmissionHandler(uowFactory, idGenerator, weights, eventBus)
	setAcademicScoreCmd := command.NewSetAcademicScoreHandler(studentRepo, weights, eventBus)
	manageRulesCmd := command.NewManageRulesHandler(uowFactory, idGenerator, eventBus)
	updateProfileCmd := command.NewUpdateProfileHandler(studentRepo, eventBus)
	markNotificationCmd := command.NewMarkNotificationReadHandler(notificationRepo)
	adminUsersCmd := command.NewAdminUsersHandler(uowFactory, passwordHasher)

	getIdentityQuery := query.NewGetIdentityHandler(sessionStore, accountRepo, studentRepo, counselorRepo)
	studentRankQuery := query.NewGetStudentRankHandler(studentRepo)
	listStudentsQuery := query.NewListStudentsHandler(studentRepo)
	ownSubmissionsQuery := query.NewListOwnSubmissionsHandler(submissionRepo)
	cohortSubmissionsQuery := query.NewListCohortSubmissionsHandler(submissionRepo, studentRepo)
	listRulesQuery := query.NewListRulesHandler(ruleRepo)
	listNotificationsQuery := query.NewListNotificationsHandler(notificationRepo)
	dashboardQuery := query.NewCounselorDashboardHandler(studentRepo, submissionRepo)
	exportStudentsQuery := query.NewExportStudentsHandler(studentRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. РЕГИСТРАЦИЯ EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("registering event handlers...")

	welcomeHandler := eventhandler.NewOnStudentRegisteredHandler(notificationRepo, idGenerator, log)
	if err := dispatcher.Register(welcomeHandler.EventType(), "welcome_notification", welcomeHandler.Handle); err != nil {
		return fmt.Errorf("failed to register welcome handler: %w", err)
	}

	auditHandler := eventhandler.NewOnSubmissionReviewedHandler(log, eventhandler.DefaultReviewAuditConfig())
	for _, eventType := range auditHandler.EventTypes() {
		if err := dispatcher.Register(eventType, "review_audit", auditHandler.Handle); err != nil {
			return fmt.Errorf("failed to register audit handler: %w", err)
		}
	}

	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start dispatcher: %w", err)
	}
	defer func() {
		log.Info("stopping dispatcher...")
		_ = dispatcher.Stop()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 10. ПЛАНИРОВЩИК ФОНОВЫХ ЗАДАЧ
	// ─────────────────────────────────────────────────────────────────────────
	var jobScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		log.Info("initializing scheduler...")

		jobScheduler = scheduler.NewScheduler(scheduler.SchedulerConfig{
			Logger:   log,
			Timezone: cfg.App.Location,
		})

		digestJob := jobs.NewPendingReviewDigestJob(counselorRepo, submissionRepo, notificationRepo, idGenerator, log)
		digestSchedule := scheduler.MustParseCronExpression(
			fmt.Sprintf("%d %d * * *", cfg.Scheduler.DigestMinute, cfg.Scheduler.DigestHour),
		)
		if err := jobScheduler.Register(digestJob, digestSchedule); err != nil {
			return fmt.Errorf("failed to register digest job: %w", err)
		}

		dlqJob := jobs.NewDeadLetterRetryJob(dispatcher, 0, log)
		if err := jobScheduler.Register(dlqJob, scheduler.NewIntervalSchedule(cfg.Scheduler.DeadLetterRetryInterval)); err != nil {
			return fmt.Errorf("failed to register dead letter retry job: %w", err)
		}

		if err := jobScheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			log.Info("stopping scheduler...")
			_ = jobScheduler.Stop()
		}()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	healthChecker := handlers.NewCompositeHealthChecker(appVersion)
	healthChecker.AddCheck("database", handlers.NewDatabaseCheck(dbConn))
	healthChecker.AddCheck("cache", handlers.NewCacheCheck(redisCache))

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpConfig.SessionCookie = cfg.Session.CookieName
	httpConfig.SecureCookies = cfg.HTTP.SecureCookies

	httpDeps := httpserver.Dependencies{
		LoginHandler:             loginCmd,
		LogoutHandler:            logoutCmd,
		RegisterStudentHandler:   registerStudentCmd,
		RegisterCounselorHandler: registerCounselorCmd,
		CreateSubmissionHandler:  createSubmissionCmd,
		DeleteSubmissionHandler:  deleteSubmissionCmd,
		ReviewSubmissionHandler:  reviewSubmissionCmd,
		SetAcademicScoreHandler:  setAcademicScoreCmd,
		ManageRulesHandler:       manageRulesCmd,
		UpdateProfileHandler:     updateProfileCmd,
		MarkNotificationHandler:  markNotificationCmd,
		AdminUsersHandler:        adminUsersCmd,

		GetIdentityHandler:        getIdentityQuery,
		GetStudentRankHandler:     studentRankQuery,
		ListStudentsHandler:       listStudentsQuery,
		ListOwnSubmissionsHandler: ownSubmissionsQuery,
		ListCohortSubsHandler:     cohortSubmissionsQuery,
		ListRulesHandler:          listRulesQuery,
		ListNotificationsHandler:  listNotificationsQuery,
		CounselorDashboardHandler: dashboardQuery,
		ExportStudentsHandler:     exportStudentsQuery,

		Logger:        appLogger,
		HealthChecker: healthChecker,
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 12. ЗАПУСК И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	log.Info("merit portal is running", "http_address", httpServer.Address())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		return err
	}

	log.Info("shutdown complete")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	switch cfg.Observability.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.IsProduction() {
		// JSON формат для production (лучше для агрегаторов логов)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// Текстовый формат для development (лучше читается)
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

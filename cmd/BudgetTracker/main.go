package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	database "github.com/sebuszqo/BudgetTracker/db"
	"github.com/sebuszqo/BudgetTracker/internal/auth"
	"github.com/sebuszqo/BudgetTracker/internal/config"
	"github.com/sebuszqo/BudgetTracker/internal/finance/application"
	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	"github.com/sebuszqo/BudgetTracker/internal/finance/infrastructure"
	"github.com/sebuszqo/BudgetTracker/internal/finance/interfaces"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	bootstrap, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	cfg, err := config.Load(bootstrap)
	if err != nil {
		bootstrap.Fatal("Missing configuration, update to start server", zap.Error(err))
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		bootstrap.Fatal("could not build logger", zap.Error(err))
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbService, err := database.NewDBService(ctx, cfg.DBConnectionString, logger)
	if err != nil {
		logger.Fatal("Could not initialize database", zap.Error(err))
	}
	defer dbService.Close()
	if err := database.Migrate(ctx, dbService.DB); err != nil {
		logger.Fatal("Could not migrate database", zap.Error(err))
	}

	uow := infrastructure.NewPostgresUnitOfWork(dbService.DB, logger)

	broadcaster := infrastructure.NewBroadcaster()
	notifiers := infrastructure.FanOutNotifier{broadcaster}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis not reachable, change events will be retried per publish", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		notifiers = append(notifiers, infrastructure.NewRedisNotifier(rdb, cfg.RedisChannel, logger))
	}
	go logChanges(ctx, broadcaster, logger)

	var activityLog domain.ActivityLog
	switch cfg.ActivityLogSink {
	case config.ActivitySinkKafka:
		writer := infrastructure.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaActivityTopic, logger)
		defer writer.Close()
		activityLog = infrastructure.NewKafkaActivityLog(writer, logger)
	default:
		activityLog = infrastructure.NewActivityRepository(dbService.DB)
	}

	categoryService := application.NewCategoryService(uow, cfg.CategoryCacheTTL, logger)
	reconciliationService := application.NewReconciliationService(uow, notifiers, categoryService, logger)
	collaboratorService := application.NewCollaboratorService(uow, activityLog, notifiers, logger)
	walletService := application.NewWalletService(uow, notifiers, logger)
	budgetService := application.NewBudgetService(uow, notifiers, categoryService, logger)
	auditor := application.NewDriftAuditor(uow, cfg.DriftAuditRepair, logger)

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret)
	if err != nil {
		logger.Fatal("Could not initialize JWT manager", zap.Error(err))
	}

	server := NewServer(
		auth.NewMiddleware(jwtManager, logger),
		dbService,
		interfaces.NewTransactionHandler(reconciliationService, interfaces.RespondJSON, interfaces.RespondError),
		interfaces.NewCategoryHandler(categoryService, interfaces.RespondJSON, interfaces.RespondError),
		interfaces.NewWalletHandler(walletService, collaboratorService, interfaces.RespondJSON, interfaces.RespondError),
		interfaces.NewBudgetHandler(budgetService, interfaces.RespondJSON, interfaces.RespondError),
		logger,
	)
	server.RegisterRoutes()

	scheduler, err := StartDriftAuditScheduler(cfg.DriftAuditSchedule, auditor, logger)
	if err != nil {
		logger.Fatal("Scheduler didn't start, stopping the app", zap.Error(err))
	}
	defer scheduler.Stop()

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           loggingMiddleware(logger, rateLimitMiddleware(limiter, server.router)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Server starting", zap.String("addr", cfg.HTTPAddr), zap.String("activity_sink", cfg.ActivityLogSink))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed to start", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// logChanges follows the in-process change stream until shutdown.
func logChanges(ctx context.Context, broadcaster *infrastructure.Broadcaster, logger *zap.Logger) {
	events, cancel := broadcaster.Subscribe(64)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			logger.Debug("data changed",
				zap.String("kind", string(event.Kind)),
				zap.String("entity_id", event.EntityID),
				zap.Strings("wallet_ids", event.WalletIDs))
		}
	}
}

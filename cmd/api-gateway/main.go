package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/handler"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/repository"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/service"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/validation"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/cache"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/config"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/database"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/jobs"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/logger"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/storage"
)

// @title Heronix SIS Records API
// @version 1.0.0
// @description Withdrawal clearance, health records and due-review board
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
		}
	}

	validate := validation.New()
	metrics := service.NewMetricsService()

	withdrawalRepo := repository.NewWithdrawalRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	auditSvc := service.NewAuditService(repository.NewAuditRepository(db), jobs.QueueConfig{
		Workers:    2,
		BufferSize: 256,
		MaxRetries: 3,
		RetryDelay: time.Second,
		Logger:     logr,
	}, logr)
	auditSvc.Start(ctx)
	defer auditSvc.Stop()

	tokens := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiration,
	})

	withdrawals := service.NewWithdrawalService(withdrawalRepo, studentRepo, cacheSvc, metrics, auditSvc, validate, logr).WithCacheTTL(cfg.Cache.TTL)
	medications := service.NewMedicationService(repository.NewMedicationRepository(db), auditSvc, validate, logr, service.HealthConfig{
		RefillMinDoses: cfg.Health.RefillMinDoses,
		RefillDays:     cfg.Health.RefillDays,
	})
	apiKeys := service.NewAPIKeyService(repository.NewAPIKeyRepository(db), metrics, auditSvc, validate, logr)
	locks := service.NewRecordLockService(repository.NewRecordLockRepository(db), metrics, auditSvc, validate, logr, service.LockConfig{
		DefaultTTL: cfg.Locks.DefaultTTL,
		MaxTTL:     cfg.Locks.MaxTTL,
	})
	reviews := service.NewReviewService(repository.NewReviewRepository(db), logr, cfg.Reviews.HorizonDays).
		WithThresholds(service.ReviewThresholds{
			IEP:     cfg.Reviews.IEPDays,
			Plan504: cfg.Reviews.Plan504Days,
			Gifted:  cfg.Reviews.GiftedDays,
			Crisis:  cfg.Reviews.CrisisDays,
			Fee:     cfg.Reviews.FeeDays,
		})

	store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exports := service.NewExportService(withdrawalRepo, studentRepo, store, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, metrics, auditSvc, logr, nil, nil)

	go locks.RunSweeper(ctx, cfg.Locks.SweepInterval)
	go exports.RunCleanup(ctx, cfg.Exports.CleanupInterval)

	checks := map[string]handler.Pinger{"postgres": db.PingContext}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	r := newRouter(cfg, logr, routerDeps{
		tokens:      tokens,
		apiKeys:     apiKeys,
		metrics:     metrics,
		withdrawals: handler.NewWithdrawalHandler(withdrawals, exports, auditSvc),
		exports:     handler.NewExportHandler(exports),
		medications: handler.NewMedicationHandler(medications),
		locks:       handler.NewLockHandler(locks),
		keys:        handler.NewAPIKeyHandler(apiKeys),
		reviews:     handler.NewReviewHandler(reviews),
		enums:       handler.NewEnumHandler(),
		health:      handler.NewMetricsHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-advisory-contact/config"
	v1 "go-advisory-contact/internal/delivery/http/v1"
	"go-advisory-contact/internal/domain"
	"go-advisory-contact/internal/repository/draftstore"
	"go-advisory-contact/internal/repository/postgres"
	"go-advisory-contact/internal/usecase"
	"go-advisory-contact/pkg/database"
	"go-advisory-contact/pkg/email"
	"go-advisory-contact/pkg/logger"
	"go-advisory-contact/pkg/redis"
	"go-advisory-contact/pkg/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Setup Logger
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = logger.Log.Sync() }()
	logger.Log.Info("Starting advisory contact API", zap.String("port", cfg.Port))

	// 3. Setup Database
	ctx := context.Background()
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, logger.Log)
	if err != nil {
		logger.Log.Error("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := database.EnsureSchema(ctx, dbPool); err != nil {
		logger.Log.Error("Failed to prepare schema", zap.Error(err))
		os.Exit(1)
	}

	// 4. Setup Redis (optional: drafts and rate limits fall back to memory)
	var redisCheck usecase.HealthCheck
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory drafts and rate limits", zap.Error(err))
	} else {
		redisCheck = redis.HealthCheck
		defer func() { _ = redis.Close() }()
	}

	// 5. Setup Repositories
	contactRepo := postgres.NewContactRepository(dbPool)
	memoryDrafts := draftstore.NewMemoryStore(cfg.DraftKey())
	draftStores := func(key string) domain.DraftStore {
		if client := redis.Client(); client != nil {
			return draftstore.NewRedisStore(client, key, cfg.DraftTTL())
		}
		return memoryDrafts.WithKey(key)
	}

	// 6. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - submissions are stored without notification")
	}

	// 7. Setup UseCases
	formValidator := validation.NewFormValidator()
	contactUC := usecase.NewContactUsecase(contactRepo, emailService, formValidator, logger.Log)
	draftUC := usecase.NewDraftUsecase(draftStores, cfg.DraftKey(), logger.Log)
	healthUC := usecase.NewHealthUsecase(map[string]usecase.HealthCheck{
		"database": dbPool.Ping,
		"redis":    redisCheck,
	})

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		DraftUC:   draftUC,
		HealthUC:  healthUC,
		Config:    cfg,
		Logger:    logger.Log,
		Redis:     redis.Client,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exiting")
}

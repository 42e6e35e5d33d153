package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smartrogo/safephoneng/internal/adapter/event"
	"github.com/smartrogo/safephoneng/internal/adapter/identity"
	"github.com/smartrogo/safephoneng/internal/adapter/repository"
	"github.com/smartrogo/safephoneng/internal/config"
	domainRepo "github.com/smartrogo/safephoneng/internal/domain/repository"
	"github.com/smartrogo/safephoneng/internal/domain/service"
	"github.com/smartrogo/safephoneng/internal/infrastructure/database"
	httpServer "github.com/smartrogo/safephoneng/internal/infrastructure/http"
	redisClient "github.com/smartrogo/safephoneng/internal/infrastructure/redis"
	"github.com/smartrogo/safephoneng/internal/usecase"
	"github.com/smartrogo/safephoneng/pkg/logger"
	"github.com/smartrogo/safephoneng/pkg/messaging"
	"github.com/smartrogo/safephoneng/pkg/metrics"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting registry service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("version", cfg.Service.Version),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("auth_provider", cfg.Auth.Provider))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics(cfg.Metrics.Namespace, config.ServiceName)
	}

	// Storage
	repos, db, err := database.Open(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to open storage", zap.Error(err))
	}
	if db != nil {
		defer func() {
			if err := database.Close(db, zapLogger); err != nil {
				zapLogger.Error("Failed to close database connection", zap.Error(err))
			}
		}()
		go database.ReportPoolStats(ctx, db, m, 15*time.Second)
	}

	// Verification cache and event channel
	var (
		cacheRepo domainRepo.CacheRepository
		events    = event.NewNopPublisher()
	)
	if cfg.Redis.Enabled {
		client, err := redisClient.NewClient(&cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()

		cacheRepo = repository.NewRedisCacheRepository(client, zapLogger)
		events = event.NewPublisher(messaging.NewPublisherFromClient(client), cfg.Redis.EventsChannel, zapLogger)
	}

	usecases := usecase.NewUsecases(usecase.Dependencies{
		Devices:       repos.Device,
		TheftReports:  repos.TheftReport,
		Profiles:      repos.Profile,
		Cache:         cacheRepo,
		CacheTTL:      cfg.Redis.VerificationTTL,
		Events:        events,
		DefaultRegion: cfg.Service.DefaultRegion,
		Metrics:       m,
		Logger:        zapLogger,
	})

	httpSrv := httpServer.NewServer(cfg, zapLogger, usecases, newResolver(cfg, zapLogger), m)

	go func() {
		if err := httpSrv.Start(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Server shut down successfully")
}

func newResolver(cfg *config.Config, zapLogger *zap.Logger) service.IdentityResolver {
	if cfg.Auth.Provider == config.AuthProviderSupabase {
		return identity.NewSupabaseResolver(cfg.Auth.ProjectURL, cfg.Auth.APIKey, cfg.Auth.Timeout, cfg.Service.AdminUserIDs, zapLogger)
	}
	return identity.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Service.AdminUserIDs, zapLogger)
}

// Command reconcile marks stolen every registration that has a theft report
// but is still active, then prints a YAML summary.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/smartrogo/safephoneng/internal/adapter/repository"
	"github.com/smartrogo/safephoneng/internal/config"
	domainRepo "github.com/smartrogo/safephoneng/internal/domain/repository"
	"github.com/smartrogo/safephoneng/internal/infrastructure/database"
	redisClient "github.com/smartrogo/safephoneng/internal/infrastructure/redis"
	"github.com/smartrogo/safephoneng/internal/usecase"
	"github.com/smartrogo/safephoneng/pkg/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Logs go to stderr so stdout carries only the summary.
	if cfg.Log.Output != "file" {
		cfg.Log.Output = "stderr"
	}
	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

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
	}

	// Repaired IMEIs must not keep a cached verdict.
	var cacheRepo domainRepo.CacheRepository
	if cfg.Redis.Enabled {
		client, err := redisClient.NewClient(&cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()
		cacheRepo = repository.NewRedisCacheRepository(client, zapLogger)
	}

	usecases := usecase.NewUsecases(usecase.Dependencies{
		Devices:       repos.Device,
		TheftReports:  repos.TheftReport,
		Profiles:      repos.Profile,
		Cache:         cacheRepo,
		CacheTTL:      cfg.Redis.VerificationTTL,
		DefaultRegion: cfg.Service.DefaultRegion,
		Logger:        zapLogger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := usecases.Admin.ReconcileAll(ctx)
	if err != nil {
		zapLogger.Fatal("Reconcile failed", zap.Error(err))
	}

	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	if err := encoder.Encode(result); err != nil {
		zapLogger.Fatal("Failed to write summary", zap.Error(err))
	}
	_ = encoder.Close()

	if len(result.Failed) > 0 {
		zapLogger.Sync()
		os.Exit(1)
	}
}

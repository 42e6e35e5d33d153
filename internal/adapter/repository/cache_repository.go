package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	domainRepo "github.com/smartrogo/safephoneng/internal/domain/repository"
	"go.uber.org/zap"
)

// RedisCacheRepository is a CacheRepository backed by Redis.
type RedisCacheRepository struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewRedisCacheRepository creates a cache repository on client.
func NewRedisCacheRepository(client redis.UniversalClient, logger *zap.Logger) domainRepo.CacheRepository {
	return &RedisCacheRepository{
		client: client,
		logger: logger,
	}
}

func (r *RedisCacheRepository) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		r.logger.Error("Redis set failed",
			zap.String("key", key),
			zap.Error(err))
		return err
	}
	return nil
}

func (r *RedisCacheRepository) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Error("Redis get failed",
				zap.String("key", key),
				zap.Error(err))
		}
		return "", err
	}
	return value, nil
}

func (r *RedisCacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Redis delete failed",
			zap.String("key", key),
			zap.Error(err))
		return err
	}
	return nil
}

func (r *RedisCacheRepository) IsNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}

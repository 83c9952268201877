package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shard-legends/upgrade-planner-service/internal/config"
	"github.com/shard-legends/upgrade-planner-service/pkg/logger"
	"github.com/shard-legends/upgrade-planner-service/pkg/metrics"
	"go.uber.org/zap"
)

// RedisClient клиент к auth базе Redis, где auth-service хранит отозванные токены
type RedisClient struct {
	authClient    *redis.Client
	healthTimeout time.Duration
}

func NewRedisClient(cfg *config.RedisConfig, healthTimeout time.Duration) (*RedisClient, error) {
	opt, err := redis.ParseURL(cfg.AuthURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis auth URL: %w", err)
	}

	opt.MaxRetries = cfg.MaxRetries
	opt.PoolSize = cfg.MaxConnections
	opt.ReadTimeout = cfg.ReadTimeout
	opt.WriteTimeout = cfg.WriteTimeout

	client := newRedisClient(redis.NewClient(opt), healthTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	if err := client.authClient.Ping(ctx).Err(); err != nil {
		_ = client.authClient.Close()
		return nil, fmt.Errorf("failed to ping redis auth: %w", err)
	}

	logger.Info("Connected to Redis",
		zap.Int("max_connections", cfg.MaxConnections),
		zap.Duration("read_timeout", cfg.ReadTimeout),
		zap.Duration("write_timeout", cfg.WriteTimeout),
	)

	return client, nil
}

func newRedisClient(client *redis.Client, healthTimeout time.Duration) *RedisClient {
	if healthTimeout <= 0 {
		healthTimeout = 2 * time.Second
	}
	return &RedisClient{authClient: client, healthTimeout: healthTimeout}
}

func (r *RedisClient) Close() error {
	if r.authClient == nil {
		return nil
	}
	if err := r.authClient.Close(); err != nil {
		return fmt.Errorf("failed to close redis auth connection: %w", err)
	}

	logger.Info("Redis connections closed")
	return nil
}

func (r *RedisClient) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.healthTimeout)
	defer cancel()

	if err := r.authClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis auth health check failed: %w", err)
	}

	return nil
}

// IsJWTRevoked проверяет отозван ли JWT токен в auth базе Redis
func (r *RedisClient) IsJWTRevoked(ctx context.Context, jti string) (bool, error) {
	count, err := r.authClient.Exists(ctx, fmt.Sprintf("revoked:%s", jti)).Result()
	if err != nil {
		metrics.RecordRedisOperation("exists", "error")
		return false, fmt.Errorf("failed to check jwt revocation for jti %s: %w", jti, err)
	}

	metrics.RecordRedisOperation("exists", "ok")
	return count > 0, nil
}

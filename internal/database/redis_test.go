package database

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shard-legends/upgrade-planner-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient указывает на порт, где гарантированно никто не слушает
func unreachableClient() *RedisClient {
	return newRedisClient(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	}), 500*time.Millisecond)
}

func TestRedisClient_IsJWTRevoked_ConnectionError(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	revoked, err := client.IsJWTRevoked(context.Background(), "jti-1")
	require.Error(t, err)
	assert.False(t, revoked)
	assert.Contains(t, err.Error(), "jti-1")
}

func TestRedisClient_Health_ConnectionError(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	err := client.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis auth health check failed")
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(&config.RedisConfig{AuthURL: "not-a-url", PingTimeout: time.Second}, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse redis auth URL")
}

func TestNewDB_InvalidURL(t *testing.T) {
	_, err := NewDB(&config.DatabaseConfig{URL: "://broken", PingTimeout: time.Second}, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse database URL")
}

package db

import (
	"context"
	"fmt"
	"time"

	"Framecast/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the global Redis client. It backs the per-project render
// lock; the editing model itself never touches Redis.
var RedisClient *redis.Client

// ConnectRedis initializes the Redis connection.
func ConnectRedis(cfg *config.Config) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return nil
}

// CloseRedis closes the Redis connection.
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// TestRedis verifies basic Redis operations, used by the redis subcommand.
func TestRedis() error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := "framecast:healthcheck"
	if err := RedisClient.Set(ctx, key, time.Now().String(), time.Minute).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}
	if _, err := RedisClient.Get(ctx, key).Result(); err != nil {
		return fmt.Errorf("redis GET failed: %w", err)
	}
	return RedisClient.Del(ctx, key).Err()
}

package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisSettings is shared by the go-redis client and the asynq client/server so both talk to
// the same database.
type RedisSettings struct {
	Addr     string
	Password string
	DB       int
}

func LoadRedisSettings() RedisSettings {
	return RedisSettings{
		Addr:     GetEnvDefault("REDIS_ADDRESS", "localhost:6379"),
		Password: GetEnv("REDIS_PASSWORD"),
		DB:       GetEnvInt("REDIS_DB", 0),
	}
}

func InitRedisServer(ctx context.Context, settings RedisSettings) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     settings.Addr,
		Password: settings.Password,
		DB:       settings.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		Logger.Fatal("[REDIS] Failed to connect", zap.String("addr", settings.Addr), zap.Error(err))
	}

	Logger.Info("[REDIS] Connected", zap.String("addr", settings.Addr), zap.Int("db", settings.DB))
	return client
}

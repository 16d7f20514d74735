package middleware

import (
	"context"

	"parking-marketplace-backend/token"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// AppContext bundles all dependencies
type AppContext struct {
	PasetoMaker token.Maker
	Ctx         context.Context
	RedisClient *redis.Client
	Logger      *zap.Logger
}

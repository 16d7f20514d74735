package services

import (
	"context"
	"fmt"
	"time"

	"parking-marketplace-backend/utils/apperr"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SpaceLocker serialises competing create/extend requests for one space.
type SpaceLocker interface {
	Lock(ctx context.Context, spaceID uuid.UUID) (unlock func(), err error)
}

// releaseScript deletes the lock only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisSpaceLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSpaceLocker(client *redis.Client, ttl time.Duration) *RedisSpaceLocker {
	return &RedisSpaceLocker{client: client, ttl: ttl}
}

func spaceLockKey(spaceID uuid.UUID) string {
	return fmt.Sprintf("lock:space:%s", spaceID)
}

func (l *RedisSpaceLocker) Lock(ctx context.Context, spaceID uuid.UUID) (func(), error) {
	key := spaceLockKey(spaceID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("acquire space lock: %w", err))
	}
	if !ok {
		return nil, apperr.Conflict("space is being booked by another request, please retry")
	}

	return func() {
		// the request context may already be done; release on a fresh one
		releaseScript.Run(context.Background(), l.client, []string{key}, token)
	}, nil
}

// NoopLocker never blocks. Used when Redis is not configured and in tests.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, uuid.UUID) (func(), error) {
	return func() {}, nil
}

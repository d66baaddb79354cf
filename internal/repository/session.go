package repo

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "session:"

type RedisSessionStorage struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.SugaredLogger
}

func NewSessionRedisStorage(redis *redis.Client, ttl time.Duration, log *zap.SugaredLogger) *RedisSessionStorage {
	return &RedisSessionStorage{
		client: redis,
		ttl:    ttl,
		log:    log,
	}
}

func (r *RedisSessionStorage) GetGameIDBySession(ctx context.Context, sessionID string) (string, bool) {
	v, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Error(err)
		}
		return "", false
	}
	return v, true
}

func (r *RedisSessionStorage) StoreSession(ctx context.Context, sessionID, gameID string) error {
	return r.client.Set(ctx, sessionKeyPrefix+sessionID, gameID, r.ttl).Err()
}

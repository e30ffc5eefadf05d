package throttle

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares throttle counters across instances. INCR creates the
// key at 1; the expiry is attached on that first hit only, so the window
// does not slide on every attempt.
type RedisStore struct {
	redisdb *redis.Client
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisStore(cfg RedisConfig) *RedisStore {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisStore{redisdb: redisdb}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := s.redisdb.Incr(ctx, "throttle:"+key).Result()

	if err != nil {
		return 0, 0, err
	}

	if count == 1 {
		err = s.redisdb.Expire(ctx, "throttle:"+key, window).Err()

		if err != nil {
			return 0, 0, err
		}
	}

	ttl, err := s.redisdb.TTL(ctx, "throttle:"+key).Result()

	if err != nil {
		return 0, 0, err
	}

	return count, ttl, nil
}

// Ping checks redis connectivity for readiness probes.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redisdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.redisdb.Close()
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IWTDPLZZZ/Habit-Tracker/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore реализует storage.Store на строковых ключах с необязательным префиксом.
// Он же служит счётчиком для rate limiter.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Connect подключается к Redis по cfg и проверяет соединение через PING.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*RedisStore, error) {
	addr := cfg.RedisAddr()

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("redis_connection_failed",
			zap.Error(err),
			zap.String("addr", addr),
		)
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("redis_connected", zap.String("addr", addr))
	return NewRedisStore(client, cfg.Redis.Prefix), nil
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// IncrementCounter увеличивает счётчик и ставит TTL при первом инкременте.
func (s *RedisStore) IncrementCounter(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	k := s.key(key)
	val, err := s.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}

	if val == 1 {
		if err := s.client.Expire(ctx, k, expiration).Err(); err != nil {
			return val, err
		}
	}
	return val, nil
}

func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

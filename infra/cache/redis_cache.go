package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements cache.CountryCache using Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisCache creates a RedisCache from a redis URL such as
// redis://:password@localhost:6379/0.
func NewRedisCache(url, prefix string, logger *slog.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewRedisCacheWithOptions(opt, prefix, logger), nil
}

// NewRedisCacheWithOptions creates a RedisCache from redis.Options.
func NewRedisCacheWithOptions(opt *redis.Options, prefix string, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{client: redis.NewClient(opt), prefix: prefix, logger: logger}
}

func (r *RedisCache) key(ip string) string {
	return r.prefix + ip
}

// Ping checks connectivity.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Get(ctx context.Context, ip string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(ip)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "ip", ip)
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "ip", ip, "error", err)
		return "", false, err
	}
	r.logger.Debug("Redis cache hit", "ip", ip, "country", val)
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, ip, country string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, r.key(ip), country, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "ip", ip, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "ip", ip, "country", country, "ttl", ttl)
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, ip string) error {
	if err := r.client.Del(ctx, r.key(ip)).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "ip", ip, "error", err)
		return err
	}
	r.logger.Debug("Redis cache delete", "ip", ip)
	return nil
}

// Close releases the connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

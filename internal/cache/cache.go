package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"mapmyroute_backend/pkg/monitoring"
)

// Cache 存放 AI 资源推荐和招聘接口等代价较高的响应
type Cache interface {
	// Get 命中时把值解码到 dest 并返回 true
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type RedisCache struct {
	Client    *redis.Client
	Namespace string
	TTL       time.Duration
}

func NewRedisCache(client *redis.Client, namespace string, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, Namespace: namespace, TTL: ttl}
}

func (c *RedisCache) key(k string) string {
	return "mapmyroute:" + c.Namespace + ":" + k
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := c.Client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		monitoring.CacheLookups.WithLabelValues(c.Namespace, "miss").Inc()
		return false, nil
	}
	if err != nil {
		monitoring.CacheLookups.WithLabelValues(c.Namespace, "error").Inc()
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	monitoring.CacheLookups.WithLabelValues(c.Namespace, "hit").Inc()
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.TTL
	}
	return c.Client.Set(ctx, c.key(key), raw, ttl).Err()
}

// Noop 未启用 Redis 时使用，永远不命中
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (Noop) Set(context.Context, string, interface{}, time.Duration) error { return nil }

// New 在 client 为 nil 时退化为 Noop
func New(client *redis.Client, namespace string, ttl time.Duration) Cache {
	if client == nil {
		return Noop{}
	}
	return NewRedisCache(client, namespace, ttl)
}

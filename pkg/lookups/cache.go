package lookups

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/phage-catalogue/platform/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

// Cache holds the sorted choice lists shown by the edit forms.
type Cache interface {
	Get(ctx context.Context, kind Kind) ([]string, bool)
	Set(ctx context.Context, kind Kind, names []string)
	Delete(ctx context.Context, kinds ...Kind)
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, prefix: "catalogue:lookups:"}
}

func (c *RedisCache) key(kind Kind) string {
	return c.prefix + string(kind)
}

func (c *RedisCache) Get(ctx context.Context, kind Kind) ([]string, bool) {
	data, err := c.client.Get(ctx, c.key(kind)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.WithError(err).WithField("kind", kind).Warn("lookup cache read failed")
		}
		return nil, false
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		logger.Log.WithError(err).WithField("kind", kind).Warn("discarding corrupt lookup cache entry")
		return nil, false
	}
	return names, true
}

func (c *RedisCache) Set(ctx context.Context, kind Kind, names []string) {
	data, err := json.Marshal(names)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(kind), data, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("kind", kind).Warn("lookup cache write failed")
	}
}

func (c *RedisCache) Delete(ctx context.Context, kinds ...Kind) {
	if len(kinds) == 0 {
		return
	}
	keys := make([]string, len(kinds))
	for i, k := range kinds {
		keys[i] = c.key(k)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Log.WithError(err).Warn("lookup cache invalidation failed")
	}
}

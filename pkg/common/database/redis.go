package database

import (
	"context"
	"fmt"
	"time"

	"github.com/phage-catalogue/platform/pkg/common/config"
	"github.com/phage-catalogue/platform/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

// NewRedis builds a client and pings it once. A failed ping is logged rather
// than returned because the lookup cache degrades to direct database reads.
func NewRedis(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := logger.Log.WithField("addr", client.Options().Addr)
	if err := client.Ping(ctx).Err(); err != nil {
		entry.WithError(err).Warn("Redis unavailable, lookup cache will miss")
	} else {
		entry.Info("Connected to Redis")
	}
	return client
}

package app

import (
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Tombstone73/quotevault-backend/internal/platform/logger"
)

type Clients struct {
	Redis *redis.Client
}

// wireClients builds optional external clients. Redis is only dialed when
// REDIS_ADDR is set; without it the audit notifier degrades to a no-op.
func wireClients(log *logger.Logger, cfg Config) Clients {
	log.Info("Wiring clients...")

	var rdb *redis.Client
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		log.Info("Redis client configured", "addr", cfg.RedisAddr)
	}

	return Clients{Redis: rdb}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}

package infrastructure

import (
	"context"
	"fmt"

	"github.com/architeacher/svc-blog-events/internal/config"
	"github.com/redis/go-redis/v9"
)

// KeydbClient wraps the redis protocol client used against KeyDB.
type KeydbClient struct {
	*redis.Client

	logger Logger
}

func NewKeyDBClient(cfg config.CacheConfig, logger Logger) *KeydbClient {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
		MaxRetries:   cfg.MaxRetries,
	})

	return &KeydbClient{
		Client: client,
		logger: logger.WithComponent("cache"),
	}
}

func (c *KeydbClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping cache at %s: %w", c.Options().Addr, err)
	}

	c.logger.Debug().Str("addr", c.Options().Addr).Msg("cache ping succeeded")

	return nil
}

func (c *KeydbClient) Close() error {
	if err := c.Client.Close(); err != nil {
		return fmt.Errorf("failed to close cache client: %w", err)
	}

	return nil
}

package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"vigia/internal/config"
	"vigia/internal/logger"
	"vigia/internal/store"
)

// Connector wires external backends at startup: the transcript cache and the
// object store.
type Connector struct {
	Config *config.Config
	Logger logger.Logger
}

func NewConnector(cfg *config.Config, log logger.Logger) *Connector {
	return &Connector{
		Config: cfg,
		Logger: log,
	}
}

// InitRedis connects the transcript cache. Returns nil without error when no
// cache host is configured; the cache is optional.
func (c *Connector) InitRedis(ctx context.Context) (*redis.Client, error) {
	if c.Config.Cache.Host == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", c.Config.Cache.Host, c.Config.Cache.Port),
		Password: c.Config.Cache.Password,
		DB:       c.Config.Cache.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	c.Logger.Info("Redis connected successfully")
	return rdb, nil
}

// InitStore connects the object store and, when configured, creates the
// bucket.
func (c *Connector) InitStore(ctx context.Context) (*store.MinioStore, error) {
	objects, err := store.NewMinioStore(c.Config.Storage)
	if err != nil {
		return nil, err
	}

	if c.Config.Storage.CreateBucket {
		if err := objects.EnsureBucket(ctx); err != nil {
			return nil, err
		}
	}

	if err := objects.Ping(ctx); err != nil {
		return nil, err
	}

	c.Logger.Info("Object store connected successfully")
	return objects, nil
}

func (c *Connector) ShutdownConnections(redis *redis.Client) []error {
	var errs []error

	if redis != nil {
		if err := redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close error: %w", err))
		}
	}

	return errs
}

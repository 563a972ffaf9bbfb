package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vigia/internal/constants"
	"vigia/internal/logger"
	"vigia/pkg/metrics"
)

// TranscriptCache stores successful transcription results keyed by audio
// content digest.
type TranscriptCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// RedisCache backs TranscriptCache with a shared Redis client.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("cache get failed: %w", err)
	}
	return val, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Cached decorates a Transcriber with content-addressed caching so that
// redelivered audio is not transcribed twice. Any cache failure degrades to a
// direct call; the cache is an optimization, never a dependency.
type Cached struct {
	next  Transcriber
	cache TranscriptCache
	ttl   time.Duration
	log   logger.Logger
}

func NewCached(next Transcriber, cache TranscriptCache, ttl time.Duration, log logger.Logger) *Cached {
	return &Cached{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

func (c *Cached) Transcribe(ctx context.Context, audio []byte, mimeType string) Result {
	key := constants.CacheKeyPrefixTranscript + Digest(audio)

	val, err := c.cache.Get(ctx, key)
	if err == nil {
		var res Result
		if jsonErr := json.Unmarshal([]byte(val), &res); jsonErr == nil {
			metrics.TranscriptionRequestsTotal.WithLabelValues("cache_hit").Inc()
			return res
		}
		c.log.WarnwCtx(ctx, "dropping corrupt transcript cache entry", "key", key)
	} else if !errors.Is(err, ErrCacheMiss) {
		c.log.WarnwCtx(ctx, "transcript cache read failed", "key", key, "error", err)
	}

	res := c.next.Transcribe(ctx, audio, mimeType)

	// Only successful transcriptions are cached; failures must stay
	// retryable on redelivery.
	if res.OK {
		if data, jsonErr := json.Marshal(res); jsonErr == nil {
			if err := c.cache.Set(ctx, key, string(data), c.ttl); err != nil {
				c.log.WarnwCtx(ctx, "transcript cache write failed", "key", key, "error", err)
			}
		}
	}
	return res
}

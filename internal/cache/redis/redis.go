// Package redis implements the resolution cache on top of Redis using the
// cache-aside pattern: the redirect pathway populates entries on store reads
// and serves hits without touching the database.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shortly-app/shortly/internal/cache"
	"github.com/shortly-app/shortly/internal/models"
)

const keyPrefix = "link:"

const defaultTTL = time.Hour

type LinkCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLinkCache(client *redis.Client, ttl time.Duration) *LinkCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &LinkCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *LinkCache) Get(ctx context.Context, hash string) (*models.ShortLink, error) {
	const op = "cache.redis.LinkCache.Get"

	data, err := c.client.Get(ctx, keyPrefix+hash).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %w", op, cache.ErrCacheMiss)
		}

		return nil, fmt.Errorf("%s: failed to get cached link: %w", op, err)
	}

	var link models.ShortLink
	if err := json.Unmarshal(data, &link); err != nil {
		// A corrupt entry behaves like a miss; the store read will repopulate it.
		return nil, fmt.Errorf("%s: %w", op, cache.ErrCacheMiss)
	}

	return &link, nil
}

func (c *LinkCache) Set(ctx context.Context, link *models.ShortLink) error {
	const op = "cache.redis.LinkCache.Set"

	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal link: %w", op, err)
	}

	if err := c.client.Set(ctx, keyPrefix+link.Hash, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: failed to cache link: %w", op, err)
	}

	return nil
}

func (c *LinkCache) Invalidate(ctx context.Context, hash string) error {
	const op = "cache.redis.LinkCache.Invalidate"

	if err := c.client.Del(ctx, keyPrefix+hash).Err(); err != nil {
		return fmt.Errorf("%s: failed to invalidate cached link: %w", op, err)
	}

	return nil
}

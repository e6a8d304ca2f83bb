package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a read-through redis cache. A nil *Cache always calls the loader,
// and redis failures degrade to the loader instead of failing the read.
type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

func New(addr, pass string, db int, prefix string) *Cache {
	return &Cache{
		RDB:    redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		Prefix: prefix,
	}
}

func (c *Cache) key(k string) string { return c.Prefix + k }

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil || c.RDB == nil {
		return load(ctx)
	}
	full := c.key(key)
	if b, err := c.RDB.Get(ctx, full).Bytes(); err == nil {
		return b, nil
	}
	v, err, _ := c.sf.Do(full, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, full, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Delete drops keys after a write. Errors are returned so callers can log them.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.RDB == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.RDB.Del(ctx, full...).Err()
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil || c.RDB == nil {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil || c.RDB == nil {
		return nil
	}
	return c.RDB.Close()
}

package storage

import (
	"context"
	"falci/internal/providers"
	"sync"
)

// CachedStore serves reads from the in-process cache and drops the cached
// value on every write to the key. A read only fills the cache when no write
// committed between its backend read and the fill.
type CachedStore struct {
	inner KVStoreInterface
	cache providers.CacheProviderInterface

	mu         sync.Mutex
	generation uint64
}

func NewCachedStore(inner KVStoreInterface, cache providers.CacheProviderInterface) *CachedStore {
	return &CachedStore{inner: inner, cache: cache}
}

func (c *CachedStore) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.cache.Get(key); ok {
		return clone(v), nil
	}
	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	v, err := c.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generation == gen {
		c.cache.Set(key, v)
	}
	c.mu.Unlock()
	return v, nil
}

func (c *CachedStore) Set(ctx context.Context, key string, value []byte) error {
	defer c.invalidate(key)
	return c.inner.Set(ctx, key, value)
}

func (c *CachedStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	defer c.invalidate(key)
	return c.inner.Update(ctx, key, fn)
}

func (c *CachedStore) invalidate(key string) {
	c.mu.Lock()
	c.generation++
	c.cache.Del(key)
	c.mu.Unlock()
}

func (c *CachedStore) Ping(ctx context.Context) error {
	return c.inner.Ping(ctx)
}

func (c *CachedStore) Close() error {
	return c.inner.Close()
}

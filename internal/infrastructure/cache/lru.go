package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/macrolens/productscan/internal/domain"
)

// LRUCache is a size-bounded product cache. The store-wide TTL is purged by
// the LRU itself; a shorter TTL passed to Set is checked on read.
type LRUCache struct {
	items *expirable.LRU[string, cacheItem]
}

// NewLRUCache creates an LRU cache holding at most size products for at most ttl
func NewLRUCache(size int, ttl time.Duration) (*LRUCache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("lru cache size must be positive, got %d", size)
	}
	return &LRUCache{items: expirable.NewLRU[string, cacheItem](size, nil, ttl)}, nil
}

// Get returns a copy of the cached product
func (c *LRUCache) Get(ctx context.Context, key string) (*domain.Product, error) {
	item, ok := c.items.Get(key)
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	if item.expired(time.Now()) {
		c.items.Remove(key)
		return nil, domain.ErrCacheMiss
	}
	return item.product.Clone(), nil
}

// Set stores a copy of product, evicting the least recently used entry when full
func (c *LRUCache) Set(ctx context.Context, key string, product *domain.Product, ttl time.Duration) error {
	if product == nil {
		return domain.ErrInvalidRequest
	}
	c.items.Add(key, cacheItem{product: product.Clone(), expiration: time.Now().Add(ttl)})
	return nil
}

// Size returns the current number of items in the cache
func (c *LRUCache) Size() int {
	return c.items.Len()
}

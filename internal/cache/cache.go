// Package cache is a short-lived, time-bounded response cache for repeated
// identical lookups. The predictor core never touches it; only the HTTP
// surface reads and writes it. Entries expire after a fixed interval.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/storage/redis/v3"
)

// Cache stores serialized responses keyed by request identity.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// New returns a redis-backed cache when redisURL is set and an in-process
// cache otherwise. Both expire entries after ttl.
func New(redisURL string, ttl time.Duration) Cache {
	if redisURL != "" {
		store := redis.New(redis.Config{URL: redisURL})
		return &redisCache{store: store, ttl: ttl}
	}
	return &memoryCache{entries: make(map[string]memoryEntry), ttl: ttl}
}

// Key derives a stable cache key from the request's identifying parts.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "codewhisper:" + hex.EncodeToString(sum[:])
}

type redisCache struct {
	store *redis.Storage
	ttl   time.Duration
}

func (c *redisCache) Get(key string) ([]byte, bool) {
	value, err := c.store.Get(key)
	if err != nil {
		slog.Warn("cache read failed", "error", err)
		return nil, false
	}
	if len(value) == 0 {
		return nil, false
	}
	return value, true
}

func (c *redisCache) Set(key string, value []byte) {
	if err := c.store.Set(key, value, c.ttl); err != nil {
		slog.Warn("cache write failed", "error", err)
	}
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

func (c *memoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (c *memoryCache) Set(key string, value []byte) {
	c.mu.Lock()
	c.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

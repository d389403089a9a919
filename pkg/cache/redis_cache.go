package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key namespaces. Extraction keys are content-addressed by file
// fingerprint; query keys by query-text hash.
const (
	ExtractionPrefix = "extraction:"
	QueryPrefix      = "query:"
)

// RedisCache is a best-effort TTL cache for extraction and retrieval
// results. Every operation swallows store failures: a broken Redis turns
// into cache misses and no-ops, never into errors for the caller.
type RedisCache struct {
	client      *redis.Client
	defaultTTL  time.Duration
	thresholdMB float64
	logger      *log.Logger
}

func NewRedisCache(client *redis.Client, defaultTTL time.Duration, thresholdMB float64, logger *log.Logger) *RedisCache {
	return &RedisCache{
		client:      client,
		defaultTTL:  defaultTTL,
		thresholdMB: thresholdMB,
		logger:      logger,
	}
}

func (c *RedisCache) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Get returns the cached value and whether it was present. Store errors
// are logged and reported as a miss.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.logger.Printf("[CACHE] Get %s failed: %v", key, err)
		return "", false
	}
	return val, true
}

// SetWithTTL writes a value, evicting near-expiry extraction entries
// first when memory usage is over the configured threshold.
func (c *RedisCache) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) {
	if usage := c.MemoryUsageMB(ctx); usage > c.thresholdMB {
		c.logger.Printf("[CACHE] High memory usage: %.1f MB", usage)
		c.EvictOlderThan(ctx, 1)
	}

	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Printf("[CACHE] Set %s failed: %v", key, err)
	}
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Printf("[CACHE] Delete %s failed: %v", key, err)
	}
}

func (c *RedisCache) TTL(ctx context.Context, key string) (time.Duration, bool) {
	ttl, err := c.client.TTL(ctx, key).Result()
	if err != nil {
		c.logger.Printf("[CACHE] TTL %s failed: %v", key, err)
		return 0, false
	}
	return ttl, ttl > 0
}

// MemoryUsageMB parses used_memory from INFO. Returns 0 when the store
// is unreachable so the write path proceeds without eviction.
func (c *RedisCache) MemoryUsageMB(ctx context.Context) float64 {
	info, err := c.client.Info(ctx, "memory").Result()
	if err != nil {
		c.logger.Printf("[CACHE] Memory info failed: %v", err)
		return 0
	}

	for _, line := range strings.Split(info, "\r\n") {
		if !strings.HasPrefix(line, "used_memory:") {
			continue
		}
		raw := strings.TrimPrefix(line, "used_memory:")
		bytes, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return 0
		}
		return bytes / 1024 / 1024
	}
	return 0
}

// EvictOlderThan deletes extraction entries whose remaining TTL is under
// days*24h. Entries close to expiring are the cheapest to give up, which
// approximates LRU without tracking access order.
func (c *RedisCache) EvictOlderThan(ctx context.Context, days int) int {
	cutoff := time.Duration(days) * 24 * time.Hour
	count := 0

	iter := c.client.Scan(ctx, 0, ExtractionPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		ttl, err := c.client.TTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			continue
		}
		if ttl < cutoff {
			if err := c.client.Del(ctx, key).Err(); err == nil {
				count++
			}
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Printf("[CACHE] Eviction scan failed: %v", err)
	}

	if count > 0 {
		c.logger.Printf("[CACHE] Evicted %d near-expiry extraction entries", count)
	}
	return count
}

// HashQuery derives the cache key suffix for a query string. Identical
// query text always maps to the same key.
func HashQuery(query string) string {
	sum := md5.Sum([]byte(query))
	return hex.EncodeToString(sum[:])
}

// FileFingerprint hashes file bytes together with the modification time,
// so editing or re-saving a file invalidates its extraction entry.
func FileFingerprint(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file for fingerprint: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat file for fingerprint: %w", err)
	}

	h := md5.New()
	h.Write(content)
	h.Write([]byte(strconv.FormatInt(info.ModTime().UnixNano(), 10)))
	return hex.EncodeToString(h.Sum(nil)), nil
}

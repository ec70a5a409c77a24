package jobsearch

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spigell/job-assistant/internal/jobs"
)

const (
	DefaultCacheTTL = time.Hour
	cacheKeyPrefix  = "job-assistant:search:"
)

// Cache stores search results per Params.
type Cache interface {
	Get(ctx context.Context, params Params) ([]*jobs.Posting, bool, error)
	Set(ctx context.Context, params Params, postings []*jobs.Posting) error
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// RedisCache keeps search results in redis for a fixed time.
type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisCache(rdb redis.Cmdable, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, params Params) ([]*jobs.Posting, bool, error) {
	data, err := c.rdb.Get(ctx, CacheKey(params)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var postings []*jobs.Posting
	if err := json.Unmarshal(data, &postings); err != nil {
		return nil, false, fmt.Errorf("decode cached postings: %w", err)
	}
	return postings, true, nil
}

func (c *RedisCache) Set(ctx context.Context, params Params, postings []*jobs.Posting) error {
	data, err := json.Marshal(postings)
	if err != nil {
		return fmt.Errorf("encode postings: %w", err)
	}
	if err := c.rdb.Set(ctx, CacheKey(params), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// CacheKey is stable for equal params regardless of letter case and spacing.
func CacheKey(params Params) string {
	parts := []string{
		strings.ToLower(strings.Join(strings.Fields(params.Query), " ")),
		strings.ToLower(strings.TrimSpace(params.Location)),
		strings.ToLower(strings.TrimSpace(params.Platform)),
		strconv.Itoa(params.Count),
		strconv.Itoa(params.MaxAgeDays),
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "\x1f")))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

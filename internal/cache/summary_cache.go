// Package cache holds the read-side caches in front of the report store.
// Caching is optional: with CACHE_ENABLED unset the noop implementation is
// wired and every read goes to postgres.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pharmops/mrep/backend-go/internal/config"
	"github.com/pharmops/mrep/backend-go/internal/domain"
)

const (
	summaryKeyPrefix = "report:summary"
	scanBatchSize    = 100
)

// SummaryCache caches computed executive summaries per filter. Invalidation
// is wholesale: any successful import clears every summary.
type SummaryCache interface {
	Get(ctx context.Context, filter domain.SummaryFilter) (*domain.Summary, bool, error)
	Set(ctx context.Context, filter domain.SummaryFilter, summary *domain.Summary) error
	InvalidateAll(ctx context.Context) error
}

type redisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSummaryCache struct{}

// NewSummaryCache returns the redis-backed cache when caching is enabled and
// reachable, the noop cache otherwise.
func NewSummaryCache(cfg config.CacheConfig) (SummaryCache, error) {
	if !cfg.Enabled {
		return &noopSummaryCache{}, nil
	}

	client, ttl, err := dialRedis(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSummaryCache{client: client, ttl: ttl}, nil
}

func NewNoopSummaryCache() SummaryCache {
	return &noopSummaryCache{}
}

func (c *redisSummaryCache) Get(ctx context.Context, filter domain.SummaryFilter) (*domain.Summary, bool, error) {
	payload, err := c.client.Get(ctx, summaryKey(filter)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.Summary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode summary cache: %w", err)
	}

	return &summary, true, nil
}

func (c *redisSummaryCache) Set(ctx context.Context, filter domain.SummaryFilter, summary *domain.Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary cache: %w", err)
	}

	if err := c.client.Set(ctx, summaryKey(filter), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisSummaryCache) InvalidateAll(ctx context.Context) error {
	return purgeByPrefix(ctx, c.client, summaryKeyPrefix, scanBatchSize)
}

func (n *noopSummaryCache) Get(ctx context.Context, filter domain.SummaryFilter) (*domain.Summary, bool, error) {
	return nil, false, nil
}

func (n *noopSummaryCache) Set(ctx context.Context, filter domain.SummaryFilter, summary *domain.Summary) error {
	return nil
}

func (n *noopSummaryCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func summaryKey(filter domain.SummaryFilter) string {
	raw := fmt.Sprintf("department=%s|month=%d|year=%d", filter.Department, filter.Month, filter.Year)
	hash := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", summaryKeyPrefix, hex.EncodeToString(hash[:]))
}

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ViewCounter tracks article detail views. The counter is best-effort:
// losing counts is acceptable, blocking an article read is not.
type ViewCounter interface {
	Increment(ctx context.Context, articleID uuid.UUID) (int64, error)
	Get(ctx context.Context, articleID uuid.UUID) (int64, error)
}

// MemoryViews is the fallback counter when Redis is not configured.
type MemoryViews struct {
	mu    sync.Mutex
	views map[uuid.UUID]int64
}

// NewMemoryViews creates an empty in-memory counter.
func NewMemoryViews() *MemoryViews {
	return &MemoryViews{views: make(map[uuid.UUID]int64)}
}

// Increment bumps and returns the count for an article.
func (m *MemoryViews) Increment(_ context.Context, articleID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[articleID]++
	return m.views[articleID], nil
}

// Get returns the current count for an article.
func (m *MemoryViews) Get(_ context.Context, articleID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.views[articleID], nil
}

// RedisViews counts views in Redis so counts survive restarts and aggregate
// across replicas.
type RedisViews struct {
	client *redis.Client
}

// NewRedisViews creates a Redis-backed counter.
func NewRedisViews(client *redis.Client) *RedisViews {
	return &RedisViews{client: client}
}

func viewKey(articleID uuid.UUID) string {
	return fmt.Sprintf("quire:article:%s:views", articleID)
}

// Increment bumps and returns the count for an article.
func (r *RedisViews) Increment(ctx context.Context, articleID uuid.UUID) (int64, error) {
	n, err := r.client.Incr(ctx, viewKey(articleID)).Result()
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return n, nil
}

// Get returns the current count for an article.
func (r *RedisViews) Get(ctx context.Context, articleID uuid.UUID) (int64, error) {
	n, err := r.client.Get(ctx, viewKey(articleID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get views: %w", err)
	}
	return n, nil
}

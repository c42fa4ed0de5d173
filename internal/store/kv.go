package store

import (
	"context"
	"errors"
	"path"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrMiss = errors.New("cache miss")

type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
}

// ListKV capped lists stored newest entry first
type ListKV interface {
	// PushCapped prepends one value per key and trims each list to limit entries.
	PushCapped(ctx context.Context, entries map[string]string, limit int, ttl time.Duration) error
	// Range returns the whole list, newest first; empty when the key is missing.
	Range(ctx context.Context, key string) ([]string, error)
}

type RedisKV struct {
	c *redis.Client
}

func NewRedisKV(c *redis.Client) *RedisKV { return &RedisKV{c: c} }

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.c.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.c.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKV) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		k, next, err := r.c.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

// PushCapped sends LPUSH + LTRIM (+ EXPIRE) for every key in one pipeline.
func (r *RedisKV) PushCapped(ctx context.Context, entries map[string]string, limit int, ttl time.Duration) error {
	if len(entries) == 0 {
		return nil
	}
	if limit < 1 {
		limit = 1
	}
	_, err := r.c.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range entries {
			pipe.LPush(ctx, key, value)
			pipe.LTrim(ctx, key, 0, int64(limit-1))
			if ttl > 0 {
				pipe.Expire(ctx, key, ttl)
			}
		}
		return nil
	})
	return err
}

func (r *RedisKV) Range(ctx context.Context, key string) ([]string, error) {
	return r.c.LRange(ctx, key, 0, -1).Result()
}

// MemoryKV process-local KV used when Redis is disabled
type MemoryKV struct {
	mu    sync.RWMutex
	data  map[string]memoryEntry
	lists map[string]memoryList
	now   func() time.Time
}

type memoryEntry struct {
	value   string
	expires time.Time // zero = no expiry
}

type memoryList struct {
	values  []string // newest first
	expires time.Time
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string]memoryEntry{}, lists: map[string]memoryList{}, now: time.Now}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[key]
	if !ok || m.expired(e) {
		return "", ErrMiss
	}
	return e.value, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.data[key] = e
	return nil
}

// ScanKeys matches glob patterns the way Redis SCAN MATCH does for '*' and '?'.
func (m *MemoryKV) ScanKeys(_ context.Context, pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := []string{}
	for k, e := range m.data {
		if m.expired(e) {
			continue
		}
		ok, err := path.Match(pattern, k)
		if err != nil {
			return nil, err
		}
		if ok {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *MemoryKV) PushCapped(_ context.Context, entries map[string]string, limit int, ttl time.Duration) error {
	if limit < 1 {
		limit = 1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, value := range entries {
		l := m.lists[key]
		if m.isExpired(l.expires) {
			l = memoryList{}
		}
		n := len(l.values) + 1
		if n > limit {
			n = limit
		}
		values := make([]string, 0, n)
		values = append(values, value)
		values = append(values, l.values[:n-1]...)
		l.values = values
		if ttl > 0 {
			l.expires = m.now().Add(ttl)
		}
		m.lists[key] = l
	}
	return nil
}

func (m *MemoryKV) Range(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.lists[key]
	if !ok || m.isExpired(l.expires) {
		return []string{}, nil
	}
	out := make([]string, len(l.values))
	copy(out, l.values)
	return out, nil
}

func (m *MemoryKV) expired(e memoryEntry) bool {
	return m.isExpired(e.expires)
}

func (m *MemoryKV) isExpired(at time.Time) bool {
	return !at.IsZero() && !m.now().Before(at)
}

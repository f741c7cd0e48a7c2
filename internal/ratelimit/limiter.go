package ratelimit

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter bounds how many events a key may record inside a sliding window.
type Limiter interface {
	// Allow records an attempt for key and reports whether it is within the
	// limit. Denied attempts still count toward the window.
	Allow(ctx context.Context, key string) (bool, error)
	Stop()
}

// New returns a Redis-backed limiter when a client is available, otherwise an
// in-process limiter. The in-process fallback is only correct for a
// single-instance deployment.
func New(rdb *redis.Client, prefix string, limit int, window time.Duration) Limiter {
	if rdb != nil {
		return NewRedisLimiter(rdb, prefix, limit, window)
	}
	return NewMemoryLimiter(limit, window)
}

// RedisLimiter implements a sliding window over a Redis sorted set, shared
// across all server instances.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedisLimiter builds a Redis-backed limiter.
func NewRedisLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// Allow trims expired entries, records the attempt and compares the window
// cardinality against the limit in one pipeline.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	redisKey := l.prefix + ":" + key
	cutoff := strconv.FormatInt(now.Add(-l.window).UnixNano(), 10)

	pipe := l.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", cutoff)
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: strconv.FormatInt(now.UnixNano(), 10),
	})
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return countCmd.Val() <= int64(l.limit), nil
}

// Stop is a no-op; the Redis client lifecycle is owned by the caller.
func (l *RedisLimiter) Stop() {}

// limiterEntry tracks attempt timestamps for a single key.
type limiterEntry struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// MemoryLimiter provides a per-key sliding window held in process memory.
type MemoryLimiter struct {
	mu      sync.RWMutex
	clients map[string]*limiterEntry
	limit   int
	window  time.Duration
	stopCh  chan struct{}
}

// NewMemoryLimiter creates an in-process limiter and starts a background
// goroutine that drops idle entries.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		clients: make(map[string]*limiterEntry),
		limit:   limit,
		window:  window,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.cleanup()
			case <-l.stopCh:
				return
			}
		}
	}()

	return l
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.RLock()
	entry, exists := l.clients[key]
	l.mu.RUnlock()

	if !exists {
		l.mu.Lock()
		entry, exists = l.clients[key]
		if !exists {
			entry = &limiterEntry{}
			l.clients[key] = entry
		}
		l.mu.Unlock()
	}

	now := time.Now()
	cutoff := now.Add(-l.window)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	valid := entry.timestamps[:0]
	for _, ts := range entry.timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	entry.timestamps = append(valid, now)

	return len(entry.timestamps) <= l.limit, nil
}

// Stop terminates the cleanup goroutine.
func (l *MemoryLimiter) Stop() {
	close(l.stopCh)
}

func (l *MemoryLimiter) cleanup() {
	cutoff := time.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, entry := range l.clients {
		entry.mu.Lock()
		hasRecent := false
		for _, ts := range entry.timestamps {
			if ts.After(cutoff) {
				hasRecent = true
				break
			}
		}
		entry.mu.Unlock()

		if !hasRecent {
			delete(l.clients, key)
		}
	}
}

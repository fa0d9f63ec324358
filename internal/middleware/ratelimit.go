// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// windowStore counts hits in a sliding window. hit records a hit for key
// unless the window is full, in which case it returns how long until the
// oldest hit leaves the window.
type windowStore interface {
	hit(ctx context.Context, key string, now time.Time) (wait time.Duration, err error)
}

// RateLimiter allows a fixed number of requests per key in a sliding window.
type RateLimiter struct {
	name   string
	store  windowStore
	stop   func()
	window time.Duration

	// KeyFunc derives the limiter key from a request. Defaults to the
	// client IP.
	KeyFunc func(*http.Request) string
}

// NewRateLimiter creates a limiter that keeps its counters in process
// memory. A background goroutine drops idle keys until Stop is called.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	mem := newMemoryWindow(limit, window)
	return &RateLimiter{
		name:    "memory",
		store:   mem,
		stop:    mem.stop,
		window:  window,
		KeyFunc: clientIP,
	}
}

// NewValkeyRateLimiter creates a limiter whose counters live in Valkey so
// every server replica shares them. name namespaces the keys.
func NewValkeyRateLimiter(client *redis.Client, name string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		name: name,
		store: &valkeyWindow{
			client: client,
			prefix: "ratelimit:" + name + ":",
			limit:  limit,
			window: window,
		},
		stop:    func() {},
		window:  window,
		KeyFunc: clientIP,
	}
}

// Stop releases background resources. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stop()
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// header. When the counter store fails the request is let through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wait, err := rl.store.hit(r.Context(), rl.KeyFunc(r), time.Now())
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "limiter", rl.name, "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if wait > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(wait time.Duration) int {
	return max(1, int(math.Ceil(wait.Seconds())))
}

// memoryWindow is a sliding window log held in a map.
type memoryWindow struct {
	limit  int
	window time.Duration

	mu   sync.Mutex
	hits map[string][]time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

func newMemoryWindow(limit int, window time.Duration) *memoryWindow {
	m := &memoryWindow{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		stopCh: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.cleanup(time.Now())
			case <-m.stopCh:
				return
			}
		}
	}()
	return m
}

func (m *memoryWindow) stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *memoryWindow) hit(_ context.Context, key string, now time.Time) (time.Duration, error) {
	cutoff := now.Add(-m.window)

	m.mu.Lock()
	defer m.mu.Unlock()

	live := m.hits[key][:0]
	for _, ts := range m.hits[key] {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}

	if len(live) >= m.limit {
		m.hits[key] = live
		return live[0].Add(m.window).Sub(now), nil
	}
	m.hits[key] = append(live, now)
	return 0, nil
}

// cleanup forgets keys whose newest hit has left the window.
func (m *memoryWindow) cleanup(now time.Time) {
	cutoff := now.Add(-m.window)

	m.mu.Lock()
	defer m.mu.Unlock()
	for key, hits := range m.hits {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(m.hits, key)
		}
	}
}

// slidingWindowScript trims hits older than the window from a sorted set
// scored by millisecond timestamps, then either records the new hit or
// returns the wait until the oldest one expires.
var slidingWindowScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', now - window)
if redis.call('ZCARD', KEYS[1]) >= limit then
	local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
	return {0, tonumber(oldest[2]) + window - now}
end
redis.call('ZADD', KEYS[1], now, ARGV[4])
redis.call('PEXPIRE', KEYS[1], window)
return {1, 0}
`)

type valkeyWindow struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func (v *valkeyWindow) hit(ctx context.Context, key string, now time.Time) (time.Duration, error) {
	res, err := slidingWindowScript.Run(ctx, v.client,
		[]string{v.prefix + key},
		now.UnixMilli(), v.window.Milliseconds(), v.limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return 0, fmt.Errorf("sliding window %s: %w", key, err)
	}
	if len(res) != 2 {
		return 0, fmt.Errorf("sliding window %s: unexpected reply %v", key, res)
	}
	if res[0] == 1 {
		return 0, nil
	}
	return max(time.Duration(res[1])*time.Millisecond, time.Millisecond), nil
}

// BearerOrIP keys requests by their bearer token, falling back to the
// client IP for requests without one.
func BearerOrIP(r *http.Request) string {
	if token := BearerToken(r); token != "" {
		return "bearer:" + token
	}
	return clientIP(r)
}

// clientIP extracts the client's IP address, preferring X-Forwarded-For
// and X-Real-IP for proxied requests.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

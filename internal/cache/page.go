// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pageKeyPrefix = "page:"
	// pageIndexKey is a set of every page key written since the last
	// InvalidateAll. Page keys always start with "/" so it cannot collide.
	pageIndexKey = pageKeyPrefix + "index"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache stores the HTML of anonymous page renders in Valkey. Errors are
// logged and reported as misses so a Valkey outage only costs a render.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache returns a page cache on client. A zero ttl means DefaultPageTTL.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get returns the cached page for key.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	body, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false
	case err != nil:
		slog.Warn("page cache get failed", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return body, true
}

// Set caches a rendered page and records its key in the index. The index
// lives as long as the newest page in it.
func (pc *PageCache) Set(ctx context.Context, key string, html []byte) {
	_, err := pc.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, pageKeyPrefix+key, html, pc.ttl)
		pipe.SAdd(ctx, pageIndexKey, key)
		pipe.Expire(ctx, pageIndexKey, pc.ttl)
		return nil
	})
	if err != nil {
		slog.Warn("page cache set failed", "key", key, "error", err)
	}
}

// Invalidate drops one page.
func (pc *PageCache) Invalidate(ctx context.Context, key string) {
	_, err := pc.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, pageKeyPrefix+key)
		pipe.SRem(ctx, pageIndexKey, key)
		return nil
	})
	if err != nil {
		slog.Warn("page cache invalidate failed", "key", key, "error", err)
		return
	}
	slog.Debug("page cache invalidated", "key", key)
}

// InvalidateAll drops every indexed page. The server calls it at startup
// because a new build may render different HTML.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	keys, err := pc.client.SMembers(ctx, pageIndexKey).Result()
	if err != nil {
		slog.Warn("page cache index read failed", "error", err)
		return
	}

	del := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		del = append(del, pageKeyPrefix+k)
	}
	del = append(del, pageIndexKey)

	if err := pc.client.Del(ctx, del...).Err(); err != nil {
		slog.Warn("page cache clear failed", "error", err)
		return
	}
	if len(keys) > 0 {
		slog.Info("page cache cleared", "pages", len(keys))
	}
}

// PageKey returns the cache key for a path and query. url.Values encodes in
// sorted order, so equivalent URLs share a key.
func PageKey(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

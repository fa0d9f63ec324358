// Package cache provides the Valkey client shared by sessions, session
// events and the rendered page cache for the public site.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	clientName   = "code2motion"
	pingTimeout  = 5 * time.Second
	pingAttempts = 5
)

// ValkeyOptions returns the client options used for the server and for tests.
// db selects the logical database; tests use 15 so they never touch live keys.
func ValkeyOptions(host, port, password string, db int) *redis.Options {
	return &redis.Options{
		Addr:         net.JoinHostPort(host, port),
		Password:     password,
		DB:           db,
		ClientName:   clientName,
		DialTimeout:  pingTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// ConnectValkey creates a client on database 0 and waits for Valkey to
// answer a ping. It retries with a doubling delay because the server is
// often started alongside Valkey and may come up first.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	opts := ValkeyOptions(host, port, password, 0)
	client := redis.NewClient(opts)

	delay := 250 * time.Millisecond
	var err error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		err = client.Ping(ctx).Err()
		cancel()
		if err == nil {
			slog.Info("valkey connected", "addr", opts.Addr, "attempt", attempt)
			return client, nil
		}
		if attempt < pingAttempts {
			slog.Warn("valkey not ready, retrying", "addr", opts.Addr, "attempt", attempt, "error", err)
			time.Sleep(delay)
			delay *= 2
		}
	}

	client.Close()
	return nil, fmt.Errorf("valkey ping %s: %w", opts.Addr, err)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Session event types.
const (
	EventSignedIn  = "signed_in"
	EventSignedOut = "signed_out"
)

const channelPrefix = "session-events:"

// Event is a session change notification for one user.
type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
}

// Events publishes and subscribes to per-user session changes over Valkey
// Pub/Sub.
type Events struct {
	client *redis.Client
}

// NewEvents creates a notifier on the given Valkey client.
func NewEvents(client *redis.Client) *Events {
	return &Events{client: client}
}

// Publish sends an event on the user's channel.
func (e *Events) Publish(ctx context.Context, userID uuid.UUID, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	if err := e.client.Publish(ctx, channelName(userID), payload).Err(); err != nil {
		return fmt.Errorf("publishing on %s: %w", channelName(userID), err)
	}
	return nil
}

// Subscribe listens on the user's channel until Close is called or ctx is
// done. The subscription is confirmed before Subscribe returns, so events
// published afterwards are delivered.
func (e *Events) Subscribe(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	ps := e.client.Subscribe(ctx, channelName(userID))
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribing to %s: %w", channelName(userID), err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		ps:     ps,
		cancel: cancel,
		events: make(chan Event, 8),
		done:   make(chan struct{}),
	}
	go sub.run(subCtx)
	return sub, nil
}

// Subscription delivers events for one user.
type Subscription struct {
	ps     *redis.PubSub
	cancel context.CancelFunc
	events chan Event
	done   chan struct{}
	once   sync.Once
}

// C returns the event stream. It is closed when the subscription ends.
func (s *Subscription) C() <-chan Event {
	return s.events
}

// Done is closed once the receive loop has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close unsubscribes and waits for the receive loop to exit. Safe to call
// more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

func (s *Subscription) run(ctx context.Context) {
	// ReceiveMessage does not watch ctx; closing the PubSub unblocks it.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		<-ctx.Done()
		s.ps.Close()
	}()

	defer func() {
		s.cancel()
		<-closed
		close(s.events)
		close(s.done)
	}()

	for {
		msg, err := s.ps.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				slog.Warn("session events receive failed", "error", err)
			}
			return
		}

		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			slog.Warn("session event decode failed", "error", err)
			continue
		}

		select {
		case s.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func channelName(userID uuid.UUID) string {
	return channelPrefix + userID.String()
}

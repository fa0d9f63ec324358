// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"code2motion/internal/middleware"
	"code2motion/internal/session"
)

// DefaultRevalidateInterval is how often an open events socket re-checks
// that its session still exists.
const DefaultRevalidateInterval = 30 * time.Second

const eventsWriteTimeout = 10 * time.Second

// SessionLookup loads a session by ID.
type SessionLookup interface {
	GetByID(ctx context.Context, id string) (*session.Data, error)
}

// EventSubscriber opens a per-user session event subscription.
type EventSubscriber interface {
	Subscribe(ctx context.Context, userID uuid.UUID) (*session.Subscription, error)
}

// SessionEvents pushes session changes to an open dashboard over a
// WebSocket so it can leave as soon as the session ends.
type SessionEvents struct {
	sessions SessionLookup
	events   EventSubscriber
	interval time.Duration
	upgrader websocket.Upgrader
}

// NewSessionEvents creates the GET /session/events handler.
func NewSessionEvents(sessions SessionLookup, events EventSubscriber, interval time.Duration) *SessionEvents {
	if interval <= 0 {
		interval = DefaultRevalidateInterval
	}
	return &SessionEvents{
		sessions: sessions,
		events:   events,
		interval: interval,
		upgrader: websocket.Upgrader{ReadBufferSize: 512, WriteBufferSize: 1024},
	}
}

// Serve upgrades the request and streams events until the client goes
// away, the request ends or the session is gone. The subscription is
// always released on return.
func (h *SessionEvents) Serve(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if !sess.Authenticated() {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub, err := h.events.Subscribe(ctx, sess.UserID)
	if err != nil {
		slog.Error("session events subscribe failed", "user_id", sess.UserID, "error", err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// The client never sends anything; reading detects when it goes away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			// Sign-outs are per user; only forward one that ended this session.
			if ev.Type == session.EventSignedOut && h.alive(ctx, sess.ID) {
				continue
			}
			if err := h.write(conn, ev); err != nil || ev.Type == session.EventSignedOut {
				return
			}

		case <-ticker.C:
			if !h.alive(ctx, sess.ID) {
				h.write(conn, session.Event{Type: session.EventSignedOut, At: time.Now()})
				return
			}
		}
	}
}

// alive reports whether the session still exists. Lookup errors count as
// alive so a Valkey hiccup does not sign anybody out.
func (h *SessionEvents) alive(ctx context.Context, id string) bool {
	data, err := h.sessions.GetByID(ctx, id)
	if err != nil {
		slog.Warn("session revalidation failed", "error", err)
		return true
	}
	return data != nil
}

func (h *SessionEvents) write(conn *websocket.Conn, ev session.Event) error {
	conn.SetWriteDeadline(time.Now().Add(eventsWriteTimeout))
	if err := conn.WriteJSON(ev); err != nil {
		slog.Debug("session events write failed", "error", err)
		return err
	}
	return nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session provides Valkey-backed HTTP session management.
// Sessions are identified by a secure cookie and stored as JSON in Valkey
// with automatic TTL expiry. Each session also carries a random access
// token so API calls can authenticate with a bearer header.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "c2m_session"

	// DefaultTTL is how long a session lives in Valkey before automatic expiry.
	DefaultTTL = 24 * time.Hour

	keyPrefix    = "session:"
	accessPrefix = "access:"

	// idLength is the byte length of session IDs and access tokens.
	idLength = 32
)

// Data holds the session payload stored in Valkey.
type Data struct {
	ID          string    `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	TwoFADone   bool      `json:"two_fa_done"`
	CreatedAt   time.Time `json:"created_at"`
}

// Authenticated reports whether the session may reach protected views.
func (d *Data) Authenticated() bool {
	return d != nil && d.TwoFADone
}

// Store manages session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
	events *Events
}

// NewStore creates a session store backed by the given Valkey client.
// secure sets the Secure flag on the session cookie.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
		secure: secure,
		events: NewEvents(client),
	}
}

// Events returns the session change notifier used by this store.
func (s *Store) Events() *Events {
	return s.events
}

// Create generates a new session and access token, stores both in Valkey,
// and sets the session cookie. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	token, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}

	data.ID = id
	data.AccessToken = token
	data.CreatedAt = time.Now()

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, keyPrefix+id, payload, s.ttl)
		p.Set(ctx, accessPrefix+token, id, s.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	s.publish(ctx, data.UserID, EventSignedIn)
	return id, nil
}

// Get retrieves session data using the session ID from the request cookie.
// Returns nil if no valid session exists.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}
	return s.GetByID(ctx, cookie.Value)
}

// GetByID loads a session by its ID. Returns nil if it has expired.
func (s *Store) GetByID(ctx context.Context, id string) (*Data, error) {
	if id == "" {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &data, nil
}

// GetByToken resolves a bearer access token to its session. Returns nil if
// the token is unknown or the session has expired.
func (s *Store) GetByToken(ctx context.Context, token string) (*Data, error) {
	if token == "" {
		return nil, nil
	}

	id, err := s.client.Get(ctx, accessPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session token lookup: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Update replaces the session data without changing the session ID, the
// access token or the cookie. Resets the TTL.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return fmt.Errorf("session update: no cookie")
	}
	data.ID = cookie.Value

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, keyPrefix+data.ID, payload, s.ttl)
		if data.AccessToken != "" {
			p.Set(ctx, accessPrefix+data.AccessToken, data.ID, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("session update: %w", err)
	}
	return nil
}

// Destroy removes the session and its access token from Valkey, clears the
// cookie and notifies open dashboards of the user.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	data, err := s.GetByID(ctx, cookie.Value)
	if err != nil {
		slog.Warn("session lookup before destroy failed", "error", err)
	}

	keys := []string{keyPrefix + cookie.Value}
	if data != nil && data.AccessToken != "" {
		keys = append(keys, accessPrefix+data.AccessToken)
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
	})

	if data != nil {
		s.publish(ctx, data.UserID, EventSignedOut)
	}
	return nil
}

func (s *Store) publish(ctx context.Context, userID uuid.UUID, kind string) {
	if err := s.events.Publish(ctx, userID, Event{Type: kind, At: time.Now()}); err != nil {
		slog.Warn("session event publish failed", "type", kind, "user_id", userID, "error", err)
	}
}

// generateID creates a cryptographically random identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

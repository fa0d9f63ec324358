// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// mockProvider records calls and returns a configurable reply.
type mockProvider struct {
	name       string
	response   string
	err        error
	mu         sync.Mutex
	callCount  int
	lastSystem string
	lastUser   string
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.lastSystem = systemPrompt
	m.lastUser = userPrompt
	return m.response, m.err
}

type stubModerator struct {
	res *ModerationResult
	err error
	n   int
}

func (s *stubModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	s.n++
	return s.res, s.err
}

func TestRegistryGenerate(t *testing.T) {
	t.Run("delegates to active provider", func(t *testing.T) {
		mock := &mockProvider{name: "freellm", response: `{"html":""}`}
		reg := &Registry{providers: map[string]Provider{"freellm": mock}, active: "freellm"}

		got, err := reg.Generate(context.Background(), "", "make it spin")
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if got != `{"html":""}` {
			t.Errorf("result: got %q", got)
		}
		if mock.callCount != 1 || mock.lastUser != "make it spin" {
			t.Errorf("provider saw %d calls, user %q", mock.callCount, mock.lastUser)
		}
	})

	t.Run("provider error is returned unchanged", func(t *testing.T) {
		cause := errors.New("API error! status: 503")
		reg := &Registry{
			providers: map[string]Provider{"freellm": &mockProvider{name: "freellm", err: cause}},
			active:    "freellm",
		}

		_, err := reg.Generate(context.Background(), "", "x")
		if !errors.Is(err, cause) {
			t.Fatalf("error: got %v, want %v", err, cause)
		}
		if err.Error() != "API error! status: 503" {
			t.Errorf("error text: got %q", err.Error())
		}
	})

	t.Run("no active provider", func(t *testing.T) {
		reg := &Registry{providers: map[string]Provider{}, active: "freellm"}
		if _, err := reg.Generate(context.Background(), "", "x"); err == nil {
			t.Fatal("expected error when active provider is missing")
		}
	})
}

func TestNewRegistry(t *testing.T) {
	for _, name := range []string{"freellm", "openai", "mistral", "claude", "gemini"} {
		t.Run(name, func(t *testing.T) {
			reg := NewRegistry(name, map[string]ProviderConfig{
				name: {APIKey: "key", Model: "model"},
			})
			p, ok := reg.providers[name]
			if !ok {
				t.Fatalf("provider %q not built", name)
			}
			if p.Name() != name {
				t.Errorf("Name: got %q, want %q", p.Name(), name)
			}
		})
	}

	t.Run("skips keyless and unknown configs", func(t *testing.T) {
		reg := NewRegistry("freellm", map[string]ProviderConfig{
			"freellm": {APIKey: ""},
			"claude":  {APIKey: "key"},
			"cohere":  {APIKey: "key"},
		})
		got := reg.Available()
		if len(got) != 1 || got[0] != "claude" {
			t.Errorf("Available: got %v, want [claude]", got)
		}
		if _, err := reg.Generate(context.Background(), "", "x"); err == nil {
			t.Error("freellm without a key should be skipped")
		}
	})

	t.Run("available is sorted", func(t *testing.T) {
		reg := NewRegistry("openai", map[string]ProviderConfig{
			"openai":  {APIKey: "k"},
			"claude":  {APIKey: "k"},
			"freellm": {APIKey: "k"},
		})
		got := reg.Available()
		want := []string{"claude", "freellm", "openai"}
		if len(got) != len(want) {
			t.Fatalf("Available: got %v", got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Available[%d]: got %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("moderator wiring", func(t *testing.T) {
		none := NewRegistry("freellm", map[string]ProviderConfig{"freellm": {APIKey: "k"}})
		if none.moderator != nil {
			t.Error("no moderator expected without openai/mistral keys")
		}

		one := NewRegistry("freellm", map[string]ProviderConfig{"mistral": {APIKey: "k"}})
		if _, ok := one.moderator.(*moderationAPI); !ok {
			t.Errorf("single key: got %T", one.moderator)
		}

		both := NewRegistry("freellm", map[string]ProviderConfig{
			"openai":  {APIKey: "k"},
			"mistral": {APIKey: "k"},
		})
		if _, ok := both.moderator.(*fallbackModerator); !ok {
			t.Errorf("both keys: got %T", both.moderator)
		}
	})
}

func TestRegistryCheckPrompt(t *testing.T) {
	t.Run("safe without moderator", func(t *testing.T) {
		reg := &Registry{providers: map[string]Provider{}}
		res, err := reg.CheckPrompt(context.Background(), "anything")
		if err != nil || !res.Safe {
			t.Fatalf("got %+v, %v", res, err)
		}
	})

	t.Run("delegates to moderator", func(t *testing.T) {
		mod := &stubModerator{res: &ModerationResult{Safe: false, Categories: []string{"violence"}}}
		reg := &Registry{providers: map[string]Provider{}, moderator: mod}

		res, err := reg.CheckPrompt(context.Background(), "bad")
		if err != nil {
			t.Fatalf("CheckPrompt: %v", err)
		}
		if res.Safe || mod.n != 1 {
			t.Errorf("got %+v after %d calls", res, mod.n)
		}
	})
}

func TestFallbackModerator(t *testing.T) {
	primary := &stubModerator{err: errors.New("401")}
	secondary := &stubModerator{res: &ModerationResult{Safe: true}}
	f := &fallbackModerator{primary: primary, secondary: secondary}

	res, err := f.CheckSafety(context.Background(), "x")
	if err != nil || !res.Safe {
		t.Fatalf("got %+v, %v", res, err)
	}
	if primary.n != 1 || secondary.n != 1 {
		t.Errorf("calls: primary %d, secondary %d", primary.n, secondary.n)
	}

	primary.err = nil
	primary.res = &ModerationResult{Safe: true}
	f.CheckSafety(context.Background(), "x")
	if secondary.n != 1 {
		t.Error("secondary should not be called when primary succeeds")
	}
}

func TestRegistryConcurrency(t *testing.T) {
	mock := &mockProvider{name: "a", response: "from a"}
	reg := &Registry{providers: map[string]Provider{"a": mock}, active: "a"}

	const goroutines = 50
	var wg sync.WaitGroup
	for range goroutines {
		wg.Go(func() {
			got, err := reg.Generate(context.Background(), "", "x")
			if err != nil || got != "from a" {
				t.Errorf("Generate: %q, %v", got, err)
			}
			reg.Available()
		})
	}
	wg.Wait()

	if mock.callCount != goroutines {
		t.Errorf("calls: got %d, want %d", mock.callCount, goroutines)
	}
}

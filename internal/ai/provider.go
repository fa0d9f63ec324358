// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai turns an animation prompt into a model reply. Each backend
// (FreeLLM, OpenAI, Mistral, Claude, Gemini) implements Provider; the
// Registry holds the configured ones and calls the active one.
package ai

import (
	"context"
	"fmt"
	"maps"
	"slices"
)

// Provider is a text generation backend.
type Provider interface {
	// Generate sends a prompt to the model and returns the reply text.
	// systemPrompt may be empty; userPrompt carries the request.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Name returns the provider identifier (e.g. "freellm", "openai").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Registry holds the configured providers. It is built once at startup and
// never modified, so it is safe for concurrent use without locking.
type Registry struct {
	providers map[string]Provider
	active    string
	moderator Moderator // nil when no moderation API key is configured
}

// NewRegistry builds a provider for every config with an API key; unknown
// names are ignored. A moderator is set up from the OpenAI key, the Mistral
// key, or both with OpenAI asked first.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		active:    active,
	}

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		if p := newProvider(name, cfg); p != nil {
			r.providers[name] = p
		}
	}

	var mods []Moderator
	if cfg := configs["openai"]; cfg.APIKey != "" {
		mods = append(mods, newOpenAIModerator(cfg.APIKey, cfg.BaseURL))
	}
	if cfg := configs["mistral"]; cfg.APIKey != "" {
		mods = append(mods, newMistralModerator(cfg.APIKey, cfg.BaseURL))
	}
	switch len(mods) {
	case 1:
		r.moderator = mods[0]
	case 2:
		r.moderator = &fallbackModerator{primary: mods[0], secondary: mods[1]}
	}

	return r
}

func newProvider(name string, cfg ProviderConfig) Provider {
	switch name {
	case "freellm":
		return newFreeLLM(cfg)
	case "openai":
		return newOpenAI(cfg)
	case "mistral":
		return newMistral(cfg)
	case "claude":
		return newClaude(cfg)
	case "gemini":
		return newGemini(cfg)
	}
	return nil
}

// Generate asks the active provider once. Its error is returned unchanged
// so the text can be reported to the caller.
func (r *Registry) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	p, ok := r.providers[r.active]
	if !ok {
		return "", fmt.Errorf("ai: no provider configured for %q", r.active)
	}
	return p.Generate(ctx, systemPrompt, userPrompt)
}

// ActiveName returns the name of the active provider.
func (r *Registry) ActiveName() string {
	return r.active
}

// Available returns the sorted names of all configured providers.
func (r *Registry) Available() []string {
	return slices.Sorted(maps.Keys(r.providers))
}

// CheckPrompt runs a prompt through the moderation API. A registry without
// a moderator reports every prompt as safe.
func (r *Registry) CheckPrompt(ctx context.Context, prompt string) (*ModerationResult, error) {
	if r.moderator == nil {
		return &ModerationResult{Safe: true}, nil
	}
	return r.moderator.CheckSafety(ctx, prompt)
}

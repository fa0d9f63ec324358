// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
)

// ModerationResult contains the outcome of a prompt safety check.
type ModerationResult struct {
	Safe       bool
	Categories []string // flagged category names, empty when safe
}

// Moderator checks user prompts for policy violations before generation.
type Moderator interface {
	CheckSafety(ctx context.Context, text string) (*ModerationResult, error)
}

// moderationAPI calls an OpenAI-style POST {base}/moderations endpoint.
// OpenAI and Mistral share the request shape; Mistral omits the top-level
// "flagged" field, so any true category counts as flagged.
type moderationAPI struct {
	name    string
	model   string
	apiKey  string
	baseURL string
	client  *http.Client
}

func newOpenAIModerator(apiKey, baseURL string) *moderationAPI {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &moderationAPI{
		name:    "openai",
		model:   "omni-moderation-latest",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func newMistralModerator(apiKey, baseURL string) *moderationAPI {
	if baseURL == "" {
		baseURL = "https://api.mistral.ai/v1"
	}
	return &moderationAPI{
		name:    "mistral",
		model:   "mistral-moderation-latest",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (m *moderationAPI) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	var result moderationResponse
	err := postJSON(ctx, m.client, m.baseURL+"/moderations", bearer(m.apiKey),
		moderationRequest{Model: m.model, Input: text}, &result)
	if err != nil {
		return nil, fmt.Errorf("%s moderation %w", m.name, err)
	}

	if len(result.Results) == 0 {
		return &ModerationResult{Safe: true}, nil
	}

	r := result.Results[0]
	var flagged []string
	for cat, on := range r.Categories {
		if on {
			flagged = append(flagged, displayCategory(cat))
		}
	}
	sort.Strings(flagged)

	if !r.Flagged && len(flagged) == 0 {
		return &ModerationResult{Safe: true}, nil
	}
	return &ModerationResult{Safe: false, Categories: flagged}, nil
}

// displayCategory turns "hate/threatening" into "hate (threatening)" and
// "self_harm" into "self harm".
func displayCategory(cat string) string {
	display := cat
	if i := strings.Index(display, "/"); i >= 0 {
		display = display[:i] + " (" + display[i+1:] + ")"
	}
	return strings.ReplaceAll(display, "_", " ")
}

// fallbackModerator asks the primary moderator and, when it errors, the
// secondary one.
type fallbackModerator struct {
	primary   Moderator
	secondary Moderator
}

func (f *fallbackModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	res, err := f.primary.CheckSafety(ctx, text)
	if err == nil {
		return res, nil
	}
	slog.Warn("primary moderator failed, using fallback", "error", err)
	return f.secondary.CheckSafety(ctx, text)
}

type moderationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type moderationResponse struct {
	Results []moderationResult `json:"results"`
}

type moderationResult struct {
	Flagged    bool            `json:"flagged"`
	Categories map[string]bool `json:"categories"`
}

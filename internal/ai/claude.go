// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// claudeJSONPrefill starts the assistant turn so the reply continues a JSON
// object instead of opening with prose.
const claudeJSONPrefill = "{"

// claudeProvider uses the Anthropic Messages API (POST /v1/messages).
type claudeProvider struct {
	config ProviderConfig
	client *http.Client
}

func newClaude(cfg ProviderConfig) *claudeProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	return &claudeProvider{
		config: cfg,
		client: &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *claudeProvider) Name() string { return "claude" }

// Generate asks for a single JSON object. The prefilled brace is restored
// in front of the returned text, so callers see the complete object.
func (p *claudeProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body := claudeRequest{
		Model:     p.config.Model,
		MaxTokens: 4096,
		System:    systemPrompt,
		Messages: []claudeMessage{
			{Role: "user", Content: userPrompt},
			{Role: "assistant", Content: claudeJSONPrefill},
		},
	}
	header := http.Header{
		"X-Api-Key":         {p.config.APIKey},
		"Anthropic-Version": {"2023-06-01"},
	}

	var result claudeResponse
	if err := postJSON(ctx, p.client, p.config.BaseURL+"/v1/messages", header, body, &result); err != nil {
		return "", fmt.Errorf("claude %w", err)
	}
	if result.StopReason == "max_tokens" {
		slog.Warn("claude reply truncated at max_tokens", "model", p.config.Model)
	}

	var sb strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("claude: no text content in response")
	}
	return claudeJSONPrefill + sb.String(), nil
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeResponse struct {
	Content    []claudeContentBlock `json:"content"`
	StopReason string               `json:"stop_reason"`
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// freeLLMProvider talks to the ApiFreeLLM chat endpoint
// (POST {base}/chat with {"message": ...}). It is the default backend.
type freeLLMProvider struct {
	config ProviderConfig
	client *http.Client
}

// newFreeLLM creates the provider. The HTTP client has no timeout; the
// request context bounds the call.
func newFreeLLM(cfg ProviderConfig) *freeLLMProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://apifreellm.com/api"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &freeLLMProvider{
		config: cfg,
		client: &http.Client{},
	}
}

func (p *freeLLMProvider) Name() string { return "freellm" }

// Generate sends a single message. The endpoint has no system role, so a
// non-empty systemPrompt is prepended to the user prompt.
func (p *freeLLMProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	message := userPrompt
	if systemPrompt != "" {
		message = systemPrompt + "\n\n" + userPrompt
	}

	var result freeLLMResponse
	err := postJSON(ctx, p.client, p.config.BaseURL+"/chat", bearer(p.config.APIKey),
		freeLLMRequest{Message: message}, &result)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			return "", fmt.Errorf("API error! status: %d", se.StatusCode)
		}
		return "", fmt.Errorf("freellm %w", err)
	}

	if result.Status != "success" {
		if result.Error != "" {
			return "", errors.New(result.Error)
		}
		return "", errors.New("API request failed")
	}
	return result.Response, nil
}

type freeLLMRequest struct {
	Message string `json:"message"`
}

type freeLLMResponse struct {
	Status   string `json:"status"`
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

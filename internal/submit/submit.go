// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package submit is the client side of prompt submission: it sanitizes a
// prompt, posts it to the generation endpoint with the session's access
// token and keeps the latest generated animation.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"code2motion/internal/animation"
	"code2motion/internal/sanitize"
)

var (
	// ErrEmptyPrompt is returned when the sanitized prompt is empty. No
	// request is made.
	ErrEmptyPrompt = errors.New("Please enter a prompt for your animation")

	// ErrGenerationFailed wraps every transport, status or handler error.
	ErrGenerationFailed = errors.New("Failed to generate animation. Please try again.")
)

// Flow submits prompts for one signed-in user. It is safe for concurrent
// use; when submissions overlap, the last response to arrive wins.
type Flow struct {
	endpoint string
	token    string
	client   *http.Client

	mu      sync.Mutex
	input   string
	current *animation.Animation
}

// New creates a Flow posting to endpoint with the bearer token. A nil
// client means http.DefaultClient.
func New(endpoint, token string, client *http.Client) *Flow {
	if client == nil {
		client = http.DefaultClient
	}
	return &Flow{endpoint: endpoint, token: token, client: client}
}

// SetInput records the text currently typed by the user.
func (f *Flow) SetInput(s string) {
	f.mu.Lock()
	f.input = s
	f.mu.Unlock()
}

// Input returns the pending input. It is cleared by a successful Submit.
func (f *Flow) Input() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// Current returns a copy of the last generated animation, or nil.
func (f *Flow) Current() *animation.Animation {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return nil
	}
	a := *f.current
	return &a
}

type response struct {
	Success   bool                 `json:"success"`
	Animation *animation.Animation `json:"animation"`
	Error     string               `json:"error"`
}

// Submit sanitizes prompt and requests an animation for it. On success the
// result becomes Current and the input is cleared. On failure the state is
// left as it was and the returned error wraps ErrGenerationFailed.
func (f *Flow) Submit(ctx context.Context, prompt string) (*animation.Animation, error) {
	clean := strings.TrimSpace(sanitize.Prompt(prompt))
	if clean == "" {
		return nil, ErrEmptyPrompt
	}

	a, err := f.post(ctx, clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	f.mu.Lock()
	f.current = a
	f.input = ""
	f.mu.Unlock()

	out := *a
	return &out, nil
}

func (f *Flow) post(ctx context.Context, prompt string) (*animation.Animation, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	var out response
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if out.Error != "" {
			return nil, fmt.Errorf("status %d: %s", resp.StatusCode, out.Error)
		}
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decoding response: %w", decodeErr)
	}
	if !out.Success || out.Animation == nil {
		if out.Error != "" {
			return nil, errors.New(out.Error)
		}
		return nil, errors.New("response carried no animation")
	}
	return out.Animation, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"code2motion/internal/ai"
	"code2motion/internal/animation"
	"code2motion/internal/middleware"
	"code2motion/internal/models"
	"code2motion/internal/session"
)

// GenerateCORSHeaders are the request headers browsers may send to the
// generation endpoint.
var GenerateCORSHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

// TokenSessions resolves a bearer access token to its session.
type TokenSessions interface {
	GetByToken(ctx context.Context, token string) (*session.Data, error)
}

// TextGenerator is the part of ai.Registry used by the generation endpoint.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error)
}

// PromptRecorder persists accepted prompts.
type PromptRecorder interface {
	Create(rec *models.PromptRecord) error
}

// Generate serves POST /functions/generate-animation.
type Generate struct {
	sessions TokenSessions
	ai       TextGenerator
	records  PromptRecorder
	moderate bool
}

// NewGenerate creates the generation handler. When moderate is true every
// prompt is checked by the registry's moderator before generation.
func NewGenerate(sessions TokenSessions, gen TextGenerator, records PromptRecorder, moderate bool) *Generate {
	return &Generate{
		sessions: sessions,
		ai:       gen,
		records:  records,
		moderate: moderate,
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Success   bool                `json:"success"`
	Animation animation.Animation `json:"animation"`
}

type errorResponse struct {
	Error      string   `json:"error"`
	Categories []string `json:"categories,omitempty"`
}

// Animation turns a prompt into an animation. A failed upstream call is a
// 500 carrying the cause; a reply that cannot be parsed still yields a
// fallback animation. Storing the record is best effort.
func (g *Generate) Animation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := middleware.BearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}
	sess, err := g.sessions.GetByToken(ctx, token)
	if err != nil {
		slog.Warn("access token lookup failed", "error", err)
	}
	if !sess.Authenticated() {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("generate: decode request", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Prompt is required"})
		return
	}

	if g.moderate {
		res, err := g.ai.CheckPrompt(ctx, req.Prompt)
		switch {
		case err != nil:
			slog.Warn("moderation unavailable, continuing", "error", err)
		case !res.Safe:
			slog.Info("prompt rejected by moderation", "user_id", sess.UserID, "categories", res.Categories)
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:      "Prompt violates the content policy",
				Categories: res.Categories,
			})
			return
		}
	}

	reply, err := g.ai.Generate(ctx, "", animation.BuildPrompt(req.Prompt))
	if err != nil {
		slog.Error("generate animation failed", "user_id", sess.UserID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	anim, outcome := animation.Extract(reply, req.Prompt)
	if outcome != animation.Parsed {
		slog.Warn("model reply not parsed, using fallback", "outcome", outcome.String())
	}

	rec := &models.PromptRecord{
		UserID:      sess.UserID,
		Prompt:      req.Prompt,
		HTMLOutput:  anim.HTML,
		CSSOutput:   anim.CSS,
		Description: anim.Description,
	}
	if err := g.records.Create(rec); err != nil {
		slog.Warn("failed to save prompt history", "user_id", sess.UserID, "error", err)
	}

	writeJSON(w, http.StatusOK, generateResponse{Success: true, Animation: anim})
}

// writeJSON encodes data as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

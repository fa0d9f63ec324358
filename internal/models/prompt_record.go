// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"code2motion/internal/animation"
)

// PromptRecord is one saved generation: the prompt and the animation the
// server returned for it. Records are written once and never updated.
type PromptRecord struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Prompt      string    `json:"prompt"`
	HTMLOutput  string    `json:"html_output"`
	CSSOutput   string    `json:"css_output"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Animation returns the stored markup, style and description.
func (p *PromptRecord) Animation() animation.Animation {
	return animation.Animation{
		HTML:        p.HTMLOutput,
		CSS:         p.CSSOutput,
		Description: p.Description,
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package animation holds the generated animation type and the steps that
// surround the LLM call: building the instruction prompt, extracting the
// JSON object from a free-text reply, and substituting a fallback when the
// reply does not contain one.
package animation

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Animation is the {markup, style, description} triple returned for a prompt.
type Animation struct {
	HTML        string `json:"html"`
	CSS         string `json:"css"`
	Description string `json:"description"`
}

// Outcome records how Extract produced its result.
type Outcome int

const (
	// Parsed means the reply contained a decodable JSON object.
	Parsed Outcome = iota
	// NoMatch means the reply had no {...} span; the pulse fallback was used.
	NoMatch
	// Malformed means a {...} span was found but did not decode; the bounce
	// fallback was used.
	Malformed
)

func (o Outcome) String() string {
	switch o {
	case Parsed:
		return "parsed"
	case NoMatch:
		return "no_match"
	case Malformed:
		return "malformed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// jsonSpan is greedy: it runs from the first '{' to the last '}' in the
// reply. Replies with several objects or stray braces in prose yield a span
// that fails to decode, which selects the fallback.
var jsonSpan = regexp.MustCompile(`\{[\s\S]*\}`)

// Extract locates the JSON object in a model reply and decodes it. It never
// fails: when the reply cannot be used, a fallback animation embedding the
// original prompt is returned instead.
func Extract(reply, prompt string) (Animation, Outcome) {
	span := jsonSpan.FindString(reply)
	if span == "" {
		return Fallback(prompt, NoMatch), NoMatch
	}

	var a Animation
	if err := json.Unmarshal([]byte(span), &a); err != nil {
		return Fallback(prompt, Malformed), Malformed
	}
	return a, Parsed
}

// Fallback returns the fixed substitute animation for a prompt: a bordered
// box that pulses (NoMatch) or bounces (Malformed). The prompt is embedded
// verbatim in the markup and the description.
func Fallback(prompt string, o Outcome) Animation {
	css := `.custom-animation {
  padding: 20px;
  border: 2px solid #3498db;
  border-radius: 10px;
  animation: pulse 2s infinite;
}
@keyframes pulse {
  0%, 100% { transform: scale(1); }
  50% { transform: scale(1.05); }
}`
	if o == Malformed {
		css = `.custom-animation {
  padding: 20px;
  border: 2px solid #3498db;
  border-radius: 10px;
  animation: bounce 1s infinite;
}
@keyframes bounce {
  0%, 100% { transform: translateY(0); }
  50% { transform: translateY(-10px); }
}`
	}

	return Animation{
		HTML:        `<div class="custom-animation">` + prompt + `</div>`,
		CSS:         css,
		Description: "Animation based on: " + prompt,
	}
}

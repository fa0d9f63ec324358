// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL- and object-key-friendly slugs built from
// arbitrary strings such as animation prompts.
package slug

import (
	"regexp"
	"strings"
)

// DefaultMaxLen bounds slugs derived from free-form prompts.
const DefaultMaxLen = 48

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, whitespace or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace matches runs of spaces, tabs and newlines.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "A Bouncing Ball (v2)!" → "a-bouncing-ball-v2"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Limit generates a slug and shortens it to at most maxLen bytes, cutting
// at the last hyphen inside the limit when there is one so words stay whole.
func Limit(s string, maxLen int) string {
	result := Generate(s)
	if maxLen <= 0 || len(result) <= maxLen {
		return result
	}
	result = result[:maxLen]
	if i := strings.LastIndexByte(result, '-'); i > 0 {
		result = result[:i]
	}
	return strings.Trim(result, "-")
}

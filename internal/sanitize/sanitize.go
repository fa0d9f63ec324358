// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sanitize cleans free-text prompts before they leave the client.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MaxPromptLen is the maximum prompt length in characters.
const MaxPromptLen = 1000

// strict removes every element. Text inside script and style elements is
// dropped along with the tags.
var strict = bluemonday.StrictPolicy()

// quotes undoes the quote escaping bluemonday applies to text, leaving the
// same serialization a browser produces for a text node: only & < > are
// escaped.
var quotes = strings.NewReplacer("&#39;", "'", "&#34;", `"`)

// Prompt trims raw, truncates it to MaxPromptLen characters and strips all
// markup. Truncation happens before sanitizing; afterwards only &, < and >
// grow, into &amp; &lt; and &gt;.
func Prompt(raw string) string {
	s := Truncate(strings.TrimSpace(raw), MaxPromptLen)
	return quotes.Replace(strict.Sanitize(s))
}

// Truncate cuts s to at most n characters without splitting a rune.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

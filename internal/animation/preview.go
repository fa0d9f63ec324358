// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package animation

import (
	"html/template"
	"strings"
)

const (
	// exportBodyCSS centers the animation on a standalone page.
	exportBodyCSS = "body { min-height: 100vh; margin: 0; display: flex; align-items: center; justify-content: center; }\n"
	// frameBodyCSS lets the stage background show through the frame and
	// keeps text readable on it.
	frameBodyCSS = "html, body { height: 100%; margin: 0; background: transparent; color: #e6e8f0; font-family: system-ui, sans-serif; }\n" +
		"body { display: flex; align-items: center; justify-content: center; overflow: hidden; }\n"
)

// Preview renders the animation inside the preview stage container. The
// style and markup live in a sandboxed frame document, so generated rules
// and keyframe names apply to this preview only and scripts never run.
// Generated output is otherwise injected as-is: the generation API is a
// trusted source for markup.
func Preview(a Animation) template.HTML {
	doc := page(a.Description, a, frameBodyCSS)

	var sb strings.Builder
	sb.WriteString(`<div class="preview-stage"><iframe class="preview-frame" sandbox="" loading="lazy" title="`)
	sb.WriteString(template.HTMLEscapeString(previewTitle(a)))
	sb.WriteString(`" srcdoc="`)
	sb.WriteString(template.HTMLEscapeString(string(doc)))
	sb.WriteString(`"></iframe></div>`)
	return template.HTML(sb.String())
}

func previewTitle(a Animation) string {
	if a.Description == "" {
		return "Animation preview"
	}
	return a.Description
}

// Document builds a standalone HTML page that plays the animation. Used for
// exports.
func Document(title string, a Animation) []byte {
	return page(title, a, exportBodyCSS)
}

func page(title string, a Animation, baseCSS string) []byte {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	sb.WriteString("<title>")
	sb.WriteString(template.HTMLEscapeString(title))
	sb.WriteString("</title>\n<meta name=\"description\" content=\"")
	sb.WriteString(template.HTMLEscapeString(a.Description))
	sb.WriteString("\">\n<style>\n")
	sb.WriteString(baseCSS)
	sb.WriteString(a.CSS)
	sb.WriteString("\n</style>\n</head>\n<body>\n")
	sb.WriteString(a.HTML)
	sb.WriteString("\n</body>\n</html>\n")
	return []byte(sb.String())
}

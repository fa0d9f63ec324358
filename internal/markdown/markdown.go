// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts Markdown source text into HTML using goldmark
// and serves the embedded site documents (how it works, privacy, terms).
package markdown

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"sync"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

//go:embed docs/*.md
var docsFS embed.FS

// ErrNotFound is returned by Document for an unknown document name.
var ErrNotFound = errors.New("document not found")

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks, task lists
		extension.Typographer, // smart quotes and dashes
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// ToHTML converts Markdown source into HTML. Raw HTML in the source is
// omitted by goldmark's default renderer.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Doc is a rendered site document.
type Doc struct {
	Name  string
	Title string        // text of the first level-one heading
	HTML  template.HTML // rendered body, including the heading
}

var (
	docsMu    sync.Mutex
	docsCache = map[string]*Doc{}
)

// Document renders the embedded document docs/<name>.md. Results are
// memoized since the sources are compiled into the binary.
func Document(name string) (*Doc, error) {
	docsMu.Lock()
	defer docsMu.Unlock()

	if d, ok := docsCache[name]; ok {
		return d, nil
	}

	src, err := fs.ReadFile(docsFS, "docs/"+name+".md")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("read document %s: %w", name, err)
	}

	out, err := ToHTML(string(src))
	if err != nil {
		return nil, fmt.Errorf("render document %s: %w", name, err)
	}

	d := &Doc{Name: name, Title: title(string(src)), HTML: template.HTML(out)}
	docsCache[name] = d
	return d, nil
}

// Names lists the embedded documents without their extension.
func Names() []string {
	entries, _ := docsFS.ReadDir("docs")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	return names
}

func title(src string) string {
	for _, line := range strings.Split(src, "\n") {
		if rest, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

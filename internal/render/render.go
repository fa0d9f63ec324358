// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site and
// the dashboard. Every page template is parsed together with the shared
// base layout that carries the navigation shell.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"code2motion/internal/animation"
	"code2motion/internal/middleware"
	"code2motion/internal/sanitize"
	"code2motion/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Section   string         // Active navigation item (e.g., "home", "gallery")
	Session   *session.Data  // Current user session (nil if anonymous)
	CSRFToken string         // CSRF token for forms and fetch headers
	Data      map[string]any // Page-specific data
	Flashes   []Flash        // One-time notification messages
}

// SignedIn reports whether the page is rendered for a fully authenticated user.
func (p *PageData) SignedIn() bool {
	return p.Session.Authenticated()
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "info"
	Message string
}

// NavItem is one entry of the navigation shell.
type NavItem struct {
	Section string
	Path    string
	Label   string
}

// Nav is the navigation shell shared by every page.
var Nav = []NavItem{
	{Section: "home", Path: "/", Label: "Home"},
	{Section: "generator", Path: "/generator", Label: "Generator"},
	{Section: "gallery", Path: "/gallery", Label: "Gallery"},
	{Section: "about", Path: "/about", Label: "About"},
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// New creates a Renderer by parsing all page templates from the embedded
// filesystem. When devMode is true static asset URLs change on every render
// so browsers never serve stale CSS or JavaScript.
func New(devMode bool) (*Renderer, error) {
	bootVersion := strconv.FormatInt(time.Now().Unix(), 36)

	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"activeClass": func(current, target string) string {
				if current == target {
					return "nav-link active"
				}
				return "nav-link"
			},
			"asset": func(path string) string {
				v := bootVersion
				if devMode {
					v = strconv.FormatInt(time.Now().UnixNano(), 36)
				}
				return path + "?v=" + v
			},
			"nav": func() []NavItem {
				return Nav
			},
			"preview": animation.Preview,
			"formatTime": func(t time.Time) string {
				return t.Format("Jan 2, 2006 15:04")
			},
			"truncate": sanitize.Truncate,
			"join":     strings.Join,
		},
	}

	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" || !strings.HasSuffix(name, ".html") {
			continue
		}

		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			templateFS, "templates/base.html", "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}

	return r, nil
}

// Has reports whether a page template with the given name exists.
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}

// Bytes renders a full page into memory. The session and CSRF token are
// taken from the request context when data does not carry them.
func (rn *Renderer) Bytes(r *http.Request, name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	if data == nil {
		data = &PageData{}
	}

	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Page renders a full page with the given status code. Rendering happens
// into a buffer first so a template error never produces half a page.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	body, err := rn.Bytes(r, name, data)
	if err != nil {
		slog.Error("render page failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	Write(w, status, body)
}

// Write sends an already rendered page.
func Write(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

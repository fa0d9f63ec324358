// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"code2motion/internal/animation"
	"code2motion/internal/cache"
	"code2motion/internal/catalog"
	"code2motion/internal/markdown"
	"code2motion/internal/middleware"
	"code2motion/internal/render"
	"code2motion/internal/sanitize"
)

// PageCacher is the page cache used for anonymous renders.
type PageCacher interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
}

// Site groups handlers for the public pages. Anonymous renders are served
// from the page cache when possible; pages for visitors with a session are
// always rendered fresh since the navigation shell differs.
type Site struct {
	renderer  *render.Renderer
	pageCache PageCacher
}

// NewSite creates the public page handlers. pageCache may be nil.
func NewSite(renderer *render.Renderer, pageCache PageCacher) *Site {
	return &Site{renderer: renderer, pageCache: pageCache}
}

// serve renders a page, going through the cache for anonymous visitors.
func (s *Site) serve(w http.ResponseWriter, r *http.Request, key, name string, data *render.PageData) {
	ctx := r.Context()
	cacheable := s.pageCache != nil && middleware.SessionFromCtx(ctx) == nil

	if cacheable {
		if cached, ok := s.pageCache.Get(ctx, key); ok {
			render.Write(w, http.StatusOK, cached)
			return
		}
	}

	body, err := s.renderer.Bytes(r, name, data)
	if err != nil {
		slog.Error("render page failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if cacheable {
		s.pageCache.Set(ctx, key, body)
	}
	render.Write(w, http.StatusOK, body)
}

// Home renders the landing page.
func (s *Site) Home(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, "/", "home", &render.PageData{Section: "home"})
}

// Generator renders the generator showcase with the example prompts.
func (s *Site) Generator(w http.ResponseWriter, r *http.Request) {
	showcase := catalog.GeneratorShowcase()
	s.serve(w, r, "/generator", "generator", &render.PageData{
		Title:   "Generator",
		Section: "generator",
		Data: map[string]any{
			"Prompts":  catalog.ExamplePrompts(),
			"MaxLen":   sanitize.MaxPromptLen,
			"Showcase": showcase,
			"Preview":  animation.Animation{HTML: showcase.HTML, CSS: showcase.CSS},
		},
	})
}

// Gallery renders the example catalog filtered by ?category=. Unknown
// categories fall back to showing everything.
func (s *Site) Gallery(w http.ResponseWriter, r *http.Request) {
	selected := r.URL.Query().Get("category")
	if !catalog.IsCategory(selected) {
		selected = catalog.CategoryAll
	}

	key := "/gallery"
	if selected != catalog.CategoryAll {
		key = cache.PageKey(key, url.Values{"category": {selected}})
	}

	s.serve(w, r, key, "gallery", &render.PageData{
		Title:   "Gallery",
		Section: "gallery",
		Data: map[string]any{
			"Categories": catalog.Categories(),
			"Selected":   selected,
			"Examples":   catalog.Filter(selected),
		},
	})
}

// About renders the about page.
func (s *Site) About(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, "/about", "about", &render.PageData{
		Title:   "About",
		Section: "about",
		Data: map[string]any{
			"Features": catalog.AboutFeatures(),
			"Team":     catalog.Team(),
		},
	})
}

// Document returns a handler rendering the embedded Markdown document name.
func (s *Site) Document(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := markdown.Document(name)
		if errors.Is(err, markdown.ErrNotFound) {
			s.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Error("render document failed", "document", name, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		s.serve(w, r, r.URL.Path, "document", &render.PageData{
			Title: doc.Title,
			Data:  map[string]any{"Doc": doc},
		})
	}
}

// NotFound renders the 404 page. It is never cached.
func (s *Site) NotFound(w http.ResponseWriter, r *http.Request) {
	slog.Debug("page not found", "path", r.URL.Path)
	s.renderer.Page(w, r, http.StatusNotFound, "not_found", &render.PageData{Title: "Page Not Found"})
}

// Health reports liveness for load balancers.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"code2motion/internal/render"
	"code2motion/internal/session"
)

// memCache is an in-memory PageCacher.
type memCache struct {
	mu    sync.Mutex
	pages map[string][]byte
	sets  int
}

func newMemCache() *memCache { return &memCache{pages: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.pages[key]
	return b, ok
}

func (c *memCache) Set(_ context.Context, key string, html []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[key] = html
	c.sets++
}

func newTestSite(t *testing.T, pc PageCacher) *Site {
	t.Helper()
	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return NewSite(renderer, pc)
}

func TestSitePages(t *testing.T) {
	site := newTestSite(t, nil)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		target  string
		want    []string
	}{
		{"home", site.Home, "/", []string{"Web Animations", `href="/gallery"`}},
		{"generator", site.Generator, "/generator", []string{`id="showcase-form"`, "data-prompt="}},
		{"gallery", site.Gallery, "/gallery", []string{"Animation Gallery", "Glow Button Hover", "Morphing Button"}},
		{"about", site.About, "/about", []string{"About Code2Motion"}},
		{"how it works", site.Document("how-it-works"), "/how-it-works", []string{"<h1"}},
		{"privacy", site.Document("privacy"), "/privacy", []string{"<h1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			body := rec.Body.String()
			for _, w := range tt.want {
				if !strings.Contains(body, w) {
					t.Errorf("body missing %q", w)
				}
			}
		})
	}
}

func TestSiteGalleryFilter(t *testing.T) {
	site := newTestSite(t, nil)

	get := func(target string) string {
		rec := httptest.NewRecorder()
		site.Gallery(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", target, rec.Code)
		}
		return rec.Body.String()
	}

	buttons := get("/gallery?category=buttons")
	if !strings.Contains(buttons, "Glow Button Hover") || !strings.Contains(buttons, "Morphing Button") {
		t.Error("buttons filter should list both button examples")
	}
	if strings.Contains(buttons, "Typewriter Effect") {
		t.Error("buttons filter should hide text examples")
	}

	unknown := get("/gallery?category=sliders")
	if !strings.Contains(unknown, "Typewriter Effect") || !strings.Contains(unknown, "Ripple Loading") {
		t.Error("an unknown category should fall back to all examples")
	}
}

func TestSiteDocumentMissing(t *testing.T) {
	site := newTestSite(t, nil)
	rec := httptest.NewRecorder()

	site.Document("nope")(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSiteNotFound(t *testing.T) {
	pc := newMemCache()
	site := newTestSite(t, pc)
	rec := httptest.NewRecorder()

	site.NotFound(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Oops! Page not found") {
		t.Error("missing not-found message")
	}
	if pc.sets != 0 {
		t.Error("404 pages must not be cached")
	}
}

func TestSiteCache(t *testing.T) {
	t.Run("anonymous renders are cached and served", func(t *testing.T) {
		pc := newMemCache()
		site := newTestSite(t, pc)

		rec := httptest.NewRecorder()
		site.About(rec, httptest.NewRequest(http.MethodGet, "/about", nil))
		if _, ok := pc.pages["/about"]; !ok {
			t.Fatal("expected /about to be cached")
		}

		pc.pages["/about"] = []byte("cached about")
		rec = httptest.NewRecorder()
		site.About(rec, httptest.NewRequest(http.MethodGet, "/about", nil))
		if rec.Body.String() != "cached about" {
			t.Errorf("body = %q, want the cached copy", rec.Body.String())
		}
	})

	t.Run("gallery keys include the category", func(t *testing.T) {
		pc := newMemCache()
		site := newTestSite(t, pc)

		site.Gallery(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/gallery?category=text", nil))
		site.Gallery(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/gallery?category=bogus", nil))

		if _, ok := pc.pages["/gallery?category=text"]; !ok {
			t.Errorf("missing filtered key, have %v", keys(pc.pages))
		}
		if _, ok := pc.pages["/gallery"]; !ok {
			t.Errorf("unknown category should share the unfiltered key, have %v", keys(pc.pages))
		}
	})

	t.Run("signed-in renders bypass the cache", func(t *testing.T) {
		pc := newMemCache()
		pc.pages["/"] = []byte("stale anonymous home")
		site := newTestSite(t, pc)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(ctxWithSession(req.Context(), &session.Data{
			ID: "s", UserID: uuid.New(), Email: "nav@example.com", TwoFADone: true,
		}))
		rec := httptest.NewRecorder()
		site.Home(rec, req)

		if strings.Contains(rec.Body.String(), "stale anonymous home") {
			t.Error("signed-in visitor got the anonymous cached page")
		}
		if !strings.Contains(rec.Body.String(), `href="/dashboard"`) {
			t.Error("signed-in shell should link the dashboard")
		}
		if pc.sets != 0 {
			t.Error("signed-in renders must not be cached")
		}
	})
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"status":"ok"}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

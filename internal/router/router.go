// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for
// Code2Motion. The generation API lives under /functions outside CSRF
// protection; every other route shares the session and CSRF stack.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"code2motion/internal/handlers"
	"code2motion/internal/middleware"
	"code2motion/web"
)

// Deps holds everything the router wires together.
type Deps struct {
	Sessions  middleware.SessionGetter
	Site      *handlers.Site
	Auth      *handlers.Auth
	Dashboard *handlers.Dashboard
	Generate  *handlers.Generate
	Events    *handlers.SessionEvents

	// GenerateLimiter throttles the generation API per access token.
	GenerateLimiter *middleware.RateLimiter
	// SignInLimiter throttles credential submissions per client IP.
	SignInLimiter *middleware.RateLimiter

	// SecureCookies sets the Secure flag on the CSRF cookie.
	SecureCookies bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(d.SecureCookies))

	// Health check: no session, no CSRF.
	r.Get("/health", handlers.Health)

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))

	// Generation API: bearer token auth, open CORS.
	r.Route("/functions", func(r chi.Router) {
		r.Use(middleware.CORS(handlers.GenerateCORSHeaders...))
		if d.GenerateLimiter != nil {
			r.Use(d.GenerateLimiter.Middleware)
		}
		r.Post("/generate-animation", d.Generate.Animation)
		r.Options("/generate-animation", d.Generate.Animation)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadSession(d.Sessions))
		r.Use(middleware.NewCSRF(d.SecureCookies))

		// Public pages.
		r.Get("/", d.Site.Home)
		r.Get("/generator", d.Site.Generator)
		r.Get("/gallery", d.Site.Gallery)
		r.Get("/about", d.Site.About)
		for _, name := range []string{"how-it-works", "privacy", "terms"} {
			r.Get("/"+name, d.Site.Document(name))
		}

		// Sign in and sign up, only for visitors without a session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RedirectIfAuthenticated)
			r.Get("/auth", d.Auth.SignInPage)
			r.Get("/signup", d.Auth.SignUpPage)

			r.Group(func(r chi.Router) {
				if d.SignInLimiter != nil {
					r.Use(d.SignInLimiter.Middleware)
				}
				r.Post("/auth", d.Auth.SignIn)
				r.Post("/signup", d.Auth.SignUp)
			})
		})

		// Second factor: a session is required but not yet verified.
		r.Get("/auth/2fa", d.Auth.TwoFAPage)
		r.Post("/auth/2fa", d.Auth.TwoFAVerify)
		r.Post("/auth/signout", d.Auth.SignOut)

		// Authenticated and 2FA-verified area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/dashboard", d.Dashboard.Home)
			r.Get("/dashboard/history/{id}/export", d.Dashboard.Export)
			r.Get("/dashboard/2fa/setup", d.Dashboard.TwoFASetupPage)
			r.Post("/dashboard/2fa/setup", d.Dashboard.TwoFASetupConfirm)
			r.Get("/session/events", d.Events.Serve)
		})

		r.NotFound(d.Site.NotFound)
	})

	return r
}

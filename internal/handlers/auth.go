// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"

	"code2motion/internal/middleware"
	"code2motion/internal/render"
	"code2motion/internal/session"
	"code2motion/internal/store"
)

// Auth groups the sign-in, sign-up, two-factor and sign-out handlers.
type Auth struct {
	renderer  *render.Renderer
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		renderer:  renderer,
		sessions:  sessions,
		userStore: userStore,
	}
}

func (a *Auth) signInPage(w http.ResponseWriter, r *http.Request, status int, email, errMsg string) {
	a.renderer.Page(w, r, status, "auth", &render.PageData{
		Title: "Sign In",
		Data:  map[string]any{"Email": email, "Error": errMsg},
	})
}

func (a *Auth) signUpPage(w http.ResponseWriter, r *http.Request, status int, email, errMsg string) {
	a.renderer.Page(w, r, status, "signup", &render.PageData{
		Title: "Sign Up",
		Data:  map[string]any{"Email": email, "Error": errMsg, "MinPassword": MinPasswordLen},
	})
}

// SignInPage renders the sign-in form.
func (a *Auth) SignInPage(w http.ResponseWriter, r *http.Request) {
	a.signInPage(w, r, http.StatusOK, "", "")
}

// SignIn checks the credentials and starts a session. Users with two-factor
// authentication enabled are sent to the code prompt first.
func (a *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	user, err := a.userStore.FindByEmail(email)
	if err != nil {
		slog.Error("sign-in lookup failed", "error", err)
		a.signInPage(w, r, http.StatusInternalServerError, email, "An unexpected error occurred.")
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, password) {
		a.signInPage(w, r, http.StatusUnauthorized, email, "Invalid email or password.")
		return
	}

	needs2FA := user.Requires2FA()
	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		TwoFADone: !needs2FA,
	}); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("user signed in", "user_id", user.ID, "two_factor", needs2FA)
	if needs2FA {
		http.Redirect(w, r, "/auth/2fa", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// SignUpPage renders the registration form.
func (a *Auth) SignUpPage(w http.ResponseWriter, r *http.Request) {
	a.signUpPage(w, r, http.StatusOK, "", "")
}

// SignUp creates an account and signs the new user in.
func (a *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if msg := validateSignUp(email, password, r.FormValue("confirm")); msg != "" {
		a.signUpPage(w, r, http.StatusUnprocessableEntity, email, msg)
		return
	}

	user, err := a.userStore.Create(email, password)
	if errors.Is(err, store.ErrEmailTaken) {
		a.signUpPage(w, r, http.StatusConflict, email, "An account with this email already exists.")
		return
	}
	if err != nil {
		slog.Error("sign-up failed", "error", err)
		a.signUpPage(w, r, http.StatusInternalServerError, email, "An unexpected error occurred.")
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		TwoFADone: true,
	}); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("user signed up", "user_id", user.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// TwoFAPage renders the code prompt for a session waiting on two-factor
// verification.
func (a *Auth) TwoFAPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}
	if sess.TwoFADone {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, http.StatusOK, "2fa_verify", &render.PageData{Title: "Two-Factor Authentication"})
}

// TwoFAVerify validates the TOTP code and completes the sign-in.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "user_id", sess.UserID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	code := strings.TrimSpace(r.FormValue("code"))
	if user.Requires2FA() {
		msg := validateTOTPCode(code)
		if msg == "" && !totp.Validate(code, *user.TOTPSecret) {
			msg = "Invalid code. Please try again."
		}
		if msg != "" {
			a.renderer.Page(w, r, http.StatusUnauthorized, "2fa_verify", &render.PageData{
				Title: "Two-Factor Authentication",
				Data:  map[string]any{"Error": msg},
			})
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// SignOut destroys the session and returns to the landing page. Open
// dashboards of the user are notified through session events.
func (a *Auth) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"code2motion/internal/animation"
	"code2motion/internal/middleware"
	"code2motion/internal/render"
	"code2motion/internal/sanitize"
	"code2motion/internal/slug"
	"code2motion/internal/storage"
	"code2motion/internal/store"
)

// HistoryLimit is the number of prompt records listed on the dashboard.
const HistoryLimit = 20

// totpIssuer names the account in authenticator apps.
const totpIssuer = "Code2Motion"

// ExportStorage publishes exported animations. *storage.Client implements it.
type ExportStorage interface {
	Exists(ctx context.Context, key string) (bool, error)
	Upload(ctx context.Context, key, contentType string, body []byte) error
	FileURL(key string) string
}

// Dashboard groups the handlers behind RequireAuth.
type Dashboard struct {
	renderer    *render.Renderer
	promptStore *store.PromptStore
	userStore   *store.UserStore
	exports     ExportStorage
}

// NewDashboard creates the dashboard handlers. exports may be nil, in which
// case exports are served as downloads.
func NewDashboard(renderer *render.Renderer, promptStore *store.PromptStore, userStore *store.UserStore, exports ExportStorage) *Dashboard {
	return &Dashboard{
		renderer:    renderer,
		promptStore: promptStore,
		userStore:   userStore,
		exports:     exports,
	}
}

// Home renders the generator form and the user's recent prompt history.
func (d *Dashboard) Home(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	history, err := d.promptStore.ListByUser(sess.UserID, HistoryLimit)
	if err != nil {
		slog.Error("list prompt history failed", "user_id", sess.UserID, "error", err)
	}
	total, err := d.promptStore.CountByUser(sess.UserID)
	if err != nil {
		slog.Error("count prompt history failed", "user_id", sess.UserID, "error", err)
		total = len(history)
	}

	totpEnabled := false
	if user, err := d.userStore.FindByID(sess.UserID); err != nil {
		slog.Error("user lookup failed", "user_id", sess.UserID, "error", err)
	} else if user != nil {
		totpEnabled = user.TOTPEnabled
	}

	var flashes []render.Flash
	if r.URL.Query().Get("2fa") == "enabled" {
		flashes = append(flashes, render.Flash{Type: "success", Message: "Two-factor authentication enabled."})
	}

	d.renderer.Page(w, r, http.StatusOK, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Flashes: flashes,
		Data: map[string]any{
			"History":     history,
			"Total":       total,
			"MaxLen":      sanitize.MaxPromptLen,
			"TOTPEnabled": totpEnabled,
		},
	})
}

// Export delivers one prompt record as a standalone HTML document. With
// object storage configured the document is published once and the user
// is redirected to it; otherwise it is sent as a download.
func (d *Dashboard) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	rec, err := d.promptStore.FindForUser(sess.UserID, id)
	if err != nil {
		slog.Error("find prompt record failed", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.NotFound(w, r)
		return
	}

	name := slug.Limit(rec.Prompt, slug.DefaultMaxLen)
	doc := animation.Document(sanitize.Truncate(rec.Prompt, 80), rec.Animation())

	if d.exports != nil {
		key := storage.ExportKey(sess.UserID, name, rec.ID)
		err := d.publish(ctx, key, doc)
		if err == nil {
			http.Redirect(w, r, d.exports.FileURL(key), http.StatusSeeOther)
			return
		}
		slog.Warn("export upload failed, serving download", "key", key, "error", err)
	}

	filename := rec.ID.String() + ".html"
	if name != "" {
		filename = name + "-" + filename
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(doc)
}

// publish uploads doc unless it already exists. Records never change, so an
// existing object is always current.
func (d *Dashboard) publish(ctx context.Context, key string, doc []byte) error {
	exists, err := d.exports.Exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return d.exports.Upload(ctx, key, "text/html; charset=utf-8", doc)
}

// TwoFASetupPage generates a TOTP secret and displays its QR code.
func (d *Dashboard) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := d.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa setup failed", "user_id", sess.UserID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user.TOTPEnabled {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := d.userStore.SetTOTPSecret(user.ID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	d.setupPage(w, r, http.StatusOK, key, "")
}

// TwoFASetupConfirm enables two-factor authentication once the user proves
// the authenticator app produces valid codes.
func (d *Dashboard) TwoFASetupConfirm(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := d.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa setup failed", "user_id", sess.UserID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user.TOTPSecret == nil || *user.TOTPSecret == "" {
		http.Redirect(w, r, "/dashboard/2fa/setup", http.StatusSeeOther)
		return
	}

	code := strings.TrimSpace(r.FormValue("code"))
	msg := validateTOTPCode(code)
	if msg == "" && !totp.Validate(code, *user.TOTPSecret) {
		msg = "Invalid code. Please try again."
	}
	if msg != "" {
		key, err := totpKey(user.Email, *user.TOTPSecret)
		if err != nil {
			slog.Error("rebuild totp key failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		d.setupPage(w, r, http.StatusUnprocessableEntity, key, msg)
		return
	}

	if err := d.userStore.EnableTOTP(user.ID); err != nil {
		slog.Error("enable totp failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("two-factor authentication enabled", "user_id", user.ID)
	http.Redirect(w, r, "/dashboard?2fa=enabled", http.StatusSeeOther)
}

func (d *Dashboard) setupPage(w http.ResponseWriter, r *http.Request, status int, key *otp.Key, errMsg string) {
	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	d.renderer.Page(w, r, status, "2fa_setup", &render.PageData{
		Title:   "Set Up Two-Factor Authentication",
		Section: "dashboard",
		Data: map[string]any{
			"Error":  errMsg,
			"QRCode": base64.StdEncoding.EncodeToString(png),
			"Secret": key.Secret(),
		},
	})
}

// totpKey rebuilds the otpauth key for an already stored secret.
func totpKey(email, secret string) (*otp.Key, error) {
	q := url.Values{"secret": {secret}, "issuer": {totpIssuer}}
	return otp.NewKeyFromURL("otpauth://totp/" + url.PathEscape(totpIssuer+":"+email) + "?" + q.Encode())
}

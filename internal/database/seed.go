package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Demo account created in development so the dashboard can be tried
// without signing up first.
const (
	DemoEmail    = "demo@code2motion.local"
	DemoPassword = "demo-password"
)

// demoAnimation is stored once in the demo account's history so the
// dashboard and export flow have something to show.
var demoAnimation = struct {
	prompt, html, css, description string
}{
	prompt:      "a red ball bouncing on the floor",
	html:        `<div class="stage"><div class="ball"></div></div>`,
	css:         ".stage{position:relative;height:200px}.ball{position:absolute;left:50%;width:40px;height:40px;margin-left:-20px;border-radius:50%;background:#e53e3e;animation:bounce 1s ease-in infinite alternate}@keyframes bounce{from{top:0}to{top:160px}}",
	description: "A red ball drops to the floor and bounces back up, forever.",
}

// Seed creates the demo user and its sample animation. Each step is skipped
// when its row already exists, so Seed can run on every development start.
func Seed(db *sql.DB) error {
	userID, created, err := seedDemoUser(db)
	if err != nil {
		return err
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM prompt_history WHERE user_id = $1", userID).Scan(&count); err != nil {
		return fmt.Errorf("seed check history: %w", err)
	}
	if count == 0 {
		_, err = db.Exec(`
			INSERT INTO prompt_history (user_id, prompt, html_output, css_output, description)
			VALUES ($1, $2, $3, $4, $5)
		`, userID, demoAnimation.prompt, demoAnimation.html, demoAnimation.css, demoAnimation.description)
		if err != nil {
			return fmt.Errorf("seed insert demo animation: %w", err)
		}
	}

	if created {
		slog.Info("database seeded with demo user",
			"email", DemoEmail,
			"password", DemoPassword,
		)
	} else {
		slog.Debug("demo user already present, skipping")
	}
	return nil
}

// seedDemoUser returns the demo user's id, inserting the row first when it
// does not exist.
func seedDemoUser(db *sql.DB) (id string, created bool, err error) {
	err = db.QueryRow("SELECT id FROM users WHERE email = $1", DemoEmail).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, fmt.Errorf("seed find demo user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", false, fmt.Errorf("seed bcrypt: %w", err)
	}

	err = db.QueryRow(`
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id
	`, DemoEmail, string(hash)).Scan(&id)
	if err != nil {
		return "", false, fmt.Errorf("seed insert demo user: %w", err)
	}
	return id, true, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"code2motion/internal/models"
)

const promptColumns = `id, user_id, prompt, html_output, css_output, description, created_at`

// PromptStore persists prompt history. Records are append-only.
type PromptStore struct {
	db *sql.DB
}

// NewPromptStore creates a new PromptStore.
func NewPromptStore(db *sql.DB) *PromptStore {
	return &PromptStore{db: db}
}

func scanPrompt(row interface{ Scan(...any) error }) (*models.PromptRecord, error) {
	p := &models.PromptRecord{}
	err := row.Scan(&p.ID, &p.UserID, &p.Prompt, &p.HTMLOutput, &p.CSSOutput, &p.Description, &p.CreatedAt)
	return p, err
}

// Create inserts one record and fills in its ID and timestamp.
func (s *PromptStore) Create(rec *models.PromptRecord) error {
	err := s.db.QueryRow(`
		INSERT INTO prompt_history (user_id, prompt, html_output, css_output, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, rec.UserID, rec.Prompt, rec.HTMLOutput, rec.CSSOutput, rec.Description).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("create prompt record: %w", err)
	}
	return nil
}

// ListByUser returns the user's most recent records, newest first.
func (s *PromptStore) ListByUser(userID uuid.UUID, limit int) ([]models.PromptRecord, error) {
	rows, err := s.db.Query(`
		SELECT `+promptColumns+`
		FROM prompt_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list prompt records: %w", err)
	}
	defer rows.Close()

	var records []models.PromptRecord
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prompt record: %w", err)
		}
		records = append(records, *p)
	}
	return records, rows.Err()
}

// CountByUser returns how many records the user has.
func (s *PromptStore) CountByUser(userID uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM prompt_history WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count prompt records: %w", err)
	}
	return n, nil
}

// FindForUser returns one record owned by userID. Returns nil if it does
// not exist or belongs to someone else.
func (s *PromptStore) FindForUser(userID, id uuid.UUID) (*models.PromptRecord, error) {
	p, err := scanPrompt(s.db.QueryRow(`
		SELECT `+promptColumns+` FROM prompt_history WHERE id = $1 AND user_id = $2
	`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find prompt record: %w", err)
	}
	return p, nil
}

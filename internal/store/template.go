// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"infosur/internal/models"
)

// TemplateStore provides append-only access to article template revisions.
// The revision with the latest created_at is the current template.
type TemplateStore struct {
	db *sql.DB

	// defaultHTML seeds the first revision on first read when the table
	// is empty (typically the bundled template from the web package).
	defaultHTML string
}

// NewTemplateStore creates a new TemplateStore. defaultHTML is persisted as
// the first revision if no revision exists yet.
func NewTemplateStore(db *sql.DB, defaultHTML string) *TemplateStore {
	return &TemplateStore{db: db, defaultHTML: defaultHTML}
}

// Latest returns the current template revision, lazily seeding the bundled
// default document when the table is empty. Two callers racing on first
// access may both insert the default; both rows hold identical content and
// the newest one simply wins, so the read path never comes back empty.
func (s *TemplateStore) Latest() (*models.TemplateRevision, error) {
	rev, err := s.latest()
	if err != nil {
		return nil, err
	}
	if rev != nil {
		return rev, nil
	}

	slog.Info("no template revision found, seeding bundled default")
	seeded, err := s.Save(s.defaultHTML)
	if err != nil {
		// A concurrent first access may have seeded meanwhile; retry the read
		// before giving up.
		if rev, readErr := s.latest(); readErr == nil && rev != nil {
			return rev, nil
		}
		return nil, fmt.Errorf("seed default template: %w", err)
	}
	return seeded, nil
}

// latest reads the newest revision without seeding. Returns nil when the
// table is empty.
func (s *TemplateStore) latest() (*models.TemplateRevision, error) {
	var rev models.TemplateRevision
	err := s.db.QueryRow(`
		SELECT id, template_html, created_at
		FROM template_revisions
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`).Scan(&rev.ID, &rev.HTML, &rev.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest template revision: %w", err)
	}
	return &rev, nil
}

// Save inserts a new template revision with the given HTML and returns it.
// The HTML is not validated here; malformed markup is the renderer's problem.
func (s *TemplateStore) Save(html string) (*models.TemplateRevision, error) {
	var rev models.TemplateRevision
	err := s.db.QueryRow(`
		INSERT INTO template_revisions (template_html)
		VALUES ($1)
		RETURNING id, template_html, created_at
	`, html).Scan(&rev.ID, &rev.HTML, &rev.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("save template revision: %w", err)
	}
	return &rev, nil
}

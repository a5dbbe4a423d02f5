// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// TemplateRevision is one saved version of the article HTML template.
// Revisions are append-only: saving never overwrites, and the revision with
// the latest created_at is the current template.
type TemplateRevision struct {
	ID        int64     `json:"id"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"created_at"`
}

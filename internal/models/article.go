// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// ArticleFields is the fixed, ordered set of module keys every article
// carries in its article_data mapping. The renderer and the generator both
// iterate this list, so order matters for reproducible output.
var ArticleFields = []string{
	"mod_titulo",
	"mod_subtitulo",
	"mod_autores",
	"mod_ciudad",
	"mod_fecha",
	"mod_pie1",
	"mod_cuerpo1",
	"mod_cuerpo2",
	"mod_relacionada",
	"mod_pie2",
	"mod_cuerpo3",
	"mod_cuerpo4",
	"mod_catchline",
	"mod_cuerpo5",
	"mod_cuerpo6",
	"mod_cuerpo7",
}

// TopicClassPrefix is the CSS class prefix for indexed topic slots in the
// article template (mod_tema1 .. mod_tema9).
const TopicClassPrefix = "mod_tema"

// MaxTopicSlots is the highest indexed topic slot a template may define.
const MaxTopicSlots = 9

// Article represents one generated satirical article. ArticleData holds the
// module fields plus the dynamic "temas" and "image_prompts" lists;
// ImageData holds the primary/secondary image URLs and caption metadata.
type Article struct {
	ID                   int64          `json:"id"`
	Slug                 string         `json:"slug"`
	Timestamp            string         `json:"timestamp"`
	Prompt               string         `json:"prompt"`
	SatireLevel          int            `json:"satire_level"`
	ImagePromptPrimary   *string        `json:"image_prompt_primary,omitempty"`
	ImagePromptSecondary *string        `json:"image_prompt_secondary,omitempty"`
	ArticleData          map[string]any `json:"article_data"`
	ImageData            map[string]any `json:"image_data"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// Temas returns the ordered topic list from article_data, tolerating the
// two shapes JSON decoding produces ([]any or []string).
func (a *Article) Temas() []string {
	return StringList(a.ArticleData["temas"])
}

// StringList coerces a JSON-decoded value into a string slice. Non-string
// elements are skipped.
func StringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// ArticleSummary is the listing shape returned by GET /api/articles.
// It exposes identity and the title only, never the full body.
type ArticleSummary struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Timestamp string    `json:"timestamp"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

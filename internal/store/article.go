// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"infosur/internal/models"
	"infosur/internal/slug"
)

// articleColumns lists all columns for articles SELECTs.
const articleColumns = `id, slug, timestamp, prompt, satire_level,
	image_prompt_primary, image_prompt_secondary,
	article_data, image_data, created_at, updated_at`

// ArticleStore handles all article-related database operations.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// scanArticle scans a single articles row, decoding the JSONB payload columns.
func scanArticle(scanner interface{ Scan(...any) error }) (*models.Article, error) {
	var (
		a         models.Article
		articleJS []byte
		imageJS   []byte
	)
	err := scanner.Scan(
		&a.ID, &a.Slug, &a.Timestamp, &a.Prompt, &a.SatireLevel,
		&a.ImagePromptPrimary, &a.ImagePromptSecondary,
		&articleJS, &imageJS, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(articleJS, &a.ArticleData); err != nil {
		return nil, fmt.Errorf("decode article_data: %w", err)
	}
	if err := json.Unmarshal(imageJS, &a.ImageData); err != nil {
		return nil, fmt.Errorf("decode image_data: %w", err)
	}
	return &a, nil
}

// Create inserts a new article. The slug is derived from the title (falling
// back to the subtitle, then the literal "noticia") with the current 14-digit
// UTC timestamp appended. Every fixed module field is guaranteed a key in
// article_data, empty string when absent.
func (s *ArticleStore) Create(a *models.Article) (*models.Article, error) {
	if a.ArticleData == nil {
		a.ArticleData = map[string]any{}
	}
	if a.ImageData == nil {
		a.ImageData = map[string]any{}
	}
	for _, field := range models.ArticleFields {
		if _, ok := a.ArticleData[field]; !ok {
			a.ArticleData[field] = ""
		}
	}

	title, _ := a.ArticleData["mod_titulo"].(string)
	subtitle, _ := a.ArticleData["mod_subtitulo"].(string)
	base := slug.Generate(title)
	if base == "" {
		base = slug.Generate(subtitle)
	}
	if base == "" {
		base = "noticia"
	}

	a.Timestamp = slug.Timestamp()
	a.Slug = base + "-" + a.Timestamp

	articleJS, err := json.Marshal(a.ArticleData)
	if err != nil {
		return nil, fmt.Errorf("encode article_data: %w", err)
	}
	imageJS, err := json.Marshal(a.ImageData)
	if err != nil {
		return nil, fmt.Errorf("encode image_data: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO articles (slug, timestamp, prompt, satire_level,
			image_prompt_primary, image_prompt_secondary,
			article_data, image_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+articleColumns,
		a.Slug, a.Timestamp, a.Prompt, a.SatireLevel,
		a.ImagePromptPrimary, a.ImagePromptSecondary,
		articleJS, imageJS,
	)
	created, err := scanArticle(row)
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return created, nil
}

// List returns summaries for all articles, newest first. Summaries carry
// identity and the title only, never the body fields.
func (s *ArticleStore) List() ([]models.ArticleSummary, error) {
	rows, err := s.db.Query(`
		SELECT id, slug, timestamp, article_data->>'mod_titulo', created_at
		FROM articles
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var summaries []models.ArticleSummary
	for rows.Next() {
		var (
			item  models.ArticleSummary
			title sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Slug, &item.Timestamp, &title, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan article summary: %w", err)
		}
		item.Title = title.String
		summaries = append(summaries, item)
	}
	return summaries, rows.Err()
}

// FindByID retrieves an article by its numeric ID. Returns nil if not found.
func (s *ArticleStore) FindByID(id int64) (*models.Article, error) {
	row := s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return a, nil
}

// FindBySlug retrieves an article by its full slug (slug-timestamp composite).
// Returns nil if not found.
func (s *ArticleStore) FindBySlug(slugAndTimestamp string) (*models.Article, error) {
	row := s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE slug = $1`, slugAndTimestamp)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by slug: %w", err)
	}
	return a, nil
}

// UpdatePayload is the partial update accepted by PUT /api/articles/{id}.
// ArticleData is merged key-by-key into the stored mapping; Temas and
// ImagePrompts replace those specific sub-fields when present; ImageData is
// merged the same shallow way. Fields absent from the payload stay untouched.
type UpdatePayload struct {
	ArticleData  map[string]any `json:"article_data"`
	Temas        *[]string      `json:"temas"`
	ImagePrompts *[]string      `json:"image_prompts"`
	ImageData    map[string]any `json:"image_data"`
}

// Update applies a partial update to the article with the given ID and
// returns the updated record. Returns nil if the article does not exist.
// Overlapping concurrent updates are last-writer-wins.
func (s *ArticleStore) Update(id int64, payload UpdatePayload) (*models.Article, error) {
	current, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	for k, v := range payload.ArticleData {
		current.ArticleData[k] = v
	}
	if payload.Temas != nil {
		current.ArticleData["temas"] = *payload.Temas
	}
	if payload.ImagePrompts != nil {
		current.ArticleData["image_prompts"] = *payload.ImagePrompts
	}
	if current.ImageData == nil {
		current.ImageData = map[string]any{}
	}
	for k, v := range payload.ImageData {
		current.ImageData[k] = v
	}

	articleJS, err := json.Marshal(current.ArticleData)
	if err != nil {
		return nil, fmt.Errorf("encode article_data: %w", err)
	}
	imageJS, err := json.Marshal(current.ImageData)
	if err != nil {
		return nil, fmt.Errorf("encode image_data: %w", err)
	}

	row := s.db.QueryRow(`
		UPDATE articles
		SET article_data = $1, image_data = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+articleColumns,
		articleJS, imageJS, id,
	)
	updated, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	return updated, nil
}

// Delete removes an article by ID. Returns true if a row was deleted.
func (s *ArticleStore) Delete(id int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete article: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete article rows affected: %w", err)
	}
	return n > 0, nil
}

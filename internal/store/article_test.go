package store

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"infosur/internal/models"
)

func TestArticleStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db)

	prompt := "test-create-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanArticles(t, db, prompt) })

	created, err := s.Create(&models.Article{
		Prompt:      prompt,
		SatireLevel: 75,
		ArticleData: map[string]any{
			"mod_titulo":  "El alcalde declara la guerra a las gaviotas",
			"mod_autores": "María López y Juan Pérez",
		},
		ImageData: map[string]any{"primary": nil, "secondary": nil},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if len(created.Timestamp) != 14 {
		t.Errorf("timestamp: got %q, want 14 digits", created.Timestamp)
	}
	if !strings.HasPrefix(created.Slug, "el-alcalde-declara-la-guerra-a-las-gaviotas-") {
		t.Errorf("slug: got %q", created.Slug)
	}
	if !strings.HasSuffix(created.Slug, created.Timestamp) {
		t.Errorf("slug %q does not end with timestamp %q", created.Slug, created.Timestamp)
	}

	// Every fixed field must be present, empty when not supplied.
	for _, field := range models.ArticleFields {
		if _, ok := created.ArticleData[field]; !ok {
			t.Errorf("missing fixed field %q in article_data", field)
		}
	}
	if created.ArticleData["mod_cuerpo1"] != "" {
		t.Errorf("mod_cuerpo1: got %v, want empty string", created.ArticleData["mod_cuerpo1"])
	}

	// FindByID.
	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected article, got nil")
	}
	if found.SatireLevel != 75 {
		t.Errorf("satire_level: got %d, want 75", found.SatireLevel)
	}

	// FindBySlug uses the full slug-timestamp composite.
	bySlug, err := s.FindBySlug(created.Slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if bySlug == nil || bySlug.ID != created.ID {
		t.Errorf("FindBySlug returned %+v, want id %d", bySlug, created.ID)
	}
}

func TestArticleStoreSlugFallsBackToNoticia(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db)

	prompt := "test-fallback-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanArticles(t, db, prompt) })

	created, err := s.Create(&models.Article{
		Prompt:      prompt,
		SatireLevel: 50,
		ArticleData: map[string]any{"mod_titulo": "???"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(created.Slug, "noticia-") {
		t.Errorf("slug: got %q, want noticia-<timestamp>", created.Slug)
	}
}

func TestArticleStoreFindMissing(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db)

	found, err := s.FindByID(-1)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil for missing article, got %+v", found)
	}

	bySlug, err := s.FindBySlug("no-such-slug-00000000000000")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if bySlug != nil {
		t.Errorf("expected nil for missing slug, got %+v", bySlug)
	}
}

func TestArticleStoreList(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db)

	prompt := "test-list-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanArticles(t, db, prompt) })

	created, err := s.Create(&models.Article{
		Prompt:      prompt,
		SatireLevel: 30,
		ArticleData: map[string]any{"mod_titulo": "Titular para listado"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	summaries, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	var hit *models.ArticleSummary
	for i := range summaries {
		if summaries[i].ID == created.ID {
			hit = &summaries[i]
			break
		}
	}
	if hit == nil {
		t.Fatal("created article not present in listing")
	}
	if hit.Title != "Titular para listado" {
		t.Errorf("title: got %q", hit.Title)
	}
	if hit.Slug != created.Slug {
		t.Errorf("slug: got %q, want %q", hit.Slug, created.Slug)
	}
}

func TestArticleStoreUpdateMerges(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db)

	prompt := "test-update-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanArticles(t, db, prompt) })

	created, err := s.Create(&models.Article{
		Prompt:      prompt,
		SatireLevel: 50,
		ArticleData: map[string]any{
			"mod_titulo":  "Original",
			"mod_cuerpo1": "Cuerpo original",
			"temas":       []string{"Málaga", "Playas"},
		},
		ImageData: map[string]any{"primary": "/images/a.png", "caption_primary": "antes"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	temas := []string{"Puerto"}
	updated, err := s.Update(created.ID, UpdatePayload{
		ArticleData: map[string]any{"mod_titulo": "Corregido"},
		Temas:       &temas,
		ImageData:   map[string]any{"caption_primary": "después"},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated == nil {
		t.Fatal("Update returned nil for existing article")
	}

	if updated.ArticleData["mod_titulo"] != "Corregido" {
		t.Errorf("mod_titulo: got %v", updated.ArticleData["mod_titulo"])
	}
	// Untouched fields survive the merge.
	if updated.ArticleData["mod_cuerpo1"] != "Cuerpo original" {
		t.Errorf("mod_cuerpo1: got %v, want untouched original", updated.ArticleData["mod_cuerpo1"])
	}
	if got := models.StringList(updated.ArticleData["temas"]); len(got) != 1 || got[0] != "Puerto" {
		t.Errorf("temas: got %v, want [Puerto]", got)
	}
	if updated.ImageData["caption_primary"] != "después" {
		t.Errorf("caption_primary: got %v", updated.ImageData["caption_primary"])
	}
	// Image URL untouched by the shallow merge.
	if updated.ImageData["primary"] != "/images/a.png" {
		t.Errorf("primary: got %v", updated.ImageData["primary"])
	}
	// Slug and timestamp never change on update.
	if updated.Slug != created.Slug {
		t.Errorf("slug changed on update: %q -> %q", created.Slug, updated.Slug)
	}
}

func TestArticleStoreUpdateMissing(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db)

	updated, err := s.Update(-1, UpdatePayload{ArticleData: map[string]any{"mod_titulo": "x"}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated != nil {
		t.Errorf("expected nil for missing article, got %+v", updated)
	}
}

func TestArticleStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db)

	prompt := "test-delete-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanArticles(t, db, prompt) })

	created, err := s.Create(&models.Article{
		Prompt:      prompt,
		SatireLevel: 10,
		ArticleData: map[string]any{"mod_titulo": "Para borrar"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted, err := s.Delete(created.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Error("Delete returned false for existing article")
	}

	again, err := s.Delete(created.ID)
	if err != nil {
		t.Fatalf("Delete (second): %v", err)
	}
	if again {
		t.Error("Delete returned true for already-deleted article")
	}
}

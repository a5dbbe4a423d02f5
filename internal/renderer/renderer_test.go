package renderer

import (
	"strings"
	"testing"

	"infosur/internal/models"
)

// newArticle builds an article with the given field values, filling every
// fixed field with an empty string like the store does.
func newArticle(fields map[string]any, imageData map[string]any) *models.Article {
	data := map[string]any{}
	for _, f := range models.ArticleFields {
		data[f] = ""
	}
	for k, v := range fields {
		data[k] = v
	}
	if imageData == nil {
		imageData = map[string]any{}
	}
	return &models.Article{
		ID:          1,
		Slug:        "prueba-20260101120000",
		Timestamp:   "20260101120000",
		ArticleData: data,
		ImageData:   imageData,
	}
}

func TestRender_ScalarFields(t *testing.T) {
	tmpl := `<html><body>
		<h1 class="mod_titulo">Título de ejemplo</h1>
		<h2 class="mod_subtitulo">Subtítulo de ejemplo</h2>
		<p class="mod_cuerpo1">Cuerpo de ejemplo</p>
	</body></html>`

	article := newArticle(map[string]any{
		"mod_titulo":  "El alcalde declara la siesta obligatoria",
		"mod_cuerpo1": "Primer párrafo.",
	}, nil)

	out, err := Render(article, tmpl)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(out, "El alcalde declara la siesta obligatoria") {
		t.Error("rendered output is missing the title value")
	}
	if strings.Contains(out, "Título de ejemplo") {
		t.Error("placeholder title text was not cleared")
	}
	if !strings.Contains(out, "Primer párrafo.") {
		t.Error("rendered output is missing the body value")
	}
	// Empty subtitle: node cleared, placeholder gone, no replacement text.
	if strings.Contains(out, "Subtítulo de ejemplo") {
		t.Error("placeholder subtitle text was not cleared for empty field")
	}
}

func TestRender_EscapesMarkupInValues(t *testing.T) {
	tmpl := `<html><body><p class="mod_cuerpo1">x</p></body></html>`
	article := newArticle(map[string]any{
		"mod_cuerpo1": `<script>alert("xss")</script>`,
	}, nil)

	out, err := Render(article, tmpl)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if strings.Contains(out, "<script>") {
		t.Error("field value was rendered as executable markup")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("field value was not escaped as visible text")
	}
}

func TestRender_ImageWithURL(t *testing.T) {
	tmpl := `<html><body>
		<img class="mod_pie1" src="/placeholder.jpg" alt="placeholder">
		<figcaption class="mod_pie1">pie antiguo</figcaption>
	</body></html>`

	article := newArticle(map[string]any{
		"mod_pie1": "Vista del puerto",
	}, map[string]any{
		"primary": "/images/abc123.png",
	})

	out, err := Render(article, tmpl)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(out, `src="/images/abc123.png"`) {
		t.Error("img src was not replaced with the primary image URL")
	}
	if !strings.Contains(out, `alt="Vista del puerto"`) {
		t.Error("img alt was not set from the caption field")
	}
	// The non-image node with the same class gets the caption text.
	if !strings.Contains(out, ">Vista del puerto<") {
		t.Error("figcaption did not receive the caption text")
	}
}

func TestRender_ImageWithoutURLUntouched(t *testing.T) {
	tmpl := `<html><body><img class="mod_pie1" src="/placeholder.jpg" alt="placeholder"></body></html>`

	article := newArticle(map[string]any{"mod_pie1": "Un pie"}, nil)

	out, err := Render(article, tmpl)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(out, `src="/placeholder.jpg"`) {
		t.Error("placeholder img src was modified despite missing image URL")
	}
	if !strings.Contains(out, `alt="placeholder"`) {
		t.Error("placeholder img alt was modified despite missing image URL")
	}
}

func TestRender_ImageEmptyCaptionKeepsAlt(t *testing.T) {
	tmpl := `<html><body><img class="mod_pie2" src="/p.jpg" alt="texto previo"></body></html>`

	article := newArticle(nil, map[string]any{"secondary": "/images/sec.png"})

	out, err := Render(article, tmpl)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(out, `src="/images/sec.png"`) {
		t.Error("img src was not replaced with the secondary image URL")
	}
	if !strings.Contains(out, `alt="texto previo"`) {
		t.Error("existing alt text was not preserved for empty caption field")
	}
}

func TestRender_NonCaptionImageNeverTouched(t *testing.T) {
	tmpl := `<html><body><img class="mod_titulo" src="/logo.png"></body></html>`

	article := newArticle(map[string]any{"mod_titulo": "Titular"}, map[string]any{
		"primary": "/images/x.png",
	})

	out, err := Render(article, tmpl)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(out, `src="/logo.png"`) {
		t.Error("img tagged with a non-caption field class was modified")
	}
}

func TestRender_AuthorsListJoined(t *testing.T) {
	tmpl := `<html><body><span class="mod_autores">autor placeholder</span></body></html>`

	article := newArticle(map[string]any{
		"mod_autores": []any{"María López", "Juan Pérez"},
	}, nil)

	out, err := Render(article, tmpl)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(out, "María López y Juan Pérez") {
		t.Error("author list was not joined with the locale conjunction")
	}
	if strings.Contains(out, "[") {
		t.Errorf("raw list formatting leaked into output: %s", out)
	}
}

func TestRender_AuthorsStringPassesThrough(t *testing.T) {
	tmpl := `<html><body><span class="mod_autores">x</span></body></html>`

	article := newArticle(map[string]any{"mod_autores": "Ana Ruiz"}, nil)

	out, err := Render(article, tmpl)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Ana Ruiz") {
		t.Error("author string value missing from output")
	}
}

func TestRender_TopicSlots(t *testing.T) {
	tmpl := `<html><body>
		<span class="mod_tema1">t1</span>
		<span class="mod_tema2">t2</span>
		<span class="mod_tema3">t3</span>
		<span class="mod_tema4">t4</span>
		<span class="mod_tema5">t5</span>
	</body></html>`

	article := newArticle(map[string]any{
		"temas": []any{"Playa", "Fiestas"},
	}, nil)

	out, err := Render(article, tmpl)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(out, "Playa") || !strings.Contains(out, "Fiestas") {
		t.Error("topic slots 1-2 were not populated")
	}
	for _, stale := range []string{"t3", "t4", "t5", "mod_tema3", "mod_tema4", "mod_tema5"} {
		if strings.Contains(out, stale) {
			t.Errorf("stale topic slot %q was not removed from the document", stale)
		}
	}
}

func TestRender_NoTopicsRemovesAllSlots(t *testing.T) {
	tmpl := `<html><body><span class="mod_tema1">t1</span><span class="mod_tema2">t2</span></body></html>`

	article := newArticle(nil, nil)

	out, err := Render(article, tmpl)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(out, "mod_tema") {
		t.Error("empty topic list should remove every indexed slot")
	}
}

func TestRender_MoreTopicsThanSlots(t *testing.T) {
	tmpl := `<html><body><span class="mod_tema1">t1</span><span class="mod_tema2">t2</span></body></html>`

	article := newArticle(map[string]any{
		"temas": []any{"Uno", "Dos", "Tres", "Cuatro"},
	}, nil)

	out, err := Render(article, tmpl)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(out, "Uno") || !strings.Contains(out, "Dos") {
		t.Error("available slots were not populated")
	}
	// Topics without slots simply do not appear.
	if strings.Contains(out, "Tres") || strings.Contains(out, "Cuatro") {
		t.Error("topics beyond the template's slots leaked into output")
	}
}

func TestRender_AbsentClassesAreNoOps(t *testing.T) {
	tmpl := `<html><body><p>sin clases</p></body></html>`

	article := newArticle(map[string]any{"mod_titulo": "Titular"}, nil)

	out, err := Render(article, tmpl)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "sin clases") {
		t.Error("template without placeholder classes should pass through")
	}
}

func TestRender_ClassTokenMatchIsExact(t *testing.T) {
	// mod_tema1 must not match a node classed mod_tema10 and vice versa.
	tmpl := `<html><body><span class="mod_tema1 destacado">t1</span><span class="mod_titulo_grande">x</span></body></html>`

	article := newArticle(map[string]any{
		"mod_titulo": "Titular",
		"temas":      []any{"Playa"},
	}, nil)

	out, err := Render(article, tmpl)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(out, "Playa") {
		t.Error("multi-class topic slot was not matched by token")
	}
	if strings.Contains(out, "Titular") {
		t.Error("mod_titulo matched a different class by substring")
	}
}

func TestRender_WellFormedOutput(t *testing.T) {
	// Template author forgot to close the tag; output must still serialize
	// as well-formed HTML.
	tmpl := `<html><body><p class="mod_cuerpo1">abierto`

	article := newArticle(map[string]any{"mod_cuerpo1": "Texto"}, nil)

	out, err := Render(article, tmpl)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "</p>") || !strings.Contains(out, "</html>") {
		t.Errorf("output is not well-formed: %s", out)
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generator wraps the AI provider calls that turn a user prompt
// into structured satirical article content plus optional illustrations.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"infosur/internal/ai"
	"infosur/internal/models"
	"infosur/internal/storage"
)

// maxImages is how many illustration slots an article has.
const maxImages = 2

// Generation is the normalized result of one article generation call.
type Generation struct {
	SlugTitle string

	// Modules holds every fixed article field as a string; list-valued
	// authors are already joined with " y " and mod_ciudad defaults to
	// "Málaga".
	Modules map[string]string

	// Temas is the ordered topic list (up to 6 requested).
	Temas []string

	// ImageCaptions carries the provider's advisory image descriptions.
	ImageCaptions map[string]string

	// ImageURLs holds the local URL per slot; nil when generation for the
	// slot failed or was not requested.
	ImageURLs map[string]*string

	// ImageMetadata records the composite illustration prompts actually
	// sent to the provider.
	ImageMetadata map[string]string
}

// Generator produces article content through the AI provider registry and
// stores generated illustrations in the local image store.
type Generator struct {
	registry *ai.Registry
	images   *storage.LocalStore
}

// New creates a Generator.
func New(registry *ai.Registry, images *storage.LocalStore) *Generator {
	return &Generator{registry: registry, images: images}
}

// toneDescriptor maps the satire level to the tone instruction embedded in
// the generation prompt.
func toneDescriptor(satireLevel int) string {
	switch {
	case satireLevel <= 10:
		return "totalmente sobrio y profesional"
	case satireLevel <= 60:
		return "equilibrio entre rigor y sátira"
	default:
		return "altamente absurdo, pero manteniendo estructura periodística"
	}
}

const systemPrompt = "Eres un periodista malagueño del Diario Sur que redacta noticias satíricas " +
	"con estructura periodística y formato específico. Responde únicamente en JSON válido."

// buildUserPrompt assembles the generation instruction with the fixed
// formatting rules and the expected JSON shape.
func buildUserPrompt(prompt string, satireLevel int) string {
	var b strings.Builder
	b.WriteString("Genera un artículo periodístico ficticio sobre Málaga siguiendo estas instrucciones:\n")
	fmt.Fprintf(&b, "- Tono: %s.\n", toneDescriptor(satireLevel))
	b.WriteString("- Longitud: entre 5 y 7 párrafos principales.\n")
	b.WriteString(`- Incluye título, subtítulo, autores (lista), ciudad, fecha en formato "Día de la semana, día de mes año, hora:minutos | Actualizado hora:minutosh.".` + "\n")
	b.WriteString("- Añade catchline, noticia relacionada opcional, y hasta 6 temas.\n")
	b.WriteString("- Cada párrafo debe tener máximo 3 frases.\n")
	b.WriteString("- Asegúrate de que la ciudad siempre sea Málaga.\n")
	fmt.Fprintf(&b, "- El prompt original del usuario es: %s\n", prompt)
	b.WriteString("Devuelve un JSON con la siguiente estructura:\n")
	b.WriteString(`{
  "slug_title": "string",
  "modules": {`)
	for i, field := range models.ArticleFields {
		if i > 0 {
			b.WriteString(",")
		}
		if field == "mod_autores" {
			b.WriteString(`
    "mod_autores": ["autor1", "autor2"]`)
			continue
		}
		fmt.Fprintf(&b, `
    %q: ""`, field)
	}
	b.WriteString(`
  },
  "temas": [""],
  "imagenes": {
    "primary": "Descripción de la primera imagen",
    "secondary": "Descripción de la segunda imagen opcional"
  }
}`)
	return b.String()
}

// providerPayload is the structured JSON shape requested from the provider.
type providerPayload struct {
	SlugTitle string            `json:"slug_title"`
	Modules   map[string]any    `json:"modules"`
	Temas     []any             `json:"temas"`
	Imagenes  map[string]string `json:"imagenes"`
}

// GenerateArticle calls the text provider for the structured article
// payload, normalizes it, and runs up to two image generation sub-calls.
// Text generation failure aborts with an error; a failed image slot is
// skipped silently and never aborts article creation.
func (g *Generator) GenerateArticle(ctx context.Context, prompt string, satireLevel int, imagePrompts []string) (*Generation, error) {
	raw, err := g.registry.Generate(ctx, systemPrompt, buildUserPrompt(prompt, satireLevel))
	if err != nil {
		return nil, fmt.Errorf("generate article text: %w", err)
	}

	var payload providerPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}

	gen := &Generation{
		Modules:       normalizeModules(payload.Modules),
		Temas:         models.StringList(payload.Temas),
		ImageCaptions: payload.Imagenes,
		ImageURLs:     map[string]*string{"primary": nil, "secondary": nil},
		ImageMetadata: map[string]string{},
	}
	if gen.Temas == nil {
		gen.Temas = []string{}
	}

	gen.SlugTitle = payload.SlugTitle
	if gen.SlugTitle == "" {
		gen.SlugTitle = gen.Modules["mod_titulo"]
	}

	g.generateImages(ctx, prompt, imagePrompts, gen)

	return gen, nil
}

// generateImages runs the per-slot illustration calls. Empty entries are
// dropped first, so the first real prompt always fills the primary slot;
// of what remains, index 0 is primary, index 1 secondary, the rest ignored.
func (g *Generator) generateImages(ctx context.Context, articlePrompt string, imagePrompts []string, gen *Generation) {
	var prompts []string
	for _, p := range imagePrompts {
		if p != "" {
			prompts = append(prompts, p)
		}
	}
	if len(prompts) > maxImages {
		prompts = prompts[:maxImages]
	}

	for idx, detail := range prompts {
		slot, metaKey := "primary", "prompt"
		if idx == 1 {
			slot, metaKey = "secondary", "prompt_secondary"
		}

		composite := fmt.Sprintf(
			"Ilustración satírica estilo fotoperiodismo andaluz. Contexto del artículo: %s. Detalle: %s.",
			articlePrompt, detail,
		)

		imgBytes, contentType, err := g.registry.GenerateImage(ctx, composite)
		if err != nil {
			slog.Warn("image generation failed, skipping slot", "slot", slot, "error", err)
			continue
		}

		name, err := g.images.Save(imgBytes, contentType)
		if err != nil {
			slog.Warn("image save failed, skipping slot", "slot", slot, "error", err)
			continue
		}

		url := "/images/" + name
		gen.ImageURLs[slot] = &url
		gen.ImageMetadata[metaKey] = composite
	}
}

// normalizeModules coerces the provider's modules mapping into strings,
// guaranteeing every fixed field key, joining a list-valued author field
// with " y ", and defaulting the city to Málaga.
func normalizeModules(modules map[string]any) map[string]string {
	out := make(map[string]string, len(models.ArticleFields))
	for _, field := range models.ArticleFields {
		v, ok := modules[field]
		if !ok || v == nil {
			out[field] = ""
			continue
		}
		if field == "mod_autores" {
			if list := models.StringList(v); list != nil {
				out[field] = strings.Join(list, " y ")
				continue
			}
		}
		if s, ok := v.(string); ok {
			out[field] = s
			continue
		}
		out[field] = fmt.Sprint(v)
	}

	if out["mod_ciudad"] == "" {
		out["mod_ciudad"] = "Málaga"
	}
	return out
}

// stripCodeFence removes a surrounding markdown code fence from a provider
// response (some providers wrap JSON in ```json ... ``` despite the
// instructions).
func stripCodeFence(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```") {
		if firstNewline := strings.Index(response, "\n"); firstNewline != -1 {
			response = response[firstNewline+1:]
		}
		if idx := strings.LastIndex(response, "```"); idx != -1 {
			response = response[:idx]
		}
	}

	return strings.TrimSpace(response)
}

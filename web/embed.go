// Package web provides the embedded editor UI, its static assets, and the
// bundled default article template used to seed the first template revision.
package web

import "embed"

// EditorHTML is the single-page editor UI served at /editor.
//
//go:embed editor.html
var EditorHTML []byte

// DefaultTemplateHTML is the bundled article template. It seeds the first
// template revision when the database has none.
//
//go:embed template.html
var DefaultTemplateHTML string

// Static embeds the web/static/ directory tree (editor JavaScript).
//
//go:embed all:static
var Static embed.FS

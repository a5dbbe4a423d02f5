// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package renderer merges an article into the current HTML template.
// The template tags its placeholder nodes with CSS classes matching the
// article's module field names (mod_titulo, mod_cuerpo1, mod_tema1, ...);
// rendering selects nodes by class, mutates them in place, and serializes
// the document back to text. Field values are always inserted as plain
// text, never interpreted as markup.
package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"infosur/internal/models"
)

// AuthorSeparator joins an author list into a readable Spanish phrase.
const AuthorSeparator = " y "

// Render produces the complete HTML page for an article from the given
// template document. A template that cannot be parsed is a fatal input;
// absent placeholder classes are simply no-ops.
func Render(article *models.Article, templateHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(templateHTML))
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	applyFields(doc, article)
	applyAuthors(doc, article.ArticleData["mod_autores"])
	applyTopics(doc, article.Temas())

	var buf strings.Builder
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// applyFields runs the generic scalar pass over all fixed module fields.
// Image elements are only touched for the two caption-bearing fields, and
// only when the corresponding image slot holds a URL; placeholder images
// stay untouched otherwise.
func applyFields(doc *html.Node, article *models.Article) {
	for _, field := range models.ArticleFields {
		value := textValue(article.ArticleData[field])

		for _, node := range findByClass(doc, field) {
			if node.Data == "img" {
				var url string
				switch field {
				case "mod_pie1":
					url, _ = article.ImageData["primary"].(string)
				case "mod_pie2":
					url, _ = article.ImageData["secondary"].(string)
				}
				if url == "" {
					continue
				}
				setAttr(node, "src", url)
				if value != "" {
					setAttr(node, "alt", value)
				}
				continue
			}

			clearChildren(node)
			if value != "" {
				appendText(node, value)
			}
		}
	}
}

// applyAuthors re-resolves the authors field from its raw stored value.
// Updated articles may still hold a list; joining happens here regardless
// of any normalization done at generation time, overriding whatever the
// scalar pass wrote.
func applyAuthors(doc *html.Node, raw any) {
	authors := textValue(raw)
	if list := models.StringList(raw); list != nil {
		authors = strings.Join(list, AuthorSeparator)
	}
	if authors == "" {
		return
	}
	for _, node := range findByClass(doc, "mod_autores") {
		if node.Data == "img" {
			continue
		}
		clearChildren(node)
		appendText(node, authors)
	}
}

// applyTopics fills the indexed topic slots (mod_tema1..mod_tema9). Slots
// beyond the provided topics are removed from the document entirely so no
// stale placeholder tag remains visible; topics beyond the template's own
// slots are simply not rendered.
func applyTopics(doc *html.Node, temas []string) {
	for idx, tema := range temas {
		if idx >= models.MaxTopicSlots {
			break
		}
		class := models.TopicClassPrefix + strconv.Itoa(idx+1)
		for _, node := range findByClass(doc, class) {
			clearChildren(node)
			appendText(node, tema)
		}
	}

	for idx := len(temas) + 1; idx <= models.MaxTopicSlots; idx++ {
		class := models.TopicClassPrefix + strconv.Itoa(idx)
		for _, node := range findByClass(doc, class) {
			if node.Parent != nil {
				node.Parent.RemoveChild(node)
			}
		}
	}
}

// findByClass returns every element in the document bearing the given
// class token. Nodes are collected before mutation so removal is safe.
func findByClass(doc *html.Node, class string) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, class) {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return nodes
}

// hasClass reports whether the element's class attribute contains the
// given token (exact token match, not substring).
func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, token := range strings.Fields(attr.Val) {
			if token == class {
				return true
			}
		}
	}
	return false
}

// setAttr sets or replaces an attribute on an element.
func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// clearChildren removes all children of a node.
func clearChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// appendText appends a text node; serialization escapes it, so values
// containing tag-like characters render as visible text.
func appendText(n *html.Node, text string) {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// textValue renders a stored JSON value as display text. Nil becomes the
// empty string; non-strings fall back to their default formatting.
func textValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

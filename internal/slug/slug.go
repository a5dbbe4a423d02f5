// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation and the fixed-width
// timestamps used to disambiguate article slugs.
package slug

import (
	"regexp"
	"strings"
	"time"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space,
	// or hyphen. Spanish accented vowels and ñ/ü are kept so slugs stay
	// readable for local headlines ("málaga", "españa").
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9áéíóúñü\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Gran Escándalo en Málaga!" → "gran-escándalo-en-málaga"
// Input with no usable characters yields an empty string; callers must
// supply their own fallback label.
func Generate(s string) string {
	result := strings.ToLower(s)
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// Timestamp returns the current UTC time as a 14-digit YYYYMMDDHHMMSS
// string. No separators, no offset, fixed width always.
func Timestamp() string {
	return time.Now().UTC().Format("20060102150405")
}

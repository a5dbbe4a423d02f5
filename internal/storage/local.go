// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides the local filesystem store for image assets.
// Generated illustrations and editor-uploaded files live under a single
// root directory and are served at /images/.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowedExtensions is the explicit allow-list of servable image file types.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// ErrNotFound is returned by Resolve for disallowed extensions, paths that
// escape the image root, and missing files. Callers map it to 404 without
// distinguishing the cases, so probing reveals nothing.
var ErrNotFound = fmt.Errorf("storage: image not found")

// LocalStore manages image files under a single root directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at dir, creating the directory if
// needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage mkdir: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

// Root returns the absolute image root directory.
func (s *LocalStore) Root() string {
	return s.root
}

// Save writes image bytes under a fresh uuid-based filename with an
// extension derived from the content type. Returns the stored filename.
func (s *LocalStore) Save(data []byte, contentType string) (string, error) {
	ext := ".png"
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	case "image/gif":
		ext = ".gif"
	}

	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.root, name), data, 0o644); err != nil {
		return "", fmt.Errorf("storage write: %w", err)
	}
	return name, nil
}

// Resolve validates a requested filename and returns its absolute path.
// It rejects extensions outside the allow-list and any path that falls
// outside the image root after normalization, then checks the file exists.
func (s *LocalStore) Resolve(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return "", ErrNotFound
	}

	path := filepath.Join(s.root, filepath.Clean("/"+name))
	// Join already collapsed any ".." segments against the rooted path;
	// verify the result is still inside the root.
	if path != s.root && !strings.HasPrefix(path, s.root+string(os.PathSeparator)) {
		return "", ErrNotFound
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return path, nil
}

// Package media stores uploaded post files and profile images.
package media

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	PostsPrefix   = "posts"
	ProfilePrefix = "profile_images"
)

// ErrInvalidKey is returned for object keys that escape the storage root.
var ErrInvalidKey = errors.New("invalid object key")

// Storage is a flat object store addressed by slash-separated keys.
type Storage interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// ObjectKey builds a unique key under prefix, keeping the extension of filename.
func ObjectKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(prefix, uuid.New().String()+ext)
}

func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	clean := path.Clean(key)
	return clean == key && clean != ".." && !strings.HasPrefix(clean, "../")
}

// Package media stores uploaded images on the local filesystem. Files land
// under <root>/uploads/<kind>/ named by the slugified owner name or title
// plus a random unique suffix, so uploads for the same entity never
// collide.
package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Kinds of upload targets
const (
	KindUsers = "users"
	KindPosts = "posts"
)

// Storage writes uploaded files below a root directory
type Storage struct {
	root string
}

// NewStorage creates a storage rooted at the given directory
func NewStorage(root string) *Storage {
	return &Storage{root: root}
}

// FilePath builds the relative storage path for an upload:
// uploads/<kind>/<slug>-<uuid><ext>.
func FilePath(kind, baseName, originalName string) string {
	ext := filepath.Ext(originalName)
	filename := fmt.Sprintf("%s-%s%s", Slugify(baseName), uuid.New().String(), ext)
	return filepath.Join("uploads", kind, filename)
}

// Save writes the upload and returns its stored relative path
func (s *Storage) Save(kind, baseName, originalName string, src io.Reader) (string, error) {
	rel := FilePath(kind, baseName, originalName)
	abs := filepath.Join(s.root, rel)

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	dst, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(abs)
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	return rel, nil
}

// Slugify lowercases the input, keeps letters, digits, hyphens and
// underscores, and collapses runs of everything else into single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // trim leading separators
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			lastHyphen = false
		case r == '-':
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

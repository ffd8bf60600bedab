package blobs

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Kind groups stored files; each kind is a flat namespace.
type Kind string

const (
	Uploads  Kind = "uploads"
	Previews Kind = "previews"
	Presets  Kind = "presets"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidName = errors.New("invalid file name")
	ErrInvalidKind = errors.New("invalid file kind")
)

// Store persists the files produced for each upload.
type Store interface {
	Put(ctx context.Context, kind Kind, name string, data []byte, contentType string) error
	Get(ctx context.Context, kind Kind, name string) ([]byte, error)
	Delete(ctx context.Context, kind Kind, name string) error
	List(ctx context.Context, kind Kind) ([]string, error)
}

// ParseKind validates a kind taken from a request path.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Uploads, Previews, Presets:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// ValidateName rejects names that would escape the kind's directory.
func ValidateName(name string) error {
	if name == "" || strings.HasPrefix(name, ".") ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) ||
		path.Clean(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// ContentType guesses the MIME type served for a stored file.
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".xmp":
		return "application/rdf+xml"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".bmp":
		return "image/bmp"
	case ".webp":
		return "image/webp"
	}
	return "application/octet-stream"
}

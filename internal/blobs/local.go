package blobs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// LocalStore keeps one directory per kind under a root directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates the kind directories under root if missing.
func NewLocalStore(root string) (*LocalStore, error) {
	for _, k := range []Kind{Uploads, Previews, Presets} {
		if err := os.MkdirAll(filepath.Join(root, string(k)), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", k, err)
		}
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) path(kind Kind, name string) (string, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return "", err
	}
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.root, string(kind), name), nil
}

// Put writes through a temp file so readers never observe a partial file.
func (s *LocalStore) Put(ctx context.Context, kind Kind, name string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := s.path(kind, name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s/%s: %w", kind, name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s/%s: %w", kind, name, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to store %s/%s: %w", kind, name, err)
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, kind Kind, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(kind, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, kind, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", kind, name, err)
	}
	return data, nil
}

func (s *LocalStore) Delete(ctx context.Context, kind Kind, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(kind, name)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, kind, name)
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", kind, name, err)
	}
	return nil
}

// List returns file names of a kind sorted by name. Temp files are skipped.
func (s *LocalStore) List(ctx context.Context, kind Kind) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.root, string(kind)))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

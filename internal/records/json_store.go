package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"style-preset-backend/internal/models"
)

// JSONStore keeps every record in one JSON array file. Writers are serialised
// by a mutex and the file is replaced atomically, so concurrent requests in a
// single process never lose updates. It is not safe across processes.
type JSONStore struct {
	mu   sync.Mutex
	path string
}

func NewJSONStore(path string) (*JSONStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create metadata directory: %w", err)
	}
	return &JSONStore{path: path}, nil
}

func (s *JSONStore) Add(ctx context.Context, rec models.UploadRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return err
	}
	for _, r := range recs {
		if r.ID == rec.ID || r.HasFile(rec.StoredFilename) || r.HasFile(rec.PreviewFilename) || r.HasFile(rec.PresetFilename) {
			return fmt.Errorf("%w: %s", ErrConflict, rec.ID)
		}
	}
	return s.save(append(recs, rec))
}

func (s *JSONStore) List(ctx context.Context) ([]models.UploadRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	recs, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].UploadedAt.After(recs[j].UploadedAt)
	})
	return recs, nil
}

func (s *JSONStore) Get(ctx context.Context, id uuid.UUID) (models.UploadRecord, error) {
	return s.find(ctx, func(r models.UploadRecord) bool { return r.ID == id })
}

func (s *JSONStore) FindByFilename(ctx context.Context, name string) (models.UploadRecord, error) {
	return s.find(ctx, func(r models.UploadRecord) bool { return r.HasFile(name) })
}

func (s *JSONStore) find(ctx context.Context, match func(models.UploadRecord) bool) (models.UploadRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.UploadRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return models.UploadRecord{}, err
	}
	for _, r := range recs {
		if match(r) {
			return r, nil
		}
	}
	return models.UploadRecord{}, ErrNotFound
}

func (s *JSONStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return err
	}
	kept := recs[:0]
	for _, r := range recs {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(recs) {
		return ErrNotFound
	}
	return s.save(kept)
}

// load must be called with mu held. A missing file is an empty store.
func (s *JSONStore) load() ([]models.UploadRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var recs []models.UploadRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return recs, nil
}

// save must be called with mu held.
func (s *JSONStore) save(recs []models.UploadRecord) error {
	if recs == nil {
		recs = []models.UploadRecord{}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".metadata-*")
	if err != nil {
		return fmt.Errorf("failed to create temp metadata file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close metadata: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace metadata: %w", err)
	}
	return nil
}

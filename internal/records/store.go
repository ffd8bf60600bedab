// Package records persists UploadRecord bookkeeping.
package records

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"style-preset-backend/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a record id or file name is already taken.
	ErrConflict = errors.New("record conflict")
)

// Store is implemented by JSONStore and database.RecordStore.
type Store interface {
	Add(ctx context.Context, rec models.UploadRecord) error
	// List returns records newest first.
	List(ctx context.Context) ([]models.UploadRecord, error)
	Get(ctx context.Context, id uuid.UUID) (models.UploadRecord, error)
	// FindByFilename matches the stored, preview or preset file name.
	FindByFilename(ctx context.Context, name string) (models.UploadRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// RecordSchemaVersion is bumped whenever UploadRecord changes shape.
const RecordSchemaVersion = 1

// UploadRecord is the persisted bookkeeping for one generate request.
type UploadRecord struct {
	ID               uuid.UUID `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	StoredFilename   string    `json:"stored_filename"`
	PreviewFilename  string    `json:"preview_filename"`
	PresetFilename   string    `json:"preset_filename"`
	StyleDescription string    `json:"style_description"`
	MatchedStyles    []string  `json:"matched_styles"`
	UploadedAt       time.Time `json:"uploaded_at"`
	SchemaVersion    int       `json:"schema_version"`
}

// HasFile reports whether name is one of the files this record owns.
func (r UploadRecord) HasFile(name string) bool {
	return name != "" && (name == r.StoredFilename || name == r.PreviewFilename || name == r.PresetFilename)
}

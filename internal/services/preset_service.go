package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"style-preset-backend/internal/blobs"
	"style-preset-backend/internal/models"
	"style-preset-backend/internal/records"
	"style-preset-backend/internal/style"
)

// ErrEmptyUpload is returned when the uploaded file has no content.
var ErrEmptyUpload = errors.New("uploaded file is empty")

// Renderer produces preview images; implemented by preview.Renderer.
type Renderer interface {
	Render(ctx context.Context, src io.Reader, params style.Parameters) ([]byte, error)
}

// Encoder serialises presets; implemented by xmp.Encoder.
type Encoder interface {
	Encode(params style.Parameters, displayName string) ([]byte, error)
}

type GenerateInput struct {
	Filename         string
	Data             []byte
	StyleDescription string
}

type GenerateResult struct {
	Record     models.UploadRecord
	Parameters style.Parameters
}

type PresetService struct {
	renderer Renderer
	encoder  Encoder
	blobs    blobs.Store
	records  records.Store
	logger   zerolog.Logger
	now      func() time.Time

	// names serialises preset file name selection with the record insert
	names sync.Mutex
}

func NewPresetService(renderer Renderer, encoder Encoder, blobStore blobs.Store, recordStore records.Store, logger zerolog.Logger) *PresetService {
	return &PresetService{
		renderer: renderer,
		encoder:  encoder,
		blobs:    blobStore,
		records:  recordStore,
		logger:   logger.With().Str("component", "preset_service").Logger(),
		now:      time.Now,
	}
}

// Match maps a description to parameters and the names of matched styles.
func (s *PresetService) Match(description string) (style.Parameters, []string) {
	return style.Match(description), style.MatchedStyles(description)
}

// CreatePreset encodes a preset for description without storing anything.
// The returned file name follows the generated-preset naming scheme.
func (s *PresetService) CreatePreset(description, name string) ([]byte, string, error) {
	params := style.Match(description)
	if name == "" {
		name = DisplayName(description)
	}
	doc, err := s.encoder.Encode(params, name)
	if err != nil {
		return nil, "", err
	}
	return doc, presetFilename(style.Slugify(name), description), nil
}

// Generate stores the upload, its preview and its preset and records them.
// Files already written are removed again if a later step fails.
func (s *PresetService) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyUpload
	}

	id := uuid.New()
	params := style.Match(in.StyleDescription)
	matched := style.MatchedStyles(in.StyleDescription)
	log := s.logger.With().Str("record_id", id.String()).Logger()

	var previewData, presetData []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		previewData, err = s.renderer.Render(gctx, bytes.NewReader(in.Data), params)
		return err
	})
	g.Go(func() error {
		var err error
		presetData, err = s.encoder.Encode(params, DisplayName(in.StyleDescription))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rec := models.UploadRecord{
		ID:               id,
		OriginalFilename: filepath.Base(in.Filename),
		StoredFilename:   id.String() + uploadExt(in.Filename),
		PreviewFilename:  "preview_" + id.String() + ".jpg",
		StyleDescription: in.StyleDescription,
		MatchedStyles:    matched,
		UploadedAt:       s.now().UTC(),
		SchemaVersion:    models.RecordSchemaVersion,
	}
	if rec.MatchedStyles == nil {
		rec.MatchedStyles = []string{}
	}

	var written []stored
	cleanup := func() {
		// the request context may already be cancelled
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		for _, f := range written {
			if err := s.blobs.Delete(cctx, f.kind, f.name); err != nil && !errors.Is(err, blobs.ErrNotFound) {
				log.Warn().Err(err).Str("kind", string(f.kind)).Str("file", f.name).Msg("failed to remove file after error")
			}
		}
	}

	if err := s.blobs.Put(ctx, blobs.Uploads, rec.StoredFilename, in.Data, blobs.ContentType(rec.StoredFilename)); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	written = append(written, stored{blobs.Uploads, rec.StoredFilename})

	if err := s.blobs.Put(ctx, blobs.Previews, rec.PreviewFilename, previewData, "image/jpeg"); err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to store preview: %w", err)
	}
	written = append(written, stored{blobs.Previews, rec.PreviewFilename})

	if err := s.storePreset(ctx, &rec, presetData); err != nil {
		if rec.PresetFilename != "" {
			written = append(written, stored{blobs.Presets, rec.PresetFilename})
		}
		cleanup()
		return nil, err
	}

	log.Info().
		Str("original_filename", rec.OriginalFilename).
		Str("preset_filename", rec.PresetFilename).
		Strs("matched_styles", matched).
		Msg("preset generated")

	return &GenerateResult{Record: rec, Parameters: params}, nil
}

type stored struct {
	kind blobs.Kind
	name string
}

// storePreset picks a preset file name that no other record owns, writes the
// document and inserts the record. rec.PresetFilename is set once the write
// has been attempted.
func (s *PresetService) storePreset(ctx context.Context, rec *models.UploadRecord, doc []byte) error {
	s.names.Lock()
	defer s.names.Unlock()

	name := PresetFilename(rec.OriginalFilename, rec.StyleDescription)
	_, err := s.records.FindByFilename(ctx, name)
	switch {
	case err == nil:
		name = strings.TrimSuffix(name, ".xmp") + "-" + rec.ID.String()[:8] + ".xmp"
	case !errors.Is(err, records.ErrNotFound):
		return fmt.Errorf("failed to check preset name: %w", err)
	}

	rec.PresetFilename = name
	if err := s.blobs.Put(ctx, blobs.Presets, name, doc, blobs.ContentType(name)); err != nil {
		return fmt.Errorf("failed to store preset: %w", err)
	}
	if err := s.records.Add(ctx, *rec); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

func (s *PresetService) ListRecords(ctx context.Context) ([]models.UploadRecord, error) {
	return s.records.List(ctx)
}

func (s *PresetService) GetRecord(ctx context.Context, id uuid.UUID) (models.UploadRecord, error) {
	return s.records.Get(ctx, id)
}

// ListFiles returns the names of every stored file of kind, including files
// no record owns.
func (s *PresetService) ListFiles(ctx context.Context, kind blobs.Kind) ([]string, error) {
	return s.blobs.List(ctx, kind)
}

// ReadFile returns a stored file's content.
func (s *PresetService) ReadFile(ctx context.Context, kind blobs.Kind, name string) ([]byte, error) {
	return s.blobs.Get(ctx, kind, name)
}

// DeleteByFilename removes the record owning name together with all its
// files. Files with no record are deleted on their own, looked up in the
// uploads, previews and presets stores in that order.
func (s *PresetService) DeleteByFilename(ctx context.Context, name string) error {
	if err := blobs.ValidateName(name); err != nil {
		return err
	}

	rec, err := s.records.FindByFilename(ctx, name)
	if errors.Is(err, records.ErrNotFound) {
		return s.deleteOrphan(ctx, name)
	}
	if err != nil {
		return err
	}

	if err := s.records.Delete(ctx, rec.ID); err != nil {
		return err
	}
	for _, f := range []stored{
		{blobs.Uploads, rec.StoredFilename},
		{blobs.Previews, rec.PreviewFilename},
		{blobs.Presets, rec.PresetFilename},
	} {
		if err := s.blobs.Delete(ctx, f.kind, f.name); err != nil && !errors.Is(err, blobs.ErrNotFound) {
			s.logger.Warn().Err(err).Str("kind", string(f.kind)).Str("file", f.name).Msg("failed to delete file")
		}
	}

	s.logger.Info().Str("record_id", rec.ID.String()).Msg("record deleted")
	return nil
}

func (s *PresetService) deleteOrphan(ctx context.Context, name string) error {
	for _, kind := range []blobs.Kind{blobs.Uploads, blobs.Previews, blobs.Presets} {
		err := s.blobs.Delete(ctx, kind, name)
		if err == nil {
			return nil
		}
		if !errors.Is(err, blobs.ErrNotFound) {
			return err
		}
	}
	return fmt.Errorf("%w: %s", blobs.ErrNotFound, name)
}

// PresetFilename builds {base}-preset-{style}.xmp from the uploaded file name
// and the style description.
func PresetFilename(originalFilename, description string) string {
	stem := strings.TrimSuffix(filepath.Base(originalFilename), filepath.Ext(originalFilename))
	return presetFilename(style.Slugify(stem), description)
}

func presetFilename(base, description string) string {
	if base == "" {
		base = "photo"
	}
	slug := style.Slugify(description)
	if slug == "" {
		slug = "neutral"
	}
	return base + "-preset-" + slug + ".xmp"
}

// DisplayName is the crs:Name written for a description.
func DisplayName(description string) string {
	words := strings.Fields(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, strings.ToValidUTF8(description, "")))
	if len(words) == 0 {
		return "Neutral"
	}
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	name := strings.Join(words, " ")
	if len(name) > 64 {
		name = strings.TrimSpace(truncateUTF8(name, 64))
	}
	return name
}

func truncateUTF8(s string, n int) string {
	for n > 0 && n < len(s) && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func uploadExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".tif", ".tiff", ".bmp", ".webp":
		return ext
	}
	return ".bin"
}

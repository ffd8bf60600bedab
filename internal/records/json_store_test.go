package records_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"style-preset-backend/internal/models"
	"style-preset-backend/internal/records"
)

func newRecord(name string, at time.Time) models.UploadRecord {
	id := uuid.New()
	return models.UploadRecord{
		ID:               id,
		OriginalFilename: name,
		StoredFilename:   id.String() + ".jpg",
		PreviewFilename:  "preview_" + id.String() + ".jpg",
		PresetFilename:   "photo-preset-cinematic-" + id.String()[:8] + ".xmp",
		StyleDescription: "cinematic",
		MatchedStyles:    []string{"cinematic"},
		UploadedAt:       at.UTC(),
		SchemaVersion:    models.RecordSchemaVersion,
	}
}

func TestJSONStore_EmptyWhenMissing(t *testing.T) {
	s, err := records.NewJSONStore(filepath.Join(t.TempDir(), "nested", "metadata.json"))
	require.NoError(t, err)

	recs, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestJSONStore_AddListGetDelete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "metadata.json")
	s, err := records.NewJSONStore(path)
	require.NoError(t, err)

	older := newRecord("a.jpg", time.Now().Add(-time.Hour))
	newer := newRecord("b.jpg", time.Now())
	require.NoError(t, s.Add(ctx, older))
	require.NoError(t, s.Add(ctx, newer))
	assert.ErrorIs(t, s.Add(ctx, older), records.ErrConflict)

	clash := newRecord("c.jpg", time.Now())
	clash.PresetFilename = "taken.xmp"
	require.NoError(t, s.Add(ctx, clash))
	other := newRecord("d.jpg", time.Now())
	other.PresetFilename = "taken.xmp"
	assert.ErrorIs(t, s.Add(ctx, other), records.ErrConflict)
	require.NoError(t, s.Delete(ctx, clash.ID))

	recs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, newer.ID, recs[0].ID)
	assert.Equal(t, older.ID, recs[1].ID)

	got, err := s.Get(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, older, got)

	got, err = s.FindByFilename(ctx, newer.PreviewFilename)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)

	_, err = s.FindByFilename(ctx, "missing.jpg")
	assert.ErrorIs(t, err, records.ErrNotFound)

	require.NoError(t, s.Delete(ctx, older.ID))
	assert.ErrorIs(t, s.Delete(ctx, older.ID), records.ErrNotFound)
	_, err = s.Get(ctx, older.ID)
	assert.ErrorIs(t, err, records.ErrNotFound)

	// state survives a new store over the same file
	reopened, err := records.NewJSONStore(path)
	require.NoError(t, err)
	recs, err = reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, newer.ID, recs[0].ID)
}

func TestJSONStore_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	s, err := records.NewJSONStore(filepath.Join(t.TempDir(), "metadata.json"))
	require.NoError(t, err)

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Add(ctx, newRecord("x.jpg", time.Now())))
		}()
	}
	wg.Wait()

	recs, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, n)
}

func TestJSONStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := records.NewJSONStore(path)
	require.NoError(t, err)
	_, err = s.List(context.Background())
	assert.ErrorContains(t, err, "failed to decode metadata")
}

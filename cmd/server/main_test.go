package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"style-preset-backend/internal/blobs"
	"style-preset-backend/internal/config"
	"style-preset-backend/internal/records"
)

func TestNewBlobStore_LocalByDefault(t *testing.T) {
	cfg := &config.Config{DataDir: t.TempDir()}

	store, err := newBlobStore(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &blobs.LocalStore{}, store)
	assert.DirExists(t, filepath.Join(cfg.DataDir, string(blobs.Presets)))
}

func TestNewRecordStore_JSONWithoutDatabaseURL(t *testing.T) {
	cfg := &config.Config{MetadataPath: filepath.Join(t.TempDir(), "meta", "metadata.json")}

	store, closeStore, err := newRecordStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &records.JSONStore{}, store)

	recs, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestNewRecordStore_BadDatabaseURL(t *testing.T) {
	cfg := &config.Config{DatabaseURL: "postgres://%zz"}

	_, _, err := newRecordStore(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

package supabase

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	storage "github.com/supabase-community/storage-go"
	"style-preset-backend/internal/blobs"
)

// BlobStore keeps files in a Supabase Storage bucket as {kind}/{name}.
type BlobStore struct {
	client *storage.Client
	bucket string
}

func NewBlobStore(c *Client, bucket string) *BlobStore {
	return &BlobStore{
		client: c.Supabase.Storage,
		bucket: bucket,
	}
}

func objectPath(kind blobs.Kind, name string) (string, error) {
	if _, err := blobs.ParseKind(string(kind)); err != nil {
		return "", err
	}
	if err := blobs.ValidateName(name); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", kind, name), nil
}

func (s *BlobStore) Put(ctx context.Context, kind blobs.Kind, name string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := objectPath(kind, name)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = blobs.ContentType(name)
	}

	upsert := true
	_, err = s.client.UploadFile(s.bucket, p, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

func (s *BlobStore) Get(ctx context.Context, kind blobs.Kind, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := objectPath(kind, name)
	if err != nil {
		return nil, err
	}
	data, err := s.client.DownloadFile(s.bucket, p)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", blobs.ErrNotFound, p)
		}
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return data, nil
}

func (s *BlobStore) Delete(ctx context.Context, kind blobs.Kind, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := objectPath(kind, name)
	if err != nil {
		return err
	}
	removed, err := s.client.RemoveFile(s.bucket, []string{p})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	// the API reports success with an empty list for missing objects
	if len(removed) == 0 {
		return fmt.Errorf("%w: %s", blobs.ErrNotFound, p)
	}
	return nil
}

func (s *BlobStore) List(ctx context.Context, kind blobs.Kind) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := blobs.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	files, err := s.client.ListFiles(s.bucket, string(kind), storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		if f.Name == "" || strings.HasPrefix(f.Name, ".") {
			continue
		}
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names, nil
}

func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "404")
}

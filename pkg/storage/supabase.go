package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	storage_go "github.com/supabase-community/storage-go"
)

// DocumentStorage defines the contract for research document storage
// (Supabase Storage implementation).
type DocumentStorage interface {
	// Upload stores the object at path and returns its public URL.
	Upload(ctx context.Context, path string, r io.Reader, contentType string) (string, error)
	// Remove deletes the object at path.
	Remove(ctx context.Context, path string) error
	// PublicURL returns the public download URL for the object at path.
	PublicURL(path string) string
	// SignedURL returns a time-limited download URL for the object at path.
	SignedURL(path string, ttl time.Duration) (string, error)
}

type supabaseStorage struct {
	client  *storage_go.Client
	baseURL string
	bucket  string
}

// NewSupabaseStorage creates a Supabase-backed implementation of DocumentStorage.
func NewSupabaseStorage(baseURL, apiKey, bucket string) (DocumentStorage, error) {
	if baseURL == "" || apiKey == "" {
		return nil, fmt.Errorf("supabase url and key must be configured")
	}

	baseURL = strings.TrimRight(baseURL, "/")
	client := storage_go.NewClient(baseURL+"/storage/v1", apiKey, nil)

	return &supabaseStorage{
		client:  client,
		baseURL: baseURL,
		bucket:  bucket,
	}, nil
}

func (s *supabaseStorage) Upload(ctx context.Context, path string, r io.Reader, contentType string) (string, error) {
	options := storage_go.FileOptions{}
	if contentType != "" {
		options.ContentType = &contentType
	}

	if _, err := s.client.UploadFile(s.bucket, path, r, options); err != nil {
		return "", fmt.Errorf("failed to upload file to supabase: %w", err)
	}

	return s.PublicURL(path), nil
}

func (s *supabaseStorage) Remove(ctx context.Context, path string) error {
	if _, err := s.client.RemoveFile(s.bucket, []string{path}); err != nil {
		return fmt.Errorf("failed to remove file from supabase: %w", err)
	}
	return nil
}

func (s *supabaseStorage) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, path)
}

func (s *supabaseStorage) SignedURL(path string, ttl time.Duration) (string, error) {
	resp, err := s.client.CreateSignedUrl(s.bucket, path, int(ttl.Seconds()))
	if err != nil {
		return "", fmt.Errorf("failed to create signed url: %w", err)
	}

	signed := resp.SignedURL
	if !strings.HasPrefix(signed, "http") {
		signed = s.baseURL + "/storage/v1" + signed
	}

	return signed, nil
}

package documents

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsScheme = "gs://"

// IsGCSPath reports whether path names a Cloud Storage object.
func IsGCSPath(path string) bool {
	return strings.HasPrefix(path, gcsScheme)
}

// ParseGCSPath splits gs://bucket/object into its bucket and object name.
func ParseGCSPath(path string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(path, gcsScheme)
	if !ok {
		return "", "", fmt.Errorf("not a gs:// path: %q", path)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("gs:// path needs a bucket and an object: %q", path)
	}
	return bucket, object, nil
}

// GCSSource reads documents from Cloud Storage.
type GCSSource struct {
	client *storage.Client
}

// NewGCSSource creates a Cloud Storage client using application default
// credentials unless opts say otherwise.
func NewGCSSource(ctx context.Context, opts ...option.ClientOption) (*GCSSource, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSSource{client: client}, nil
}

// Fetch downloads the object named by path.
func (s *GCSSource) Fetch(ctx context.Context, path string) ([]byte, error) {
	bucket, object, err := ParseGCSPath(path)
	if err != nil {
		return nil, err
	}

	r, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}
	return data, nil
}

// Close releases the underlying client.
func (s *GCSSource) Close() error {
	return s.client.Close()
}

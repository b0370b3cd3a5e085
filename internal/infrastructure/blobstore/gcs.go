package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const defaultPublicBaseURL = "https://storage.googleapis.com"

// NewGCSClient opens a Cloud Storage client. An empty credentialsFile uses
// application default credentials.
func NewGCSClient(ctx context.Context, credentialsFile string) (*storage.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return client, nil
}

// GCSStore uploads into a single bucket. Objects are expected to be publicly
// readable through bucket IAM, so the returned URL needs no signing.
type GCSStore struct {
	Client *storage.Client
	Bucket string
	// Optional: if empty, uses https://storage.googleapis.com
	PublicBaseURL string
}

func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{
		Client:        client,
		Bucket:        strings.TrimSpace(bucket),
		PublicBaseURL: defaultPublicBaseURL,
	}
}

func (s *GCSStore) Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error) {
	if s.Client == nil || s.Bucket == "" {
		return "", fmt.Errorf("%w: client or bucket not configured", ErrUnavailable)
	}
	objectPath = strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if objectPath == "" {
		return "", ErrEmptyPath
	}

	w := s.Client.Bucket(s.Bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	return s.PublicURL(objectPath), nil
}

// PublicURL escapes each path segment but keeps the "/" separators.
func (s *GCSStore) PublicURL(objectPath string) string {
	base := strings.TrimSpace(s.PublicBaseURL)
	if base == "" {
		base = defaultPublicBaseURL
	}
	parts := strings.Split(objectPath, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), s.Bucket, strings.Join(parts, "/"))
}

var _ Store = (*GCSStore)(nil)

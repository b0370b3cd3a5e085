// Package blobstore uploads customer reference images to object storage.
package blobstore

import (
	"context"
	"errors"
	"io"
)

var (
	ErrEmptyPath   = errors.New("object path is empty")
	ErrUnavailable = errors.New("object storage unavailable")
)

// Store writes objects and returns a URL the shop can open them at.
type Store interface {
	Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error)
}

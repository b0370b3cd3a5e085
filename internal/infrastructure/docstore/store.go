// Package docstore is the remote document store the storefront mirrors user data to.
package docstore

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnavailable      = errors.New("document store unavailable")
	ErrInvalidPath      = errors.New("invalid document path")
)

const (
	// CreatedAtField is set by the store on Add.
	CreatedAtField = "createdAt"
	// TimestampField is set by the store on every Merge.
	TimestampField = "timestamp"
)

type Document struct {
	ID        string
	Data      map[string]any
	CreatedAt time.Time
}

// Query narrows a collection watch.
type Query struct {
	OrderBy string
	Desc    bool
	Limit   int
}

// Store is the subset of a document database the storefront needs.
// Paths are slash separated: "users/u1", "users/u1/addresses".
type Store interface {
	// ArrayUnion adds values to an array field, creating the document if needed.
	ArrayUnion(ctx context.Context, docPath, field string, values ...any) error
	// ArrayRemove removes values from an array field.
	ArrayRemove(ctx context.Context, docPath, field string, values ...any) error
	// Add creates a document with a generated id in a collection.
	Add(ctx context.Context, collectionPath string, data map[string]any) (string, error)
	Delete(ctx context.Context, docPath string) error
	// Merge writes fields into a document at a known path, creating it if needed.
	// Fields not named in data are left alone.
	Merge(ctx context.Context, docPath string, data map[string]any) error

	// WatchDocument calls fn with every snapshot of a document until ctx is done
	// or the stream fails. It blocks.
	WatchDocument(ctx context.Context, docPath string, fn func(doc Document, exists bool)) error
	// WatchCollection calls fn with the full result set on every change. It blocks.
	WatchCollection(ctx context.Context, collectionPath string, q Query, fn func(docs []Document)) error
}

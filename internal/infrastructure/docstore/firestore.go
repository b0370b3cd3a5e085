package docstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"maps"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NewFirestoreClient opens a client for projectID. An empty credentialsFile uses
// application default credentials.
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClient: %w", err)
	}
	return client, nil
}

// FirestoreStore implements Store on Cloud Firestore.
type FirestoreStore struct {
	Client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{Client: client}
}

func (s *FirestoreStore) doc(path string) (*firestore.DocumentRef, error) {
	if s.Client == nil {
		return nil, fmt.Errorf("%w: firestore client is nil", ErrUnavailable)
	}
	ref := s.Client.Doc(path)
	if ref == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return ref, nil
}

func (s *FirestoreStore) col(path string) (*firestore.CollectionRef, error) {
	if s.Client == nil {
		return nil, fmt.Errorf("%w: firestore client is nil", ErrUnavailable)
	}
	ref := s.Client.Collection(path)
	if ref == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return ref, nil
}

func (s *FirestoreStore) ArrayUnion(ctx context.Context, docPath, field string, values ...any) error {
	ref, err := s.doc(docPath)
	if err != nil {
		return err
	}
	_, err = ref.Set(ctx, map[string]any{field: firestore.ArrayUnion(values...)}, firestore.MergeAll)
	return mapError(err)
}

func (s *FirestoreStore) ArrayRemove(ctx context.Context, docPath, field string, values ...any) error {
	ref, err := s.doc(docPath)
	if err != nil {
		return err
	}
	_, err = ref.Set(ctx, map[string]any{field: firestore.ArrayRemove(values...)}, firestore.MergeAll)
	return mapError(err)
}

func (s *FirestoreStore) Add(ctx context.Context, collectionPath string, data map[string]any) (string, error) {
	ref, err := s.col(collectionPath)
	if err != nil {
		return "", err
	}
	payload := maps.Clone(data)
	if payload == nil {
		payload = map[string]any{}
	}
	payload[CreatedAtField] = firestore.ServerTimestamp

	doc, _, err := ref.Add(ctx, payload)
	if err != nil {
		return "", mapError(err)
	}
	return doc.ID, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, docPath string) error {
	ref, err := s.doc(docPath)
	if err != nil {
		return err
	}
	_, err = ref.Delete(ctx)
	return mapError(err)
}

func (s *FirestoreStore) Merge(ctx context.Context, docPath string, data map[string]any) error {
	ref, err := s.doc(docPath)
	if err != nil {
		return err
	}
	payload := maps.Clone(data)
	if payload == nil {
		payload = map[string]any{}
	}
	payload[TimestampField] = firestore.ServerTimestamp

	_, err = ref.Set(ctx, payload, firestore.MergeAll)
	return mapError(err)
}

func (s *FirestoreStore) WatchDocument(ctx context.Context, docPath string, fn func(Document, bool)) error {
	ref, err := s.doc(docPath)
	if err != nil {
		return err
	}

	it := ref.Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			return watchError(ctx, err)
		}
		if !snap.Exists() {
			fn(Document{ID: ref.ID}, false)
			continue
		}
		fn(toDocument(snap), true)
	}
}

func (s *FirestoreStore) WatchCollection(ctx context.Context, collectionPath string, q Query, fn func([]Document)) error {
	ref, err := s.col(collectionPath)
	if err != nil {
		return err
	}

	query := ref.Query
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	it := query.Snapshots(ctx)
	defer it.Stop()

	for {
		qs, err := it.Next()
		if err != nil {
			return watchError(ctx, err)
		}
		snaps, err := qs.Documents.GetAll()
		if err != nil {
			return mapError(err)
		}
		docs := make([]Document, 0, len(snaps))
		for _, snap := range snaps {
			docs = append(docs, toDocument(snap))
		}
		fn(docs)
	}
}

func toDocument(snap *firestore.DocumentSnapshot) Document {
	data := snap.Data()
	doc := Document{ID: snap.Ref.ID, Data: data}
	if t, ok := data[CreatedAtField].(time.Time); ok {
		doc.CreatedAt = t
	} else {
		doc.CreatedAt = snap.CreateTime
	}
	return doc
}

func watchError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, iterator.Done) {
		return nil
	}
	log.Printf("[Firestore] Snapshot stream failed: %v", err)
	return mapError(err)
}

// mapError translates gRPC status codes into the package's sentinel errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

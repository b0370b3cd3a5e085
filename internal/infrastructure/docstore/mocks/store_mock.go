package mocks

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/example/sassynary-shop/internal/infrastructure/docstore"
)

// MockStore is an in-memory docstore.Store for testing.
// Writes notify active watchers synchronously, in the writer's goroutine.
type MockStore struct {
	mu     sync.Mutex
	docs   map[string]map[string]any // docPath -> fields
	nextID int
	now    func() time.Time

	docWatchers map[int]docWatcher
	colWatchers map[int]colWatcher
	watcherSeq  int

	// For tracking calls in tests
	ArrayUnionCalls  []ArrayCall
	ArrayRemoveCalls []ArrayCall
	AddCalls         []AddCall
	DeleteCalls      []string
	MergeCalls       []MergeCall

	// Error injection
	ArrayUnionErr  error
	ArrayRemoveErr error
	AddErr         error
	DeleteErr      error
	MergeErr       error
	WatchErr       error

	// Optional: called before each write, outside the store lock
	WriteCallback func(op, path string)
}

// ArrayCall records parameters passed to ArrayUnion or ArrayRemove
type ArrayCall struct {
	DocPath string
	Field   string
	Values  []any
}

// AddCall records parameters passed to Add
type AddCall struct {
	CollectionPath string
	Data           map[string]any
}

// MergeCall records parameters passed to Merge
type MergeCall struct {
	DocPath string
	Data    map[string]any
}

type docWatcher struct {
	path string
	fn   func(docstore.Document, bool)
}

type colWatcher struct {
	path  string
	query docstore.Query
	fn    func([]docstore.Document)
}

func NewMockStore() *MockStore {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	return &MockStore{
		docs:        make(map[string]map[string]any),
		docWatchers: make(map[int]docWatcher),
		colWatchers: make(map[int]colWatcher),
		now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	}
}

// SetDocument seeds a document without recording a call.
func (m *MockStore) SetDocument(path string, data map[string]any) {
	m.mu.Lock()
	m.docs[path] = maps.Clone(data)
	m.mu.Unlock()
	m.notify(path)
}

// Document returns a copy of a stored document.
func (m *MockStore) Document(path string) (map[string]any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[path]
	return maps.Clone(d), ok
}

// Collection returns the direct children of collectionPath.
func (m *MockStore) Collection(collectionPath string) []docstore.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.collectionLocked(collectionPath, docstore.Query{})
}

// Watchers reports the number of active watches.
func (m *MockStore) Watchers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docWatchers) + len(m.colWatchers)
}

func (m *MockStore) ArrayUnion(ctx context.Context, docPath, field string, values ...any) error {
	m.beforeWrite("arrayUnion", docPath)

	m.mu.Lock()
	m.ArrayUnionCalls = append(m.ArrayUnionCalls, ArrayCall{DocPath: docPath, Field: field, Values: values})
	if m.ArrayUnionErr != nil {
		m.mu.Unlock()
		return m.ArrayUnionErr
	}

	doc := m.ensureDoc(docPath)
	current, _ := doc[field].([]any)
	for _, v := range values {
		if !containsValue(current, v) {
			current = append(current, v)
		}
	}
	doc[field] = current
	m.mu.Unlock()

	m.notify(docPath)
	return nil
}

func (m *MockStore) ArrayRemove(ctx context.Context, docPath, field string, values ...any) error {
	m.beforeWrite("arrayRemove", docPath)

	m.mu.Lock()
	m.ArrayRemoveCalls = append(m.ArrayRemoveCalls, ArrayCall{DocPath: docPath, Field: field, Values: values})
	if m.ArrayRemoveErr != nil {
		m.mu.Unlock()
		return m.ArrayRemoveErr
	}

	doc := m.ensureDoc(docPath)
	current, _ := doc[field].([]any)
	kept := make([]any, 0, len(current))
	for _, v := range current {
		if !containsValue(values, v) {
			kept = append(kept, v)
		}
	}
	doc[field] = kept
	m.mu.Unlock()

	m.notify(docPath)
	return nil
}

func (m *MockStore) Add(ctx context.Context, collectionPath string, data map[string]any) (string, error) {
	m.beforeWrite("add", collectionPath)

	m.mu.Lock()
	m.AddCalls = append(m.AddCalls, AddCall{CollectionPath: collectionPath, Data: maps.Clone(data)})
	if m.AddErr != nil {
		m.mu.Unlock()
		return "", m.AddErr
	}

	m.nextID++
	id := fmt.Sprintf("doc-%d", m.nextID)
	doc := maps.Clone(data)
	if doc == nil {
		doc = map[string]any{}
	}
	doc[docstore.CreatedAtField] = m.now()
	docPath := collectionPath + "/" + id
	m.docs[docPath] = doc
	m.mu.Unlock()

	m.notify(docPath)
	return id, nil
}

func (m *MockStore) Delete(ctx context.Context, docPath string) error {
	m.beforeWrite("delete", docPath)

	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, docPath)
	if m.DeleteErr != nil {
		m.mu.Unlock()
		return m.DeleteErr
	}
	delete(m.docs, docPath)
	m.mu.Unlock()

	m.notify(docPath)
	return nil
}

func (m *MockStore) Merge(ctx context.Context, docPath string, data map[string]any) error {
	m.beforeWrite("merge", docPath)

	m.mu.Lock()
	m.MergeCalls = append(m.MergeCalls, MergeCall{DocPath: docPath, Data: maps.Clone(data)})
	if m.MergeErr != nil {
		m.mu.Unlock()
		return m.MergeErr
	}

	doc := m.ensureDoc(docPath)
	maps.Copy(doc, data)
	doc[docstore.TimestampField] = m.now()
	m.mu.Unlock()

	m.notify(docPath)
	return nil
}

func (m *MockStore) WatchDocument(ctx context.Context, docPath string, fn func(docstore.Document, bool)) error {
	m.mu.Lock()
	if m.WatchErr != nil {
		m.mu.Unlock()
		return m.WatchErr
	}
	m.watcherSeq++
	id := m.watcherSeq
	m.docWatchers[id] = docWatcher{path: docPath, fn: fn}
	doc, exists := m.documentLocked(docPath)
	m.mu.Unlock()

	fn(doc, exists)

	<-ctx.Done()

	m.mu.Lock()
	delete(m.docWatchers, id)
	m.mu.Unlock()
	return ctx.Err()
}

func (m *MockStore) WatchCollection(ctx context.Context, collectionPath string, q docstore.Query, fn func([]docstore.Document)) error {
	m.mu.Lock()
	if m.WatchErr != nil {
		m.mu.Unlock()
		return m.WatchErr
	}
	m.watcherSeq++
	id := m.watcherSeq
	m.colWatchers[id] = colWatcher{path: collectionPath, query: q, fn: fn}
	docs := m.collectionLocked(collectionPath, q)
	m.mu.Unlock()

	fn(docs)

	<-ctx.Done()

	m.mu.Lock()
	delete(m.colWatchers, id)
	m.mu.Unlock()
	return ctx.Err()
}

func (m *MockStore) beforeWrite(op, path string) {
	if m.WriteCallback != nil {
		m.WriteCallback(op, path)
	}
}

func (m *MockStore) ensureDoc(path string) map[string]any {
	doc, ok := m.docs[path]
	if !ok {
		doc = make(map[string]any)
		m.docs[path] = doc
	}
	return doc
}

func (m *MockStore) documentLocked(path string) (docstore.Document, bool) {
	data, ok := m.docs[path]
	doc := docstore.Document{ID: path[strings.LastIndex(path, "/")+1:]}
	if !ok {
		return doc, false
	}
	doc.Data = maps.Clone(data)
	if t, ok := data[docstore.CreatedAtField].(time.Time); ok {
		doc.CreatedAt = t
	}
	return doc, true
}

func (m *MockStore) collectionLocked(collectionPath string, q docstore.Query) []docstore.Document {
	prefix := collectionPath + "/"
	var docs []docstore.Document
	for path := range m.docs {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok || strings.Contains(rest, "/") {
			continue
		}
		doc, _ := m.documentLocked(path)
		docs = append(docs, doc)
	}

	slices.SortFunc(docs, func(a, b docstore.Document) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			if q.Desc {
				return -c
			}
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs
}

// notify pushes fresh snapshots to watchers of path or its parent collection.
func (m *MockStore) notify(path string) {
	parent := ""
	if i := strings.LastIndex(path, "/"); i >= 0 {
		parent = path[:i]
	}

	type docPush struct {
		fn     func(docstore.Document, bool)
		doc    docstore.Document
		exists bool
	}
	type colPush struct {
		fn   func([]docstore.Document)
		docs []docstore.Document
	}

	m.mu.Lock()
	var docPushes []docPush
	var colPushes []colPush
	for _, w := range m.docWatchers {
		if w.path == path {
			doc, exists := m.documentLocked(path)
			docPushes = append(docPushes, docPush{fn: w.fn, doc: doc, exists: exists})
		}
	}
	for _, w := range m.colWatchers {
		if w.path == parent {
			colPushes = append(colPushes, colPush{fn: w.fn, docs: m.collectionLocked(parent, w.query)})
		}
	}
	m.mu.Unlock()

	for _, p := range docPushes {
		p.fn(p.doc, p.exists)
	}
	for _, p := range colPushes {
		p.fn(p.docs)
	}
}

func containsValue(values []any, v any) bool {
	for _, x := range values {
		if reflect.DeepEqual(x, v) {
			return true
		}
	}
	return false
}

var _ docstore.Store = (*MockStore)(nil)

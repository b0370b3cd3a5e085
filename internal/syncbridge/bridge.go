// Package syncbridge mirrors per-user state to the remote document store and
// falls back to local storage whenever the remote path is missing or fails.
// Writes never fail from the caller's point of view.
package syncbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/sassynary-shop/internal/infrastructure/docstore"
	"github.com/example/sassynary-shop/internal/infrastructure/store"
	"github.com/example/sassynary-shop/internal/metrics"
)

type Path string

const (
	PathRemote Path = "remote"
	PathLocal  Path = "local"
)

const (
	NamespaceWishlist  = "wishlist"
	NamespaceAddresses = "addresses"
	NamespaceReviews   = "reviews"
	NamespaceOrders    = "orders"
	NamespaceSignals   = "signals"
	// NamespaceCustom is keyed by shopping session so guests can file requests.
	NamespaceCustom = "custom_orders"
)

var (
	ErrRemoteNotConfigured = errors.New("remote store not configured")
	errWatchEnded          = errors.New("watch ended before first snapshot")
)

// Outcome reports which path served a write. Err holds the absorbed remote
// error (and any local write error) when Path is PathLocal.
type Outcome struct {
	Path Path
	Err  error
}

func (o Outcome) Fallback() bool { return o.Path == PathLocal }

// Bridge owns the remote and local stores. A nil remote means every operation
// uses local storage from the start.
type Bridge struct {
	remote  docstore.Store
	local   store.LocalStore
	metrics *metrics.Metrics
	now     func() time.Time

	// serializes local persists per store key
	keys keyedMutex

	// watches live as long as the bridge, not a request
	ctx    context.Context
	cancel context.CancelFunc
}

func New(remote docstore.Store, local store.LocalStore, m *metrics.Metrics) *Bridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		remote:  remote,
		local:   local,
		metrics: m,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Close stops every live watch.
func (b *Bridge) Close() {
	b.cancel()
}

func (b *Bridge) RemoteConfigured() bool {
	return b.remote != nil
}

// write tries the remote path once and falls back to persist on any failure.
func (b *Bridge) write(ctx context.Context, namespace, userID string, remote func(context.Context, docstore.Store) error, persist func(context.Context) error) Outcome {
	// In-flight writes outlive the request that started them.
	ctx = context.WithoutCancel(ctx)

	err := ErrRemoteNotConfigured
	if b.remote != nil {
		err = callRemote(ctx, b.remote, remote)
		if err == nil {
			b.metrics.SyncWrite(namespace, string(PathRemote))
			return Outcome{Path: PathRemote}
		}
	}
	return b.absorb(ctx, namespace, userID, err, persist)
}

// absorb logs and counts cause, then persists locally. The returned Outcome is
// for inspection only; callers do not surface it.
func (b *Bridge) absorb(ctx context.Context, namespace, userID string, cause error, persist func(context.Context) error) Outcome {
	if errors.Is(cause, ErrRemoteNotConfigured) {
		log.Printf("[SyncBridge] %s for %s: remote not configured, using local storage", namespace, userID)
	} else {
		log.Printf("[SyncBridge] %s write for %s failed, falling back to local storage: %v", namespace, userID, cause)
		b.metrics.SyncError(namespace)
	}

	key := store.Key(namespace, userID)
	unlock := b.keys.lock(key)
	err := persist(ctx)
	unlock()
	if err != nil {
		log.Printf("[SyncBridge] Local write %s failed: %v", key, err)
		cause = errors.Join(cause, err)
	}
	b.metrics.SyncWrite(namespace, string(PathLocal))
	return Outcome{Path: PathLocal, Err: cause}
}

func callRemote(ctx context.Context, remote docstore.Store, fn func(context.Context, docstore.Store) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("remote call panicked: %v", r)
		}
	}()
	return fn(ctx, remote)
}

func (b *Bridge) loadLocal(ctx context.Context, namespace, userID string, v any) bool {
	key := store.Key(namespace, userID)
	data, ok, err := b.local.Get(ctx, key)
	if err != nil {
		log.Printf("[SyncBridge] Local read %s failed: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("[SyncBridge] Local value %s is corrupt: %v", key, err)
		return false
	}
	return true
}

func (b *Bridge) saveLocal(ctx context.Context, namespace, userID string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.local.Put(ctx, store.Key(namespace, userID), data)
}

// appendLocal adds one item to the list stored for owner without reading it back.
func (b *Bridge) appendLocal(ctx context.Context, namespace, owner string, item any) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return b.local.Append(ctx, store.Key(namespace, owner), data)
}

// watch starts a remote subscription on the bridge context and waits until it
// delivers its first snapshot. It returns an error if the stream ends first.
func (b *Bridge) watch(ctx context.Context, name string, start func(ctx context.Context, delivered func()) error) error {
	if b.remote == nil {
		return ErrRemoteNotConfigured
	}

	first := make(chan struct{})
	var once sync.Once
	delivered := func() { once.Do(func() { close(first) }) }
	errc := make(chan error, 1)

	go func() {
		err := start(b.ctx, delivered)
		if err != nil && b.ctx.Err() == nil {
			log.Printf("[SyncBridge] Watch %s stopped: %v", name, err)
		}
		errc <- err
	}()

	select {
	case <-first:
		return nil
	case err := <-errc:
		select {
		case <-first:
			return nil
		default:
		}
		if err == nil {
			err = errWatchEnded
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// loadGate runs a load at most once per key and lets concurrent callers wait for it.
type loadGate struct {
	mu    sync.Mutex
	ready map[string]chan struct{}
}

func (g *loadGate) do(ctx context.Context, key string, load func()) {
	g.mu.Lock()
	if g.ready == nil {
		g.ready = make(map[string]chan struct{})
	}
	ch, ok := g.ready[key]
	if !ok {
		ch = make(chan struct{})
		g.ready[key] = ch
	}
	g.mu.Unlock()

	if ok {
		select {
		case <-ch:
		case <-ctx.Done():
		}
		return
	}
	defer close(ch)
	load()
}

// keyedMutex hands out one mutex per key. Entries are dropped once no
// goroutine holds or waits for them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

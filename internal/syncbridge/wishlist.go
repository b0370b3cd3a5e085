package syncbridge

import (
	"context"
	"log"
	"slices"
	"sync"

	"github.com/example/sassynary-shop/internal/infrastructure/docstore"
)

const wishlistField = "wishlist"

func userDoc(userID string) string { return "users/" + userID }

// Wishlist is the per-user set of saved product ids.
type Wishlist struct {
	bridge *Bridge
	gate   loadGate

	mu   sync.RWMutex
	sets map[string][]int // userID -> product ids, insertion order
}

func NewWishlist(b *Bridge) *Wishlist {
	return &Wishlist{
		bridge: b,
		sets:   make(map[string][]int),
	}
}

// Load subscribes to the user's remote wishlist, or reads local storage once
// when no subscription can be established. Later calls are no-ops.
func (w *Wishlist) Load(ctx context.Context, userID string) {
	w.gate.do(ctx, userID, func() {
		err := w.bridge.watch(ctx, "wishlist/"+userID, func(watchCtx context.Context, delivered func()) error {
			return w.bridge.remote.WatchDocument(watchCtx, userDoc(userID), func(doc docstore.Document, exists bool) {
				w.replace(userID, idsFromDocument(doc, exists))
				delivered()
			})
		})
		if err == nil {
			return
		}

		var ids []int
		if w.bridge.loadLocal(ctx, NamespaceWishlist, userID, &ids) {
			w.replace(userID, ids)
		}
	})
}

// Toggle adds productID if absent and removes it if present. It reports
// whether the product is in the wishlist afterwards.
func (w *Wishlist) Toggle(ctx context.Context, userID string, productID int) (bool, Outcome) {
	w.Load(ctx, userID)

	w.mu.Lock()
	ids := w.sets[userID]
	added := !slices.Contains(ids, productID)
	if added {
		ids = append(slices.Clone(ids), productID)
	} else {
		ids = slices.DeleteFunc(slices.Clone(ids), func(id int) bool { return id == productID })
	}
	w.sets[userID] = ids
	w.mu.Unlock()

	outcome := w.bridge.write(ctx, NamespaceWishlist, userID,
		func(ctx context.Context, remote docstore.Store) error {
			if added {
				return remote.ArrayUnion(ctx, userDoc(userID), wishlistField, int64(productID))
			}
			return remote.ArrayRemove(ctx, userDoc(userID), wishlistField, int64(productID))
		},
		func(ctx context.Context) error {
			// Read under the key lock so the last save always carries the latest set.
			return w.bridge.saveLocal(ctx, NamespaceWishlist, userID, w.List(userID))
		},
	)
	return added, outcome
}

func (w *Wishlist) IsInWishlist(userID string, productID int) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Contains(w.sets[userID], productID)
}

// List returns the user's product ids in the order they were added.
func (w *Wishlist) List(userID string) []int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := slices.Clone(w.sets[userID])
	if ids == nil {
		ids = []int{}
	}
	return ids
}

func (w *Wishlist) replace(userID string, ids []int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sets[userID] = ids
}

func idsFromDocument(doc docstore.Document, exists bool) []int {
	if !exists {
		return nil
	}
	raw, _ := doc.Data[wishlistField].([]any)
	ids := make([]int, 0, len(raw))
	for _, v := range raw {
		id, ok := toInt(v)
		if !ok {
			log.Printf("[SyncBridge] Ignoring wishlist entry %v in %s", v, doc.ID)
			continue
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

package syncbridge

import (
	"context"
	"fmt"
	"time"

	"github.com/example/sassynary-shop/internal/domain/catalog"
	"github.com/example/sassynary-shop/internal/infrastructure/docstore"
)

const signalsCollection = "user_signals"

type SignalKind string

const (
	SignalView           SignalKind = "view"
	SignalCartAdd        SignalKind = "cart_add"
	SignalPriceDropAlert SignalKind = "price_drop_alert"
)

// docSuffix names the one document each user keeps per kind and product.
var docSuffix = map[SignalKind]string{
	SignalView:           "view",
	SignalCartAdd:        "cart",
	SignalPriceDropAlert: "alert",
}

// Signal is the latest interaction of one kind between a user and a product.
// The studio reads them to send reminders and price-drop notices.
type Signal struct {
	UserID      string     `json:"user_id"`
	ProductID   int        `json:"product_id"`
	ProductName string     `json:"product_name,omitempty"`
	Kind        SignalKind `json:"type"`
	Timestamp   time.Time  `json:"timestamp"`
}

func (s Signal) docID() string {
	return fmt.Sprintf("%s_%s_%d", s.UserID, docSuffix[s.Kind], s.ProductID)
}

func (s Signal) document() map[string]any {
	doc := map[string]any{
		"userId":    s.UserID,
		"productId": int64(s.ProductID),
		"type":      string(s.Kind),
	}
	if s.ProductName != "" {
		doc["productName"] = s.ProductName
	}
	return doc
}

// Signals records signed-in users' product interactions. Repeats of the same
// kind on the same product overwrite one document instead of piling up.
type Signals struct {
	bridge *Bridge
}

func NewSignals(b *Bridge) *Signals {
	return &Signals{bridge: b}
}

// Record writes the signal to user_signals/<uid>_<kind>_<pid>. On fallback the
// user's signals_<uid> map gets the same entry.
func (s *Signals) Record(ctx context.Context, userID string, kind SignalKind, p catalog.Product) (Signal, Outcome) {
	sig := Signal{
		UserID:    userID,
		ProductID: p.ID,
		Kind:      kind,
		Timestamp: s.bridge.now(),
	}
	if kind != SignalPriceDropAlert {
		sig.ProductName = p.Name
	}

	outcome := s.bridge.write(ctx, NamespaceSignals, userID,
		func(ctx context.Context, remote docstore.Store) error {
			return remote.Merge(ctx, signalsCollection+"/"+sig.docID(), sig.document())
		},
		func(ctx context.Context) error {
			// runs under the bridge key lock for signals_<uid>
			stored := map[string]Signal{}
			s.bridge.loadLocal(ctx, NamespaceSignals, userID, &stored)
			stored[sig.docID()] = sig
			return s.bridge.saveLocal(ctx, NamespaceSignals, userID, stored)
		},
	)
	return sig, outcome
}

// Pending returns the signals that only reached local storage, keyed by document id.
func (s *Signals) Pending(ctx context.Context, userID string) map[string]Signal {
	stored := map[string]Signal{}
	s.bridge.loadLocal(ctx, NamespaceSignals, userID, &stored)
	return stored
}

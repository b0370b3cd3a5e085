package syncbridge

import (
	"context"

	"github.com/example/sassynary-shop/internal/domain/order"
	"github.com/example/sassynary-shop/internal/infrastructure/docstore"
)

const ordersCollection = "orders"

// Orders writes each checkout's record exactly once.
type Orders struct {
	bridge *Bridge
}

func NewOrders(b *Bridge) *Orders {
	return &Orders{bridge: b}
}

// PlaceOrder creates one document in the orders collection, or appends the
// record to orders_<userID> when that fails.
func (o *Orders) PlaceOrder(ctx context.Context, rec order.Record) Outcome {
	return o.bridge.write(ctx, NamespaceOrders, rec.UserID,
		func(ctx context.Context, remote docstore.Store) error {
			_, err := remote.Add(ctx, ordersCollection, rec.Document())
			return err
		},
		func(ctx context.Context) error {
			return o.bridge.appendLocal(ctx, NamespaceOrders, rec.UserID, rec)
		},
	)
}

// Pending returns the records that only reached local storage.
func (o *Orders) Pending(ctx context.Context, userID string) []order.Record {
	var pending []order.Record
	o.bridge.loadLocal(ctx, NamespaceOrders, userID, &pending)
	return pending
}

package syncbridge

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sassynary-shop/internal/domain/cart"
	"github.com/example/sassynary-shop/internal/domain/catalog"
	"github.com/example/sassynary-shop/internal/domain/order"
	"github.com/example/sassynary-shop/internal/infrastructure/docstore"
	"github.com/example/sassynary-shop/internal/infrastructure/docstore/mocks"
	"github.com/example/sassynary-shop/internal/infrastructure/store"
	"github.com/example/sassynary-shop/internal/metrics"
)

func testRecord(t *testing.T, id string) order.Record {
	t.Helper()
	rec, err := order.NewRecord(order.Params{
		OrderID: id,
		Lines: []cart.Line{
			{Product: catalog.Product{ID: 1, Name: "Extra Spicy", Price: decimal.RequireFromString("125")}, Quantity: 1},
		},
		CreatedAt: fixedNow,
	})
	require.NoError(t, err)
	return rec
}

func TestOrders_PlaceOrder_Remote(t *testing.T) {
	remote := mocks.NewMockStore()
	b, local := newTestBridge(t, remote)
	o := NewOrders(b)

	out := o.PlaceOrder(context.Background(), testRecord(t, "SN-123456"))

	assert.Equal(t, PathRemote, out.Path)
	require.Len(t, remote.AddCalls, 1)
	assert.Equal(t, "orders", remote.AddCalls[0].CollectionPath)
	assert.Equal(t, "SN-123456", remote.AddCalls[0].Data["orderId"])
	assert.Equal(t, order.GuestUserID, remote.AddCalls[0].Data["userId"])
	assert.Empty(t, local.PutCalls)
	assert.Empty(t, local.AppendCalls)
}

func TestOrders_PlaceOrder_FallbackAppends(t *testing.T) {
	remote := mocks.NewMockStore()
	remote.AddErr = docstore.ErrUnavailable
	b, local := newTestBridge(t, remote)
	o := NewOrders(b)
	ctx := context.Background()

	o.PlaceOrder(ctx, testRecord(t, "SN-111111"))
	out := o.PlaceOrder(ctx, testRecord(t, "SN-222222"))

	assert.Equal(t, PathLocal, out.Path)
	pending := o.Pending(ctx, order.GuestUserID)
	require.Len(t, pending, 2)
	assert.Equal(t, "SN-111111", pending[0].OrderID)
	assert.Equal(t, "SN-222222", pending[1].OrderID)
	assert.True(t, pending[1].Total.Equal(decimal.NewFromInt(125)))
	assert.Len(t, local.AppendCalls, 2)
	assert.Empty(t, local.PutCalls)
}

func TestOrders_PlaceOrder_ConcurrentGuestFallbacksKeepEveryOrder(t *testing.T) {
	b := New(nil, store.NewMemoryLocalStore(), metrics.New())
	t.Cleanup(b.Close)
	o := NewOrders(b)
	ctx := context.Background()

	const checkouts = 40
	var wg sync.WaitGroup
	for i := 0; i < checkouts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out := o.PlaceOrder(ctx, testRecord(t, fmt.Sprintf("SN-%06d", i)))
			assert.Equal(t, PathLocal, out.Path)
			assert.ErrorIs(t, out.Err, ErrRemoteNotConfigured)
		}(i)
	}
	wg.Wait()

	pending := o.Pending(ctx, order.GuestUserID)
	require.Len(t, pending, checkouts)
	seen := make(map[string]bool, checkouts)
	for _, rec := range pending {
		seen[rec.OrderID] = true
	}
	assert.Len(t, seen, checkouts)
}

func TestOrders_Pending_IsPerUser(t *testing.T) {
	b, _ := newTestBridge(t, nil)
	o := NewOrders(b)
	ctx := context.Background()

	rec := testRecord(t, "SN-333333")
	rec.UserID = "u1"
	o.PlaceOrder(ctx, rec)
	o.PlaceOrder(ctx, testRecord(t, "SN-444444"))

	mine := o.Pending(ctx, "u1")
	require.Len(t, mine, 1)
	assert.Equal(t, "SN-333333", mine[0].OrderID)
	assert.Empty(t, o.Pending(ctx, "u2"))
}

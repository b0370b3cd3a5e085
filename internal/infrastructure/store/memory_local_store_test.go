package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "wishlist_u1", Key("wishlist", "u1"))
	assert.Equal(t, "addresses_abc-123", Key("addresses", "abc-123"))
}

func TestMemoryLocalStore_GetMissing(t *testing.T) {
	s := NewMemoryLocalStore()

	v, ok, err := s.Get(context.Background(), "wishlist_u1")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestMemoryLocalStore_PutThenGet(t *testing.T) {
	s := NewMemoryLocalStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "wishlist_u1", []byte("[17]")))

	v, ok, err := s.Get(ctx, "wishlist_u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, "[17]", string(v))
}

func TestMemoryLocalStore_Overwrite(t *testing.T) {
	s := NewMemoryLocalStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "wishlist_u1", []byte("[17]")))
	require.NoError(t, s.Put(ctx, "wishlist_u1", []byte("[17,3]")))

	v, _, _ := s.Get(ctx, "wishlist_u1")
	assert.JSONEq(t, "[17,3]", string(v))
}

func TestMemoryLocalStore_EmptyKey(t *testing.T) {
	s := NewMemoryLocalStore()

	err := s.Put(context.Background(), "", []byte("[]"))

	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestMemoryLocalStore_ValuesAreCopied(t *testing.T) {
	s := NewMemoryLocalStore()
	ctx := context.Background()
	value := []byte("[1]")

	require.NoError(t, s.Put(ctx, "k", value))
	value[1] = '9'

	got, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "[1]", string(got))

	got[1] = '8'
	again, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "[1]", string(again))
}

func TestMemoryLocalStore_Keys(t *testing.T) {
	s := NewMemoryLocalStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "wishlist_u1", []byte("[]")))
	require.NoError(t, s.Put(ctx, "addresses_u1", []byte("[]")))

	assert.ElementsMatch(t, []string{"wishlist_u1", "addresses_u1"}, s.Keys())
}

func TestMemoryLocalStore_Concurrent(t *testing.T) {
	s := NewMemoryLocalStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Put(ctx, "k", []byte("[]"))
			_, _, _ = s.Get(ctx, "k")
		}()
	}
	wg.Wait()

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLocalStore_Append(t *testing.T) {
	s := NewMemoryLocalStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "orders_guest", []byte(`{"id":"a"}`)))
	require.NoError(t, s.Append(ctx, "orders_guest", []byte(`{"id":"b"}`)))

	v, ok, err := s.Get(ctx, "orders_guest")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"a"},{"id":"b"}]`, string(v))

	assert.ErrorIs(t, s.Append(ctx, "", []byte(`{}`)), ErrEmptyKey)
	assert.Error(t, s.Append(ctx, "orders_guest", []byte(`{not json`)))

	require.NoError(t, s.Put(ctx, "scalar", []byte(`17`)))
	assert.ErrorIs(t, s.Append(ctx, "scalar", []byte(`1`)), ErrNotArray)
}

func TestMemoryLocalStore_Append_ConcurrentKeepsEveryItem(t *testing.T) {
	s := NewMemoryLocalStore()
	ctx := context.Background()

	const writers = 64
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Append(ctx, "orders_guest", []byte(fmt.Sprintf(`%d`, i))))
		}(i)
	}
	wg.Wait()

	v, _, err := s.Get(ctx, "orders_guest")
	require.NoError(t, err)
	var got []int
	require.NoError(t, json.Unmarshal(v, &got))
	assert.Len(t, got, writers)
	assert.ElementsMatch(t, func() []int {
		want := make([]int, writers)
		for i := range want {
			want[i] = i
		}
		return want
	}(), got)
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrEmptyKey = errors.New("local store key is empty")
	ErrNotArray = errors.New("local store value is not a JSON array")
)

// LocalStore is the per-user fallback persistence used when the remote
// document store cannot be reached. Values are JSON documents.
type LocalStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	// Append adds item to the JSON array stored at key in one step, creating
	// the array if the key is absent.
	Append(ctx context.Context, key string, item []byte) error
}

// Key builds the fallback key for one concern of one user, e.g. "wishlist_u1".
func Key(namespace, userID string) string {
	return namespace + "_" + userID
}

// appendJSON returns list with item added at the end. A nil list starts a new array.
func appendJSON(list, item []byte) ([]byte, error) {
	var items []json.RawMessage
	if list != nil {
		if err := json.Unmarshal(list, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotArray, err)
		}
	}
	if !json.Valid(item) {
		return nil, fmt.Errorf("append item is not valid JSON")
	}
	return json.Marshal(append(items, json.RawMessage(item)))
}

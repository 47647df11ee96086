package core

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// KV is the durable key-value medium every store persists to. Values are
// opaque JSON documents produced by the persist codec.
type KV interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes or overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists every key currently present.
	Keys(ctx context.Context) ([]string, error)
}

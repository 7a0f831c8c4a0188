package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no document exists under a key.
var ErrNotFound = errors.New("kv: key not found")

// Store persists one JSON document per key. Implementations must make
// Set fully replace any previous document; callers own the
// read-modify-write cycle.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

package storage

import (
	"context"
)

// Store is the durable key-value store that holds player saves.
// Values are opaque strings; callers own the encoding.
type Store interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Get returns the value for key. ok is false when the key is absent,
	// which is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Update runs fn on the current value of key and stores its result as one
	// atomic step with respect to other writers of key. fn may run more than
	// once and must not call back into the store.
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// UpdateFunc computes a replacement for current. ok is false when the key is
// absent. Returning changed=false leaves the key as it is.
type UpdateFunc func(current string, ok bool) (value string, changed bool, err error)

package driven

import "context"

// SlotStore is a host provided persistent key-value slot.
// Values are opaque blobs; the store never interprets them.
type SlotStore interface {
	// Get returns the blob stored under key.
	// Returns domain.ErrNotFound if the key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the blob stored under key.
	Put(ctx context.Context, key string, data []byte) error
}

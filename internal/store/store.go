// Package store provides the waitable map the coordinator publishes slots to:
// an expiring key-value store whose keys can be subscribed to.
package store

import (
	"context"
	"time"

	"HashRevealer/hash"
	"HashRevealer/internal/errors"
)

const (
	// defaultSweepInterval is how often expired slots are purged.
	defaultSweepInterval = 10 * time.Second
)

// keyPrefix namespaces slot keys in a shared keyspace.
var keyPrefix = []byte("preimages/")

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Key addresses one slot: the group it belongs to and the hash of the value
// it holds.
type Key struct {
	Group hash.Hash // Group is the group identity
	Slot  hash.Hash // Slot is the commitment whose preimage fills the slot
}

// Bytes returns the binary form "preimages/" || group || slot.
func (k Key) Bytes() []byte {
	b := make([]byte, 0, len(keyPrefix)+2*hash.Size)
	b = append(b, keyPrefix...)
	b = append(b, k.Group[:]...)
	b = append(b, k.Slot[:]...)
	return b
}

// String returns a short printable form for logging.
func (k Key) String() string {
	return k.Group.Short() + "/" + k.Slot.Short()
}

// Store is an expiring key-value store with live per-key subscriptions.
//
// Put is an upsert: writing a value resets the slot's expiry and is delivered
// to every current subscriber of the key.
//
// Subscribe returns a channel that first yields the key's current value, if
// one exists and has not expired, and then every value subsequently Put under
// the key. A slow reader only ever sees the most recent undelivered value.
// The channel is closed when ctx is done or the store is closed; it is never
// closed for any other reason.
type Store interface {
	Put(ctx context.Context, key Key, value []byte, ttl time.Duration) error
	Subscribe(ctx context.Context, key Key) (<-chan []byte, error)
	Close() error
}

// Options configures a store backend.
type Options struct {
	// SweepInterval is how often expired slots are purged. Expired slots are
	// never returned regardless of this setting.
	SweepInterval time.Duration

	// CompressThreshold is the value size in bytes from which the durable
	// backend stores zstd-compressed values. Zero selects the default;
	// negative disables compression.
	CompressThreshold int

	// Now overrides the clock, for tests.
	Now func() time.Time
}

func (o *Options) applyDefaults() {
	if o.SweepInterval <= 0 {
		o.SweepInterval = defaultSweepInterval
	}
	if o.CompressThreshold == 0 {
		o.CompressThreshold = defaultCompressThreshold
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

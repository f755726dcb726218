package store

import (
	"context"
	"sync"
	"time"

	"HashRevealer/internal/errors"
	"HashRevealer/internal/logger"
	"HashRevealer/internal/storage"
)

// Durable is a Store persisted in Pebble. Slots survive a restart until
// they expire. Subscriptions are in-process: only writes made through this
// Durable are pushed to its subscribers.
type Durable struct {
	db    *storage.Storage
	hub   *hub
	codec *codec
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

// NewDurable creates a store on top of db and starts its expiry sweep.
// The caller keeps ownership of db and closes it after the Durable.
func NewDurable(db *storage.Storage, opts Options) (*Durable, error) {
	opts.applyDefaults()

	c, err := newCodec(opts.CompressThreshold)
	if err != nil {
		return nil, err
	}

	d := &Durable{
		db:    db,
		hub:   newHub(),
		codec: c,
		now:   opts.Now,
		stop:  make(chan struct{}),
	}

	d.startSweep(opts.SweepInterval)

	return d, nil
}

// Put stores value under key until ttl elapses.
func (d *Durable) Put(_ context.Context, key Key, value []byte, ttl time.Duration) error {
	k := key.Bytes()
	record := d.codec.encode(value, d.now().Add(ttl))

	err := d.hub.update(k, value, func() error {
		return d.db.Set(k, record)
	})
	if err != nil {
		return errors.Wrapf(err, "put slot %s", key)
	}

	return nil
}

// Subscribe watches key. See Store.
func (d *Durable) Subscribe(ctx context.Context, key Key) (<-chan []byte, error) {
	k := key.Bytes()

	ch, err := d.hub.watch(ctx, k, func() ([]byte, bool, error) {
		return d.load(k)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "subscribe slot %s", key)
	}

	return ch, nil
}

// load reads an unexpired value. Must be called with hub.mu held.
func (d *Durable) load(k []byte) ([]byte, bool, error) {
	raw, err := d.db.Get(k)
	if err != nil {
		return nil, false, err
	}
	if raw == nil {
		return nil, false, nil
	}

	value, expiresAt, err := d.codec.decode(raw)
	if err != nil {
		return nil, false, err
	}

	if !d.now().Before(expiresAt) {
		return nil, false, nil
	}

	return value, true, nil
}

// Close stops the sweep and closes all subscriptions. It does not close the
// underlying storage.
func (d *Durable) Close() error {
	d.once.Do(func() {
		close(d.stop)
		d.wg.Wait()
		d.hub.close()
		d.codec.close()
	})

	return nil
}

// startSweep starts the background goroutine that deletes expired slots.
func (d *Durable) startSweep(interval time.Duration) {
	d.wg.Add(1)

	go func() {
		defer d.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n, err := d.sweep(); err != nil {
					logger.Warn("slot sweep failed", "error", err)
				} else if n > 0 {
					logger.Debug("expired slots purged", "count", n)
				}
			case <-d.stop:
				return
			}
		}
	}()
}

// sweep deletes expired and unreadable slots and returns how many it removed.
// It holds the hub lock so a concurrent Put cannot be lost to a stale delete.
func (d *Durable) sweep() (int, error) {
	d.hub.mu.Lock()
	defer d.hub.mu.Unlock()

	now := d.now()
	var deletes []storage.Mutation

	err := d.db.IteratePrefix(keyPrefix, func(key, value []byte) error {
		expiresAt, err := d.codec.expiry(value)
		if err == nil && now.Before(expiresAt) {
			return nil
		}

		deletes = append(deletes, storage.Mutation{Key: append([]byte(nil), key...)})
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(deletes), d.db.Apply(deletes)
}

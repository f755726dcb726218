package store

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// entry is a stored value and its absolute expiry.
type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Store for single-node deployments.
// Entries live in a map guarded by the hub lock and are purged by a
// background sweep once expired.
type Memory struct {
	hub     *hub
	entries map[string]entry // entries is guarded by hub.mu
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// NewMemory creates an in-memory store and starts its expiry sweep.
func NewMemory(opts Options) *Memory {
	opts.applyDefaults()

	m := &Memory{
		hub:     newHub(),
		entries: make(map[string]entry),
		now:     opts.Now,
		stop:    make(chan struct{}),
	}

	m.startSweep(opts.SweepInterval)

	return m
}

// Put stores value under key until ttl elapses.
func (m *Memory) Put(_ context.Context, key Key, value []byte, ttl time.Duration) error {
	k := key.Bytes()
	e := entry{value: bytes.Clone(value), expiresAt: m.now().Add(ttl)}

	return m.hub.update(k, value, func() error {
		m.entries[string(k)] = e
		return nil
	})
}

// Subscribe watches key. See Store.
func (m *Memory) Subscribe(ctx context.Context, key Key) (<-chan []byte, error) {
	k := key.Bytes()

	return m.hub.watch(ctx, k, func() ([]byte, bool, error) {
		e, ok := m.entries[string(k)]
		if !ok || !m.now().Before(e.expiresAt) {
			return nil, false, nil
		}
		return bytes.Clone(e.value), true, nil
	})
}

// Len returns the number of unexpired entries.
func (m *Memory) Len() int {
	m.hub.mu.Lock()
	defer m.hub.mu.Unlock()

	now := m.now()
	n := 0
	for _, e := range m.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

// Close stops the sweep and closes all subscriptions.
func (m *Memory) Close() error {
	m.once.Do(func() {
		close(m.stop)
		m.wg.Wait()
		m.hub.close()
	})

	return nil
}

// startSweep starts the background goroutine that purges expired entries.
func (m *Memory) startSweep(interval time.Duration) {
	m.wg.Add(1)

	go func() {
		defer m.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.sweep()
			case <-m.stop:
				return
			}
		}
	}()
}

// sweep removes expired entries.
func (m *Memory) sweep() {
	m.hub.mu.Lock()
	defer m.hub.mu.Unlock()

	now := m.now()
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

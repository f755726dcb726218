package store

import (
	"bytes"
	"context"
	"sync"
)

// hub fans written values out to per-key watchers. Its mutex also serializes
// backend writes with watcher registration, so a subscriber either sees a
// value in its initial load or receives it as an update, never neither.
type hub struct {
	mu       sync.Mutex
	watchers map[string]map[*watcher]struct{}
	closed   bool
	done     chan struct{}
}

// watcher is one subscription. ch has capacity one and holds the latest
// undelivered value.
type watcher struct {
	ch     chan []byte
	closed bool
}

func newHub() *hub {
	return &hub{
		watchers: make(map[string]map[*watcher]struct{}),
		done:     make(chan struct{}),
	}
}

// offer replaces any undelivered value with v. Must be called with hub.mu held,
// which makes the hub the only sender.
func (w *watcher) offer(v []byte) {
	select {
	case w.ch <- v:
		return
	default:
	}

	select {
	case <-w.ch:
	default:
	}

	w.ch <- v
}

// update runs write under the hub lock and, if it succeeds, delivers value
// to every watcher of key.
func (h *hub) update(key []byte, value []byte, write func() error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}

	if err := write(); err != nil {
		return err
	}

	for w := range h.watchers[string(key)] {
		w.offer(bytes.Clone(value))
	}

	return nil
}

// watch registers a watcher for key seeded with the result of load, which
// runs under the hub lock. The watcher is released when ctx is done or the
// hub is closed.
func (h *hub) watch(ctx context.Context, key []byte, load func() ([]byte, bool, error)) (<-chan []byte, error) {
	h.mu.Lock()

	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}

	value, ok, err := load()
	if err != nil {
		h.mu.Unlock()
		return nil, err
	}

	w := &watcher{ch: make(chan []byte, 1)}
	if ok {
		w.ch <- value
	}

	k := string(key)
	set := h.watchers[k]
	if set == nil {
		set = make(map[*watcher]struct{})
		h.watchers[k] = set
	}
	set[w] = struct{}{}

	h.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-h.done:
		}
		h.release(k, w)
	}()

	return w.ch, nil
}

// release unregisters w and closes its channel.
func (h *hub) release(key string, w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if w.closed {
		return
	}

	w.closed = true
	close(w.ch)

	set := h.watchers[key]
	delete(set, w)
	if len(set) == 0 {
		delete(h.watchers, key)
	}
}

// count returns the number of live watchers across all keys.
func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, set := range h.watchers {
		n += len(set)
	}
	return n
}

// close closes every watcher and rejects further use.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for _, set := range h.watchers {
		for w := range set {
			w.closed = true
			close(w.ch)
		}
	}
	clear(h.watchers)

	close(h.done)
}

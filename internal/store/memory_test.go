package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySweepRemovesExpired(t *testing.T) {
	clock := newFakeClock()
	m := NewMemory(Options{Now: clock.Now, SweepInterval: time.Hour})
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Put(ctx, testKey("a"), []byte("a"), time.Minute))
	require.NoError(t, m.Put(ctx, testKey("b"), []byte("b"), time.Hour))
	assert.Equal(t, 2, m.Len())

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, m.Len())

	m.sweep()

	m.hub.mu.Lock()
	assert.Len(t, m.entries, 1)
	m.hub.mu.Unlock()
}

func TestMemoryReleasesWatchers(t *testing.T) {
	m := NewMemory(Options{})
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())

	for i := 0; i < 4; i++ {
		_, err := m.Subscribe(ctx, testKey("a"))
		require.NoError(t, err)
	}
	assert.Equal(t, 4, m.hub.count())

	cancel()

	require.Eventually(t, func() bool { return m.hub.count() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestMemoryPutRefreshesExpiry(t *testing.T) {
	clock := newFakeClock()
	m := NewMemory(Options{Now: clock.Now})
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Put(ctx, testKey("a"), []byte("a"), time.Minute))
	clock.Advance(50 * time.Second)
	require.NoError(t, m.Put(ctx, testKey("a"), []byte("a"), time.Minute))
	clock.Advance(50 * time.Second)

	assert.Equal(t, 1, m.Len())
}

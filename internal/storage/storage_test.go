package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestStorage opens a storage in a temporary directory closed at test end.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "db"), Options{SyncInterval: 10 * time.Millisecond})
	require.NoError(t, err)

	t.Cleanup(func() { s.Close() })

	return s
}

func TestSetAndGet(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Set([]byte("test-key"), []byte("test-value")))

	got, err := s.Get([]byte("test-key"))
	require.NoError(t, err)
	require.Equal(t, []byte("test-value"), got)
}

func TestGetNonExistent(t *testing.T) {
	s := newTestStorage(t)

	got, err := s.Get([]byte("non-existent"))
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDelete(t *testing.T) {
	s := newTestStorage(t)

	key := []byte("to-delete")
	require.NoError(t, s.Set(key, []byte("value")))
	require.NoError(t, s.Delete(key))

	got, err := s.Get(key)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestApplyMixedBatch(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Set([]byte("stale"), []byte("old")))

	err := s.Apply([]Mutation{
		{Key: []byte("batch-1"), Value: []byte("value-1")},
		{Key: []byte("batch-2"), Value: []byte{}},
		{Key: []byte("stale")},
	})
	require.NoError(t, err)

	got, err := s.Get([]byte("batch-1"))
	require.NoError(t, err)
	require.Equal(t, []byte("value-1"), got)

	// An empty value is stored, not deleted.
	got, err = s.Get([]byte("batch-2"))
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)

	got, err = s.Get([]byte("stale"))
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestApplyEmpty(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Apply(nil))
}

func TestIteratePrefix(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Set([]byte(fmt.Sprintf("a/%d", i)), []byte{byte(i)}))
		require.NoError(t, s.Set([]byte(fmt.Sprintf("b/%d", i)), []byte{byte(i)}))
	}

	var keys []string
	err := s.IteratePrefix([]byte("a/"), func(key, value []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a/0", "a/1", "a/2"}, keys)
}

func TestIteratePrefixStopsOnError(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Set([]byte("p/1"), []byte("x")))
	require.NoError(t, s.Set([]byte("p/2"), []byte("y")))

	stop := fmt.Errorf("stop")
	calls := 0
	err := s.IteratePrefix([]byte("p/"), func(key, value []byte) error {
		calls++
		return stop
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 1, calls)
}

func TestPrefixUpperBound(t *testing.T) {
	require.Equal(t, []byte("b"), prefixUpperBound([]byte("a")))
	require.Equal(t, []byte{0x01}, prefixUpperBound([]byte{0x00, 0xff}))
	require.Nil(t, prefixUpperBound([]byte{0xff, 0xff}))
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Set([]byte("persist"), []byte("value")))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get([]byte("persist"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), got)
}

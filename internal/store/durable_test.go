package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HashRevealer/internal/storage"
)

func newTestDurable(t *testing.T, opts Options) (*Durable, *storage.Storage) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "db"), storage.Options{})
	require.NoError(t, err)

	d, err := NewDurable(db, opts)
	require.NoError(t, err)

	t.Cleanup(func() {
		d.Close()
		db.Close()
	})

	return d, db
}

func TestCodecRoundTrip(t *testing.T) {
	c, err := newCodec(16)
	require.NoError(t, err)
	defer c.close()

	expires := time.Unix(1_700_000_000, 42)

	for _, value := range [][]byte{
		{},
		[]byte("short"),
		bytes.Repeat([]byte("compressible "), 100),
	} {
		rec := c.encode(value, expires)

		got, gotExpires, err := c.decode(rec)
		require.NoError(t, err)
		assert.Equal(t, value, got)
		assert.True(t, expires.Equal(gotExpires))

		onlyExpiry, err := c.expiry(rec)
		require.NoError(t, err)
		assert.True(t, expires.Equal(onlyExpiry))
	}
}

func TestCodecCompressesLargeValues(t *testing.T) {
	c, err := newCodec(64)
	require.NoError(t, err)
	defer c.close()

	value := bytes.Repeat([]byte{'a'}, 4096)
	rec := c.encode(value, time.Now())

	assert.Less(t, len(rec), len(value)/4)
}

func TestCodecRejectsGarbage(t *testing.T) {
	c, err := newCodec(0)
	require.NoError(t, err)
	defer c.close()

	_, _, err = c.decode([]byte{1})
	assert.Error(t, err)

	_, _, err = c.decode([]byte{0xff, 0xff, 0xff, 0x7f, 0, 0, 0, 0})
	assert.Error(t, err)
}

func TestDurableSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	db, err := storage.Open(path, storage.Options{})
	require.NoError(t, err)
	d, err := NewDurable(db, Options{})
	require.NoError(t, err)

	large := bytes.Repeat([]byte("secret"), 200)
	require.NoError(t, d.Put(ctx, testKey("large"), large, time.Minute))
	require.NoError(t, d.Close())
	require.NoError(t, db.Close())

	db, err = storage.Open(path, storage.Options{})
	require.NoError(t, err)
	defer db.Close()
	d, err = NewDurable(db, Options{})
	require.NoError(t, err)
	defer d.Close()

	ch, err := d.Subscribe(ctx, testKey("large"))
	require.NoError(t, err)

	v, ok := receive(t, ch)
	require.True(t, ok)
	assert.Equal(t, large, v)
}

func TestDurableSweepDeletesExpired(t *testing.T) {
	clock := newFakeClock()
	d, db := newTestDurable(t, Options{Now: clock.Now, SweepInterval: time.Hour})
	ctx := context.Background()

	require.NoError(t, d.Put(ctx, testKey("old"), []byte("old"), time.Minute))
	require.NoError(t, d.Put(ctx, testKey("new"), []byte("new"), time.Hour))
	require.NoError(t, db.Set(append(append([]byte(nil), keyPrefix...), "corrupt"...), []byte{1}))

	clock.Advance(2 * time.Minute)

	n, err := d.sweep()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	raw, err := db.Get(testKey("old").Bytes())
	require.NoError(t, err)
	assert.Nil(t, raw)

	raw, err = db.Get(testKey("new").Bytes())
	require.NoError(t, err)
	assert.NotNil(t, raw)
}

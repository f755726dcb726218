package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HashRevealer/internal/errors"
)

func TestKeccak256KnownVectors(t *testing.T) {
	// Legacy Keccak-256, not NIST SHA3-256.
	empty := Keccak256.Sum(nil)
	assert.Equal(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", hex.EncodeToString(empty[:]))

	abc := Keccak256.Sum([]byte("abc"))
	assert.Equal(t, "4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45", hex.EncodeToString(abc[:]))
}

func TestBlake3KnownVector(t *testing.T) {
	empty := Blake3.Sum(nil)
	assert.Equal(t, "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262", hex.EncodeToString(empty[:]))
}

func TestSumAllEqualsSumOfConcatenation(t *testing.T) {
	for _, alg := range []Algorithm{Keccak256, Blake3} {
		assert.Equal(t, alg.Sum([]byte("alicebob")), alg.SumAll([]byte("alice"), []byte("bob")), alg.Name())
	}
}

func TestLookup(t *testing.T) {
	a, ok := Lookup("keccak256")
	require.True(t, ok)
	assert.Equal(t, Keccak256.Name(), a.Name())

	_, ok = Lookup("sha1")
	assert.False(t, ok)

	assert.Equal(t, []string{"blake3", "keccak256"}, Algorithms())
	assert.True(t, Algorithm{}.IsZero())
}

func TestEncodeIsUnpaddedURLSafe(t *testing.T) {
	assert.Equal(t, "-_8", Encode([]byte{0xfb, 0xff}))

	b, err := Decode("-_8")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xfb, 0xff}, b)
}

func TestDecodeRejectsNonCanonicalForms(t *testing.T) {
	for _, s := range []string{"-_8=", "+/8", "-_9", "a b"} {
		_, err := Decode(s)
		assert.ErrorIs(t, err, errors.ErrValidation, s)
	}
}

func TestParseRoundTrip(t *testing.T) {
	h := Keccak256.Sum([]byte("alice"))

	parsed, err := Parse(h.String())
	require.NoError(t, err)
	assert.Equal(t, h, parsed)
	assert.Len(t, h.String(), 43)
}

func TestFromBytesLength(t *testing.T) {
	_, err := FromBytes(make([]byte, 31))
	assert.ErrorIs(t, err, ErrHashLength)

	_, err = FromBytes(make([]byte, 33))
	assert.ErrorIs(t, err, ErrHashLength)

	_, err = Parse(Encode([]byte("short")))
	assert.ErrorIs(t, err, ErrHashLength)
}

func TestCompareIsByteLexicographic(t *testing.T) {
	var a, b Hash
	a[0], b[0] = 0x01, 0x02
	a[31] = 0xff

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
	assert.Equal(t, 0, a.Compare(a))

	hs := []Hash{b, a}
	Sort(hs)
	assert.Equal(t, []Hash{a, b}, hs)
}

func TestShortAndBytes(t *testing.T) {
	var h Hash
	h[0] = 0xab
	assert.Equal(t, "ab00000000000000", h.Short())

	b := h.Bytes()
	b[0] = 0
	assert.Equal(t, byte(0xab), h[0])
}

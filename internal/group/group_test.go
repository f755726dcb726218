package group

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HashRevealer/hash"
	"HashRevealer/internal/errors"
)

func hashesOf(alg hash.Algorithm, inputs ...string) []hash.Hash {
	out := make([]hash.Hash, len(inputs))
	for i, in := range inputs {
		out[i] = alg.Sum([]byte(in))
	}
	return out
}

func TestCanonicalizeIsPermutationInvariant(t *testing.T) {
	hs := hashesOf(hash.Keccak256, "alice", "bob", "carol", "dave", "erin")
	want := Canonicalize(hs)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		perm := append([]hash.Hash(nil), hs...)
		rng.Shuffle(len(perm), func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })

		got := Canonicalize(perm)
		assert.Equal(t, want, got)
		assert.Equal(t, want.ID(hash.Keccak256), got.ID(hash.Keccak256))
	}
}

func TestCanonicalizeDoesNotMutateInput(t *testing.T) {
	hs := hashesOf(hash.Keccak256, "alice", "bob")
	if hs[0].Less(hs[1]) {
		hs[0], hs[1] = hs[1], hs[0]
	}
	orig := append([]hash.Hash(nil), hs...)

	Canonicalize(hs)
	assert.Equal(t, orig, hs)
}

func TestAliceAndBobConverge(t *testing.T) {
	a := Canonicalize(hashesOf(hash.Keccak256, "alice", "bob"))
	b := Canonicalize(hashesOf(hash.Keccak256, "bob", "alice"))

	assert.Equal(t, a.ID(hash.Keccak256), b.ID(hash.Keccak256))
}

func TestVerifyRejectsUnsorted(t *testing.T) {
	g := Canonicalize(hashesOf(hash.Keccak256, "alice", "bob", "carol"))

	_, err := Verify([]hash.Hash{g[1], g[0], g[2]})
	assert.ErrorIs(t, err, errors.ErrOrdering)

	_, err = Verify([]hash.Hash{g[0], g[2], g[1]})
	assert.ErrorIs(t, err, errors.ErrOrdering)

	_, err = Verify([]hash.Hash{g[0], g[0]})
	assert.ErrorIs(t, err, errors.ErrOrdering)

	got, err := Verify(g)
	require.NoError(t, err)
	assert.Equal(t, g, got)
}

func TestVerifyRejectsEmpty(t *testing.T) {
	_, err := Verify(nil)
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestIDDependsOnAlgorithmAndMembers(t *testing.T) {
	g := Canonicalize(hashesOf(hash.Keccak256, "alice", "bob"))
	other := Canonicalize(hashesOf(hash.Keccak256, "alice", "carol"))

	assert.NotEqual(t, g.ID(hash.Keccak256), g.ID(hash.Blake3))
	assert.NotEqual(t, g.ID(hash.Keccak256), other.ID(hash.Keccak256))
	assert.Equal(t, hash.Keccak256.Sum(append(g[0][:], g[1][:]...)), g.ID(hash.Keccak256))
}

func TestDecodeAll(t *testing.T) {
	g := Canonicalize(hashesOf(hash.Keccak256, "alice", "bob"))

	hs, err := DecodeAll(g.Encode())
	require.NoError(t, err)
	assert.Equal(t, []hash.Hash(g), hs)

	_, err = DecodeAll([]string{g[0].String(), hash.Encode([]byte("short"))})
	assert.ErrorIs(t, err, errors.ErrHashLength)

	_, err = DecodeAll([]string{"***"})
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestContainsAndIndex(t *testing.T) {
	g := Canonicalize(hashesOf(hash.Keccak256, "alice", "bob", "carol"))
	outsider := hash.Keccak256.Sum([]byte("mallory"))

	for i, h := range g {
		assert.True(t, g.Contains(h))
		assert.Equal(t, i, g.Index(h))
	}

	assert.False(t, g.Contains(outsider))
	assert.Equal(t, -1, g.Index(outsider))
}

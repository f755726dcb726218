// Package group turns a set of commitments into its canonical sequence and
// derives the group identity that namespaces the set's slots.
package group

import (
	"slices"

	"HashRevealer/hash"
	"HashRevealer/internal/errors"
)

// Group is a strictly ascending sequence of distinct hashes.
type Group []hash.Hash

// Canonicalize returns a sorted copy of hs. Any permutation of the same
// multiset yields the same result.
func Canonicalize(hs []hash.Hash) Group {
	g := Group(slices.Clone(hs))
	hash.Sort(g)
	return g
}

// Verify checks that hs is already canonical and returns it as a Group.
// Callers must sort themselves; unsorted or duplicated input is rejected
// rather than re-sorted.
func Verify(hs []hash.Hash) (Group, error) {
	if len(hs) == 0 {
		return nil, errors.Wrap(errors.ErrValidation, "empty hashGroup")
	}

	for i := 1; i < len(hs); i++ {
		if !hs[i-1].Less(hs[i]) {
			return nil, errors.Wrapf(errors.ErrOrdering, "element %d does not follow element %d", i, i-1)
		}
	}

	return Group(hs), nil
}

// DecodeAll decodes base64url commitments, each of which must be exactly
// hash.Size bytes.
func DecodeAll(encoded []string) ([]hash.Hash, error) {
	out := make([]hash.Hash, len(encoded))

	for i, s := range encoded {
		b, err := hash.Decode(s)
		if err != nil {
			return nil, errors.Wrapf(err, "hashGroup[%d]", i)
		}

		if out[i], err = hash.FromBytes(b); err != nil {
			return nil, errors.Wrapf(err, "hashGroup[%d]", i)
		}
	}

	return out, nil
}

// ID derives the group identity: alg(g[0] || g[1] || ... || g[n-1]).
// The derivation is order-sensitive, so it must only be applied to a
// canonical group.
func (g Group) ID(alg hash.Algorithm) hash.Hash {
	parts := make([][]byte, len(g))
	for i := range g {
		parts[i] = g[i][:]
	}

	return alg.SumAll(parts...)
}

// Contains reports whether h is a member, using binary search.
func (g Group) Contains(h hash.Hash) bool {
	_, found := slices.BinarySearchFunc(g, h, hash.Hash.Compare)
	return found
}

// Index returns the position of h, or -1.
func (g Group) Index(h hash.Hash) int {
	i, found := slices.BinarySearchFunc(g, h, hash.Hash.Compare)
	if !found {
		return -1
	}
	return i
}

// Encode returns the base64url form of each member, in order.
func (g Group) Encode() []string {
	out := make([]string, len(g))
	for i, h := range g {
		out[i] = h.String()
	}
	return out
}

package client

import (
	"bytes"

	"HashRevealer/hash"
	"HashRevealer/internal/errors"
)

// ResolvedSet maps each revealed hash back to its preimage.
type ResolvedSet struct {
	order     []hash.Hash          // order is the hashes in response order
	preimages map[hash.Hash][]byte // preimages by hash
}

// NewResolvedSet indexes preimages by their hash under alg.
func NewResolvedSet(alg hash.Algorithm, preimages [][]byte) *ResolvedSet {
	s := &ResolvedSet{
		order:     make([]hash.Hash, 0, len(preimages)),
		preimages: make(map[hash.Hash][]byte, len(preimages)),
	}

	for _, p := range preimages {
		h := alg.Sum(p)
		if _, dup := s.preimages[h]; !dup {
			s.order = append(s.order, h)
		}
		s.preimages[h] = bytes.Clone(p)
	}

	return s
}

// Preimage returns a copy of the preimage of h, or ErrNotFound.
func (s *ResolvedSet) Preimage(h hash.Hash) ([]byte, error) {
	p, ok := s.preimages[h]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%s", h)
	}

	return bytes.Clone(p), nil
}

// Len returns the number of distinct preimages.
func (s *ResolvedSet) Len() int {
	return len(s.order)
}

// Hashes returns the resolved hashes in response order.
func (s *ResolvedSet) Hashes() []hash.Hash {
	return append([]hash.Hash(nil), s.order...)
}

// Preimages returns copies of the preimages in response order.
func (s *ResolvedSet) Preimages() [][]byte {
	out := make([][]byte, len(s.order))
	for i, h := range s.order {
		out[i] = bytes.Clone(s.preimages[h])
	}
	return out
}

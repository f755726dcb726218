package hash

import (
	"sort"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// Algorithm is a named one-way function producing 32-byte digests.
type Algorithm struct {
	name string
	sum  func(parts ...[]byte) Hash
}

var (
	// Keccak256 is the legacy (pre-NIST padding) Keccak-256 used by Ethereum.
	// It is the default commitment function.
	Keccak256 = Algorithm{name: "keccak256", sum: keccak256}

	// Blake3 is BLAKE3 with a 32-byte output.
	Blake3 = Algorithm{name: "blake3", sum: blake3Sum}
)

var registry = map[string]Algorithm{
	Keccak256.name: Keccak256,
	Blake3.name:    Blake3,
}

// Lookup returns the algorithm registered under name.
func Lookup(name string) (Algorithm, bool) {
	a, ok := registry[name]
	return a, ok
}

// Algorithms returns the names of all registered algorithms, sorted.
func Algorithms() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Name returns the registry name, which is also the HTTP route segment.
func (a Algorithm) Name() string {
	return a.name
}

// IsZero reports whether a is the zero Algorithm.
func (a Algorithm) IsZero() bool {
	return a.sum == nil
}

// Sum digests data.
func (a Algorithm) Sum(data []byte) Hash {
	return a.sum(data)
}

// SumAll digests the concatenation of parts without materializing it.
func (a Algorithm) SumAll(parts ...[]byte) Hash {
	return a.sum(parts...)
}

func keccak256(parts ...[]byte) Hash {
	hasher := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		hasher.Write(p)
	}

	var h Hash
	hasher.Sum(h[:0])

	return h
}

func blake3Sum(parts ...[]byte) Hash {
	hasher := blake3.New()
	for _, p := range parts {
		hasher.Write(p)
	}

	var h Hash
	hasher.Sum(h[:0])

	return h
}

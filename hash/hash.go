// Package hash defines the fixed-width digests used as commitments and the
// byte-lexicographic order that makes a set of them canonical.
package hash

import (
	"bytes"
	"encoding/base64"
	"slices"

	"HashRevealer/internal/errors"
)

// Size is the width of every digest in bytes.
const Size = 32

// ErrHashLength is returned when a byte string is not exactly Size bytes.
var ErrHashLength = errors.ErrHashLength

// encoding is unpadded base64url. Strict mode rejects non-zero trailing bits,
// so every digest has exactly one accepted string form.
var encoding = base64.RawURLEncoding.Strict()

// Hash is a 32-byte digest.
type Hash [Size]byte

// FromBytes copies b into a Hash.
func FromBytes(b []byte) (Hash, error) {
	var h Hash

	if len(b) != Size {
		return h, errors.Wrapf(ErrHashLength, "got %d bytes, want %d", len(b), Size)
	}

	copy(h[:], b)

	return h, nil
}

// Parse decodes a base64url string into a Hash.
func Parse(s string) (Hash, error) {
	b, err := Decode(s)
	if err != nil {
		return Hash{}, err
	}

	return FromBytes(b)
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Hash {
	h, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return h
}

// Bytes returns a copy of the digest as a slice.
func (h Hash) Bytes() []byte {
	return slices.Clone(h[:])
}

// String returns the unpadded base64url form of the digest.
func (h Hash) String() string {
	return Encode(h[:])
}

// Compare orders digests byte-lexicographically.
func (h Hash) Compare(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

// Less reports whether h sorts strictly before other.
func (h Hash) Less(other Hash) bool {
	return h.Compare(other) < 0
}

// Short returns a short hex prefix for logging.
func (h Hash) Short() string {
	const hexDigits = "0123456789abcdef"

	out := make([]byte, 16)
	for i, b := range h[:8] {
		out[i*2] = hexDigits[b>>4]
		out[i*2+1] = hexDigits[b&0x0f]
	}

	return string(out)
}

// Sort orders hashes ascending in place.
func Sort(hs []Hash) {
	slices.SortFunc(hs, Hash.Compare)
}

// Encode returns the unpadded base64url form of b.
func Encode(b []byte) string {
	return encoding.EncodeToString(b)
}

// Decode parses an unpadded base64url string.
func Decode(s string) ([]byte, error) {
	b, err := encoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrValidation, "invalid base64url: %v", err)
	}

	return b, nil
}

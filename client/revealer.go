// Package client reveals a secret to the other members of a commitment
// group through a coordinator: the secret is released only once every
// member has submitted its own.
//
//	r := client.NewRevealer("http://localhost:8080/keccak256", []byte("alice"))
//	r.Add(bobHash)
//	set, err := r.Resolve(ctx)
//	bob, err := set.Preimage(bobHash)
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"net/http"
	"slices"

	"github.com/quic-go/quic-go/http3"

	"HashRevealer/hash"
	"HashRevealer/internal/coordinator"
	"HashRevealer/internal/errors"
	"HashRevealer/internal/group"
)

// Revealer accumulates a commitment group around the caller's own secret.
// It is not safe for concurrent use.
type Revealer struct {
	endpoint string         // endpoint is the full commit URL, e.g. http://host/keccak256
	input    []byte         // input is the caller's secret
	alg      hash.Algorithm // alg must match the endpoint's algorithm
	hashes   []hash.Hash    // hashes holds hash(input) followed by added counterparts
	http     *http.Client   // http performs the commit call
}

// Option configures a Revealer.
type Option func(*Revealer)

// WithAlgorithm sets the commitment function. Defaults to hash.Keccak256.
func WithAlgorithm(alg hash.Algorithm) Option {
	return func(r *Revealer) {
		r.alg = alg
	}
}

// WithHTTPClient sets the HTTP client. Its timeout, if any, bounds Resolve.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Revealer) {
		r.http = c
	}
}

// WithHTTP3 sends the commit over HTTP/3. The endpoint must be https.
func WithHTTP3(tlsConfig *tls.Config) Option {
	return func(r *Revealer) {
		r.http = &http.Client{Transport: &http3.Transport{TLSClientConfig: tlsConfig}}
	}
}

// NewRevealer creates a Revealer for input. hash(input) is recorded as the
// first member of the group.
func NewRevealer(endpoint string, input []byte, opts ...Option) *Revealer {
	r := &Revealer{
		endpoint: endpoint,
		input:    bytes.Clone(input),
		alg:      hash.Keccak256,
		http:     http.DefaultClient,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.hashes = []hash.Hash{r.alg.Sum(r.input)}

	return r
}

// Own returns the hash of the caller's secret.
func (r *Revealer) Own() hash.Hash {
	return r.hashes[0]
}

// Add appends a counterpart commitment. Duplicates are not rejected here;
// the coordinator refuses groups containing them.
func (r *Revealer) Add(h hash.Hash) {
	r.hashes = append(r.hashes, h)
}

// Hashes returns the accumulated commitments in insertion order.
func (r *Revealer) Hashes() []hash.Hash {
	return slices.Clone(r.hashes)
}

// Resolve submits the canonical group with the caller's secret and blocks
// until the coordinator has every member's preimage. Cancel ctx to give up.
func (r *Revealer) Resolve(ctx context.Context) (*ResolvedSet, error) {
	g := group.Canonicalize(r.hashes)

	req := coordinator.Request{
		HashGroup: g.Encode(),
		Input:     hash.Encode(r.input),
	}

	status, body, err := postJSON(ctx, r.http, r.endpoint, req)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, serverError(status, body)
	}

	preimages, err := decodePreimages(body)
	if err != nil {
		return nil, err
	}

	if len(preimages) != len(g) {
		return nil, errors.Wrapf(ErrSchema, "got %d preimages for %d hashes", len(preimages), len(g))
	}

	for i, p := range preimages {
		if r.alg.Sum(p) != g[i] {
			return nil, errors.Wrapf(ErrSchema, "preimage %d does not match hashGroup[%d]", i, i)
		}
	}

	return NewResolvedSet(r.alg, preimages), nil
}

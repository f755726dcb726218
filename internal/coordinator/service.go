// Package coordinator implements the commit-and-wait protocol: a caller
// publishes its own preimage into a group's slot and blocks until every
// other member of the group has done the same.
package coordinator

import (
	"context"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"HashRevealer/hash"
	"HashRevealer/internal/errors"
	"HashRevealer/internal/group"
	"HashRevealer/internal/logger"
	"HashRevealer/internal/metrics"
	"HashRevealer/internal/store"
)

const (
	// DefaultTTL is how long a published slot stays readable.
	DefaultTTL = 5 * time.Minute
)

// Service coordinates commit-and-wait calls for one hash algorithm.
// It holds no per-group state; all coordination goes through the store.
type Service struct {
	store    store.Store      // store holds the published slots
	alg      hash.Algorithm   // alg is the commitment function
	ttl      time.Duration    // ttl is the lifetime of a published slot
	timeout  time.Duration    // timeout bounds the wait-all; zero waits indefinitely
	recorder metrics.Recorder // recorder receives outcome and latency events
}

// Option configures a Service.
type Option func(*Service)

// WithAlgorithm sets the commitment function. Defaults to hash.Keccak256.
func WithAlgorithm(alg hash.Algorithm) Option {
	return func(s *Service) {
		s.alg = alg
	}
}

// WithTTL sets the slot lifetime. Defaults to DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithWaitTimeout bounds how long a call waits for its counterparts.
// Zero, the default, waits until the caller goes away.
func WithWaitTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// WithRecorder sets the metrics sink. Defaults to metrics.Noop.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// New creates a Service publishing to st.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		alg:      hash.Keccak256,
		ttl:      DefaultTTL,
		recorder: metrics.Noop{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Algorithm returns the commitment function.
func (s *Service) Algorithm() hash.Algorithm {
	return s.alg
}

// Commit validates req, publishes the caller's input into its slot and
// waits until every slot of the group is filled. The returned preimages are
// in the group's canonical order.
//
// Validation runs in this order, and nothing is written unless all of it
// passes: hash lengths, membership of hash(input), canonical ordering.
func (s *Service) Commit(ctx context.Context, req Request) ([][]byte, error) {
	values, err := s.commit(ctx, req)
	s.recorder.CommitFinished(s.alg.Name(), Outcome(err))
	return values, err
}

func (s *Service) commit(ctx context.Context, req Request) ([][]byte, error) {
	hashes, err := group.DecodeAll(req.HashGroup)
	if err != nil {
		return nil, err
	}

	input, err := hash.Decode(req.Input)
	if err != nil {
		return nil, errors.Wrap(err, "input")
	}

	own := s.alg.Sum(input)
	if !slices.Contains(req.HashGroup, own.String()) {
		return nil, errors.WithHint(errors.ErrMembership, "add the hash of your own input to hashGroup")
	}

	g, err := group.Verify(hashes)
	if err != nil {
		return nil, errors.WithHint(err, "sort hashGroup ascending by byte value and remove duplicates")
	}

	id := g.ID(s.alg)
	log := logger.With("algorithm", s.alg.Name(), "group", id.Short(), "size", len(g))

	key := store.Key{Group: id, Slot: own}
	if err := s.store.Put(ctx, key, input, s.ttl); err != nil {
		return nil, errors.Wrapf(err, "publish slot %s", key)
	}

	log.Debug("slot published", "slot", own.Short())

	start := time.Now()
	values, err := s.awaitAll(ctx, id, g)
	if err != nil {
		log.Debug("wait abandoned", "error", err, logger.Timed(start))
		return nil, err
	}

	log.Info("group resolved", logger.Timed(start))

	return values, nil
}

// awaitAll joins one subscription per slot and returns the values in group
// order. Every subscription is released when it returns.
func (s *Service) awaitAll(ctx context.Context, id hash.Hash, g group.Group) ([][]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, s.timeout, errors.ErrTimeout)
		defer cancel()
	}

	s.recorder.WaitStarted(len(g))
	start := time.Now()
	defer func() {
		s.recorder.WaitFinished(s.alg.Name(), time.Since(start).Seconds())
	}()

	values := make([][]byte, len(g))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, h := range g {
		eg.Go(func() error {
			v, err := s.await(egCtx, store.Key{Group: id, Slot: h})
			values[i] = v
			return err
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return values, nil
}

// await blocks until key holds a value whose hash is key.Slot.
func (s *Service) await(ctx context.Context, key store.Key) ([]byte, error) {
	ch, err := s.store.Subscribe(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "subscribe slot %s", key)
	}

	for v := range ch {
		// Slots are content-addressed; anything else means the store is corrupt.
		if s.alg.Sum(v) != key.Slot {
			return nil, errors.Wrapf(errors.ErrStorageInconsistency, "slot %s holds a value with a different hash", key)
		}
		return v, nil
	}

	if cause := context.Cause(ctx); cause != nil {
		return nil, cause
	}

	return nil, errors.Wrapf(errors.ErrStorageInconsistency, "subscription for slot %s ended without a value", key)
}

// Outcome classifies a Commit result for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeResolved
	case errors.IsValidation(err):
		return metrics.OutcomeInvalid
	case errors.Is(err, errors.ErrTimeout):
		return metrics.OutcomeTimeout
	case errors.Is(err, context.Canceled):
		return metrics.OutcomeCanceled
	case errors.Is(err, errors.ErrStorageInconsistency):
		return metrics.OutcomeInconsistent
	default:
		return metrics.OutcomeError
	}
}

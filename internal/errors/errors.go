// Package errors re-exports github.com/cockroachdb/errors and declares the
// sentinel errors shared by the coordinator, the transport and the client.
//
// Wrap a sentinel to add context while keeping it matchable:
//
//	return errors.Wrapf(errors.ErrOrdering, "position %d", i)
//
//	if errors.Is(err, errors.ErrOrdering) { ... }
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	Mark         = crdb.Mark
)

// Inspection
var (
	Is           = crdb.Is
	IsAny        = crdb.IsAny
	As           = crdb.As
	Unwrap       = crdb.Unwrap
	UnwrapAll    = crdb.UnwrapAll
	FlattenHints = crdb.FlattenHints
)

// Request validation failures. All of these are caused by the caller and map
// to a 4xx outcome.
var (
	// ErrValidation indicates a malformed request or response shape.
	ErrValidation = New("validation failed")

	// ErrHashLength indicates a commitment that is not exactly 32 bytes.
	ErrHashLength = New("wrong hash length")

	// ErrMembership indicates the submitter's own hash is absent from its group.
	ErrMembership = New("hashGroup does not include hash(input)")

	// ErrOrdering indicates a group that is not strictly ascending.
	ErrOrdering = New("hashGroup is not ordered")
)

// Coordinator faults.
var (
	// ErrStorageInconsistency indicates a watched slot ended without a valid value.
	ErrStorageInconsistency = New("storage inconsistency")

	// ErrTimeout indicates the wait for counterpart slots exceeded its deadline.
	ErrTimeout = New("timed out waiting for group")
)

// Client-side failures.
var (
	// ErrNotFound indicates a hash absent from a resolved set.
	ErrNotFound = New("hash not found")

	// ErrSchema indicates a server response that is not an array of base64url strings.
	ErrSchema = New("invalid response")
)

// IsValidation reports whether err is one of the caller-caused request errors.
func IsValidation(err error) bool {
	return IsAny(err, ErrValidation, ErrHashLength, ErrMembership, ErrOrdering)
}

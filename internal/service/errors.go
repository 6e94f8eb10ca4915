package service

import "github.com/cockroachdb/errors"

var (
	// ErrMissingRider is returned when the request carries no rider identity.
	ErrMissingRider = errors.New("rider identity missing")

	// ErrNoCarsAvailable is returned when the cars collection is empty.
	ErrNoCarsAvailable = errors.New("no cars available")

	// ErrMalformedRequest marks request bodies that cannot be decoded or fail validation.
	ErrMalformedRequest = errors.New("malformed request")
)

package repository

import "github.com/cockroachdb/errors"

var (
	// ErrMalformedItem is returned when a stored item cannot be decoded.
	ErrMalformedItem = errors.New("malformed item")
)

package handler

import "github.com/cockroachdb/errors"

var (
	// ErrAuthorizationNotConfigured is returned when the request has no authorizer context.
	ErrAuthorizationNotConfigured = errors.New("Authorization not configured")
)

// Package common defines shared constants and sentinel errors used across
// tabclient layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrNotFound = errors.New("not found")
	ErrClosed   = errors.New("store closed")

	// Persisted state that could not be decoded.
	ErrMalformedState = errors.New("malformed persisted state")

	// Configuration errors.
	ErrInvalidBaseURL = errors.New("invalid base url")
	ErrUnknownDriver  = errors.New("unknown storage driver")
)

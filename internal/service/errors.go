package service

import "errors"

var (
	// ErrInvalidURL is returned when the submitted URL is not a syntactically
	// valid absolute URL. Rejected before any store access.
	ErrInvalidURL = errors.New("invalid url")
	// ErrHashSpaceExhausted is returned when the maximum number of retries for
	// generating a unique hash is exceeded. Reaching it implies the identifier
	// space is close to exhaustion.
	ErrHashSpaceExhausted = errors.New("hash space exhausted")
	// ErrResolutionTimeout is returned when the store or cache did not answer
	// within the resolution budget. Safe for the caller to retry.
	ErrResolutionTimeout = errors.New("resolution timeout")
	// ErrPermissionDenied is returned when the caller lacks the capability an
	// operation requires.
	ErrPermissionDenied = errors.New("permission denied")
)

package database

import "errors"

var (
	// ErrHashExists is returned when an attempt is made to persist
	// a link with a hash that is already assigned.
	ErrHashExists = errors.New("hash exists")
	// ErrLinkNotFound is returned when an attempt is made to retrieve
	// a link using a hash that doesn't exist.
	ErrLinkNotFound = errors.New("link not found")
	// ErrEmailExists is returned when an attempt is made to persist
	// a user with an email that is already taken.
	ErrEmailExists = errors.New("email exists")
	// ErrUserNotFound is returned when an attempt is made to retrieve
	// a user that doesn't exist.
	ErrUserNotFound = errors.New("user not found")
)

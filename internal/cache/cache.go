// Package cache defines the contract of the resolution cache that sits in
// front of the durable link store. The cache is a point-lookup optimization
// keyed by hash; it is never consulted for list queries.
package cache

import "errors"

// ErrCacheMiss is returned when the requested hash is not cached. A miss is
// a designed outcome, not a fault.
var ErrCacheMiss = errors.New("cache miss")

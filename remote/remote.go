// Package remote defines the contract for the durable object store the
// cache sits in front of. The remote store is the source of truth: any
// entry the cache loses can always be fetched again.
package remote

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an object does not exist.
//
// Implementations should return an error satisfying
// errors.Is(err, ErrNotFound) so callers can distinguish a missing
// object from a transport failure.
var ErrNotFound = errors.New("remote: object not found")

// Store fetches immutable objects from durable storage.
type Store interface {
	// Download returns the full object bytes. sizeHint, when > 0, is
	// the expected object size and lets implementations preallocate;
	// it is advisory and may be wrong.
	Download(ctx context.Context, account, key string, sizeHint int64) ([]byte, error)
}

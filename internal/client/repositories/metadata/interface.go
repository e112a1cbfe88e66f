// Package metadata persists small client-side values (the session token and
// the signed-in user) in a key/value table.
package metadata

import (
	"context"
)

// Repository is a key/value view over the metadata table.
// Get returns (nil, nil) for an absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
}

// Store is a Repository that can also apply a group of writes atomically:
// either every write made through the Repository passed to fn is kept or
// none is.
type Store interface {
	Repository
	Atomically(ctx context.Context, fn func(ctx context.Context, r Repository) error) error
}

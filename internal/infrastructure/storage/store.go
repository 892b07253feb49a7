// internal/infrastructure/storage/store.go
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored value
var ErrNotFound = errors.New("storage: key not found")

// Store is a string key/value scope owned by one session or client
type Store interface {
	Get(ctx context.Context, owner, key string) (string, error)
	Set(ctx context.Context, owner, key, value string) error
	Delete(ctx context.Context, owner, key string) error
}

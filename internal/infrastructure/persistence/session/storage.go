// Package session defines the durable key-value storage that keeps the
// signed-in user across restarts, plus the in-memory and sealing
// implementations. Database backends live in sibling packages.
package session

import (
	"context"
	"errors"
)

// KeyUser is the single record the auth store persists.
const KeyUser = "user"

// ErrKeyEmpty is returned when an empty key is used.
var ErrKeyEmpty = errors.New("session: key cannot be empty")

// Storage is durable key-value storage. Get reports ok=false for a missing
// key; that is not an error. Remove of a missing key succeeds.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Closer is implemented by backends holding connections.
type Closer interface {
	Close() error
}

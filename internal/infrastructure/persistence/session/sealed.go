package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var (
	// ErrSealKeyEmpty is returned when no sealing secret is configured.
	ErrSealKeyEmpty = errors.New("session: sealing secret cannot be empty")

	// ErrUnseal is returned when a stored value cannot be opened, e.g. it
	// was written with another secret or tampered with.
	ErrUnseal = errors.New("session: cannot unseal value")
)

// Sealed encrypts values at rest with NaCl secretbox before handing them to
// the wrapped Storage. The key is derived from a secret with BLAKE2b-256.
type Sealed struct {
	inner Storage
	key   [32]byte
}

var _ Storage = (*Sealed)(nil)

// NewSealed wraps inner.
func NewSealed(inner Storage, secret string) (*Sealed, error) {
	if secret == "" {
		return nil, ErrSealKeyEmpty
	}
	return &Sealed{
		inner: inner,
		key:   blake2b.Sum256([]byte("unayoe-session:" + secret)),
	}, nil
}

// Get implements Storage.
func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}

	box, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(box) < nonceSize {
		return "", false, ErrUnseal
	}

	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])

	opened, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", false, ErrUnseal
	}
	return string(opened), true, nil
}

// Set implements Storage.
func (s *Sealed) Set(ctx context.Context, key, value string) error {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("session: generate nonce: %w", err)
	}

	box := secretbox.Seal(nonce[:], []byte(value), &nonce, &s.key)
	return s.inner.Set(ctx, key, base64.StdEncoding.EncodeToString(box))
}

// Remove implements Storage.
func (s *Sealed) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}

// Close closes the wrapped storage when it holds resources.
func (s *Sealed) Close() error {
	if c, ok := s.inner.(Closer); ok {
		return c.Close()
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/persistence/session"
)

// SessionStore implements session.Storage on the portal_sessions table.
// Rows are scoped by namespace so one database can serve several portals.
type SessionStore struct {
	conn      *Connection
	namespace string
}

var _ session.Storage = (*SessionStore)(nil)

// NewSessionStore wraps an open connection. Call Migrate first.
func NewSessionStore(conn *Connection, namespace string) *SessionStore {
	return &SessionStore{conn: conn, namespace: namespace}
}

// Migrate applies pending schema migrations.
func (s *SessionStore) Migrate(ctx context.Context) error {
	return NewMigrator(s.conn).Migrate(ctx)
}

// Get implements session.Storage.
func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, session.ErrKeyEmpty
	}

	var value string
	err := s.conn.QueryRow(ctx,
		`SELECT value FROM portal_sessions WHERE namespace = $1 AND key = $2`,
		s.namespace, key,
	).Scan(&value)
	if IsNoRows(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("postgres: get session %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements session.Storage.
func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return session.ErrKeyEmpty
	}

	_, err := s.conn.Exec(ctx, `
		INSERT INTO portal_sessions (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		s.namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("postgres: set session %s: %w", key, err)
	}
	return nil
}

// Remove implements session.Storage.
func (s *SessionStore) Remove(ctx context.Context, key string) error {
	if key == "" {
		return session.ErrKeyEmpty
	}

	_, err := s.conn.Exec(ctx,
		`DELETE FROM portal_sessions WHERE namespace = $1 AND key = $2`,
		s.namespace, key,
	)
	if err != nil {
		return fmt.Errorf("postgres: remove session %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying pool.
func (s *SessionStore) Close() error {
	s.conn.Close()
	return nil
}

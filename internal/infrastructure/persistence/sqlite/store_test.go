package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/persistence/session"
)

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get(ctx, session.KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, session.KeyUser, "a"))
	require.NoError(t, s.Set(ctx, session.KeyUser, "b"))

	v, ok, err := s.Get(ctx, session.KeyUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	require.NoError(t, s.Remove(ctx, session.KeyUser))
	require.NoError(t, s.Remove(ctx, session.KeyUser))
	_, ok, err = s.Get(ctx, session.KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.Set(ctx, "", "x"), session.ErrKeyEmpty)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "portal.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, session.KeyUser, `{"id":"u1"}`))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(ctx, session.KeyUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"u1"}`, v)
}

func TestStore_Sealed(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	sealed, err := session.NewSealed(s, "k")
	require.NoError(t, err)
	require.NoError(t, sealed.Set(ctx, session.KeyUser, "secret"))

	raw, ok, err := s.Get(ctx, session.KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, "secret", raw)

	v, _, err := sealed.Get(ctx, session.KeyUser)
	require.NoError(t, err)
	assert.Equal(t, "secret", v)
}

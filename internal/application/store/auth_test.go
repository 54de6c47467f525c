package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/auth"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/shared"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/persistence/session"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/portal"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/transport/transporttest"
)

const loginOK = `{"user":{"id":"u1","email":"ana@unmsm.edu.pe","rol":"estudiante","nombre":"Ana","access_token":"at-1"}}`

func newAuthStore(fake *transporttest.Fake, storage session.Storage) *AuthStore {
	return NewAuthStore(portal.NewAuthService(fake, nil), storage, testOptions())
}

func TestAuthStore_CheckAuthWithoutSession(t *testing.T) {
	s := newAuthStore(transporttest.New(), session.NewMemory())

	assert.NotPanics(t, func() {
		assert.False(t, s.CheckAuth(context.Background()))
	})

	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.False(t, snap.IsAuthenticated())
	assert.Equal(t, auth.StateAnonymous, snap.State)
	assert.Empty(t, snap.Error)
}

func TestAuthStore_LogoutTwice(t *testing.T) {
	fake := transporttest.New()
	fake.On("POST", "/login").Reply(loginOK)
	storage := session.NewMemory()
	s := newAuthStore(fake, storage)
	ctx := context.Background()

	require.True(t, s.Login(ctx, "ana@unmsm.edu.pe", "secret"))

	s.Logout(ctx)
	s.Logout(ctx)

	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Error)
	assert.Equal(t, auth.StateAnonymous, snap.State)
	assert.Equal(t, 0, storage.Len())
	assert.Equal(t, 1, len(fake.Calls()), "logout never calls the server")
}

func TestAuthStore_LoginPersistsAndRestores(t *testing.T) {
	fake := transporttest.New()
	fake.On("POST", "/login").Reply(loginOK)
	storage := session.NewMemory()
	ctx := context.Background()

	rec := &sessionRecorder{}
	s := NewAuthStore(portal.NewAuthService(fake, nil), storage, Options{Logger: quietLogger(), Events: rec})
	require.True(t, s.Login(ctx, "ana@unmsm.edu.pe", "secret"))

	snap := s.Snapshot()
	require.True(t, snap.IsAuthenticated())
	assert.Equal(t, auth.RoleStudent, snap.User.Role)
	assert.Equal(t, "at-1", s.AccessToken())
	assert.Equal(t, []shared.EventType{shared.EventSessionStarted}, rec.types)

	raw, ok, err := storage.Get(ctx, session.KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	var stored auth.SessionUser
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, "u1", stored.ID)

	restored := newAuthStore(transporttest.New(), storage)
	require.True(t, restored.CheckAuth(ctx))
	assert.Equal(t, "u1", restored.Snapshot().User.ID)
	assert.Equal(t, "at-1", restored.AccessToken())
}

func TestAuthStore_LoginFailure(t *testing.T) {
	fake := transporttest.New()
	fake.On("POST", "/login").Fail(401, "Credenciales inválidas")
	storage := session.NewMemory()
	s := newAuthStore(fake, storage)

	assert.False(t, s.Login(context.Background(), "ana@unmsm.edu.pe", "bad"))

	snap := s.Snapshot()
	assert.Equal(t, "Credenciales inválidas", snap.Error)
	assert.Equal(t, auth.StateAnonymous, snap.State)
	assert.Nil(t, snap.User)
	assert.Equal(t, 0, storage.Len())
	assert.Empty(t, s.AccessToken())
}

func TestAuthStore_LoginValidationFallback(t *testing.T) {
	s := newAuthStore(transporttest.New(), nil)
	assert.False(t, s.Login(context.Background(), "", ""))

	snap := s.Snapshot()
	assert.NotEmpty(t, snap.Error)
	assert.Equal(t, auth.StateAnonymous, snap.State)
}

func TestAuthStore_ConcurrentLoginRejected(t *testing.T) {
	fake := transporttest.New()
	gate := make(chan struct{})
	fake.On("POST", "/login").After(gate).Reply(loginOK)
	s := newAuthStore(fake, nil)
	ctx := context.Background()

	done := make(chan bool)
	go func() { done <- s.Login(ctx, "ana@unmsm.edu.pe", "secret") }()
	require.Eventually(t, func() bool { return s.Snapshot().State == auth.StateAuthenticating }, time.Second, time.Millisecond)

	assert.False(t, s.Login(ctx, "ana@unmsm.edu.pe", "secret"))
	close(gate)
	assert.True(t, <-done)
	assert.Equal(t, 1, fake.CallCount("POST", "/login"))
}

func TestAuthStore_LogoutDuringLoginDropsResult(t *testing.T) {
	fake := transporttest.New()
	gate := make(chan struct{})
	fake.On("POST", "/login").After(gate).Reply(loginOK)
	storage := session.NewMemory()
	s := newAuthStore(fake, storage)
	ctx := context.Background()

	done := make(chan bool)
	go func() { done <- s.Login(ctx, "ana@unmsm.edu.pe", "secret") }()
	require.Eventually(t, func() bool { return s.Snapshot().State == auth.StateAuthenticating }, time.Second, time.Millisecond)

	s.Logout(ctx)
	close(gate)
	assert.False(t, <-done)

	assert.Nil(t, s.Snapshot().User)
	assert.Equal(t, 0, storage.Len())
}

func TestAuthStore_Signup(t *testing.T) {
	fake := transporttest.New()
	fake.On("POST", "/signup").Reply(`{"user":{"id":"p9","email":"rosa@unmsm.edu.pe","rol":"psicologo","nombre":"Rosa"}}`)
	s := newAuthStore(fake, nil)

	require.True(t, s.Signup(context.Background(), auth.SignupInput{
		Name: "Rosa", Email: "rosa@unmsm.edu.pe", Password: "secret1", Role: auth.RolePsychologist,
	}))
	assert.Equal(t, auth.RolePsychologist, s.Snapshot().User.Role)
}

func TestAuthStore_CheckAuthDiscardsBadRecords(t *testing.T) {
	ctx := context.Background()

	t.Run("unreadable", func(t *testing.T) {
		storage := session.NewMemory()
		require.NoError(t, storage.Set(ctx, session.KeyUser, "{not json"))

		s := newAuthStore(transporttest.New(), storage)
		assert.False(t, s.CheckAuth(ctx))
		assert.Equal(t, 0, storage.Len())
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "u1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		}).SignedString([]byte("k"))
		require.NoError(t, err)

		raw, err := json.Marshal(auth.SessionUser{ID: "u1", Role: auth.RoleStudent, AccessToken: token})
		require.NoError(t, err)

		storage := session.NewMemory()
		require.NoError(t, storage.Set(ctx, session.KeyUser, string(raw)))

		s := newAuthStore(transporttest.New(), storage)
		assert.False(t, s.CheckAuth(ctx))
		assert.Nil(t, s.Snapshot().User)
		assert.Equal(t, 0, storage.Len())
	})
}

func TestAuthStore_HandleUnauthorized(t *testing.T) {
	fake := transporttest.New()
	fake.On("POST", "/login").Reply(loginOK)
	storage := session.NewMemory()
	s := newAuthStore(fake, storage)
	ctx := context.Background()

	require.True(t, s.Login(ctx, "ana@unmsm.edu.pe", "secret"))
	s.HandleUnauthorized(ctx)

	snap := s.Snapshot()
	assert.False(t, snap.IsAuthenticated())
	assert.Nil(t, snap.User)
	assert.Equal(t, 0, storage.Len())
}

func TestAuthStore_FailedReloginSignsOut(t *testing.T) {
	fake := transporttest.New()
	fake.On("POST", "/login").Reply(loginOK)
	fake.On("POST", "/login").Fail(500, "boom")
	storage := session.NewMemory()
	ctx := context.Background()

	rec := &sessionRecorder{}
	s := NewAuthStore(portal.NewAuthService(fake, nil), storage, Options{Logger: quietLogger(), Events: rec})
	require.True(t, s.Login(ctx, "ana@unmsm.edu.pe", "secret"))

	assert.False(t, s.Login(ctx, "ana@unmsm.edu.pe", "secret"))

	snap := s.Snapshot()
	assert.Equal(t, auth.StateAnonymous, snap.State)
	assert.Nil(t, snap.User)
	assert.Equal(t, "boom", snap.Error)
	assert.Empty(t, s.AccessToken())
	assert.Equal(t, 0, storage.Len())
	assert.Equal(t, []shared.EventType{shared.EventSessionStarted, shared.EventSessionEnded}, rec.types)

	assert.False(t, newAuthStore(transporttest.New(), storage).CheckAuth(ctx))
}

func TestAuthStore_SupersededAttemptLeavesNewLoginAlone(t *testing.T) {
	fake := transporttest.New()
	first, second := make(chan struct{}), make(chan struct{})
	fake.On("POST", "/login").After(first).Fail(500, "boom")
	fake.On("POST", "/login").After(second).Reply(loginOK)
	storage := session.NewMemory()
	s := newAuthStore(fake, storage)
	ctx := context.Background()

	firstDone := make(chan bool)
	go func() { firstDone <- s.Login(ctx, "ana@unmsm.edu.pe", "secret") }()
	require.Eventually(t, func() bool { return fake.CallCount("POST", "/login") == 1 }, time.Second, time.Millisecond)
	s.Logout(ctx)

	secondDone := make(chan bool)
	go func() { secondDone <- s.Login(ctx, "ana@unmsm.edu.pe", "secret") }()
	require.Eventually(t, func() bool { return fake.CallCount("POST", "/login") == 2 }, time.Second, time.Millisecond)

	close(first)
	assert.False(t, <-firstDone)
	assert.Equal(t, auth.StateAuthenticating, s.Snapshot().State)

	close(second)
	assert.True(t, <-secondDone)
	assert.True(t, s.Snapshot().IsAuthenticated())
	assert.Equal(t, 1, storage.Len())
}

func TestAuthStore_LogoutBeforePersistKeepsStorageEmpty(t *testing.T) {
	fake := transporttest.New()
	fake.On("POST", "/login").Reply(loginOK)
	storage := session.NewMemory()
	ctx := context.Background()

	pub := &logoutOnSettle{}
	s := NewAuthStore(portal.NewAuthService(fake, nil), storage, Options{Logger: quietLogger(), Events: pub})
	pub.store = s

	assert.False(t, s.Login(ctx, "ana@unmsm.edu.pe", "secret"))
	assert.Nil(t, s.CurrentUser())
	assert.Equal(t, 0, storage.Len())

	assert.False(t, newAuthStore(transporttest.New(), storage).CheckAuth(ctx))
}

func TestAuthStore_CheckAuthDiscardsRecordSealedWithOtherKey(t *testing.T) {
	ctx := context.Background()
	inner := session.NewMemory()

	old, err := session.NewSealed(inner, "old-key")
	require.NoError(t, err)
	raw, err := json.Marshal(auth.SessionUser{ID: "u1", Role: auth.RoleStudent})
	require.NoError(t, err)
	require.NoError(t, old.Set(ctx, session.KeyUser, string(raw)))

	rotated, err := session.NewSealed(inner, "new-key")
	require.NoError(t, err)

	s := newAuthStore(transporttest.New(), rotated)
	assert.False(t, s.CheckAuth(ctx))
	assert.Nil(t, s.Snapshot().User)
	assert.Equal(t, 0, inner.Len())
}

// logoutOnSettle signs the store out as soon as a login result is applied.
type logoutOnSettle struct {
	store *AuthStore
	once  sync.Once
}

func (p *logoutOnSettle) Publish(e shared.Event) error {
	sc, ok := e.(*shared.StoreChangedEvent)
	if !ok || sc.Action != "Login" || sc.IsLoading {
		return nil
	}
	p.once.Do(func() { p.store.Logout(context.Background()) })
	return nil
}

type sessionRecorder struct {
	types []shared.EventType
}

func (r *sessionRecorder) Publish(e shared.Event) error {
	if _, ok := e.(*shared.SessionEvent); ok {
		r.types = append(r.types, e.EventType())
	}
	return nil
}

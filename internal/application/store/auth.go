package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/auth"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/shared"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/persistence/session"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/transport"
	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/logger"
)

// AuthAPI is the auth service the store drives.
type AuthAPI interface {
	Login(ctx context.Context, creds auth.Credentials) (*auth.SessionUser, error)
	Signup(ctx context.Context, input auth.SignupInput) (*auth.SessionUser, error)
}

const (
	msgLogin  = "Error al iniciar sesión"
	msgSignup = "Error al registrarse"
)

// AuthSnapshot is a copy of the auth store state.
type AuthSnapshot struct {
	User  *auth.SessionUser
	State auth.State
	Status
}

// IsAuthenticated reports whether a user is signed in.
func (s AuthSnapshot) IsAuthenticated() bool {
	return s.State == auth.StateAuthenticated && s.User != nil
}

// AuthStore owns the signed-in user. The user is mirrored in durable
// storage under session.KeyUser so CheckAuth can restore it.
type AuthStore struct {
	base
	svc     AuthAPI
	storage session.Storage
	now     func() time.Time

	user  *auth.SessionUser
	state auth.State

	// attempt numbers sign-ins; only the newest may settle the state.
	attempt uint64

	// recordMu orders writes of the durable record. It is never held
	// together with mu while calling out.
	recordMu sync.Mutex
}

var _ transport.TokenSource = (*AuthStore)(nil)

// NewAuthStore creates a signed-out AuthStore. A nil storage keeps the
// session in memory only.
func NewAuthStore(svc AuthAPI, storage session.Storage, opts Options) *AuthStore {
	if storage == nil {
		storage = session.NewMemory()
	}
	s := &AuthStore{
		svc:     svc,
		storage: storage,
		now:     time.Now,
		state:   auth.StateAnonymous,
	}
	s.init("auth", opts)
	return s
}

// Snapshot returns a copy of the current state.
func (s *AuthStore) Snapshot() AuthSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := AuthSnapshot{State: s.state, Status: s.statusLocked()}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// AccessToken implements transport.TokenSource.
func (s *AuthStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return ""
	}
	return s.user.AccessToken
}

// Login signs in with email and password. It returns false without a
// request when a sign-in is already running.
func (s *AuthStore) Login(ctx context.Context, email, password string) bool {
	attempt, ok := s.submit()
	if !ok {
		s.logger.Debug("login ignored while authenticating")
		return false
	}

	c := s.begin("Login", msgLogin)
	user, err := s.svc.Login(ctx, auth.Credentials{Email: email, Password: password})
	return s.signedIn(ctx, c, attempt, user, err)
}

// Signup registers a new account and signs it in.
func (s *AuthStore) Signup(ctx context.Context, input auth.SignupInput) bool {
	attempt, ok := s.submit()
	if !ok {
		s.logger.Debug("signup ignored while authenticating")
		return false
	}

	c := s.begin("Signup", msgSignup)
	user, err := s.svc.Signup(ctx, input)
	return s.signedIn(ctx, c, attempt, user, err)
}

// signedIn settles a login or signup. A failure also drops any user that
// was signed in before the attempt.
func (s *AuthStore) signedIn(ctx context.Context, c call, attempt uint64, user *auth.SessionUser, err error) bool {
	var (
		current  *auth.SessionUser
		previous string
	)
	ok := s.settle(c, err,
		func() {
			next, valid := auth.Transition(s.state, auth.EventSucceeded)
			if !valid || attempt != s.attempt {
				return
			}
			u := *user
			current = &u
			s.user = current
			s.state = next
		},
		func() {
			if attempt != s.attempt {
				return
			}
			if s.user != nil {
				previous = s.user.ID
			}
			s.user = nil
			s.state, _ = auth.Transition(s.state, auth.EventFailed)
		},
	)
	if !ok {
		if previous != "" {
			s.dropRecord(ctx)
			s.publish(shared.NewSessionEvent(shared.EventSessionEnded, previous, ""))
		}
		return false
	}
	if current == nil || !s.persist(ctx, current) {
		// Signed out while the request was in flight.
		s.logger.Info("sign-in result dropped", logger.Operation(c.action))
		return false
	}

	s.publish(shared.NewSessionEvent(shared.EventSessionStarted, user.ID, string(user.Role)))
	return true
}

// Logout clears the user from memory and storage. It never calls the
// server and may be repeated.
func (s *AuthStore) Logout(ctx context.Context) {
	s.signOut(ctx, "Logout", auth.EventLogout)
}

// HandleUnauthorized drops the session after the server rejected the
// token. It is installed as the transport's 401 hook.
func (s *AuthStore) HandleUnauthorized(ctx context.Context) {
	s.signOut(ctx, "HandleUnauthorized", auth.EventExpired)
}

// CheckAuth restores the user from storage. A missing, unreadable or
// expired record leaves the store signed out; it is never an error.
func (s *AuthStore) CheckAuth(ctx context.Context) bool {
	user := s.restore(ctx)

	authenticated := false
	s.mutate("CheckAuth", func() {
		switch {
		case s.state == auth.StateAuthenticated && s.user != nil:
			authenticated = true
		case user == nil:
			if s.state != auth.StateAuthenticating {
				s.user = nil
				s.state = auth.StateAnonymous
			}
		default:
			if next, ok := auth.Transition(s.state, auth.EventRestored); ok {
				s.user = user
				s.state = next
				authenticated = true
			}
		}
	})
	return authenticated
}

// Reset restores the signed-out state without touching storage.
func (s *AuthStore) Reset() {
	s.mutate("Reset", func() {
		s.resetLocked()
		s.user = nil
		s.state = auth.StateAnonymous
	})
}

// submit starts a sign-in attempt and returns its number.
func (s *AuthStore) submit() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := auth.Transition(s.state, auth.EventSubmit)
	if !ok {
		return 0, false
	}
	s.state = next
	s.attempt++
	return s.attempt, true
}

// signOut signs out through e, which must be valid from every state.
func (s *AuthStore) signOut(ctx context.Context, action string, e auth.Event) {
	var userID string
	s.mutate(action, func() {
		if s.user != nil {
			userID = s.user.ID
		}
		s.user = nil
		s.errMsg = ""
		s.state, _ = auth.Transition(s.state, e)
	})

	s.dropRecord(ctx)
	if userID != "" {
		s.publish(shared.NewSessionEvent(shared.EventSessionEnded, userID, ""))
	}
}

// persist stores user unless it is no longer the signed-in user. It
// reports whether user is still signed in.
func (s *AuthStore) persist(ctx context.Context, user *auth.SessionUser) bool {
	s.recordMu.Lock()
	defer s.recordMu.Unlock()

	if !s.holds(user) {
		return false
	}
	raw, err := json.Marshal(user)
	if err != nil {
		s.logger.Warn("failed to encode session", logger.Err(err))
		return true
	}
	if err := s.storage.Set(ctx, session.KeyUser, string(raw)); err != nil {
		s.logger.Warn("failed to persist session", logger.UserID(user.ID), logger.Err(err))
	}
	return true
}

// holds reports whether user is the signed-in user.
func (s *AuthStore) holds(user *auth.SessionUser) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user == user && s.state == auth.StateAuthenticated
}

func (s *AuthStore) restore(ctx context.Context) *auth.SessionUser {
	raw, ok, err := s.storage.Get(ctx, session.KeyUser)
	if errors.Is(err, session.ErrUnseal) {
		s.logger.Warn("discarding stored session sealed with another key", logger.Err(err))
		s.dropRecord(ctx)
		return nil
	}
	if err != nil {
		s.logger.Warn("failed to read stored session", logger.Err(err))
		return nil
	}
	if !ok {
		return nil
	}

	var user auth.SessionUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		s.logger.Warn("discarding unreadable stored session", logger.Err(err))
		s.dropRecord(ctx)
		return nil
	}
	if user.IsExpired(s.now()) {
		s.logger.Info("discarding expired stored session", logger.UserID(user.ID))
		s.dropRecord(ctx)
		return nil
	}
	return &user
}

// dropRecord removes the durable record unless a user is signed in again.
func (s *AuthStore) dropRecord(ctx context.Context) {
	s.recordMu.Lock()
	defer s.recordMu.Unlock()

	s.mu.Lock()
	signedIn := s.user != nil
	s.mu.Unlock()
	if signedIn {
		return
	}
	if err := s.storage.Remove(ctx, session.KeyUser); err != nil {
		s.logger.Warn("failed to remove stored session", logger.Err(err))
	}
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *AuthStore) CurrentUser() *auth.SessionUser {
	return s.Snapshot().User
}

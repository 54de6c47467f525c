package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from State
		ev   Event
		to   State
		ok   bool
	}{
		{StateAnonymous, EventSubmit, StateAuthenticating, true},
		{StateAuthenticating, EventSucceeded, StateAuthenticated, true},
		{StateAuthenticating, EventFailed, StateAnonymous, true},
		{StateAuthenticated, EventLogout, StateAnonymous, true},
		{StateAnonymous, EventLogout, StateAnonymous, true},
		{StateAnonymous, EventRestored, StateAuthenticated, true},
		{StateAuthenticated, EventExpired, StateAnonymous, true},
		{StateAuthenticating, EventSubmit, StateAuthenticating, false},
		{StateAnonymous, EventSucceeded, StateAnonymous, false},
		{StateAuthenticated, EventFailed, StateAuthenticated, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.ev.String(), func(t *testing.T) {
			to, ok := Transition(tt.from, tt.ev)
			assert.Equal(t, tt.to, to)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestTransition_Properties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	states := gen.IntRange(int(StateAnonymous), int(StateAuthenticated))
	events := gen.IntRange(int(EventSubmit), int(EventExpired))

	properties.Property("rejected events leave the state unchanged", prop.ForAll(
		func(s, e int) bool {
			next, ok := Transition(State(s), Event(e))
			return ok || next == State(s)
		},
		states, events,
	))

	properties.Property("logout always ends anonymous", prop.ForAll(
		func(s int) bool {
			next, ok := Transition(State(s), EventLogout)
			return ok && next == StateAnonymous
		},
		states,
	))

	properties.Property("authenticated is only reached through success or restore", prop.ForAll(
		func(s, e int) bool {
			next, ok := Transition(State(s), Event(e))
			if !ok || next != StateAuthenticated || State(s) == StateAuthenticated {
				return true
			}
			return Event(e) == EventSucceeded || Event(e) == EventRestored
		},
		states, events,
	))

	properties.TestingRun(t)
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("estudiante")
	assert.True(t, ok)
	assert.Equal(t, RoleStudent, r)
	assert.Equal(t, "estudiante", r.WireValue())

	r, ok = ParseRole("psicologo")
	assert.True(t, ok)
	assert.Equal(t, RolePsychologist, r)

	_, ok = ParseRole("admin")
	assert.False(t, ok)
}

func TestSessionUser_AccessTokenExpiry(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("any-key"))
	require.NoError(t, err)

	u := SessionUser{AccessToken: signed}
	got, ok := u.AccessTokenExpiry()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))
	assert.True(t, u.IsExpired(time.Now()))

	opaque := SessionUser{AccessToken: "not-a-jwt"}
	_, ok = opaque.AccessTokenExpiry()
	assert.False(t, ok)
	assert.False(t, opaque.IsExpired(time.Now()))
}

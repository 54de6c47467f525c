// Package auth contains the session domain: the signed-in user record and
// the pure state machine that governs sign-in and sign-out.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the portal role of a user.
type Role string

const (
	RoleStudent      Role = "student"
	RolePsychologist Role = "psychologist"
)

// ParseRole maps the backend role ("estudiante", "psicologo") onto a Role.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "estudiante", string(RoleStudent):
		return RoleStudent, true
	case "psicologo", "psicólogo", string(RolePsychologist):
		return RolePsychologist, true
	}
	return "", false
}

// WireValue returns the value the backend expects for r.
func (r Role) WireValue() string {
	switch r {
	case RoleStudent:
		return "estudiante"
	case RolePsychologist:
		return "psicologo"
	}
	return string(r)
}

// SessionUser is the authenticated user. Exactly one lives in memory and
// in durable storage at a time; absence means signed out.
type SessionUser struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Role              Role   `json:"role"`
	Name              string `json:"name"`
	AccessToken       string `json:"access_token"`
	RefreshToken      string `json:"refresh_token"`
	ProfilePhotoURL   string `json:"profile_photo_url,omitempty"`
	HasFaceRegistered bool   `json:"has_face_registered"`
}

// AccessTokenExpiry reads the exp claim of the access token without
// verifying the signature. The client cannot verify it and only uses the
// value to drop sessions that are certainly dead.
func (u SessionUser) AccessTokenExpiry() (time.Time, bool) {
	if u.AccessToken == "" {
		return time.Time{}, false
	}

	token, _, err := jwt.NewParser().ParseUnverified(u.AccessToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// IsExpired reports whether the access token carries an exp claim in the
// past. Tokens without a readable exp are never considered expired.
func (u SessionUser) IsExpired(now time.Time) bool {
	exp, ok := u.AccessTokenExpiry()
	return ok && !now.Before(exp)
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// SignupInput is the registration payload.
type SignupInput struct {
	Name        string `validate:"required,max=100"`
	LastName    string `validate:"omitempty,max=100"`
	StudentCode string `validate:"omitempty,max=20"`
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=6"`
	Role        Role   `validate:"required,oneof=student psychologist"`
}

// ══════════════════════════════════════════════════════════════════════════════
// STATE MACHINE
// ══════════════════════════════════════════════════════════════════════════════

// State is the authentication state.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Event drives the state machine.
type Event int

const (
	// EventSubmit starts a login or signup.
	EventSubmit Event = iota + 1
	// EventSucceeded means the backend accepted the credentials.
	EventSucceeded
	// EventFailed means the backend or transport rejected them.
	EventFailed
	// EventLogout clears the session.
	EventLogout
	// EventRestored means a stored session was found at startup.
	EventRestored
	// EventExpired means the backend answered 401 for the current session.
	EventExpired
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventSubmit:
		return "submit"
	case EventSucceeded:
		return "succeeded"
	case EventFailed:
		return "failed"
	case EventLogout:
		return "logout"
	case EventRestored:
		return "restored"
	case EventExpired:
		return "expired"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// Transition returns the state after applying e to s. ok is false when the
// event is not valid in s, in which case s is returned unchanged.
func Transition(s State, e Event) (next State, ok bool) {
	switch e {
	case EventLogout, EventExpired:
		return StateAnonymous, true
	case EventSubmit:
		if s == StateAuthenticating {
			return s, false
		}
		return StateAuthenticating, true
	case EventSucceeded:
		if s != StateAuthenticating {
			return s, false
		}
		return StateAuthenticated, true
	case EventFailed:
		if s != StateAuthenticating {
			return s, false
		}
		return StateAnonymous, true
	case EventRestored:
		if s != StateAnonymous {
			return s, false
		}
		return StateAuthenticated, true
	}
	return s, false
}

// Package navigation decides where a client goes after signing in. The
// decision is pure; performing it is left to an injected Navigator so the
// auth store never routes.
package navigation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/auth"
)

// Routes the policies can pick.
const (
	RouteHome         = "/"
	RouteStudent      = "/student"
	RoutePsychologist = "/psychologist"
	RouteFaceRegister = "/face-register"
	RouteFaceVerify   = "/face-verify"
	RouteLogin        = "/login"
)

// Policy maps a signed-in user to the next route.
type Policy interface {
	Next(user auth.SessionUser) string
	Name() string
}

// RoleLanding sends each role to its dashboard.
type RoleLanding struct{}

// Next implements Policy.
func (RoleLanding) Next(user auth.SessionUser) string {
	switch user.Role {
	case auth.RoleStudent:
		return RouteStudent
	case auth.RolePsychologist:
		return RoutePsychologist
	}
	return RouteHome
}

// Name implements Policy.
func (RoleLanding) Name() string { return "role" }

// BiometricGate sends every user through face registration or face
// verification before any dashboard.
type BiometricGate struct{}

// Next implements Policy.
func (BiometricGate) Next(user auth.SessionUser) string {
	if user.HasFaceRegistered {
		return RouteFaceVerify
	}
	return RouteFaceRegister
}

// Name implements Policy.
func (BiometricGate) Name() string { return "biometric" }

// PolicyFor returns the policy named by PORTAL_LOGIN_REDIRECT. Empty selects
// RoleLanding.
func PolicyFor(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "role":
		return RoleLanding{}, nil
	case "biometric":
		return BiometricGate{}, nil
	}
	return nil, fmt.Errorf("navigation: unknown login redirect policy %q", name)
}

// Navigator performs a route change.
type Navigator interface {
	Navigate(ctx context.Context, route string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, route string) error

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(ctx context.Context, route string) error { return f(ctx, route) }

// Authenticator is the slice of the auth store a LoginFlow needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) bool
	CurrentUser() *auth.SessionUser
}

// LoginFlow signs in and then navigates according to the policy.
type LoginFlow struct {
	auth      Authenticator
	policy    Policy
	navigator Navigator
	logger    *slog.Logger
}

// NewLoginFlow creates a LoginFlow. A nil policy means RoleLanding.
func NewLoginFlow(a Authenticator, policy Policy, navigator Navigator, logger *slog.Logger) *LoginFlow {
	if policy == nil {
		policy = RoleLanding{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginFlow{auth: a, policy: policy, navigator: navigator, logger: logger}
}

// Run logs in and navigates on success. It returns the route taken, or ""
// when the login failed; the failure text is in the auth store.
func (f *LoginFlow) Run(ctx context.Context, email, password string) (string, error) {
	if !f.auth.Login(ctx, email, password) {
		return "", nil
	}

	user := f.auth.CurrentUser()
	if user == nil {
		return "", nil
	}

	route := f.policy.Next(*user)
	f.logger.Debug("post-login navigation", "policy", f.policy.Name(), "route", route)
	if err := f.navigator.Navigate(ctx, route); err != nil {
		return route, fmt.Errorf("navigate to %s: %w", route, err)
	}
	return route, nil
}

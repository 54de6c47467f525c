// Package transport implements the request boundary the portal services talk
// through: JSON in and out over HTTP, with every failure turned into a typed
// *Error carrying a status and a display message.
package transport

import "context"

// Requester issues JSON requests against the portal API. path is relative to
// the configured base URL and may carry a query string. body is marshalled
// when non-nil; out, when non-nil, receives the decoded response.
// Non-2xx answers and network failures are returned as *Error.
type Requester interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// TokenSource supplies the bearer token for outgoing requests. An empty
// string means the request goes out unauthenticated.
type TokenSource interface {
	AccessToken() string
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func() string

// AccessToken implements TokenSource.
func (f TokenSourceFunc) AccessToken() string { return f() }

// UnauthorizedHandler is called after the API answered 401. The auth store
// registers itself here to drop the dead session.
type UnauthorizedHandler func(ctx context.Context)

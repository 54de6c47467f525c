// Package transporttest provides a scripted transport.Requester for tests of
// the services and stores.
package transporttest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/transport"
)

// Call is a request the fake received.
type Call struct {
	Method string
	Path   string
	Body   json.RawMessage
}

// Response is a scripted answer for one route. Responses for the same route
// are consumed in order; the last one keeps answering.
type Response struct {
	body string
	err  error
	gate <-chan struct{}
}

// Reply answers with the given JSON body.
func (r *Response) Reply(body string) *Response {
	r.body = body
	return r
}

// Fail answers with a transport rejection.
func (r *Response) Fail(status int, message string) *Response {
	r.err = &transport.Error{Status: status, Message: message}
	return r
}

// FailWith answers with err as-is.
func (r *Response) FailWith(err error) *Response {
	r.err = err
	return r
}

// After holds the answer until gate is closed or the context ends.
func (r *Response) After(gate <-chan struct{}) *Response {
	r.gate = gate
	return r
}

// Fake is a scripted transport.Requester.
type Fake struct {
	mu     sync.Mutex
	routes map[string][]*Response
	calls  []Call
}

var _ transport.Requester = (*Fake)(nil)

// New creates an empty Fake. Unscripted routes answer 404.
func New() *Fake {
	return &Fake{routes: make(map[string][]*Response)}
}

// On scripts the next answer for method and path (query string included).
func (f *Fake) On(method, path string) *Response {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := &Response{}
	key := routeKey(method, path)
	f.routes[key] = append(f.routes[key], r)
	return r
}

// Calls returns every request received so far.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many requests hit method and path.
func (f *Fake) CallCount(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// Get implements transport.Requester.
func (f *Fake) Get(ctx context.Context, path string, out any) error {
	return f.do(ctx, http.MethodGet, path, nil, out)
}

// Post implements transport.Requester.
func (f *Fake) Post(ctx context.Context, path string, body, out any) error {
	return f.do(ctx, http.MethodPost, path, body, out)
}

// Put implements transport.Requester.
func (f *Fake) Put(ctx context.Context, path string, body, out any) error {
	return f.do(ctx, http.MethodPut, path, body, out)
}

// Delete implements transport.Requester.
func (f *Fake) Delete(ctx context.Context, path string, out any) error {
	return f.do(ctx, http.MethodDelete, path, nil, out)
}

func (f *Fake) do(ctx context.Context, method, path string, body, out any) error {
	var raw json.RawMessage
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		raw = b
	}

	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Path: path, Body: raw})
	key := routeKey(method, path)
	queue := f.routes[key]
	var resp *Response
	if len(queue) > 0 {
		resp = queue[0]
		if len(queue) > 1 {
			f.routes[key] = queue[1:]
		}
	}
	f.mu.Unlock()

	if resp == nil {
		return &transport.Error{Status: http.StatusNotFound, Message: "unscripted " + key}
	}

	if resp.gate != nil {
		select {
		case <-resp.gate:
		case <-ctx.Done():
			return &transport.Error{Status: 0, Message: transport.MsgConnection, Err: ctx.Err()}
		}
	}

	if resp.err != nil {
		return resp.err
	}
	if out != nil && resp.body != "" {
		if err := json.Unmarshal([]byte(resp.body), out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func routeKey(method, path string) string {
	return method + " " + path
}

package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/shared"
)

// MsgConnection is the message of rejections that never reached the server.
const MsgConnection = "Error de conexión. Verifica tu conexión a internet."

// Error is the transport's rejection. Status is the HTTP status code, or 0
// when no response was received (network failure, timeout, cancellation).
type Error struct {
	Status  int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("transport: status %d: %s: %v", e.Status, msg, e.Err)
	}
	return fmt.Sprintf("transport: status %d: %s", e.Status, msg)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the text fit for display. Empty when the server gave
// no detail, so that callers fall back to their own message.
func (e *Error) UserMessage() string {
	return e.Message
}

// Kind maps the rejection onto the shared failure taxonomy.
func (e *Error) Kind() error {
	switch {
	case e.Status == 0:
		if isTimeout(e.Err) {
			return shared.ErrTimeout
		}
		return shared.ErrNetwork
	case e.Status == http.StatusBadRequest, e.Status == http.StatusUnprocessableEntity:
		return shared.ErrValidation
	case e.Status == http.StatusUnauthorized:
		return shared.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return shared.ErrForbidden
	case e.Status == http.StatusNotFound:
		return shared.ErrNotFound
	case e.Status == http.StatusRequestTimeout, e.Status == http.StatusGatewayTimeout:
		return shared.ErrTimeout
	default:
		return shared.ErrUnknown
	}
}

// Is implements errors.Is() matching against the shared taxonomy.
func (e *Error) Is(target error) bool {
	return e.Kind() == target
}

// StatusOf returns the status of a transport rejection in err, or -1 when
// err is not one.
func StatusOf(err error) int {
	var te *Error
	if errors.As(err, &te) {
		return te.Status
	}
	return -1
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

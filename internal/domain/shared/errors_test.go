package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type displayErr struct{ msg string }

func (e displayErr) Error() string       { return "display: " + e.msg }
func (e displayErr) UserMessage() string { return e.msg }

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil, "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("boom"), "fallback"))
	assert.Equal(t, "Nota no encontrada", Message(displayErr{"Nota no encontrada"}, "fallback"))
	assert.Equal(t, "fallback", Message(displayErr{""}, "fallback"))

	wrapped := fmt.Errorf("diary: %w", displayErr{"detail"})
	assert.Equal(t, "detail", Message(wrapped, "fallback"))

	de := NewDomainError("diary", "CreateNote", ErrValidation, "note text is required")
	assert.Equal(t, "note text is required", Message(de, "fallback"))
}

func TestDomainError_Is(t *testing.T) {
	err := WrapError("auth", "Login", ErrUnauthorized, "bad credentials", errors.New("401"))

	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, "auth.Login: bad credentials: 401", err.Error())

	timeout := WrapError("diary", "FetchNotes", ErrTimeout, "timed out", nil)
	assert.True(t, IsTransport(timeout))
	assert.False(t, IsNotFound(timeout))
}

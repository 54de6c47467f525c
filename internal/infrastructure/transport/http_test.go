package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/shared"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := DefaultClientConfig(srv.URL + "/")
	cfg.Timeout = 2 * time.Second
	return NewClient(cfg), srv
}

func TestClient_GetDecodesAndSendsHeaders(t *testing.T) {
	var gotAuth, gotReqID, gotPath string

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		gotPath = r.URL.RequestURI()
		_, _ = w.Write([]byte(`{"data":[1,2]}`))
	})
	c.SetTokenSource(TokenSourceFunc(func() string { return "tok" }))

	var out struct {
		Data []int `json:"data"`
	}
	require.NoError(t, c.Get(context.Background(), "/likes/u1?x=1", &out))

	assert.Equal(t, []int{1, 2}, out.Data)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.NotEmpty(t, gotReqID)
	assert.Equal(t, "/likes/u1?x=1", gotPath)
}

func TestClient_PostSendsJSONBody(t *testing.T) {
	var received map[string]any

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &received)
		w.WriteHeader(http.StatusCreated)
	})

	err := c.Post(context.Background(), "/notas", map[string]string{"nota": "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "x", received["nota"])
}

func TestClient_RejectionWithDetail(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Nota no encontrada"}`))
	})

	err := c.Delete(context.Background(), "/notas/5?user_id=u1", nil)

	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusNotFound, te.Status)
	assert.Equal(t, "Nota no encontrada", te.Message)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, "Nota no encontrada", shared.Message(err, "fallback"))
}

func TestClient_RejectionWithFieldErrors(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"msg":"field required"},{"msg":"too long"}]}`))
	})

	err := c.Put(context.Background(), "/citas/1", map[string]string{}, nil)

	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Equal(t, "field required; too long", shared.Message(err, "fallback"))
}

func TestClient_RejectionWithoutBodyUsesFallback(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.Get(context.Background(), "/citas/todas", nil)

	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
	assert.ErrorIs(t, err, shared.ErrUnknown)
	assert.Equal(t, "Error al cargar", shared.Message(err, "Error al cargar"))
}

func TestClient_UnauthorizedHook(t *testing.T) {
	var calls atomic.Int32

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Token expirado"}`))
	})
	c.OnUnauthorized(func(ctx context.Context) { calls.Add(1) })

	err := c.Get(context.Background(), "/psychologist/students", nil)

	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(DefaultClientConfig(url))
	err := c.Get(context.Background(), "/notas/u1", nil)

	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 0, te.Status)
	assert.ErrorIs(t, err, shared.ErrNetwork)
	assert.Equal(t, MsgConnection, shared.Message(err, "fallback"))
}

func TestClient_Timeout(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.Get(ctx, "/recomendaciones/todas", nil)

	assert.ErrorIs(t, err, shared.ErrTimeout)
	assert.True(t, shared.IsTransport(err))
}

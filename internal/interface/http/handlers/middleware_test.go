package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) *RegistrarAuth {
	t.Helper()

	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	return NewRegistrarAuth(map[string]string{"registrar": hash})
}

func TestRegistrarAuth_Verify(t *testing.T) {
	auth := newTestAuth(t)

	assert.True(t, auth.Verify("registrar", "correct horse battery staple"))
	assert.False(t, auth.Verify("registrar", "wrong password"))
	assert.False(t, auth.Verify("nobody", "correct horse battery staple"))
	assert.False(t, auth.Verify("", ""))
}

func TestRegistrarAuth_AddRemoveUser(t *testing.T) {
	auth := newTestAuth(t)

	hash, err := HashPassword("second password")
	require.NoError(t, err)

	auth.AddUser("assistant", hash)
	assert.True(t, auth.Verify("assistant", "second password"))

	auth.RemoveUser("assistant")
	assert.False(t, auth.Verify("assistant", "second password"))
}

func TestRegistrarAuth_Middleware(t *testing.T) {
	auth := newTestAuth(t)

	var seenUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, _ = RegistrarFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	protected := auth.Middleware(next)

	t.Run("valid credentials pass through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/students", nil)
		req.SetBasicAuth("registrar", "correct horse battery staple")
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "registrar", seenUser)
	})

	t.Run("missing credentials are rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/students", nil)
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/students", nil)
		req.SetBasicAuth("registrar", "guess")
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestChain_AppliesMiddlewareInOrder(t *testing.T) {
	var order []string

	mw := func(name string) MiddlewareFunc {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := ChainHandler(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}),
		mw("outer"), mw("inner"),
	)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	handler := SecurityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Frame-Options"))
}

// Package handlers contains HTTP handler interfaces and implementations.
package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRAR AUTHENTICATION
// ══════════════════════════════════════════════════════════════════════════════

// RegistrarAuth authenticates registrar staff with HTTP Basic credentials.
// Passwords are stored as bcrypt hashes; plaintext never touches disk.
type RegistrarAuth struct {
	mu          sync.RWMutex
	credentials map[string]string // username -> bcrypt hash
}

// NewRegistrarAuth creates a new registrar authenticator from a map of
// usernames to bcrypt password hashes.
func NewRegistrarAuth(credentials map[string]string) *RegistrarAuth {
	creds := make(map[string]string, len(credentials))
	for user, hash := range credentials {
		if user != "" && hash != "" {
			creds[user] = hash
		}
	}

	return &RegistrarAuth{credentials: creds}
}

// AddUser adds or replaces a registrar's bcrypt hash.
func (a *RegistrarAuth) AddUser(username, hash string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.credentials[username] = hash
}

// RemoveUser removes a registrar.
func (a *RegistrarAuth) RemoveUser(username string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.credentials, username)
}

// Verify checks a username/password pair against the stored hash.
func (a *RegistrarAuth) Verify(username, password string) bool {
	a.mu.RLock()
	hash, ok := a.credentials[username]
	a.mu.RUnlock()

	if !ok {
		// Burn a comparison anyway so missing and wrong usernames
		// take the same time.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash is a bcrypt hash of an unguessable throwaway value, used to
// equalize timing for unknown usernames.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("records-hub-dummy"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()

// HashPassword produces a bcrypt hash for storing registrar credentials.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Middleware returns an HTTP middleware that enforces registrar authentication.
func (a *RegistrarAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="records-hub registrar"`)
			http.Error(w, `{"error":"unauthorized","message":"Registrar credentials required"}`, http.StatusUnauthorized)
			return
		}

		if !a.Verify(username, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="records-hub registrar"`)
			http.Error(w, `{"error":"invalid_credentials","message":"Invalid registrar credentials"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyRegistrar, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// TIMEOUT MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// TimeoutMiddleware adds a timeout to request contexts.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			done := make(chan struct{})

			go func() {
				next.ServeHTTP(w, r.WithContext(ctx))
				close(done)
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if ctx.Err() == context.DeadlineExceeded {
					http.Error(w, `{"error":"timeout","message":"Request timeout exceeded"}`, http.StatusGatewayTimeout)
				}
			}
		})
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SECURITY HEADERS MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// SecurityHeadersMiddleware adds security-related headers.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		next.ServeHTTP(w, r)
	})
}

// NoCacheMiddleware prevents caching of responses.
func NoCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST SIZE LIMIT MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// RequestSizeLimitMiddleware limits the size of request bodies.
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, `{"error":"payload_too_large","message":"Request body too large"}`,
					http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTEXT KEYS
// ══════════════════════════════════════════════════════════════════════════════

// ContextKey is a type for context keys.
type ContextKey string

const (
	// ContextKeyRegistrar is the context key for the authenticated registrar.
	ContextKeyRegistrar ContextKey = "registrar"
)

// RegistrarFromContext returns the authenticated registrar's username.
func RegistrarFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(ContextKeyRegistrar).(string)
	return username, ok
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE CHAIN BUILDER
// ══════════════════════════════════════════════════════════════════════════════

// MiddlewareFunc is a function that wraps an http.Handler.
type MiddlewareFunc func(http.Handler) http.Handler

// Chain chains multiple middleware functions.
func Chain(middlewares ...MiddlewareFunc) MiddlewareFunc {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// ChainHandler chains middleware and wraps a final handler.
func ChainHandler(handler http.Handler, middlewares ...MiddlewareFunc) http.Handler {
	return Chain(middlewares...)(handler)
}

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsingh-rishi/voice-scribe/store"
)

const testJWTSecret = "test-secret"

func signToken(t *testing.T, secret, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newJWTServer(t *testing.T, st store.Store) *Server {
	t.Helper()
	if st == nil {
		st = store.NewMemoryStore()
	}
	return New(Config{AllowedOrigins: "*", JWTSecret: testJWTSecret}, nil, st, &fakeTranscriber{})
}

func TestJWTModeAcceptsValidToken(t *testing.T) {
	st := store.NewMemoryStore()
	_, err := st.Create(context.Background(), "user-from-token", "hello", "audio/wav")
	require.NoError(t, err)

	srv := newJWTServer(t, st)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testJWTSecret, "user-from-token"))
	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJWTModeIgnoresIdentityHeader(t *testing.T) {
	srv := newJWTServer(t, nil)

	// A forged header alone is no longer enough once verification is on.
	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("x-user-id", "forged-user")
	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTModeRejectsBadSignature(t *testing.T) {
	srv := newJWTServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong-secret", "user-1"))
	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTModeRejectsTokenWithoutSubject(t *testing.T) {
	srv := newJWTServer(t, nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHeaderModeTrustsIdentityHeader(t *testing.T) {
	srv := newTestServer(t, &fakeTranscriber{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("x-user-id", "any-user")
	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

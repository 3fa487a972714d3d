package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"databazar/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.SupabaseConfig{
		URL:     srv.URL,
		AnonKey: "test-anon-key",
		Timeout: 2 * time.Second,
	}, testLogger())
}

func TestVerifyToken_Valid(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "test-anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer good-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"b6a4f882-8f9c-4c2a-9b1e-000000000001","email":"user@example.com"}`))
	})

	user, err := client.VerifyToken(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "b6a4f882-8f9c-4c2a-9b1e-000000000001", user.ID)
	assert.Equal(t, "user@example.com", user.Email)
}

func TestVerifyToken_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid JWT"}`))
	})

	_, err := client.VerifyToken(context.Background(), "expired-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_EmptyToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be made for an empty token")
	})

	_, err := client.VerifyToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_MissingUserID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.VerifyToken(context.Background(), "weird-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force connection refused

	client := NewClient(config.SupabaseConfig{
		URL:     srv.URL,
		AnonKey: "k",
		Timeout: time.Second,
	}, testLogger())

	_, err := client.VerifyToken(context.Background(), "token")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{"valid bearer", "Bearer abc123", "abc123", true},
		{"missing header", "", "", false},
		{"wrong scheme", "Basic abc123", "", false},
		{"bearer with empty token", "Bearer ", "", false},
		{"bare token without scheme", "abc123", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/datasets", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			token, ok := BearerToken(r)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, token)
		})
	}
}

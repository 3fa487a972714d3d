package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"databazar/internal/config"
)

// ErrInvalidToken means the bearer credential was rejected by the auth
// provider (missing, malformed, or expired).
var ErrInvalidToken = errors.New("invalid or expired token")

// User is the authenticated subject returned by the auth provider
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Client verifies bearer credentials against the hosted auth provider
// (Supabase GoTrue). It is constructed once at process start and shared
// across requests.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an auth client for the configured Supabase project
func NewClient(cfg config.SupabaseConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		anonKey: cfg.AnonKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With(slog.String("component", "auth")),
	}
}

// VerifyToken validates an access token and returns the user it belongs to.
// Any rejection by the provider maps to ErrInvalidToken; transport failures
// are returned as-is so callers can log them distinctly.
func (c *Client) VerifyToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "auth provider request failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)),
		)
		return nil, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.logger.WarnContext(ctx, "token rejected by auth provider",
			slog.Int("status", resp.StatusCode),
		)
		return nil, ErrInvalidToken
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	if user.ID == "" {
		return nil, ErrInvalidToken
	}

	return &user, nil
}

// BearerToken extracts the bearer credential from a request's Authorization
// header. The second return is false when the header is absent or malformed.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return "", false
	}
	return token, true
}

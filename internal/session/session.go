// Package session owns the signed-in user's tokens, profile and theme.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quotedesk/quotedesk/internal/api"
	"github.com/quotedesk/quotedesk/internal/localstore"
	"github.com/quotedesk/quotedesk/internal/logging"
	"github.com/quotedesk/quotedesk/internal/quote"
)

// ErrNotAuthenticated is returned when an operation needs an access token.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthClient is the part of the backend the session talks to.
type AuthClient interface {
	Login(ctx context.Context, cred api.Credentials) (json.RawMessage, error)
	Register(ctx context.Context, reg api.Registration) (json.RawMessage, error)
	Profile(ctx context.Context) (quote.User, error)
	Logout(ctx context.Context, refresh string) error
}

// Session is a point-in-time copy of the session state.
type Session struct {
	AccessToken     string
	RefreshToken    string
	User            *quote.User
	IsAuthenticated bool
}

// Manager holds the token pair and current user and keeps them in sync with
// the local store. It implements api.TokenSource.
type Manager struct {
	mu      sync.RWMutex
	store   localstore.Store
	auth    AuthClient
	access  string
	refresh string
	user    *quote.User
	dark    bool
	logger  logging.Logger
}

var _ api.TokenSource = (*Manager)(nil)

// New creates a manager and restores persisted tokens and theme from store.
func New(ctx context.Context, store localstore.Store) (*Manager, error) {
	m := &Manager{store: store, logger: logging.With("component", "session")}
	if err := m.restore(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Bind sets the backend client used by Login, Register, FetchProfile and Logout.
func (m *Manager) Bind(auth AuthClient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auth = auth
}

func (m *Manager) restore(ctx context.Context) error {
	access, err := localstore.GetOr(ctx, m.store, localstore.KeyAccessToken, "")
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	refresh, err := localstore.GetOr(ctx, m.store, localstore.KeyRefreshToken, "")
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	dark, err := localstore.GetOr(ctx, m.store, localstore.KeyDarkMode, "false")
	if err != nil {
		return fmt.Errorf("restore theme: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh, m.dark = access, refresh, dark == "true"
	return nil
}

func (m *Manager) client() (AuthClient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.auth == nil {
		return nil, errors.New("session: no backend client bound")
	}
	return m.auth, nil
}

// AccessToken returns the current access token.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access
}

// RefreshToken returns the current refresh token.
func (m *Manager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refresh
}

// IsAuthenticated reports whether an access token is held.
func (m *Manager) IsAuthenticated() bool {
	return m.AccessToken() != ""
}

// User returns a copy of the current user, or nil.
func (m *Manager) User() *quote.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Snapshot returns a copy of the session.
func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Session{AccessToken: m.access, RefreshToken: m.refresh, IsAuthenticated: m.access != ""}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

// setTokens persists and applies a token pair under one lock so readers
// never observe a half-updated session.
func (m *Manager) setTokens(ctx context.Context, access, refresh string, user *quote.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	values := map[string]string{localstore.KeyAccessToken: access}
	if refresh != "" {
		values[localstore.KeyRefreshToken] = refresh
	}
	if err := m.store.SetMany(ctx, values); err != nil {
		return fmt.Errorf("persist tokens: %w", err)
	}
	m.access = access
	if refresh != "" {
		m.refresh = refresh
	}
	if user != nil {
		u := *user
		m.user = &u
	}
	return nil
}

// RotateTokens stores a refreshed access token and an optional new refresh token.
func (m *Manager) RotateTokens(ctx context.Context, access, refresh string) error {
	return m.setTokens(ctx, access, refresh, nil)
}

// Expire clears the session after an unrecoverable authorization failure.
func (m *Manager) Expire(ctx context.Context) {
	m.logger.Warn("session expired")
	if err := m.Clear(ctx); err != nil {
		m.logger.Error("failed to clear expired session", "error", err)
	}
}

// Clear drops tokens and user from memory and the store. The theme is kept.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh, m.user = "", "", nil
	if err := m.store.Delete(ctx, localstore.KeyAccessToken, localstore.KeyRefreshToken); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// apply stores the tokens of resp and resolves the user, fetching the
// profile when the reply carried tokens but no user.
func (m *Manager) apply(ctx context.Context, resp AuthResponse) (quote.User, error) {
	m.logger.Debug("auth response", "shape", resp.Shape.String())
	if !resp.HasTokens() {
		if resp.User != nil {
			return *resp.User, nil
		}
		return quote.User{}, ErrUnknownAuthResponse
	}
	if err := m.setTokens(ctx, resp.Access, resp.Refresh, resp.User); err != nil {
		return quote.User{}, err
	}
	if resp.User != nil {
		return *resp.User, nil
	}
	return m.FetchProfile(ctx)
}

// Login authenticates with the backend. On failure the session is unchanged.
func (m *Manager) Login(ctx context.Context, cred api.Credentials) (quote.User, error) {
	c, err := m.client()
	if err != nil {
		return quote.User{}, err
	}
	raw, err := c.Login(ctx, cred)
	if err != nil {
		return quote.User{}, err
	}
	resp, err := ParseAuthResponse(raw)
	if err != nil {
		return quote.User{}, err
	}
	user, err := m.apply(ctx, resp)
	if err != nil {
		return quote.User{}, err
	}
	m.logger.Info("logged in", "username", user.Username)
	return user, nil
}

// Register creates an account. Replies carrying tokens sign the user in;
// user-only replies leave the session unchanged.
func (m *Manager) Register(ctx context.Context, reg api.Registration) (quote.User, AuthResponse, error) {
	c, err := m.client()
	if err != nil {
		return quote.User{}, AuthResponse{}, err
	}
	raw, err := c.Register(ctx, reg)
	if err != nil {
		return quote.User{}, AuthResponse{}, err
	}
	resp, err := ParseAuthResponse(raw)
	if err != nil {
		return quote.User{}, AuthResponse{}, err
	}
	user, err := m.apply(ctx, resp)
	return user, resp, err
}

// FetchProfile reloads the current user. Any failure clears the whole session.
func (m *Manager) FetchProfile(ctx context.Context) (quote.User, error) {
	c, err := m.client()
	if err != nil {
		return quote.User{}, err
	}
	if !m.IsAuthenticated() {
		_ = m.Clear(ctx)
		return quote.User{}, ErrNotAuthenticated
	}
	user, err := c.Profile(ctx)
	if err != nil {
		if cerr := m.Clear(ctx); cerr != nil {
			m.logger.Error("failed to clear session", "error", cerr)
		}
		return quote.User{}, fmt.Errorf("fetch profile: %w", err)
	}
	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
	return user, nil
}

// Logout tells the backend to drop the refresh token, then clears the
// session. A backend failure is logged and does not stop the local cleanup.
func (m *Manager) Logout(ctx context.Context) error {
	if refresh := m.RefreshToken(); refresh != "" {
		if c, err := m.client(); err == nil {
			if err := c.Logout(ctx, refresh); err != nil {
				m.logger.Warn("backend logout failed", "error", err)
			}
		}
	}
	return m.Clear(ctx)
}

// AccessExpiry decodes the exp claim of the access token without verifying
// its signature. ok is false when there is no token or no exp claim.
func (m *Manager) AccessExpiry() (exp time.Time, ok bool) {
	token := m.AccessToken()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// NeedsRefresh reports whether the access token expires within skew.
func (m *Manager) NeedsRefresh(skew time.Duration) bool {
	exp, ok := m.AccessExpiry()
	if !ok {
		return false
	}
	return time.Until(exp) < skew
}

// Package auth keeps the signed in user's token pair.
//
// A Session is created explicitly by the caller, loaded from a Store at
// startup and handed to the API client. Login persists the pair, a refresh
// replaces the access token and Logout clears the store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"simulador/pkg/models"
)

var (
	// ErrNoSession is returned by stores holding no token pair.
	ErrNoSession = errors.New("no stored session")

	// ErrNotLoggedIn is returned when an operation needs a signed in user.
	ErrNotLoggedIn = errors.New("not logged in")
)

// State is the persisted part of a session.
type State struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	LoggedInAt   time.Time   `json:"logged_in_at"`
}

// Store persists session state between runs.
type Store interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state State) error
	Clear(ctx context.Context) error
}

// Session is the token pair of the signed in user. It is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	store Store
	state *State
	now   func() time.Time
}

// NewSession creates a signed out session backed by store.
func NewSession(store Store) *Session {
	return &Session{store: store, now: time.Now}
}

// Restore loads the stored state. A missing state leaves the session signed out.
func (s *Session) Restore(ctx context.Context) error {
	state, err := s.store.Load(ctx)
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return nil
}

// Login stores a new token pair.
func (s *Session) Login(ctx context.Context, login models.Login) error {
	if login.Token == "" {
		return fmt.Errorf("login: empty access token")
	}

	state := State{
		User:         login.User,
		AccessToken:  login.Token,
		RefreshToken: login.RefreshToken,
		LoggedInAt:   s.now(),
	}
	if err := s.store.Save(ctx, state); err != nil {
		return fmt.Errorf("login: save session: %w", err)
	}

	s.mu.Lock()
	s.state = &state
	s.mu.Unlock()
	return nil
}

// Logout forgets the token pair.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.state = nil
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: clear session: %w", err)
	}
	return nil
}

// UpdateAccessToken replaces the access token after a refresh.
func (s *Session) UpdateAccessToken(ctx context.Context, token string) error {
	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return ErrNotLoggedIn
	}
	s.state.AccessToken = token
	state := *s.state
	s.mu.Unlock()

	if err := s.store.Save(ctx, state); err != nil {
		return fmt.Errorf("update access token: %w", err)
	}
	return nil
}

// LoggedIn reports whether a token pair is present.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state != nil && s.state.AccessToken != ""
}

// AccessToken returns the current access token or "".
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return ""
	}
	return s.state.AccessToken
}

// RefreshToken returns the current refresh token or "".
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return ""
	}
	return s.state.RefreshToken
}

// User returns the signed in user.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return models.User{}, false
	}
	return s.state.User, true
}

// AccessTokenExpiry reads the exp claim of the access token without
// verifying its signature; the server remains the authority.
func (s *Session) AccessTokenExpiry() (time.Time, bool) {
	token := s.AccessToken()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// NeedsRefresh reports whether the access token expires within skew.
// Tokens without a readable expiry never need a proactive refresh.
func (s *Session) NeedsRefresh(skew time.Duration) bool {
	if s.RefreshToken() == "" {
		return false
	}
	exp, ok := s.AccessTokenExpiry()
	if !ok {
		return false
	}
	return s.now().Add(skew).After(exp)
}

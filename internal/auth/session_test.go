package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"simulador/pkg/models"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	if _, err := store.Load(ctx); err != ErrNoSession {
		t.Fatalf("Load on missing file = %v, want ErrNoSession", err)
	}

	state := State{
		User:         models.User{Name: "Ana", Email: "ana@example.com"},
		AccessToken:  "access",
		RefreshToken: "refresh",
		LoggedInAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("session file mode = %o, want 600", perm)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.User != state.User || got.AccessToken != state.AccessToken ||
		got.RefreshToken != state.RefreshToken || !got.LoggedInAt.Equal(state.LoggedInAt) {
		t.Fatalf("Load() = %+v, want %+v", *got, state)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	if _, err := store.Load(ctx); err != ErrNoSession {
		t.Fatalf("Load after Clear = %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	s := NewSession(store)
	if err := s.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.LoggedIn() {
		t.Fatal("new session should be signed out")
	}

	err := s.Login(ctx, models.Login{
		User:         models.User{Name: "Ana", Email: "ana@example.com"},
		Token:        "access-1",
		RefreshToken: "refresh-1",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !s.LoggedIn() || s.AccessToken() != "access-1" || s.RefreshToken() != "refresh-1" {
		t.Fatalf("unexpected tokens after login")
	}

	if err := s.UpdateAccessToken(ctx, "access-2"); err != nil {
		t.Fatalf("UpdateAccessToken: %v", err)
	}

	restored := NewSession(store)
	if err := restored.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.AccessToken() != "access-2" {
		t.Fatalf("restored access token = %q", restored.AccessToken())
	}
	if u, ok := restored.User(); !ok || u.Email != "ana@example.com" {
		t.Fatalf("restored user = %+v", u)
	}

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.LoggedIn() {
		t.Fatal("session should be signed out")
	}
	if err := s.UpdateAccessToken(ctx, "x"); err != ErrNotLoggedIn {
		t.Fatalf("UpdateAccessToken after logout = %v", err)
	}
	if err := s.Login(ctx, models.Login{}); err == nil {
		t.Fatal("login without token should fail")
	}
}

func TestNeedsRefresh(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		access  string
		refresh string
		want    bool
	}{
		{"valid for an hour", signedToken(t, now.Add(time.Hour)), "r", false},
		{"expires within skew", signedToken(t, now.Add(10*time.Second)), "r", true},
		{"already expired", signedToken(t, now.Add(-time.Minute)), "r", true},
		{"opaque token", "not-a-jwt", "r", false},
		{"no refresh token", signedToken(t, now.Add(-time.Minute)), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(NewFileStore(filepath.Join(t.TempDir(), "s.json")))
			s.now = func() time.Time { return now }
			if err := s.Login(ctx, models.Login{Token: tt.access, RefreshToken: tt.refresh}); err != nil {
				t.Fatalf("Login: %v", err)
			}
			if got := s.NeedsRefresh(30 * time.Second); got != tt.want {
				t.Fatalf("NeedsRefresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager("test-secret", 15*time.Minute, 7*24*time.Hour, 7*24*time.Hour)
}

func TestTokenManager_AccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tm := newTestTokenManager()

	token, err := tm.GenerateAccessToken(42, "user@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := tm.Verify(token, ScopeAccess)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID mismatch: got %d, want 42", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email mismatch: got %q", claims.Email)
	}
	if claims.Scope != ScopeAccess {
		t.Errorf("Scope mismatch: got %q", claims.Scope)
	}
	if claims.ID == "" {
		t.Error("expected a token id (jti) to be set")
	}
}

func TestTokenManager_ScopeEnforced(t *testing.T) {
	t.Parallel()

	tm := newTestTokenManager()

	refresh, err := tm.GenerateRefreshToken(1, "user@example.com")
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	// A refresh token must not pass as an access token, and vice versa.
	if _, err := tm.Verify(refresh, ScopeAccess); !errors.Is(err, ErrWrongScope) {
		t.Errorf("expected ErrWrongScope, got: %v", err)
	}

	access, err := tm.GenerateAccessToken(1, "user@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if _, err := tm.Verify(access, ScopeRefresh); !errors.Is(err, ErrWrongScope) {
		t.Errorf("expected ErrWrongScope, got: %v", err)
	}

	if _, err := tm.Verify(refresh, ScopeRefresh); err != nil {
		t.Errorf("refresh token should verify under its own scope: %v", err)
	}
}

func TestTokenManager_EmailTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tm := newTestTokenManager()

	token, err := tm.GenerateEmailToken(7, "confirm@example.com")
	if err != nil {
		t.Fatalf("GenerateEmailToken failed: %v", err)
	}

	claims, err := tm.Verify(token, ScopeEmail)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Email != "confirm@example.com" {
		t.Errorf("Email mismatch: got %q", claims.Email)
	}
}

func TestTokenManager_WrongSecret(t *testing.T) {
	t.Parallel()

	tm := newTestTokenManager()
	other := NewTokenManager("another-secret", 15*time.Minute, time.Hour, time.Hour)

	token, err := tm.GenerateAccessToken(1, "user@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := other.Verify(token, ScopeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got: %v", err)
	}
}

func TestTokenManager_Expired(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("test-secret", -time.Minute, -time.Minute, -time.Minute)

	token, err := tm.GenerateAccessToken(1, "user@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := tm.Verify(token, ScopeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got: %v", err)
	}
}

func TestTokenManager_Garbage(t *testing.T) {
	t.Parallel()

	tm := newTestTokenManager()

	for _, input := range []string{"", "garbage", "a.b.c"} {
		if _, err := tm.Verify(input, ScopeAccess); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got: %v", input, err)
		}
	}
}

func TestTokenManager_UniqueTokenIDs(t *testing.T) {
	t.Parallel()

	tm := newTestTokenManager()

	t1, err := tm.GenerateAccessToken(1, "user@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	t2, err := tm.GenerateAccessToken(1, "user@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	c1, err := tm.Verify(t1, ScopeAccess)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	c2, err := tm.Verify(t2, ScopeAccess)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if c1.ID == c2.ID {
		t.Error("two tokens for the same user should carry distinct ids")
	}
}

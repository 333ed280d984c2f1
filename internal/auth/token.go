package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// Token scopes distinguish the three token kinds issued by the service.
const (
	ScopeAccess  = "access_token"
	ScopeRefresh = "refresh_token"
	ScopeEmail   = "email_token"
)

var (
	// ErrInvalidToken indicates the token failed signature or structural checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongScope indicates a token of one kind was presented where
	// another was expected (e.g. a refresh token on an API route).
	ErrWrongScope = errors.New("token has wrong scope")
)

// Claims are the JWT claims carried by every issued token.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	Scope  string `json:"scope"`
}

// TokenManager issues and verifies HS256-signed JWTs.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	emailTTL   time.Duration
}

// NewTokenManager creates a TokenManager with the given signing secret and
// per-scope lifetimes.
func NewTokenManager(secret string, accessTTL, refreshTTL, emailTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		emailTTL:   emailTTL,
	}
}

// GenerateAccessToken issues a short-lived token for API access.
func (m *TokenManager) GenerateAccessToken(userID int64, email string) (string, error) {
	return m.generate(userID, email, ScopeAccess, m.accessTTL)
}

// GenerateRefreshToken issues a long-lived token used only to obtain a new
// token pair.
func (m *TokenManager) GenerateRefreshToken(userID int64, email string) (string, error) {
	return m.generate(userID, email, ScopeRefresh, m.refreshTTL)
}

// GenerateEmailToken issues a token embedded in confirmation-email links.
func (m *TokenManager) GenerateEmailToken(userID int64, email string) (string, error) {
	return m.generate(userID, email, ScopeEmail, m.emailTTL)
}

func (m *TokenManager) generate(userID int64, email, scope string, ttl time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Email:  email,
		Scope:  scope,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify parses the token, checks the signature and expiry, and ensures it
// carries the expected scope.
func (m *TokenManager) Verify(tokenString, expectedScope string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Scope != expectedScope {
		return nil, ErrWrongScope
	}

	return claims, nil
}

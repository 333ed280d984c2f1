// Package service provides business logic between handlers and the
// repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/contactly/contactly/internal/auth"
	"github.com/contactly/contactly/internal/avatar"
	"github.com/contactly/contactly/internal/mailer"
	"github.com/contactly/contactly/internal/metrics"
	"github.com/contactly/contactly/internal/model"
	"github.com/contactly/contactly/internal/repository"
)

// Service errors.
var (
	ErrEmailTaken         = errors.New("account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)

// UserStore is the subset of the repository the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateRefreshToken(ctx context.Context, userID int64, token *string) error
	ConfirmEmail(ctx context.Context, email string) error
}

// UserCache caches resolved users for the auth middleware.
type UserCache interface {
	GetUser(ctx context.Context, userID int64) (*model.User, error)
	SetUser(ctx context.Context, user *model.User) error
	InvalidateUser(ctx context.Context, userID int64) error
}

// AuthService implements registration, login, token refresh and email
// confirmation.
type AuthService struct {
	store   UserStore
	cache   UserCache
	tokens  *auth.TokenManager
	mail    mailer.Sender
	metrics metrics.Recorder
	logger  *slog.Logger
	baseURL string
}

// NewAuthService creates an AuthService.
func NewAuthService(store UserStore, cache UserCache, tokens *auth.TokenManager, mail mailer.Sender, recorder metrics.Recorder, logger *slog.Logger, baseURL string) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		store:   store,
		cache:   cache,
		tokens:  tokens,
		mail:    mail,
		metrics: recorder,
		logger:  logger,
		baseURL: baseURL,
	}
}

// Signup registers a new account. The default avatar lookup and the
// confirmation mail are both best-effort: their failures are logged and
// swallowed, never failing the registration itself.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*model.User, error) {
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup existing user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: hash,
	}

	if url, err := avatar.LookupGravatar(ctx, email); err != nil {
		s.logger.Warn("default avatar lookup failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
	} else {
		user.Avatar = &url
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.metrics.IncUserRegistered()
	s.sendConfirmation(ctx, user)

	return user, nil
}

// Login verifies the credentials and issues a token pair. The refresh token
// is persisted so it can be matched on refresh.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.TokenPair, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginFailure()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := auth.VerifyPassword(password, user.Password)
	if err != nil || !match {
		s.metrics.IncLoginFailure()
		return nil, ErrInvalidCredentials
	}

	if !user.Confirmed {
		s.metrics.IncLoginFailure()
		return nil, ErrEmailNotConfirmed
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.metrics.IncLoginSuccess()
	return pair, nil
}

// Refresh validates a refresh token and rotates the pair. A presented token
// that does not match the stored one invalidates the session entirely.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken, auth.ScopeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		// Stolen or stale token: clear the stored one so neither copy works.
		if err := s.store.UpdateRefreshToken(ctx, user.ID, nil); err != nil {
			s.logger.Error("failed to clear refresh token",
				slog.Int64("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
		return nil, ErrInvalidToken
	}

	return s.issuePair(ctx, user)
}

// ConfirmEmail validates an email token and marks the account confirmed.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token, auth.ScopeEmail)
	if err != nil {
		return ErrInvalidToken
	}

	if err := s.store.ConfirmEmail(ctx, claims.Email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	_ = s.cache.InvalidateUser(ctx, claims.UserID)
	return nil
}

// RequestEmail re-sends the confirmation mail. Unknown addresses and
// already-confirmed accounts are silently ignored so the endpoint cannot be
// used to enumerate accounts.
func (s *AuthService) RequestEmail(ctx context.Context, email string) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil || user.Confirmed {
		return
	}
	s.sendConfirmation(ctx, user)
}

// ResolveUser resolves a bearer access token to its user, using the cache
// to avoid a database round trip per request.
func (s *AuthService) ResolveUser(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := s.tokens.Verify(accessToken, auth.ScopeAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if cached, err := s.cache.GetUser(ctx, claims.UserID); err == nil && cached != nil {
		return cached, nil
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	_ = s.cache.SetUser(ctx, user)
	return user, nil
}

func (s *AuthService) issuePair(ctx context.Context, user *model.User) (*model.TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.store.UpdateRefreshToken(ctx, user.ID, &refresh); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (s *AuthService) sendConfirmation(ctx context.Context, user *model.User) {
	token, err := s.tokens.GenerateEmailToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to generate email token",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	confirmURL := fmt.Sprintf("%s/api/auth/confirmed_email/%s", s.baseURL, token)
	if err := s.mail.SendConfirmation(ctx, user.Email, user.Username, confirmURL); err != nil {
		s.logger.Warn("failed to send confirmation mail",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}
}

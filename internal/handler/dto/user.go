package dto

import (
	"time"

	"github.com/contactly/contactly/internal/model"
)

// SignupRequest represents the request body for registration.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks signup field constraints.
func (r SignupRequest) Validate() error {
	if len(r.Username) < MinUsernameLength || len(r.Username) > MaxUsernameLength {
		return ErrUsernameLength
	}
	if !ValidEmail(r.Email) {
		return ErrEmailInvalid
	}
	if len(r.Password) < MinPasswordLength || len(r.Password) > MaxPasswordLength {
		return ErrPasswordLength
	}
	return nil
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RequestEmailRequest asks for the confirmation mail to be re-sent.
type RequestEmailRequest struct {
	Email string `json:"email"`
}

// UserResponse represents a user profile in API responses.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar,omitempty"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserResponse converts a user model to its API representation.
func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Confirmed: u.Confirmed,
		CreatedAt: u.CreatedAt,
	}
}

// SignupResponse wraps the created user with a confirmation hint.
type SignupResponse struct {
	User   UserResponse `json:"user"`
	Detail string       `json:"detail"`
}

// TokenResponse carries an issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// ToTokenResponse converts a token pair to its API representation.
func ToTokenResponse(pair *model.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	}
}

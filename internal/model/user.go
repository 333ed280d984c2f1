// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account that owns contacts.
// Password holds the argon2id PHC string, never the plaintext.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Password     string    `json:"-"`
	RefreshToken *string   `json:"-"`
	Avatar       *string   `json:"avatar,omitempty"`
	Confirmed    bool      `json:"confirmed"`
	CreatedAt    time.Time `json:"created_at"`
}

// TokenPair carries the access and refresh tokens issued on login/refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Package dto provides Data Transfer Objects for API requests and
// responses, including the field validation applied at the API boundary
// before anything reaches the repository.
package dto

import (
	"errors"
	"regexp"
)

// Field constraints.
const (
	MaxNameLength     = 25
	MaxPhoneLength    = 13
	MinUsernameLength = 5
	MaxUsernameLength = 16
	MinPasswordLength = 8
	MaxPasswordLength = 20
)

// Validation errors.
var (
	ErrFirstNameRequired = errors.New("first_name is required")
	ErrFirstNameTooLong  = errors.New("first_name exceeds 25 characters")
	ErrLastNameRequired  = errors.New("last_name is required")
	ErrLastNameTooLong   = errors.New("last_name exceeds 25 characters")
	ErrEmailInvalid      = errors.New("email is not a valid address")
	ErrPhoneTooLong      = errors.New("phone_number exceeds 13 characters")
	ErrBirthdayInvalid   = errors.New("birthday must be a YYYY-MM-DD date")
	ErrUsernameLength    = errors.New("username must be 5-16 characters")
	ErrPasswordLength    = errors.New("password must be 8-20 characters")
)

// emailPattern is a pragmatic syntactic check, not a full RFC 5322 parser.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether the string looks like an email address.
func ValidEmail(email string) bool {
	return email != "" && len(email) <= 255 && emailPattern.MatchString(email)
}

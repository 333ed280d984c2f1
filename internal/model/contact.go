package model

import "time"

// Contact is a single address-book entry. Every contact belongs to exactly
// one user; all queries must be scoped by UserID.
type Contact struct {
	ID          int64      `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
	Birthday    *time.Time `json:"birthday,omitempty"`
	UserID      int64      `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ContactFields holds the mutable fields of a contact. PUT semantics: an
// update overwrites all of them, including clearing optional ones.
type ContactFields struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber *string
	Birthday    *time.Time
}

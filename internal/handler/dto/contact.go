package dto

import (
	"time"

	"github.com/contactly/contactly/internal/model"
)

// birthdayLayout is the wire format for calendar dates.
const birthdayLayout = "2006-01-02"

// ContactRequest represents the request body for creating or updating a
// contact. PUT shares the shape with POST: updates overwrite all fields.
type ContactRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Birthday    *string `json:"birthday,omitempty"`
}

// Fields validates the request and converts it to repository fields.
func (r ContactRequest) Fields() (model.ContactFields, error) {
	var fields model.ContactFields

	if r.FirstName == "" {
		return fields, ErrFirstNameRequired
	}
	if len(r.FirstName) > MaxNameLength {
		return fields, ErrFirstNameTooLong
	}
	if r.LastName == "" {
		return fields, ErrLastNameRequired
	}
	if len(r.LastName) > MaxNameLength {
		return fields, ErrLastNameTooLong
	}
	if !ValidEmail(r.Email) {
		return fields, ErrEmailInvalid
	}
	if r.PhoneNumber != nil && len(*r.PhoneNumber) > MaxPhoneLength {
		return fields, ErrPhoneTooLong
	}

	fields.FirstName = r.FirstName
	fields.LastName = r.LastName
	fields.Email = r.Email
	fields.PhoneNumber = r.PhoneNumber

	if r.Birthday != nil && *r.Birthday != "" {
		bday, err := time.Parse(birthdayLayout, *r.Birthday)
		if err != nil {
			return fields, ErrBirthdayInvalid
		}
		fields.Birthday = &bday
	}

	return fields, nil
}

// ContactResponse represents a contact in API responses.
type ContactResponse struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	Birthday    *string   `json:"birthday,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToContactResponse converts a contact model to its API representation.
func ToContactResponse(c *model.Contact) ContactResponse {
	resp := ContactResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		CreatedAt:   c.CreatedAt,
	}

	if c.Birthday != nil {
		bday := c.Birthday.Format(birthdayLayout)
		resp.Birthday = &bday
	}

	return resp
}

// ToContactListResponse converts a slice of contacts. An empty result is
// rendered as [] rather than null.
func ToContactListResponse(contacts []*model.Contact) []ContactResponse {
	result := make([]ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		result = append(result, ToContactResponse(c))
	}
	return result
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/contactly/contactly/internal/model"
)

// ErrContactNotFound is returned when no contact matches the given id for
// the given owner. A contact owned by another user is indistinguishable
// from a missing one.
var ErrContactNotFound = errors.New("contact not found")

// ContactFilter defines optional equality filters for searching contacts.
// Absent (empty) fields are not applied; present fields are AND-combined.
type ContactFilter struct {
	FirstName string
	LastName  string
	Email     string
}

// Empty reports whether no filter criteria are set.
func (f ContactFilter) Empty() bool {
	return f.FirstName == "" && f.LastName == "" && f.Email == ""
}

const contactColumns = `id, first_name, last_name, email, phone_number, birthday, user_id, created_at`

// CreateContact inserts a new contact and fills in the generated id and
// creation timestamp.
func (r *Repository) CreateContact(ctx context.Context, contact *model.Contact) error {
	query := `
		INSERT INTO contacts (first_name, last_name, email, phone_number, birthday, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.PhoneNumber,
		contact.Birthday,
		contact.UserID,
	).Scan(&contact.ID, &contact.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// GetContact retrieves a single contact by id, scoped to its owner.
func (r *Repository) GetContact(ctx context.Context, userID, id int64) (*model.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = $1 AND user_id = $2
	`

	contact, err := scanContact(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return contact, nil
}

// ListContacts retrieves a page of the user's contacts in insertion order.
// A skip beyond the total count yields an empty slice, not an error.
func (r *Repository) ListContacts(ctx context.Context, userID int64, skip, limit int) ([]*model.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

// UpdateContact overwrites all mutable fields of the contact matching
// id+owner. Returns ErrContactNotFound without side effects when no row
// matches.
func (r *Repository) UpdateContact(ctx context.Context, userID, id int64, fields model.ContactFields) (*model.Contact, error) {
	query := `
		UPDATE contacts
		SET first_name = $3, last_name = $4, email = $5, phone_number = $6, birthday = $7
		WHERE id = $1 AND user_id = $2
		RETURNING ` + contactColumns + `
	`

	contact, err := scanContact(r.pool.QueryRow(ctx, query, id, userID,
		fields.FirstName,
		fields.LastName,
		fields.Email,
		fields.PhoneNumber,
		fields.Birthday,
	))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	return contact, nil
}

// DeleteContact removes the contact matching id+owner and returns the
// removed record. A second delete of the same id reports ErrContactNotFound.
func (r *Repository) DeleteContact(ctx context.Context, userID, id int64) (*model.Contact, error) {
	query := `
		DELETE FROM contacts
		WHERE id = $1 AND user_id = $2
		RETURNING ` + contactColumns + `
	`

	contact, err := scanContact(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to delete contact: %w", err)
	}

	return contact, nil
}

// SearchContacts returns all of the user's contacts matching the filter.
// With an empty filter it returns every contact the user owns.
func (r *Repository) SearchContacts(ctx context.Context, userID int64, filter ContactFilter) ([]*model.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1
	`
	args := []any{userID}
	argIndex := 2

	if filter.FirstName != "" {
		query += fmt.Sprintf(" AND first_name = $%d", argIndex)
		args = append(args, filter.FirstName)
		argIndex++
	}

	if filter.LastName != "" {
		query += fmt.Sprintf(" AND last_name = $%d", argIndex)
		args = append(args, filter.LastName)
		argIndex++
	}

	if filter.Email != "" {
		query += fmt.Sprintf(" AND email = $%d", argIndex)
		args = append(args, filter.Email)
		argIndex++
	}

	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

// ContactsWithBirthdays returns the user's contacts that have a birthday
// set. Window filtering happens in the birthday package.
func (r *Repository) ContactsWithBirthdays(ctx context.Context, userID int64) ([]*model.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1 AND birthday IS NOT NULL
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts with birthdays: %w", err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

// scanContact scans a single row into a Contact model.
func scanContact(row pgx.Row) (*model.Contact, error) {
	var contact model.Contact
	err := row.Scan(
		&contact.ID,
		&contact.FirstName,
		&contact.LastName,
		&contact.Email,
		&contact.PhoneNumber,
		&contact.Birthday,
		&contact.UserID,
		&contact.CreatedAt,
	)
	return &contact, err
}

// collectContacts drains rows into a slice of contacts.
func collectContacts(rows pgx.Rows) ([]*model.Contact, error) {
	var contacts []*model.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

//go:build integration

package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/contactly/contactly/internal/model"
	"github.com/contactly/contactly/internal/testutil"
)

func TestIntegrationContactRepository_CreateAndGet(t *testing.T) {
	ctx, repo := newContactTestEnv(t)
	userID := createTestUser(t, ctx, repo, "owner@example.com")

	bday := time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC)
	phone := "+380441234567"
	contact := &model.Contact{
		FirstName:   "Olena",
		LastName:    "Shevchenko",
		Email:       "olena@example.com",
		PhoneNumber: &phone,
		Birthday:    &bday,
		UserID:      userID,
	}

	if err := repo.CreateContact(ctx, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}
	if contact.ID == 0 {
		t.Error("expected generated id to be set")
	}
	if contact.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	retrieved, err := repo.GetContact(ctx, userID, contact.ID)
	if err != nil {
		t.Fatalf("GetContact failed: %v", err)
	}

	if retrieved.FirstName != "Olena" {
		t.Errorf("FirstName mismatch: got %q", retrieved.FirstName)
	}
	if retrieved.PhoneNumber == nil || *retrieved.PhoneNumber != phone {
		t.Errorf("PhoneNumber mismatch: got %v", retrieved.PhoneNumber)
	}
	if retrieved.Birthday == nil || !retrieved.Birthday.Equal(bday) {
		t.Errorf("Birthday mismatch: got %v", retrieved.Birthday)
	}
	if retrieved.UserID != userID {
		t.Errorf("UserID mismatch: got %d, want %d", retrieved.UserID, userID)
	}
}

func TestIntegrationContactRepository_TenantIsolation(t *testing.T) {
	ctx, repo := newContactTestEnv(t)
	owner := createTestUser(t, ctx, repo, "owner@example.com")
	other := createTestUser(t, ctx, repo, "other@example.com")

	contact := newTestContact(owner, "Iryna", "Koval")
	if err := repo.CreateContact(ctx, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	// Another user must not see the contact even with a valid id.
	if _, err := repo.GetContact(ctx, other, contact.ID); !errors.Is(err, ErrContactNotFound) {
		t.Errorf("GetContact across tenants: expected ErrContactNotFound, got: %v", err)
	}

	if _, err := repo.UpdateContact(ctx, other, contact.ID, model.ContactFields{
		FirstName: "Hijacked",
		LastName:  "Hijacked",
		Email:     "hijacked@example.com",
	}); !errors.Is(err, ErrContactNotFound) {
		t.Errorf("UpdateContact across tenants: expected ErrContactNotFound, got: %v", err)
	}

	if _, err := repo.DeleteContact(ctx, other, contact.ID); !errors.Is(err, ErrContactNotFound) {
		t.Errorf("DeleteContact across tenants: expected ErrContactNotFound, got: %v", err)
	}

	list, err := repo.ListContacts(ctx, other, 0, 100)
	if err != nil {
		t.Fatalf("ListContacts failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected other user to see no contacts, got %d", len(list))
	}

	found, err := repo.SearchContacts(ctx, other, ContactFilter{FirstName: "Iryna"})
	if err != nil {
		t.Fatalf("SearchContacts failed: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("expected search across tenants to find nothing, got %d", len(found))
	}

	// The owner still sees the untouched record.
	kept, err := repo.GetContact(ctx, owner, contact.ID)
	if err != nil {
		t.Fatalf("GetContact by owner failed: %v", err)
	}
	if kept.FirstName != "Iryna" {
		t.Errorf("contact was modified across tenants: got %q", kept.FirstName)
	}
}

func TestIntegrationContactRepository_Update(t *testing.T) {
	ctx, repo := newContactTestEnv(t)
	userID := createTestUser(t, ctx, repo, "owner@example.com")

	phone := "+380991112233"
	bday := time.Date(1985, time.July, 1, 0, 0, 0, 0, time.UTC)
	contact := &model.Contact{
		FirstName:   "Petro",
		LastName:    "Bondar",
		Email:       "petro@example.com",
		PhoneNumber: &phone,
		Birthday:    &bday,
		UserID:      userID,
	}
	if err := repo.CreateContact(ctx, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	// Full overwrite clears optional fields that are absent.
	updated, err := repo.UpdateContact(ctx, userID, contact.ID, model.ContactFields{
		FirstName: "Petro",
		LastName:  "Bondarenko",
		Email:     "petro.b@example.com",
	})
	if err != nil {
		t.Fatalf("UpdateContact failed: %v", err)
	}

	if updated.LastName != "Bondarenko" {
		t.Errorf("LastName mismatch: got %q", updated.LastName)
	}
	if updated.Email != "petro.b@example.com" {
		t.Errorf("Email mismatch: got %q", updated.Email)
	}
	if updated.PhoneNumber != nil {
		t.Errorf("expected phone to be cleared, got %v", *updated.PhoneNumber)
	}
	if updated.Birthday != nil {
		t.Errorf("expected birthday to be cleared, got %v", *updated.Birthday)
	}
}

func TestIntegrationContactRepository_Update_NotFound(t *testing.T) {
	ctx, repo := newContactTestEnv(t)
	userID := createTestUser(t, ctx, repo, "owner@example.com")

	_, err := repo.UpdateContact(ctx, userID, 99999, model.ContactFields{
		FirstName: "Nobody",
		LastName:  "Here",
		Email:     "nobody@example.com",
	})
	if !errors.Is(err, ErrContactNotFound) {
		t.Errorf("expected ErrContactNotFound, got: %v", err)
	}
}

func TestIntegrationContactRepository_Delete(t *testing.T) {
	ctx, repo := newContactTestEnv(t)
	userID := createTestUser(t, ctx, repo, "owner@example.com")

	contact := newTestContact(userID, "Maria", "Tkach")
	if err := repo.CreateContact(ctx, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	removed, err := repo.DeleteContact(ctx, userID, contact.ID)
	if err != nil {
		t.Fatalf("DeleteContact failed: %v", err)
	}
	if removed.ID != contact.ID {
		t.Errorf("removed contact id mismatch: got %d, want %d", removed.ID, contact.ID)
	}

	// The record is gone and a second delete reports not found.
	if _, err := repo.GetContact(ctx, userID, contact.ID); !errors.Is(err, ErrContactNotFound) {
		t.Errorf("expected ErrContactNotFound after delete, got: %v", err)
	}
	if _, err := repo.DeleteContact(ctx, userID, contact.ID); !errors.Is(err, ErrContactNotFound) {
		t.Errorf("expected ErrContactNotFound on repeated delete, got: %v", err)
	}
}

func TestIntegrationContactRepository_Search(t *testing.T) {
	ctx, repo := newContactTestEnv(t)
	userID := createTestUser(t, ctx, repo, "owner@example.com")

	seed := []*model.Contact{
		newTestContact(userID, "Anna", "Koval"),
		newTestContact(userID, "Anna", "Melnyk"),
		newTestContact(userID, "Bohdan", "Koval"),
	}
	for _, c := range seed {
		if err := repo.CreateContact(ctx, c); err != nil {
			t.Fatalf("CreateContact failed: %v", err)
		}
	}

	byFirst, err := repo.SearchContacts(ctx, userID, ContactFilter{FirstName: "Anna"})
	if err != nil {
		t.Fatalf("SearchContacts by first name failed: %v", err)
	}
	if len(byFirst) != 2 {
		t.Errorf("expected 2 matches by first name, got %d", len(byFirst))
	}

	// Criteria combine with AND.
	both, err := repo.SearchContacts(ctx, userID, ContactFilter{FirstName: "Anna", LastName: "Koval"})
	if err != nil {
		t.Fatalf("SearchContacts by both names failed: %v", err)
	}
	if len(both) != 1 {
		t.Fatalf("expected 1 match by both names, got %d", len(both))
	}
	if both[0].LastName != "Koval" {
		t.Errorf("unexpected match: %s %s", both[0].FirstName, both[0].LastName)
	}

	none, err := repo.SearchContacts(ctx, userID, ContactFilter{FirstName: "Anna", LastName: "Absent"})
	if err != nil {
		t.Fatalf("SearchContacts with no matches failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no matches, got %d", len(none))
	}

	// An empty filter selects everything the user owns.
	all, err := repo.SearchContacts(ctx, userID, ContactFilter{})
	if err != nil {
		t.Fatalf("SearchContacts with empty filter failed: %v", err)
	}
	if len(all) != len(seed) {
		t.Errorf("expected %d contacts with empty filter, got %d", len(seed), len(all))
	}
}

func TestIntegrationContactRepository_ListPagination(t *testing.T) {
	ctx, repo := newContactTestEnv(t)
	userID := createTestUser(t, ctx, repo, "owner@example.com")

	var ids []int64
	for i := 0; i < 5; i++ {
		c := newTestContact(userID, fmt.Sprintf("Name%d", i), "Paged")
		if err := repo.CreateContact(ctx, c); err != nil {
			t.Fatalf("CreateContact failed: %v", err)
		}
		ids = append(ids, c.ID)
	}

	page, err := repo.ListContacts(ctx, userID, 0, 2)
	if err != nil {
		t.Fatalf("ListContacts failed: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 contacts on first page, got %d", len(page))
	}
	if page[0].ID != ids[0] || page[1].ID != ids[1] {
		t.Errorf("unexpected page order: got %d,%d want %d,%d", page[0].ID, page[1].ID, ids[0], ids[1])
	}

	second, err := repo.ListContacts(ctx, userID, 2, 2)
	if err != nil {
		t.Fatalf("ListContacts (second page) failed: %v", err)
	}
	if len(second) != 2 || second[0].ID != ids[2] {
		t.Errorf("unexpected second page: got %d items starting at %d", len(second), second[0].ID)
	}

	// Skipping past the end yields an empty page, not an error.
	empty, err := repo.ListContacts(ctx, userID, 100, 10)
	if err != nil {
		t.Fatalf("ListContacts past end failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty page past end, got %d", len(empty))
	}
}

func TestIntegrationContactRepository_ContactsWithBirthdays(t *testing.T) {
	ctx, repo := newContactTestEnv(t)
	userID := createTestUser(t, ctx, repo, "owner@example.com")

	withBday := newTestContact(userID, "Has", "Birthday")
	bday := time.Date(1992, time.May, 20, 0, 0, 0, 0, time.UTC)
	withBday.Birthday = &bday
	withoutBday := newTestContact(userID, "No", "Birthday")

	for _, c := range []*model.Contact{withBday, withoutBday} {
		if err := repo.CreateContact(ctx, c); err != nil {
			t.Fatalf("CreateContact failed: %v", err)
		}
	}

	contacts, err := repo.ContactsWithBirthdays(ctx, userID)
	if err != nil {
		t.Fatalf("ContactsWithBirthdays failed: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact with birthday, got %d", len(contacts))
	}
	if contacts[0].ID != withBday.ID {
		t.Errorf("unexpected contact: got id %d, want %d", contacts[0].ID, withBday.ID)
	}
}

func TestIntegrationUserRepository_CreateAndLookup(t *testing.T) {
	ctx, repo := newContactTestEnv(t)

	user := &model.User{
		Username: "testuser",
		Email:    "user@example.com",
		Password: "hashed-password",
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected generated id to be set")
	}

	byEmail, err := repo.GetUserByEmail(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("id mismatch: got %d, want %d", byEmail.ID, user.ID)
	}
	if byEmail.Confirmed {
		t.Error("new users must start unconfirmed")
	}

	dup := &model.User{Username: "testuser2", Email: "user@example.com", Password: "x"}
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got: %v", err)
	}
}

func TestIntegrationUserRepository_ConfirmAndRefreshToken(t *testing.T) {
	ctx, repo := newContactTestEnv(t)

	user := &model.User{Username: "testuser", Email: "user@example.com", Password: "x"}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := repo.ConfirmEmail(ctx, user.Email); err != nil {
		t.Fatalf("ConfirmEmail failed: %v", err)
	}
	confirmed, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if !confirmed.Confirmed {
		t.Error("expected user to be confirmed")
	}

	token := "refresh-token-value"
	if err := repo.UpdateRefreshToken(ctx, user.ID, &token); err != nil {
		t.Fatalf("UpdateRefreshToken failed: %v", err)
	}
	withToken, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if withToken.RefreshToken == nil || *withToken.RefreshToken != token {
		t.Errorf("refresh token mismatch: got %v", withToken.RefreshToken)
	}

	// A nil token clears the stored one.
	if err := repo.UpdateRefreshToken(ctx, user.ID, nil); err != nil {
		t.Fatalf("UpdateRefreshToken (clear) failed: %v", err)
	}
	cleared, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if cleared.RefreshToken != nil {
		t.Errorf("expected refresh token to be cleared, got %v", *cleared.RefreshToken)
	}
}

func TestIntegrationUserRepository_NotFound(t *testing.T) {
	ctx, repo := newContactTestEnv(t)

	if _, err := repo.GetUserByID(ctx, 99999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUserByID: expected ErrUserNotFound, got: %v", err)
	}
	if _, err := repo.GetUserByEmail(ctx, "ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUserByEmail: expected ErrUserNotFound, got: %v", err)
	}
	if err := repo.ConfirmEmail(ctx, "ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("ConfirmEmail: expected ErrUserNotFound, got: %v", err)
	}
}

// ============================================================================
// Helpers
// ============================================================================

func newContactTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	if err := Migrate(ctx, dbURL); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.TruncateAll(ctx, repo.Pool()); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	return ctx, repo
}

func createTestUser(t *testing.T, ctx context.Context, repo *Repository, email string) int64 {
	t.Helper()
	user := &model.User{
		Username: "testuser",
		Email:    email,
		Password: "hashed-password",
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create test user %s: %v", email, err)
	}
	return user.ID
}

func newTestContact(userID int64, firstName, lastName string) *model.Contact {
	return &model.Contact{
		FirstName: firstName,
		LastName:  lastName,
		Email:     fmt.Sprintf("%s.%s@example.com", firstName, lastName),
		UserID:    userID,
	}
}

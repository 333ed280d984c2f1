package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/contactly/contactly/internal/auth"
	"github.com/contactly/contactly/internal/birthday"
	"github.com/contactly/contactly/internal/handler/dto"
	"github.com/contactly/contactly/internal/metrics"
	"github.com/contactly/contactly/internal/model"
	"github.com/contactly/contactly/internal/repository"
)

// Pagination defaults for listing contacts.
const (
	defaultPageLimit = 100
	maxPageLimit     = 500
)

// ContactStore is the access-layer surface the contact handlers consume.
// Implemented by repository.Repository.
type ContactStore interface {
	ListContacts(ctx context.Context, userID int64, skip, limit int) ([]*model.Contact, error)
	GetContact(ctx context.Context, userID, id int64) (*model.Contact, error)
	CreateContact(ctx context.Context, contact *model.Contact) error
	UpdateContact(ctx context.Context, userID, id int64, fields model.ContactFields) (*model.Contact, error)
	DeleteContact(ctx context.Context, userID, id int64) (*model.Contact, error)
	SearchContacts(ctx context.Context, userID int64, filter repository.ContactFilter) ([]*model.Contact, error)
	ContactsWithBirthdays(ctx context.Context, userID int64) ([]*model.Contact, error)
}

// ContactHandler handles HTTP requests for contact operations. Every
// operation runs under the authenticated user from the request context.
type ContactHandler struct {
	store   ContactStore
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(store ContactStore, recorder metrics.Recorder, logger *slog.Logger) *ContactHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ContactHandler{
		store:   store,
		metrics: recorder,
		logger:  logger,
	}
}

// List handles GET /api/contacts.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	query := r.URL.Query()

	skip := 0
	if s := query.Get("skip"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed >= 0 {
			skip = parsed
		}
	}

	limit := defaultPageLimit
	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= maxPageLimit {
			limit = parsed
		}
	}

	contacts, err := h.store.ListContacts(r.Context(), user.ID, skip, limit)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToContactListResponse(contacts))
}

// Get handles GET /api/contacts/{id}.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	id, ok := contactID(w, r)
	if !ok {
		return
	}

	contact, err := h.store.GetContact(r.Context(), user.ID, id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToContactResponse(contact))
}

// Create handles POST /api/contacts.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	var req dto.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	fields, err := req.Fields()
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	contact := &model.Contact{
		FirstName:   fields.FirstName,
		LastName:    fields.LastName,
		Email:       fields.Email,
		PhoneNumber: fields.PhoneNumber,
		Birthday:    fields.Birthday,
		UserID:      user.ID,
	}

	if err := h.store.CreateContact(r.Context(), contact); err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	h.metrics.IncContactCreated()
	h.logger.Info("contact_created",
		"contact_id", contact.ID,
		"user_id", user.ID,
	)

	writeJSON(w, http.StatusCreated, dto.ToContactResponse(contact))
}

// Update handles PUT /api/contacts/{id}.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	id, ok := contactID(w, r)
	if !ok {
		return
	}

	var req dto.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	fields, err := req.Fields()
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	contact, err := h.store.UpdateContact(r.Context(), user.ID, id, fields)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	h.metrics.IncContactUpdated()
	h.logger.Info("contact_updated",
		"contact_id", contact.ID,
		"user_id", user.ID,
	)

	writeJSON(w, http.StatusOK, dto.ToContactResponse(contact))
}

// Delete handles DELETE /api/contacts/{id}. The removed contact is
// returned; deleting it again yields 404.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	id, ok := contactID(w, r)
	if !ok {
		return
	}

	contact, err := h.store.DeleteContact(r.Context(), user.ID, id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	h.metrics.IncContactDeleted()
	h.logger.Info("contact_deleted",
		"contact_id", id,
		"user_id", user.ID,
	)

	writeJSON(w, http.StatusOK, dto.ToContactResponse(contact))
}

// Search handles GET /api/contacts/search. At least one criterion is
// required; present criteria are AND-combined.
func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	query := r.URL.Query()

	filter := repository.ContactFilter{
		FirstName: query.Get("first_name"),
		LastName:  query.Get("last_name"),
		Email:     query.Get("email"),
	}

	if filter.Empty() {
		writeError(w, http.StatusBadRequest, "MISSING_CRITERIA", "At least one search parameter is required")
		return
	}

	start := time.Now()
	contacts, err := h.store.SearchContacts(r.Context(), user.ID, filter)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	h.metrics.ObserveSearchDuration(time.Since(start))

	writeJSON(w, http.StatusOK, dto.ToContactListResponse(contacts))
}

// UpcomingBirthdays handles GET /api/contacts/upcoming-birthdays.
func (h *ContactHandler) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	start := time.Now()
	contacts, err := h.store.ContactsWithBirthdays(r.Context(), user.ID)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	upcoming := birthday.Upcoming(time.Now(), contacts)
	h.metrics.ObserveBirthdayLookupDuration(time.Since(start))

	writeJSON(w, http.StatusOK, dto.ToContactListResponse(upcoming))
}

// contactID parses the {id} route parameter, responding with 400 on junk.
func contactID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Contact ID must be a positive integer")
		return 0, false
	}

	return id, true
}

// handleStoreError maps access-layer errors to HTTP responses.
func (h *ContactHandler) handleStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrContactNotFound) {
		writeError(w, http.StatusNotFound, "CONTACT_NOT_FOUND", "Contact not found")
		return
	}

	h.logger.Error("contact store error",
		"error", err.Error(),
		"path", r.URL.Path,
	)
	writeError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
}

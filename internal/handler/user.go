package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/contactly/contactly/internal/auth"
	"github.com/contactly/contactly/internal/handler/dto"
	"github.com/contactly/contactly/internal/model"
	"github.com/contactly/contactly/internal/service"
)

// maxAvatarSize caps the decoded multipart file at 1MB.
const maxAvatarSize = 1 << 20

// ProfileService is the user-service surface the profile handlers consume.
type ProfileService interface {
	UpdateAvatar(ctx context.Context, userID int64, contentType string, body io.Reader) (*model.User, error)
}

// UserHandler handles profile endpoints.
type UserHandler struct {
	svc    ProfileService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc ProfileService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Me handles GET /api/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// UpdateAvatar handles PATCH /api/users/avatar. Expects a multipart form
// with the image in the "file" field.
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_MULTIPART", "Expected a multipart form with a file field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_FILE", "File field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	updated, err := h.svc.UpdateAvatar(r.Context(), user.ID, contentType, file)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		h.logger.Error("avatar upload failed",
			"user_id", user.ID,
			"error", err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		return
	}

	h.logger.Info("avatar_updated",
		"user_id", user.ID,
	)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(updated))
}

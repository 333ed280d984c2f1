package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/contactly/contactly/internal/handler/dto"
	"github.com/contactly/contactly/internal/model"
	"github.com/contactly/contactly/internal/service"
)

// AuthProvider is the auth-service surface the auth handlers consume.
type AuthProvider interface {
	Signup(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error)
	ConfirmEmail(ctx context.Context, token string) error
	RequestEmail(ctx context.Context, email string)
}

// AuthHandler handles registration, login, refresh and email confirmation.
type AuthHandler struct {
	svc    AuthProvider
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AuthProvider, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	user, err := h.svc.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.logger.Info("user_registered",
		"user_id", user.ID,
	)

	writeJSON(w, http.StatusCreated, dto.SignupResponse{
		User:   dto.ToUserResponse(user),
		Detail: "User successfully created. Check your email for confirmation.",
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	pair, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTokenResponse(pair))
}

// Refresh handles GET /api/auth/refresh_token. The refresh token rides in
// the Authorization header.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing credentials")
		return
	}

	pair, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTokenResponse(pair))
}

// ConfirmEmail handles GET /api/auth/confirmed_email/{token}.
func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.svc.ConfirmEmail(r.Context(), token); err != nil {
		h.handleAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Email confirmed"})
}

// RequestEmail handles POST /api/auth/request_email. The response is the
// same whether or not the address exists.
func (h *AuthHandler) RequestEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.RequestEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if !dto.ValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", dto.ErrEmailInvalid.Error())
		return
	}

	h.svc.RequestEmail(r.Context(), req.Email)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Check your email for confirmation"})
}

// handleAuthError maps auth-service errors to HTTP responses.
func (h *AuthHandler) handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Account already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password")
	case errors.Is(err, service.ErrEmailNotConfirmed):
		writeError(w, http.StatusUnauthorized, "EMAIL_NOT_CONFIRMED", "Email not confirmed")
	case errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	default:
		h.logger.Error("auth service error", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
	}
}

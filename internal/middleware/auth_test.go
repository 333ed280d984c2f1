package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/contactly/contactly/internal/auth"
	"github.com/contactly/contactly/internal/model"
)

// stubResolver resolves a single known token.
type stubResolver struct {
	token string
	user  *model.User
}

func (s *stubResolver) ResolveUser(_ context.Context, accessToken string) (*model.User, error) {
	if accessToken == s.token {
		return s.user, nil
	}
	return nil, errors.New("invalid token")
}

func newAuthTestHandler(t *testing.T) (http.Handler, *model.User) {
	t.Helper()

	user := &model.User{ID: 7, Email: "user@example.com"}
	cfg := AuthConfig{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Resolver: &stubResolver{token: "valid-token", user: user},
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := auth.UserFromContext(r.Context())
		if got == nil {
			t.Error("expected user in context")
		} else if got.ID != user.ID {
			t.Errorf("user id mismatch: got %d, want %d", got.ID, user.ID)
		}
		w.WriteHeader(http.StatusOK)
	})

	return Auth(cfg)(inner), user
}

func TestAuth_ValidToken(t *testing.T) {
	handler, _ := newAuthTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestAuth_Rejections(t *testing.T) {
	handler, _ := newAuthTestHandler(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer"},
		{"unknown token", "Bearer unknown-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", rec.Code)
			}

			// All rejections share one body so callers cannot probe.
			if body := rec.Body.String(); body != `{"error":{"code":"UNAUTHORIZED","message":"Invalid or missing credentials"}}` {
				t.Errorf("unexpected body: %s", body)
			}
		})
	}
}

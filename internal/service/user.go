package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/contactly/contactly/internal/metrics"
	"github.com/contactly/contactly/internal/model"
	"github.com/contactly/contactly/internal/repository"
)

// AvatarStorage uploads profile images and returns their public URL.
type AvatarStorage interface {
	Upload(ctx context.Context, userID int64, contentType string, body io.Reader) (string, error)
}

// AvatarStore is the subset of the repository the user service needs.
type AvatarStore interface {
	UpdateAvatar(ctx context.Context, userID int64, url string) (*model.User, error)
}

// UserService handles profile operations.
type UserService struct {
	store   AvatarStore
	storage AvatarStorage
	cache   UserCache
	metrics metrics.Recorder
}

// NewUserService creates a UserService.
func NewUserService(store AvatarStore, storage AvatarStorage, cache UserCache, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   store,
		storage: storage,
		cache:   cache,
		metrics: recorder,
	}
}

// UpdateAvatar uploads the image to the object store and persists the
// resulting URL on the user record. Upload failures propagate: unlike the
// registration-time default avatar, an explicit upload must not silently
// no-op.
func (s *UserService) UpdateAvatar(ctx context.Context, userID int64, contentType string, body io.Reader) (*model.User, error) {
	url, err := s.storage.Upload(ctx, userID, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	user, err := s.store.UpdateAvatar(ctx, userID, url)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	_ = s.cache.InvalidateUser(ctx, userID)
	s.metrics.IncAvatarUploaded()

	return user, nil
}

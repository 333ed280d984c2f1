package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/contactly/contactly/internal/model"
)

const (
	// userPrefix is the Redis key prefix for cached users.
	userPrefix = "auth:user:"
	// userTTL keeps cached users short-lived so profile changes surface
	// quickly even without explicit invalidation.
	userTTL = 60 * time.Second
)

// GetUser retrieves a cached user by id. Returns nil on a miss.
func (c *Cache) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	key := fmt.Sprintf("%s%d", userPrefix, userID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached user: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		// Treat a corrupt entry as a miss
		return nil, nil
	}

	return &user, nil
}

// SetUser caches a user for the auth middleware.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	key := fmt.Sprintf("%s%d", userPrefix, user.ID)

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	if err := c.client.Set(ctx, key, data, userTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache user: %w", err)
	}

	return nil
}

// InvalidateUser drops a cached user after a profile mutation.
func (c *Cache) InvalidateUser(ctx context.Context, userID int64) error {
	key := fmt.Sprintf("%s%d", userPrefix, userID)
	return c.client.Del(ctx, key).Err()
}

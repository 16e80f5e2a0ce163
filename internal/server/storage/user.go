package storage

import (
	"context"

	"github.com/iudanet/xbookmarks/internal/models"
)

// UserStorage defines interface for the identity store
type UserStorage interface {
	// UpsertUser creates the user or updates username and refresh token,
	// keyed by UserID. An empty RefreshToken keeps the stored one.
	// Returns ErrUsernameTaken if another user holds the username
	UpsertUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves user by external identity id
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

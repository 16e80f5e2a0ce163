package storage

import (
	"context"

	"github.com/iudanet/xbookmarks/internal/models"
)

// BookmarkStorage defines interface for bookmark persistence
type BookmarkStorage interface {
	// CreateBookmark inserts a new bookmark
	// Returns ErrInvalidReference if the folder doesn't exist
	CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error

	// GetBookmark retrieves bookmark by ID
	// Returns ErrBookmarkNotFound if bookmark doesn't exist
	GetBookmark(ctx context.Context, bookmarkID string) (*models.Bookmark, error)

	// UpdateBookmark persists title and folder of an existing bookmark
	// Returns ErrBookmarkNotFound if bookmark doesn't exist
	UpdateBookmark(ctx context.Context, bookmark *models.Bookmark) error

	// DeleteBookmark deletes bookmark by ID
	// Returns ErrBookmarkNotFound if bookmark doesn't exist
	DeleteBookmark(ctx context.Context, bookmarkID string) error

	// ListBookmarksByUser returns the user's bookmarks, newest first
	ListBookmarksByUser(ctx context.Context, userID string) ([]*models.Bookmark, error)

	// ListBookmarksByFolder returns the user's bookmarks in folderID, newest first
	ListBookmarksByFolder(ctx context.Context, userID, folderID string) ([]*models.Bookmark, error)

	// SearchBookmarks returns the user's bookmarks whose title or url contains query
	SearchBookmarks(ctx context.Context, userID, query string) ([]*models.Bookmark, error)
}

package storage

import (
	"context"

	"github.com/iudanet/xbookmarks/internal/models"
)

// FolderStorage defines interface for folder persistence.
// Sibling name uniqueness is (user_id, parent_folder, name) with NULL parents
// treated as one sibling set.
type FolderStorage interface {
	// CreateFolder inserts a new folder
	// Returns ErrFolderExists on a sibling name conflict
	CreateFolder(ctx context.Context, folder *models.Folder) error

	// GetFolder retrieves folder by ID
	// Returns ErrFolderNotFound if folder doesn't exist
	GetFolder(ctx context.Context, folderID string) (*models.Folder, error)

	// UpdateFolder persists name, parent and root flag of an existing folder
	// Returns ErrFolderNotFound if folder doesn't exist, ErrFolderExists on a sibling name conflict
	UpdateFolder(ctx context.Context, folder *models.Folder) error

	// FolderNameExists reports whether a folder other than excludeID has the name
	// under parentID (nil for the root level)
	FolderNameExists(ctx context.Context, userID string, parentID *string, name, excludeID string) (bool, error)

	// ListSiblingNames returns the names used under parentID (nil for the root level)
	ListSiblingNames(ctx context.Context, userID string, parentID *string) ([]string, error)

	// ListFoldersByUser returns all folders of the user ordered by creation time
	ListFoldersByUser(ctx context.Context, userID string) ([]*models.Folder, error)

	// ListChildFolderIDs returns ids of the direct children of parentID
	ListChildFolderIDs(ctx context.Context, parentID string) ([]string, error)

	// SearchFolders returns the user's folders whose name contains query, case-insensitively
	SearchFolders(ctx context.Context, userID, query string) ([]*models.Folder, error)

	// DeleteFolderTree deletes, in one transaction and in the given order, the
	// bookmarks of each folder and then the folder itself. Callers pass children
	// before parents. Ids that no longer exist are skipped.
	DeleteFolderTree(ctx context.Context, folderIDs []string) (*DeleteStats, error)
}

// DeleteStats reports what a cascade delete removed.
type DeleteStats struct {
	Folders   int64
	Bookmarks int64
}

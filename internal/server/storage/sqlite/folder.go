package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/xbookmarks/internal/models"
	"github.com/iudanet/xbookmarks/internal/server/storage"
)

const folderColumns = `id, user_id, name, is_parent_root, parent_folder, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFolder(row rowScanner) (*models.Folder, error) {
	f := &models.Folder{}
	var parent sql.NullString
	if err := row.Scan(
		&f.ID,
		&f.UserID,
		&f.Name,
		&f.IsParentRoot,
		&parent,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	f.ParentFolder = stringPtr(parent)
	return f, nil
}

// CreateFolder inserts a new folder
func (s *Storage) CreateFolder(ctx context.Context, folder *models.Folder) error {
	now := time.Now().UTC()
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = now
	}
	folder.UpdatedAt = folder.CreatedAt

	query := `INSERT INTO folders (` + folderColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		folder.ID,
		folder.UserID,
		folder.Name,
		folder.IsParentRoot,
		nullString(folder.ParentFolder),
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return storage.ErrFolderExists
		case isForeignKeyViolation(err):
			return storage.ErrInvalidReference
		}
		return fmt.Errorf("failed to insert folder: %w", err)
	}

	return nil
}

// GetFolder retrieves folder by ID
func (s *Storage) GetFolder(ctx context.Context, folderID string) (*models.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM folders WHERE id = ?`

	f, err := scanFolder(s.db.QueryRowContext(ctx, query, folderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrFolderNotFound
		}
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}

	return f, nil
}

// UpdateFolder persists name, parent and root flag
func (s *Storage) UpdateFolder(ctx context.Context, folder *models.Folder) error {
	folder.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE folders
		SET name = ?, is_parent_root = ?, parent_folder = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		folder.Name,
		folder.IsParentRoot,
		nullString(folder.ParentFolder),
		folder.UpdatedAt,
		folder.ID,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return storage.ErrFolderExists
		case isForeignKeyViolation(err):
			return storage.ErrInvalidReference
		}
		return fmt.Errorf("failed to update folder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return storage.ErrFolderNotFound
	}

	return nil
}

// FolderNameExists reports whether another folder already uses name under parentID
func (s *Storage) FolderNameExists(ctx context.Context, userID string, parentID *string, name, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM folders
			WHERE user_id = ? AND parent_folder IS ? AND name = ? AND id != ?
		)
	`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, userID, nullString(parentID), name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check folder name: %w", err)
	}

	return exists, nil
}

// ListSiblingNames returns the folder names used under parentID
func (s *Storage) ListSiblingNames(ctx context.Context, userID string, parentID *string) ([]string, error) {
	query := `SELECT name FROM folders WHERE user_id = ? AND parent_folder IS ?`

	rows, err := s.db.QueryContext(ctx, query, userID, nullString(parentID))
	if err != nil {
		return nil, fmt.Errorf("failed to list sibling names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan sibling name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return names, nil
}

// ListFoldersByUser returns all folders of the user
func (s *Storage) ListFoldersByUser(ctx context.Context, userID string) ([]*models.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM folders WHERE user_id = ? ORDER BY created_at, rowid`
	return s.queryFolders(ctx, query, userID)
}

// SearchFolders matches folder names by substring, case-insensitively
func (s *Storage) SearchFolders(ctx context.Context, userID, query string) ([]*models.Folder, error) {
	q := `
		SELECT ` + folderColumns + ` FROM folders
		WHERE user_id = ? AND xb_fold(name) LIKE ? ESCAPE '\'
		ORDER BY name, rowid
	`
	return s.queryFolders(ctx, q, userID, likePattern(query))
}

func (s *Storage) queryFolders(ctx context.Context, query string, args ...any) ([]*models.Folder, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query folders: %w", err)
	}
	defer rows.Close()

	var folders []*models.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return folders, nil
}

// ListChildFolderIDs returns ids of the direct children of parentID
func (s *Storage) ListChildFolderIDs(ctx context.Context, parentID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM folders WHERE parent_folder = ?`, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list child folders: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan child folder: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return ids, nil
}

// DeleteFolderTree removes the folders and their bookmarks in one transaction
func (s *Storage) DeleteFolderTree(ctx context.Context, folderIDs []string) (*storage.DeleteStats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	delBookmarks, err := tx.PrepareContext(ctx, `DELETE FROM bookmarks WHERE folder = ?`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare bookmark delete: %w", err)
	}
	defer delBookmarks.Close()

	delFolder, err := tx.PrepareContext(ctx, `DELETE FROM folders WHERE id = ?`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare folder delete: %w", err)
	}
	defer delFolder.Close()

	stats := &storage.DeleteStats{}
	for _, id := range folderIDs {
		res, err := delBookmarks.ExecContext(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to delete bookmarks of folder %s: %w", id, err)
		}
		n, _ := res.RowsAffected()
		stats.Bookmarks += n

		res, err = delFolder.ExecContext(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to delete folder %s: %w", id, err)
		}
		n, _ = res.RowsAffected()
		stats.Folders += n
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit folder delete: %w", err)
	}

	return stats, nil
}

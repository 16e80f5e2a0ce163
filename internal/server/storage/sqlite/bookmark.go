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

const bookmarkColumns = `id, user_id, title, url, folder, created_at`

func scanBookmark(row rowScanner) (*models.Bookmark, error) {
	b := &models.Bookmark{}
	var folder sql.NullString
	if err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Title,
		&b.URL,
		&folder,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	b.Folder = stringPtr(folder)
	return b, nil
}

// CreateBookmark inserts a new bookmark
func (s *Storage) CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO bookmarks (` + bookmarkColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		bookmark.ID,
		bookmark.UserID,
		bookmark.Title,
		bookmark.URL,
		nullString(bookmark.Folder),
		bookmark.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrInvalidReference
		}
		return fmt.Errorf("failed to insert bookmark: %w", err)
	}

	return nil
}

// GetBookmark retrieves bookmark by ID
func (s *Storage) GetBookmark(ctx context.Context, bookmarkID string) (*models.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE id = ?`

	b, err := scanBookmark(s.db.QueryRowContext(ctx, query, bookmarkID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrBookmarkNotFound
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	return b, nil
}

// UpdateBookmark persists title and folder
func (s *Storage) UpdateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	query := `UPDATE bookmarks SET title = ?, folder = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		bookmark.Title,
		nullString(bookmark.Folder),
		bookmark.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrInvalidReference
		}
		return fmt.Errorf("failed to update bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return storage.ErrBookmarkNotFound
	}

	return nil
}

// DeleteBookmark deletes bookmark by ID
func (s *Storage) DeleteBookmark(ctx context.Context, bookmarkID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, bookmarkID)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return storage.ErrBookmarkNotFound
	}

	return nil
}

// ListBookmarksByUser returns the user's bookmarks, newest first
func (s *Storage) ListBookmarksByUser(ctx context.Context, userID string) ([]*models.Bookmark, error) {
	query := `
		SELECT ` + bookmarkColumns + ` FROM bookmarks
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`
	return s.queryBookmarks(ctx, query, userID)
}

// ListBookmarksByFolder returns the user's bookmarks in one folder, newest first
func (s *Storage) ListBookmarksByFolder(ctx context.Context, userID, folderID string) ([]*models.Bookmark, error) {
	query := `
		SELECT ` + bookmarkColumns + ` FROM bookmarks
		WHERE user_id = ? AND folder = ?
		ORDER BY created_at DESC, rowid DESC
	`
	return s.queryBookmarks(ctx, query, userID, folderID)
}

// SearchBookmarks matches title or url by substring, case-insensitively
func (s *Storage) SearchBookmarks(ctx context.Context, userID, query string) ([]*models.Bookmark, error) {
	pattern := likePattern(query)
	q := `
		SELECT ` + bookmarkColumns + ` FROM bookmarks
		WHERE user_id = ? AND (xb_fold(title) LIKE ? ESCAPE '\' OR xb_fold(url) LIKE ? ESCAPE '\')
		ORDER BY created_at DESC, rowid DESC
	`
	return s.queryBookmarks(ctx, q, userID, pattern, pattern)
}

func (s *Storage) queryBookmarks(ctx context.Context, query string, args ...any) ([]*models.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []*models.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return bookmarks, nil
}

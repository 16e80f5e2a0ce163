package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/iudanet/xbookmarks/internal/apperr"
	"github.com/iudanet/xbookmarks/internal/models"
	"github.com/iudanet/xbookmarks/internal/server/storage"
	"github.com/iudanet/xbookmarks/internal/validation"
)

// CreateBookmarkInput describes a new bookmark. Folder is optional.
type CreateBookmarkInput struct {
	Folder *string
	Title  string
	URL    string
}

// BookmarkService owns bookmark CRUD and folder membership.
type BookmarkService struct {
	bookmarks storage.BookmarkStorage
	folders   storage.FolderStorage
	logger    *slog.Logger
	newID     func() string
}

// NewBookmarkService creates a new BookmarkService
func NewBookmarkService(bookmarks storage.BookmarkStorage, folders storage.FolderStorage, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{
		bookmarks: bookmarks,
		folders:   folders,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Create stores a bookmark for actorID, optionally inside one of their folders
func (s *BookmarkService) Create(ctx context.Context, actorID string, in CreateBookmarkInput) (*models.Bookmark, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	title, err := validation.NormalizeTitle(in.Title)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidTitle, err.Error(), err)
	}
	if err := validation.ValidateURL(in.URL); err != nil {
		return nil, apperr.Wrap(apperr.InvalidRequest, err.Error(), err)
	}
	if err := s.checkTargetFolder(ctx, actorID, in.Folder); err != nil {
		return nil, err
	}

	bookmark := &models.Bookmark{
		ID:     s.newID(),
		UserID: actorID,
		Title:  title,
		URL:    in.URL,
		Folder: in.Folder,
	}
	if err := s.bookmarks.CreateBookmark(ctx, bookmark); err != nil {
		return nil, s.writeError(ctx, "failed to create bookmark", err)
	}

	s.logger.InfoContext(ctx, "Bookmark created",
		slog.String("bookmark_id", bookmark.ID),
		slog.String("user_id", actorID),
	)

	return bookmark, nil
}

// Get returns one of the actor's bookmarks
func (s *BookmarkService) Get(ctx context.Context, actorID, bookmarkID string) (*models.Bookmark, error) {
	return s.load(ctx, actorID, bookmarkID)
}

// ListByUser returns the bookmarks of userID, newest first
func (s *BookmarkService) ListByUser(ctx context.Context, actorID, userID string) ([]*models.Bookmark, error) {
	if err := requireSelf(actorID, userID); err != nil {
		return nil, err
	}

	bookmarks, err := s.bookmarks.ListBookmarksByUser(ctx, userID)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to list bookmarks", err)
	}
	return bookmarks, nil
}

// ListByFolder returns the bookmarks directly inside folderID, newest first
func (s *BookmarkService) ListByFolder(ctx context.Context, actorID, folderID string) ([]*models.Bookmark, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if _, err := loadFolder(ctx, s.folders, s.logger, actorID, folderID, apperr.FolderNotFound, apperr.ForbiddenFolder); err != nil {
		return nil, err
	}

	bookmarks, err := s.bookmarks.ListBookmarksByFolder(ctx, actorID, folderID)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to list bookmarks", err)
	}
	return bookmarks, nil
}

// Move places the bookmark in newFolder, or outside any folder when nil.
// Moving to the current folder returns the bookmark unchanged.
func (s *BookmarkService) Move(ctx context.Context, actorID, bookmarkID string, newFolder *string) (*models.Bookmark, error) {
	bookmark, err := s.load(ctx, actorID, bookmarkID)
	if err != nil {
		return nil, err
	}
	if sameRef(bookmark.Folder, newFolder) {
		return bookmark, nil
	}
	if err := s.checkTargetFolder(ctx, actorID, newFolder); err != nil {
		return nil, err
	}

	bookmark.Folder = newFolder
	if err := s.bookmarks.UpdateBookmark(ctx, bookmark); err != nil {
		return nil, s.writeError(ctx, "failed to move bookmark", err)
	}

	return bookmark, nil
}

// Copy creates a new bookmark with the same title and url in targetFolder.
// A new record is created even when the target is the source folder.
func (s *BookmarkService) Copy(ctx context.Context, actorID, bookmarkID string, targetFolder *string) (*models.Bookmark, error) {
	source, err := s.load(ctx, actorID, bookmarkID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTargetFolder(ctx, actorID, targetFolder); err != nil {
		return nil, err
	}

	bookmark := &models.Bookmark{
		ID:     s.newID(),
		UserID: source.UserID,
		Title:  source.Title,
		URL:    source.URL,
		Folder: targetFolder,
	}
	if err := s.bookmarks.CreateBookmark(ctx, bookmark); err != nil {
		return nil, s.writeError(ctx, "failed to copy bookmark", err)
	}

	return bookmark, nil
}

// Rename changes the bookmark title
func (s *BookmarkService) Rename(ctx context.Context, actorID, bookmarkID, newTitle string) (*models.Bookmark, error) {
	title, err := validation.NormalizeTitle(newTitle)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidTitle, err.Error(), err)
	}

	bookmark, err := s.load(ctx, actorID, bookmarkID)
	if err != nil {
		return nil, err
	}

	bookmark.Title = title
	if err := s.bookmarks.UpdateBookmark(ctx, bookmark); err != nil {
		return nil, s.writeError(ctx, "failed to rename bookmark", err)
	}

	return bookmark, nil
}

// Delete removes the bookmark
func (s *BookmarkService) Delete(ctx context.Context, actorID, bookmarkID string) error {
	bookmark, err := s.load(ctx, actorID, bookmarkID)
	if err != nil {
		return err
	}

	if err := s.bookmarks.DeleteBookmark(ctx, bookmark.ID); err != nil {
		return s.writeError(ctx, "failed to delete bookmark", err)
	}

	s.logger.InfoContext(ctx, "Bookmark deleted", slog.String("bookmark_id", bookmark.ID))
	return nil
}

// Search finds the actor's bookmarks whose title or url contains query
func (s *BookmarkService) Search(ctx context.Context, actorID, query string) ([]*models.Bookmark, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	query, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	bookmarks, err := s.bookmarks.SearchBookmarks(ctx, actorID, query)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to search bookmarks", err)
	}
	return bookmarks, nil
}

// load fetches a bookmark and checks the actor owns it.
func (s *BookmarkService) load(ctx context.Context, actorID, bookmarkID string) (*models.Bookmark, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := parseID(bookmarkID, "bookmark"); err != nil {
		return nil, err
	}

	bookmark, err := s.bookmarks.GetBookmark(ctx, bookmarkID)
	if err != nil {
		if errors.Is(err, storage.ErrBookmarkNotFound) {
			return nil, apperr.New(apperr.NotFound, "bookmark not found")
		}
		return nil, storageFailure(ctx, s.logger, "failed to load bookmark", err)
	}

	if bookmark.UserID != actorID {
		s.logger.WarnContext(ctx, "Bookmark access denied",
			slog.String("bookmark_id", bookmarkID),
			slog.String("actor_id", actorID),
		)
		return nil, apperr.New(apperr.Forbidden, "bookmark belongs to another user")
	}

	return bookmark, nil
}

// checkTargetFolder validates a folder a bookmark is placed in. nil means no folder.
func (s *BookmarkService) checkTargetFolder(ctx context.Context, actorID string, folderID *string) error {
	if folderID == nil {
		return nil
	}
	_, err := loadFolder(ctx, s.folders, s.logger, actorID, *folderID, apperr.FolderNotFound, apperr.ForbiddenFolder)
	return err
}

func (s *BookmarkService) writeError(ctx context.Context, msg string, err error) error {
	switch {
	case errors.Is(err, storage.ErrInvalidReference):
		return apperr.New(apperr.FolderNotFound, "folder not found")
	case errors.Is(err, storage.ErrBookmarkNotFound):
		return apperr.New(apperr.NotFound, "bookmark not found")
	}
	return storageFailure(ctx, s.logger, msg, err)
}

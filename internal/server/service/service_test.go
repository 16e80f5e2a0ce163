package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/xbookmarks/internal/apperr"
	"github.com/iudanet/xbookmarks/internal/models"
	"github.com/iudanet/xbookmarks/internal/server/storage/sqlite"
)

const (
	userOne = "1001"
	userTwo = "2002"
)

type fixture struct {
	store     *sqlite.Storage
	folders   *FolderService
	bookmarks *BookmarkService
}

func setupServices(t *testing.T) *fixture {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		store:     store,
		folders:   NewFolderService(store, logger),
		bookmarks: NewBookmarkService(store, store, logger),
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}

func (f *fixture) root(t *testing.T, userID, name string) *models.Folder {
	t.Helper()
	folder, err := f.folders.Create(context.Background(), userID, CreateFolderInput{
		Name:         name,
		IsParentRoot: boolPtr(true),
	})
	require.NoError(t, err)
	return folder
}

func (f *fixture) child(t *testing.T, userID, name, parentID string) *models.Folder {
	t.Helper()
	folder, err := f.folders.Create(context.Background(), userID, CreateFolderInput{
		Name:         name,
		IsParentRoot: boolPtr(false),
		ParentFolder: strPtr(parentID),
	})
	require.NoError(t, err)
	return folder
}

func (f *fixture) bookmark(t *testing.T, userID, title string, folderID *string) *models.Bookmark {
	t.Helper()
	b, err := f.bookmarks.Create(context.Background(), userID, CreateBookmarkInput{
		Title:  title,
		URL:    "https://example.com/" + uuid.NewString(),
		Folder: folderID,
	})
	require.NoError(t, err)
	return b
}

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind.String(), apperr.KindOf(err).String(), err.Error())
}

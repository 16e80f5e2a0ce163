// Package service holds the folder tree engine and the bookmark store. Every
// operation takes the id of the authenticated actor and refuses to read or
// change records owned by someone else.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/iudanet/xbookmarks/internal/apperr"
	"github.com/iudanet/xbookmarks/internal/models"
	"github.com/iudanet/xbookmarks/internal/server/storage"
	"github.com/iudanet/xbookmarks/internal/validation"
)

// requireActor rejects calls made without an authenticated user.
func requireActor(actorID string) error {
	if actorID == "" {
		return apperr.New(apperr.Unauthorized, "authentication required")
	}
	return nil
}

// requireSelf allows an actor to list only their own records.
func requireSelf(actorID, userID string) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if userID == "" {
		return apperr.New(apperr.InvalidRequest, "user id is required")
	}
	if userID != actorID {
		return apperr.New(apperr.Forbidden, "access to another user's records is not allowed")
	}
	return nil
}

func parseID(id, what string) error {
	if err := validation.ValidateID(id); err != nil {
		return apperr.Wrap(apperr.InvalidRequest, "invalid "+what+" id", err)
	}
	return nil
}

func normalizeQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", apperr.New(apperr.InvalidRequest, "search query is required")
	}
	return query, nil
}

// storageFailure logs err and hides it behind StorageError.
func storageFailure(ctx context.Context, logger *slog.Logger, msg string, err error) error {
	logger.ErrorContext(ctx, msg, slog.Any("error", err))
	return apperr.Wrap(apperr.StorageError, msg, err)
}

// loadFolder fetches a folder the actor owns. notFound and forbidden choose
// the kinds reported, since a folder used as a target is reported differently
// from a folder being operated on.
func loadFolder(
	ctx context.Context,
	folders storage.FolderStorage,
	logger *slog.Logger,
	actorID, folderID string,
	notFound, forbidden apperr.Kind,
) (*models.Folder, error) {
	if err := parseID(folderID, "folder"); err != nil {
		return nil, err
	}

	folder, err := folders.GetFolder(ctx, folderID)
	if err != nil {
		if errors.Is(err, storage.ErrFolderNotFound) {
			return nil, apperr.New(notFound, "folder not found")
		}
		return nil, storageFailure(ctx, logger, "failed to load folder", err)
	}

	if folder.UserID != actorID {
		logger.WarnContext(ctx, "Folder access denied",
			slog.String("folder_id", folderID),
			slog.String("actor_id", actorID),
		)
		return nil, apperr.New(forbidden, "folder belongs to another user")
	}

	return folder, nil
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

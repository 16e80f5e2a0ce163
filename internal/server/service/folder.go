package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/iudanet/xbookmarks/internal/apperr"
	"github.com/iudanet/xbookmarks/internal/models"
	"github.com/iudanet/xbookmarks/internal/server/storage"
	"github.com/iudanet/xbookmarks/internal/validation"
)

// copyAttempts bounds retries when a concurrent writer takes the probed copy name.
const copyAttempts = 3

// CreateFolderInput describes a new folder. IsParentRoot must be given
// explicitly; a nil value is treated as an ambiguous hierarchy.
type CreateFolderInput struct {
	ParentFolder *string
	IsParentRoot *bool
	Name         string
}

// FolderService owns folder CRUD and the tree invariants: unique sibling
// names, no cycles, root flag consistent with the parent, single owner.
type FolderService struct {
	folders storage.FolderStorage
	logger  *slog.Logger
	newID   func() string
}

// NewFolderService creates a new FolderService
func NewFolderService(folders storage.FolderStorage, logger *slog.Logger) *FolderService {
	return &FolderService{
		folders: folders,
		logger:  logger,
		newID:   uuid.NewString,
	}
}

// Create adds a folder owned by actorID
func (s *FolderService) Create(ctx context.Context, actorID string, in CreateFolderInput) (*models.Folder, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	name, err := validation.NormalizeName(in.Name)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidRequest, err.Error(), err)
	}
	if in.ParentFolder != nil {
		if err := parseID(*in.ParentFolder, "parent folder"); err != nil {
			return nil, err
		}
	}

	switch {
	case in.IsParentRoot == nil:
		return nil, apperr.New(apperr.InvalidHierarchy, "isParentRoot must be set explicitly")
	case *in.IsParentRoot && in.ParentFolder != nil:
		return nil, apperr.New(apperr.InvalidHierarchy, "a root folder cannot have a parent folder")
	case !*in.IsParentRoot && in.ParentFolder == nil:
		return nil, apperr.New(apperr.MissingParent, "a non-root folder requires a parent folder")
	}

	if in.ParentFolder != nil {
		if _, err := loadFolder(ctx, s.folders, s.logger, actorID, *in.ParentFolder, apperr.NotFound, apperr.ForbiddenFolder); err != nil {
			return nil, err
		}
	}

	if err := s.ensureNameFree(ctx, actorID, in.ParentFolder, name, ""); err != nil {
		return nil, err
	}

	folder := &models.Folder{
		ID:           s.newID(),
		UserID:       actorID,
		Name:         name,
		IsParentRoot: *in.IsParentRoot,
		ParentFolder: in.ParentFolder,
	}
	if err := s.folders.CreateFolder(ctx, folder); err != nil {
		return nil, s.writeError(ctx, "failed to create folder", err)
	}

	s.logger.InfoContext(ctx, "Folder created",
		slog.String("folder_id", folder.ID),
		slog.String("user_id", actorID),
	)

	return folder, nil
}

// Rename changes the folder name, keeping sibling names unique
func (s *FolderService) Rename(ctx context.Context, actorID, folderID, newName string) (*models.Folder, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	name, err := validation.NormalizeName(newName)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidRequest, err.Error(), err)
	}

	folder, err := loadFolder(ctx, s.folders, s.logger, actorID, folderID, apperr.NotFound, apperr.Forbidden)
	if err != nil {
		return nil, err
	}
	if folder.Name == name {
		return folder, nil
	}

	if err := s.ensureNameFree(ctx, actorID, folder.ParentFolder, name, folder.ID); err != nil {
		return nil, err
	}

	folder.Name = name
	if err := s.folders.UpdateFolder(ctx, folder); err != nil {
		return nil, s.writeError(ctx, "failed to rename folder", err)
	}

	return folder, nil
}

// Move reparents the folder. A nil newParent makes it a root folder.
func (s *FolderService) Move(ctx context.Context, actorID, folderID string, newParent *string) (*models.Folder, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	folder, err := loadFolder(ctx, s.folders, s.logger, actorID, folderID, apperr.NotFound, apperr.Forbidden)
	if err != nil {
		return nil, err
	}

	if newParent != nil {
		if *newParent == folder.ID {
			return nil, apperr.New(apperr.SelfParent, "a folder cannot be its own parent")
		}

		target, err := loadFolder(ctx, s.folders, s.logger, actorID, *newParent, apperr.NotFound, apperr.ForbiddenFolder)
		if err != nil {
			return nil, err
		}
		if err := s.checkNotDescendant(ctx, folder.ID, target); err != nil {
			return nil, err
		}
	}

	if sameRef(folder.ParentFolder, newParent) {
		return folder, nil
	}

	if err := s.ensureNameFree(ctx, actorID, newParent, folder.Name, folder.ID); err != nil {
		return nil, err
	}

	folder.ParentFolder = newParent
	folder.IsParentRoot = newParent == nil
	if err := s.folders.UpdateFolder(ctx, folder); err != nil {
		return nil, s.writeError(ctx, "failed to move folder", err)
	}

	s.logger.InfoContext(ctx, "Folder moved",
		slog.String("folder_id", folder.ID),
		slog.String("parent_id", folder.ParentID()),
	)

	return folder, nil
}

// checkNotDescendant walks from target up to its root and fails with
// CyclicMove if movingID is on the way.
func (s *FolderService) checkNotDescendant(ctx context.Context, movingID string, target *models.Folder) error {
	seen := make(map[string]struct{})
	current := target

	for current != nil {
		if current.ID == movingID {
			return apperr.New(apperr.CyclicMove, "cannot move a folder into its own subtree")
		}
		if current.ParentFolder == nil {
			return nil
		}
		// stored data already contains a loop that does not involve movingID
		if _, ok := seen[current.ID]; ok {
			return nil
		}
		seen[current.ID] = struct{}{}

		next, err := s.folders.GetFolder(ctx, *current.ParentFolder)
		if err != nil {
			if errors.Is(err, storage.ErrFolderNotFound) {
				return nil
			}
			return storageFailure(ctx, s.logger, "failed to load ancestor folder", err)
		}
		current = next
	}

	return nil
}

// Copy duplicates the folder node under the same parent. Only the node is
// copied: descendant folders and contained bookmarks are not. When the name is
// taken, " 2", " 3", ... is appended until it is free.
func (s *FolderService) Copy(ctx context.Context, actorID, folderID string, newName *string) (*models.Folder, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	source, err := loadFolder(ctx, s.folders, s.logger, actorID, folderID, apperr.NotFound, apperr.Forbidden)
	if err != nil {
		return nil, err
	}

	base := source.Name
	if newName != nil {
		if base, err = validation.NormalizeName(*newName); err != nil {
			return nil, apperr.Wrap(apperr.InvalidRequest, err.Error(), err)
		}
	}

	for attempt := 0; attempt < copyAttempts; attempt++ {
		siblings, err := s.folders.ListSiblingNames(ctx, actorID, source.ParentFolder)
		if err != nil {
			return nil, storageFailure(ctx, s.logger, "failed to list sibling folders", err)
		}

		name, err := validation.NormalizeName(UniqueName(base, siblings))
		if err != nil {
			return nil, apperr.Wrap(apperr.InvalidRequest, err.Error(), err)
		}

		folder := &models.Folder{
			ID:           s.newID(),
			UserID:       source.UserID,
			Name:         name,
			IsParentRoot: source.IsParentRoot,
			ParentFolder: source.ParentFolder,
		}
		err = s.folders.CreateFolder(ctx, folder)
		if err == nil {
			return folder, nil
		}
		if !errors.Is(err, storage.ErrFolderExists) {
			return nil, s.writeError(ctx, "failed to copy folder", err)
		}
	}

	return nil, apperr.New(apperr.DuplicateName, "could not find a free name for the copy")
}

// UniqueName returns base if it is not in taken, otherwise the first of
// "base 2", "base 3", ... that is not. base is cut so that the suffixed name
// stays within validation.MaxNameLen runes.
func UniqueName(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, name := range taken {
		used[name] = struct{}{}
	}

	if _, ok := used[base]; !ok {
		return base
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf(" %d", n)
		candidate := truncateRunes(base, validation.MaxNameLen-len(suffix)) + suffix
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return strings.TrimRightFunc(string([]rune(s)[:limit]), unicode.IsSpace)
}

// Delete removes the folder with all descendant folders and every bookmark
// they contain, in one storage transaction.
func (s *FolderService) Delete(ctx context.Context, actorID, folderID string) (*storage.DeleteStats, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	folder, err := loadFolder(ctx, s.folders, s.logger, actorID, folderID, apperr.NotFound, apperr.Forbidden)
	if err != nil {
		return nil, err
	}

	order, err := s.subtree(ctx, folder.ID)
	if err != nil {
		return nil, err
	}

	stats, err := s.folders.DeleteFolderTree(ctx, order)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to delete folder", err)
	}

	s.logger.InfoContext(ctx, "Folder tree deleted",
		slog.String("folder_id", folder.ID),
		slog.Int64("folders", stats.Folders),
		slog.Int64("bookmarks", stats.Bookmarks),
	)

	return stats, nil
}

// subtree lists rootID and its descendants with every child before its parent.
func (s *FolderService) subtree(ctx context.Context, rootID string) ([]string, error) {
	var preorder []string
	seen := map[string]struct{}{rootID: {}}
	stack := []string{rootID}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		preorder = append(preorder, id)

		children, err := s.folders.ListChildFolderIDs(ctx, id)
		if err != nil {
			return nil, storageFailure(ctx, s.logger, "failed to list child folders", err)
		}
		for _, child := range children {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			stack = append(stack, child)
		}
	}

	// in preorder a parent precedes its descendants, so the reverse is children-first
	order := make([]string, len(preorder))
	for i, id := range preorder {
		order[len(preorder)-1-i] = id
	}
	return order, nil
}

// ListByUser returns all folders of userID
func (s *FolderService) ListByUser(ctx context.Context, actorID, userID string) ([]*models.Folder, error) {
	if err := requireSelf(actorID, userID); err != nil {
		return nil, err
	}

	folders, err := s.folders.ListFoldersByUser(ctx, userID)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to list folders", err)
	}
	return folders, nil
}

// Tree returns the actor's folders nested under their root folders
func (s *FolderService) Tree(ctx context.Context, actorID string) ([]*models.FolderNode, error) {
	folders, err := s.ListByUser(ctx, actorID, actorID)
	if err != nil {
		return nil, err
	}
	return BuildTree(folders), nil
}

// BuildTree nests folders by parent. Folders whose parent is not in the list
// are returned as roots. Input order is kept among siblings.
func BuildTree(folders []*models.Folder) []*models.FolderNode {
	nodes := make(map[string]*models.FolderNode, len(folders))
	for _, f := range folders {
		nodes[f.ID] = &models.FolderNode{Folder: *f, Children: []*models.FolderNode{}}
	}

	roots := []*models.FolderNode{}
	for _, f := range folders {
		node := nodes[f.ID]
		if parent, ok := nodes[f.ParentID()]; ok && f.ParentFolder != nil {
			parent.Children = append(parent.Children, node)
			continue
		}
		roots = append(roots, node)
	}

	return roots
}

// Search finds the actor's folders whose name contains query, ignoring case
func (s *FolderService) Search(ctx context.Context, actorID, query string) ([]*models.Folder, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	query, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	folders, err := s.folders.SearchFolders(ctx, actorID, query)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to search folders", err)
	}
	return folders, nil
}

func (s *FolderService) ensureNameFree(ctx context.Context, userID string, parentID *string, name, excludeID string) error {
	exists, err := s.folders.FolderNameExists(ctx, userID, parentID, name, excludeID)
	if err != nil {
		return storageFailure(ctx, s.logger, "failed to check folder name", err)
	}
	if exists {
		return apperr.New(apperr.DuplicateName, fmt.Sprintf("a folder named %q already exists here", name))
	}
	return nil
}

// writeError maps storage sentinels raised by create and update.
func (s *FolderService) writeError(ctx context.Context, msg string, err error) error {
	switch {
	case errors.Is(err, storage.ErrFolderExists):
		return apperr.New(apperr.DuplicateName, "a folder with this name already exists here")
	case errors.Is(err, storage.ErrInvalidReference):
		return apperr.New(apperr.NotFound, "parent folder not found")
	case errors.Is(err, storage.ErrFolderNotFound):
		return apperr.New(apperr.NotFound, "folder not found")
	}
	return storageFailure(ctx, s.logger, msg, err)
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/xbookmarks/internal/apperr"
	"github.com/iudanet/xbookmarks/internal/server/service"
	"github.com/iudanet/xbookmarks/pkg/api"
)

// FolderHandler serves /api/folders
type FolderHandler struct {
	logger  *slog.Logger
	folders *service.FolderService
}

// NewFolderHandler creates a new FolderHandler
func NewFolderHandler(logger *slog.Logger, folders *service.FolderService) *FolderHandler {
	return &FolderHandler{
		logger:  logger,
		folders: folders,
	}
}

// actorID returns the authenticated user id, "" when the request has none
func actorID(r *http.Request) string {
	p, _ := PrincipalFrom(r.Context())
	return p.UserID
}

// checkBodyOwner rejects bodies that name a different owner than the caller
func checkBodyOwner(r *http.Request, userID string) error {
	if userID != "" && userID != actorID(r) {
		return apperr.New(apperr.Forbidden, "cannot create records for another user")
	}
	return nil
}

// Create handles POST /api/folders
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateFolderRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	if err := checkBodyOwner(r, req.UserID); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	folder, err := h.folders.Create(r.Context(), actorID(r), service.CreateFolderInput{
		Name:         req.Name,
		ParentFolder: req.ParentFolder,
		IsParentRoot: req.IsParentRoot,
	})
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusCreated, "folder created", folder)
}

// ListByUser handles GET /api/folders/user/{userId}
func (h *FolderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	folders, err := h.folders.ListByUser(r.Context(), actorID(r), r.PathValue("userId"))
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, "", folders)
}

// Tree handles GET /api/folders/tree
func (h *FolderHandler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.folders.Tree(r.Context(), actorID(r))
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, "", tree)
}

// Rename handles PUT /api/folders/{folderId}
func (h *FolderHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req api.RenameFolderRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	folder, err := h.folders.Rename(r.Context(), actorID(r), r.PathValue("folderId"), req.Name)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, "folder renamed", folder)
}

// Move handles PUT /api/folders/{folderId}/move
func (h *FolderHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req api.MoveFolderRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	folder, err := h.folders.Move(r.Context(), actorID(r), r.PathValue("folderId"), req.NewParentFolder)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, "folder moved", folder)
}

// Copy handles POST /api/folders/{folderId}/copy
func (h *FolderHandler) Copy(w http.ResponseWriter, r *http.Request) {
	var req api.CopyFolderRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	folder, err := h.folders.Copy(r.Context(), actorID(r), r.PathValue("folderId"), req.NewName)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusCreated, "folder copied", folder)
}

// Delete handles DELETE /api/folders/{folderId}
// Removes the folder, its subfolders and all their bookmarks
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	folderID := r.PathValue("folderId")

	stats, err := h.folders.Delete(r.Context(), actorID(r), folderID)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, "folder deleted", api.DeleteFolderResponse{
		FolderID:         folderID,
		DeletedFolders:   stats.Folders,
		DeletedBookmarks: stats.Bookmarks,
	})
}

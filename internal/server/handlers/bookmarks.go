package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/xbookmarks/internal/server/service"
	"github.com/iudanet/xbookmarks/pkg/api"
)

// BookmarkHandler serves /api/bookmarks
type BookmarkHandler struct {
	logger    *slog.Logger
	bookmarks *service.BookmarkService
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(logger *slog.Logger, bookmarks *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{
		logger:    logger,
		bookmarks: bookmarks,
	}
}

// Create handles POST /api/bookmarks
func (h *BookmarkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateBookmarkRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	if err := checkBodyOwner(r, req.UserID); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	bookmark, err := h.bookmarks.Create(r.Context(), actorID(r), service.CreateBookmarkInput{
		Title:  req.Title,
		URL:    req.URL,
		Folder: req.Folder,
	})
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusCreated, "bookmark created", bookmark)
}

// Get handles GET /api/bookmarks/{bookmarkId}
func (h *BookmarkHandler) Get(w http.ResponseWriter, r *http.Request) {
	bookmark, err := h.bookmarks.Get(r.Context(), actorID(r), r.PathValue("bookmarkId"))
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, "", bookmark)
}

// ListByUser handles GET /api/bookmarks/user/{userId}
func (h *BookmarkHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := h.bookmarks.ListByUser(r.Context(), actorID(r), r.PathValue("userId"))
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, "", bookmarks)
}

// ListByFolder handles GET /api/bookmarks/folder/{folderId}
func (h *BookmarkHandler) ListByFolder(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := h.bookmarks.ListByFolder(r.Context(), actorID(r), r.PathValue("folderId"))
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, "", bookmarks)
}

// Move handles PUT /api/bookmarks/{bookmarkId}/move
func (h *BookmarkHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req api.MoveBookmarkRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	bookmark, err := h.bookmarks.Move(r.Context(), actorID(r), r.PathValue("bookmarkId"), req.NewFolder)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, "bookmark moved", bookmark)
}

// Copy handles POST /api/bookmarks/{bookmarkId}/copy
func (h *BookmarkHandler) Copy(w http.ResponseWriter, r *http.Request) {
	var req api.CopyBookmarkRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	bookmark, err := h.bookmarks.Copy(r.Context(), actorID(r), r.PathValue("bookmarkId"), req.TargetFolder)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusCreated, "bookmark copied", bookmark)
}

// Rename handles PUT /api/bookmarks/{bookmarkId}
func (h *BookmarkHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req api.RenameBookmarkRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	bookmark, err := h.bookmarks.Rename(r.Context(), actorID(r), r.PathValue("bookmarkId"), req.Title)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, "bookmark renamed", bookmark)
}

// Delete handles DELETE /api/bookmarks/{bookmarkId}
func (h *BookmarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.bookmarks.Delete(r.Context(), actorID(r), r.PathValue("bookmarkId")); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, "bookmark deleted", nil)
}

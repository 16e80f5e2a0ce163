package handlers

import "net/http"

// SearchFolders handles GET /api/folders/search?q=
// Case-insensitive substring match on folder names of the caller
func (h *FolderHandler) SearchFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.folders.Search(r.Context(), actorID(r), r.URL.Query().Get("q"))
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, "", folders)
}

// SearchBookmarks handles GET /api/bookmarks/search?q=
// Matches title or url of the caller's bookmarks
func (h *BookmarkHandler) SearchBookmarks(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := h.bookmarks.Search(r.Context(), actorID(r), r.URL.Query().Get("q"))
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, "", bookmarks)
}

package api

// CreateBookmarkRequest is the body of POST /api/bookmarks
type CreateBookmarkRequest struct {
	Folder *string `json:"folder"`
	UserID string  `json:"userId,omitempty"`
	Title  string  `json:"title"`
	URL    string  `json:"url"`
}

// MoveBookmarkRequest is the body of PUT /api/bookmarks/{bookmarkId}/move
type MoveBookmarkRequest struct {
	NewFolder *string `json:"newFolder"`
}

// CopyBookmarkRequest is the body of POST /api/bookmarks/{bookmarkId}/copy
type CopyBookmarkRequest struct {
	TargetFolder *string `json:"targetFolder"`
}

// RenameBookmarkRequest is the body of PUT /api/bookmarks/{bookmarkId}
type RenameBookmarkRequest struct {
	Title string `json:"title"`
}

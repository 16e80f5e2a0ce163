package models

import "time"

// Bookmark is a saved link, optionally placed in a folder of the same owner.
type Bookmark struct {
	CreatedAt time.Time `json:"created_at"`
	Folder    *string   `json:"folder"` // nil when the bookmark is not in any folder
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
}

// FolderID returns the folder id or "" for an unfiled bookmark.
func (b *Bookmark) FolderID() string {
	if b.Folder == nil {
		return ""
	}
	return *b.Folder
}

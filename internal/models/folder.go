package models

import "time"

// Folder is a node of a per-user folder tree.
// IsParentRoot is true exactly when ParentFolder is nil.
type Folder struct {
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ParentFolder *string   `json:"parent_folder"` // nil for root folders
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"` // owner
	Name         string    `json:"name"`
	IsParentRoot bool      `json:"is_parent_root"`
}

// ParentID returns the parent id or "" for a root folder.
func (f *Folder) ParentID() string {
	if f.ParentFolder == nil {
		return ""
	}
	return *f.ParentFolder
}

// FolderNode is a folder with its children, used for tree views.
type FolderNode struct {
	Folder
	Children []*FolderNode `json:"children"`
}

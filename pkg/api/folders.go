package api

// CreateFolderRequest is the body of POST /api/folders
type CreateFolderRequest struct {
	ParentFolder *string `json:"parentFolder"`
	IsParentRoot *bool   `json:"isParentRoot"` // required
	UserID       string  `json:"userId,omitempty"`
	Name         string  `json:"name"`
}

// RenameFolderRequest is the body of PUT /api/folders/{folderId}
type RenameFolderRequest struct {
	Name string `json:"name"`
}

// MoveFolderRequest is the body of PUT /api/folders/{folderId}/move. A null
// parent moves the folder to the root level.
type MoveFolderRequest struct {
	NewParentFolder *string `json:"newParentFolder"`
}

// CopyFolderRequest is the optional body of POST /api/folders/{folderId}/copy
type CopyFolderRequest struct {
	NewName *string `json:"newName,omitempty"`
}

// DeleteFolderResponse reports what a cascade delete removed
type DeleteFolderResponse struct {
	FolderID         string `json:"folderId"`
	DeletedFolders   int64  `json:"deletedFolders"`
	DeletedBookmarks int64  `json:"deletedBookmarks"`
}

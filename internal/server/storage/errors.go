package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken indicates that another user already holds the username
	ErrUsernameTaken = errors.New("username already taken")

	// ErrFolderNotFound indicates that folder was not found in storage
	ErrFolderNotFound = errors.New("folder not found")

	// ErrFolderExists indicates that a sibling folder with the same name exists
	ErrFolderExists = errors.New("folder with this name already exists")

	// ErrBookmarkNotFound indicates that bookmark was not found in storage
	ErrBookmarkNotFound = errors.New("bookmark not found")

	// ErrInvalidReference indicates that a parent or folder reference points to no record
	ErrInvalidReference = errors.New("referenced folder does not exist")
)

package release

import "errors"

var (
	// ErrReleaseDirNotFound is returned when the release root is missing or is not a directory.
	ErrReleaseDirNotFound = errors.New("release directory not found")

	// ErrMissingFile is returned when a required release file is absent.
	ErrMissingFile = errors.New("missing required file")

	// ErrDuplicateFile is returned when more than one file matches a singular role.
	ErrDuplicateFile = errors.New("duplicate file")
)

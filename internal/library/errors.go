package library

import "errors"

var (
	// ErrCopyFailed indicates the file copy operation failed.
	ErrCopyFailed = errors.New("failed to copy file")

	// ErrDestinationExists indicates the destination file already exists.
	ErrDestinationExists = errors.New("destination file already exists")

	// ErrPathTraversal indicates a path that would leave the library root.
	ErrPathTraversal = errors.New("path outside library")

	// ErrBusy indicates another process holds the library lock.
	ErrBusy = errors.New("library is busy")
)

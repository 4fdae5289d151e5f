package importer

import (
	"errors"

	"github.com/vmunix/flixcase/internal/catalog"
	"github.com/vmunix/flixcase/internal/library"
	"github.com/vmunix/flixcase/internal/transcode"
)

var (
	// ErrValidation marks a request rejected before anything was written.
	ErrValidation = catalog.ErrValidation

	// ErrLibraryBusy indicates another process holds the library lock.
	ErrLibraryBusy = library.ErrBusy

	// ErrCancelled indicates the user stopped the import.
	ErrCancelled = transcode.ErrCancelled

	// ErrAssetCopyFailed indicates a thumbnail or poster could not be copied.
	ErrAssetCopyFailed = errors.New("failed to copy artwork")
)

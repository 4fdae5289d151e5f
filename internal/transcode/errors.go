package transcode

import (
	"errors"
	"fmt"

	"github.com/vmunix/flixcase/internal/library"
)

var (
	// ErrCancelled reports a job stopped at the caller's request. It is not a failure.
	ErrCancelled = errors.New("transcode cancelled")

	// ErrUnknownPreset indicates a preset key that doesn't exist.
	ErrUnknownPreset = errors.New("unknown preset")

	// ErrSourceMissing indicates the input file could not be read.
	ErrSourceMissing = errors.New("source file missing")

	// ErrDestinationExists indicates the output already exists; it is left untouched.
	ErrDestinationExists = library.ErrDestinationExists

	// ErrCopyFailed indicates the copy preset hit a filesystem error.
	ErrCopyFailed = library.ErrCopyFailed

	// ErrEncoderNotFound indicates the ffmpeg binary could not be started.
	ErrEncoderNotFound = errors.New("encoder not found")
)

// EncodeError is a non-zero exit of the encoder.
type EncodeError struct {
	ExitCode    int
	Diagnostics string // tail of the encoder's stderr
	Err         error
}

func (e *EncodeError) Error() string {
	if e.Diagnostics == "" {
		return fmt.Sprintf("encoder exited with status %d", e.ExitCode)
	}
	return fmt.Sprintf("encoder exited with status %d: %s", e.ExitCode, e.Diagnostics)
}

func (e *EncodeError) Unwrap() error { return e.Err }

package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CopyFile copies src to dst, creating dst's directory.
// Returns ErrDestinationExists if dst already exists. On any failure,
// including cancellation of ctx, the partial destination is removed.
func CopyFile(ctx context.Context, src, dst string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("%w: create directory: %v", ErrCopyFailed, err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("%w: open source: %v", ErrCopyFailed, err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return 0, ErrDestinationExists
		}
		return 0, fmt.Errorf("%w: create destination: %v", ErrCopyFailed, err)
	}

	size, err := io.Copy(dstFile, &ctxReader{ctx: ctx, r: srcFile})
	if err == nil {
		err = dstFile.Sync()
	}
	if closeErr := dstFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, fmt.Errorf("%w: %v", ErrCopyFailed, err)
	}
	return size, nil
}

// ctxReader stops a copy between reads once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

var videoExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".m4v": true, ".avi": true, ".mov": true,
	".wmv": true, ".webm": true, ".ts": true, ".m2ts": true, ".mpg": true, ".mpeg": true,
	".flv": true,
}

// IsVideoFile reports whether path has a known video extension.
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// FindVideos lists video files under dir, recursively.
// Skips files with "sample" in the name.
func FindVideos(dir string) ([]string, error) {
	var videos []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsVideoFile(path) {
			return nil
		}
		if strings.Contains(strings.ToLower(d.Name()), "sample") {
			return nil
		}
		videos = append(videos, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return videos, nil
}

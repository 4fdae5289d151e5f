// Package library lays out media files under a library root and converts
// between absolute paths and the portable relative paths kept in the catalog.
package library

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vmunix/flixcase/pkg/titles"
)

// MoviesDir is the directory under the root that holds every title.
const MoviesDir = "movies"

// Library is a library root on disk.
type Library struct {
	root string
}

// New returns the library rooted at root. The directory need not exist yet.
func New(root string) (*Library, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve library root %q: %w", root, err)
	}
	return &Library{root: abs}, nil
}

// Root returns the absolute library root.
func (l *Library) Root() string { return l.root }

// Init creates the root and movies directories.
func (l *Library) Init() error {
	if err := os.MkdirAll(filepath.Join(l.root, MoviesDir), 0o755); err != nil {
		return fmt.Errorf("create library: %w", err)
	}
	return nil
}

// Abs converts a catalog path to an absolute path on this machine.
// Returns ErrPathTraversal if rel would escape the root.
func (l *Library) Abs(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("%w: empty path", ErrPathTraversal)
	}
	if path.IsAbs(rel) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s is absolute", ErrPathTraversal, rel)
	}
	abs := filepath.Join(l.root, filepath.FromSlash(rel))
	if err := ValidatePath(abs, l.root); err != nil {
		return "", fmt.Errorf("%w: %s", err, rel)
	}
	return abs, nil
}

// CreateTitleDir creates movies/<slug> for a new movie or show and returns
// its catalog path. When the slug is taken a -2, -3, ... suffix is added so
// two titles never share a directory.
func (l *Library) CreateTitleDir(title string) (string, error) {
	if err := l.Init(); err != nil {
		return "", err
	}
	slug := titles.Slugify(title)
	for n := 1; ; n++ {
		name := slug
		if n > 1 {
			name = fmt.Sprintf("%s-%d", slug, n)
		}
		rel := path.Join(MoviesDir, name)
		err := os.Mkdir(filepath.Join(l.root, filepath.FromSlash(rel)), 0o755)
		if err == nil {
			return rel, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("create directory for %q: %w", title, err)
		}
	}
}

// EpisodeDir returns the catalog path of an episode directory inside a show
// directory: <showDir>/sNNeNN.
func EpisodeDir(showDir string, season, episode int) string {
	return path.Join(showDir, fmt.Sprintf("s%02de%02d", season, episode))
}

// File names inside title directories. ext includes the leading dot.

func MovieFile(ext string) string { return "movie" + ext }

func ThumbnailFile(ext string) string { return "thumbnail" + ext }

func PosterFile(ext string) string { return "poster" + ext }

func EpisodeFile(ext string) string { return "episode" + ext }

func SubtitleFile(n int, ext string) string { return fmt.Sprintf("subtitle_%d%s", n, ext) }

// Ext returns the lowercased extension of name, or fallback when it has none.
func Ext(name, fallback string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || ext == "." || strings.ContainsAny(ext, `/\ `) {
		return fallback
	}
	return ext
}

// RemoveTitleDir deletes a title or episode directory and everything in it.
// Refuses to remove the root or the movies directory itself.
func (l *Library) RemoveTitleDir(rel string) error {
	clean := path.Clean(rel)
	if clean == "." || clean == MoviesDir || !strings.HasPrefix(clean, MoviesDir+"/") {
		return fmt.Errorf("%w: refusing to remove %q", ErrPathTraversal, rel)
	}
	abs, err := l.Abs(clean)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("remove %s: %w", rel, err)
	}
	return nil
}

// RemoveFile deletes one catalog file. A missing file is not an error.
func (l *Library) RemoveFile(rel string) error {
	abs, err := l.Abs(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", rel, err)
	}
	return nil
}

package importer

import (
	"path"

	"github.com/vmunix/flixcase/internal/catalog"
)

// DeleteMovie removes the movie from the catalog, then its directory.
// A directory that cannot be removed is logged; the catalog delete stands.
func (i *Importer) DeleteMovie(id int64) (*catalog.Movie, error) {
	lock, err := i.lib.TryLock()
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Unlock() }()

	movie, err := i.catalog.DeleteMovie(id)
	if err != nil {
		return nil, err
	}
	if movie.MediaPath != "" {
		i.removeDir(path.Dir(movie.MediaPath), "movie_id", id)
	}
	i.log.Info("movie deleted", "movie_id", id, "title", movie.Title)
	return movie, nil
}

// DeleteShow removes the show with its seasons and episodes from the
// catalog, then the show directory.
func (i *Importer) DeleteShow(id int64) (*catalog.Show, error) {
	lock, err := i.lib.TryLock()
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Unlock() }()

	show, err := i.catalog.DeleteShow(id)
	if err != nil {
		return nil, err
	}
	if dir := ShowDir(show); dir != "" {
		i.removeDir(dir, "show_id", id)
	}
	i.log.Info("show deleted", "show_id", id, "title", show.Title, "seasons", len(show.Seasons))
	return show, nil
}

func (i *Importer) removeDir(dir string, key string, id int64) {
	if err := i.lib.RemoveTitleDir(dir); err != nil {
		i.log.Warn("remove files failed", key, id, "dir", dir, "error", err)
		return
	}
	i.log.Debug("files removed", key, id, "dir", dir)
}
